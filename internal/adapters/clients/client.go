// Package clients reaches the catalog, ledger and fine services over HTTP
// when they do not run in the same process.
package clients

import (
	"context"
	"fmt"
	"time"

	"library-ledger/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// UserAgent identifies calls between the services
const UserAgent = "library-ledger"

// envelope mirrors response.Response with the payload left undecoded
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    jsoniter.RawMessage `json:"data"`
	Error   string              `json:"error"`
}

// RemoteError is an error reported by another service. It matches the
// domain error category of its status code through errors.Is.
type RemoteError struct {
	Service string
	Status  int
	Message string
	kind    error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s service: %s", e.Service, e.Message)
}

func (e *RemoteError) Is(target error) bool { return target == e.kind }

func kindOf(status int) error {
	switch {
	case status == fiber.StatusBadRequest:
		return domain.ErrValidation
	case status == fiber.StatusNotFound:
		return domain.ErrNotFound
	case status == fiber.StatusConflict:
		return domain.ErrConflict
	case status >= fiber.StatusInternalServerError:
		return domain.ErrUnavailable
	default:
		return nil
	}
}

// base holds what every client shares: the upstream base URL, a per-call
// timeout and a fiber client encoding JSON with jsoniter.
type base struct {
	service string
	baseURL string
	timeout time.Duration
	http    *fiber.Client
}

func newBase(service, baseURL string, timeout time.Duration) base {
	return base{
		service: service,
		baseURL: baseURL,
		timeout: timeout,
		http: &fiber.Client{
			UserAgent:   UserAgent,
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		},
	}
}

// do sends the request built by a and decodes the envelope's data into dest.
// Transport failures and 5xx answers are ErrUnavailable.
func (b base) do(ctx context.Context, a *fiber.Agent, dest interface{}) error {
	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return b.unavailable(ctx.Err())
		}
		if timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if err := ctx.Err(); err != nil {
		return b.unavailable(err)
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}

	status, body, errs := a.Bytes()
	if len(errs) > 0 {
		return b.unavailable(errs[0])
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if kind := kindOf(status); kind != nil {
			return &RemoteError{Service: b.service, Status: status, Message: fmt.Sprintf("status %d", status), kind: kind}
		}
		return fmt.Errorf("%s service: malformed response (status %d): %w", b.service, status, err)
	}

	if status >= fiber.StatusBadRequest || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", status)
		}
		return &RemoteError{Service: b.service, Status: status, Message: msg, kind: kindOf(status)}
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("%s service: decode data: %w", b.service, err)
	}
	return nil
}

func (b base) unavailable(err error) error {
	return fmt.Errorf("%s service: %w: %v", b.service, domain.ErrUnavailable, err)
}

func (b base) url(format string, args ...interface{}) string {
	return b.baseURL + "/api/v1" + fmt.Sprintf(format, args...)
}
