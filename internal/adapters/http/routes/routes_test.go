package routes

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"library-ledger/internal/adapters/http/handlers"
	"library-ledger/internal/adapters/persistence/memory"
	"library-ledger/internal/config"
	"library-ledger/internal/core/domain"
	"library-ledger/internal/core/services"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    jsoniter.RawMessage `json:"data"`
	Error   string              `json:"error"`
}

type unavailableLookup struct{}

func (unavailableLookup) GetBook(context.Context, int64) (*domain.Book, error) {
	return nil, domain.ErrUnavailable
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		Service: config.ServiceAll,
		Fine:    domain.DefaultFinePolicy(),
	}
}

// newTestApp wires every service in process on memory storage, the same
// way SERVICE=all does
func newTestApp(t *testing.T, books services.BookLookup) *fiber.App {
	t.Helper()
	log := zap.NewNop()
	cfg := testConfig()

	catalog := services.NewCatalogService(memory.NewBookStore(), nil, log)
	borrowers := services.NewBorrowerService(memory.NewBorrowerStore(), log)
	localFines := services.NewFineEngine(cfg.Fine, nil, log)
	ledger := services.NewLedgerService(memory.NewLoanStore(), localFines, cfg.Fine, log)
	fines := services.NewFineEngine(cfg.Fine, ledger, log)
	if books == nil {
		books = catalog
	}

	app := NewApp(cfg, log)
	Setup(app, Dependencies{
		Config:       cfg,
		Catalog:      catalog,
		Borrowers:    borrowers,
		Ledger:       ledger,
		BookLookup:   books,
		LendingFines: fines,
		Fines:        fines,
		HealthChecks: map[string]handlers.CheckFunc{
			"storage": func(context.Context) error { return nil },
		},
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func seed(t *testing.T, app *fiber.App) {
	t.Helper()
	status, _ := call(t, app, "POST", "/api/v1/books", `{"id":7,"title":"Dune"}`)
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = call(t, app, "POST", "/api/v1/users", `{"id":3,"name":"Ada"}`)
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = call(t, app, "POST", "/api/v1/users", `{"id":5,"name":"Alan"}`)
	require.Equal(t, fiber.StatusCreated, status)
}

func TestCatalogRoutes(t *testing.T) {
	app := newTestApp(t, nil)

	status, env := call(t, app, "POST", "/api/v1/books", `{"id":7,"title":"Dune"}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.True(t, env.Success)

	status, _ = call(t, app, "POST", "/api/v1/books", `{"id":7,"title":"Dune Messiah"}`)
	assert.Equal(t, fiber.StatusConflict, status)

	status, env = call(t, app, "POST", "/api/v1/books", `{"id":0,"title":""}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)

	status, env = call(t, app, "GET", "/api/v1/books/7", "")
	assert.Equal(t, fiber.StatusOK, status)
	var book domain.Book
	require.NoError(t, json.Unmarshal(env.Data, &book))
	assert.Equal(t, "Dune", book.Title)

	status, _ = call(t, app, "GET", "/api/v1/books/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "PUT", "/api/v1/books/7", `{"title":"Dune (1965)"}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, "PUT", "/api/v1/books/8", `{"title":"Missing"}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env = call(t, app, "GET", "/api/v1/books", "")
	assert.Equal(t, fiber.StatusOK, status)
	var books []domain.Book
	require.NoError(t, json.Unmarshal(env.Data, &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Dune (1965)", books[0].Title)

	status, _ = call(t, app, "DELETE", "/api/v1/books/7", "")
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = call(t, app, "DELETE", "/api/v1/books/7", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUserRoutes(t *testing.T) {
	app := newTestApp(t, nil)

	status, _ := call(t, app, "POST", "/api/v1/users", `{"id":3,"name":"Ada"}`)
	assert.Equal(t, fiber.StatusCreated, status)
	status, _ = call(t, app, "POST", "/api/v1/users", `{"id":3,"name":"Ada again"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	status, _ = call(t, app, "GET", "/api/v1/users/3", "")
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = call(t, app, "GET", "/api/v1/users/4", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env := call(t, app, "GET", "/api/v1/users", "")
	assert.Equal(t, fiber.StatusOK, status)
	var users []domain.Borrower
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 1)
}

func TestIssueAndReturn(t *testing.T) {
	app := newTestApp(t, nil)
	seed(t, app)

	status, env := call(t, app, "POST", "/api/v1/issue", `{"book_id":7,"user_id":3,"issue_date":"2024-03-01"}`)
	require.Equal(t, fiber.StatusCreated, status, env.Error)

	status, _ = call(t, app, "POST", "/api/v1/issue", `{"book_id":7,"user_id":5,"issue_date":"2024-03-02"}`)
	assert.Equal(t, fiber.StatusConflict, status)

	status, env = call(t, app, "GET", "/api/v1/issued", "")
	assert.Equal(t, fiber.StatusOK, status)
	var open []domain.OpenLoan
	require.NoError(t, json.Unmarshal(env.Data, &open))
	require.Len(t, open, 1)
	assert.Equal(t, int64(3), open[0].UserID)

	status, _ = call(t, app, "POST", "/api/v1/return", `{"book_id":7,"user_id":5,"return_date":"2024-03-10"}`)
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = call(t, app, "POST", "/api/v1/return", `{"book_id":7,"user_id":3,"return_date":"2024-02-20"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = call(t, app, "POST", "/api/v1/return", `{"book_id":7,"user_id":3,"return_date":"2024-03-20"}`)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	var closed domain.LoanRecord
	require.NoError(t, json.Unmarshal(env.Data, &closed))
	assert.Equal(t, "2024-03-20", closed.ReturnDate.String())
	assert.Equal(t, "10.00", closed.Fine.Decimal.StringFixed(2))

	status, _ = call(t, app, "POST", "/api/v1/return", `{"book_id":7,"user_id":3,"return_date":"2024-03-21"}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env = call(t, app, "GET", "/api/v1/records/3", "")
	assert.Equal(t, fiber.StatusOK, status)
	var records []domain.LoanRecord
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 1)
	assert.False(t, records[0].IsOpen())
}

func TestIssueBoundaryChecks(t *testing.T) {
	app := newTestApp(t, nil)
	seed(t, app)

	status, _ := call(t, app, "POST", "/api/v1/issue", `{"book_id":99,"user_id":3}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "POST", "/api/v1/issue", `{"book_id":7,"user_id":99}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "POST", "/api/v1/issue", `{"book_id":-1,"user_id":3}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "POST", "/api/v1/issue", `{"book_id":7,"user_id":3,"issue_date":"03/01/2024"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	// an explicit year-one date is rejected, not read as "today"
	status, _ = call(t, app, "POST", "/api/v1/issue", `{"book_id":7,"user_id":3,"issue_date":"0001-01-01"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "POST", "/api/v1/issue", `{"book_id":7,`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestIssueCatalogUnavailable(t *testing.T) {
	app := newTestApp(t, unavailableLookup{})
	seed(t, app)

	status, env := call(t, app, "POST", "/api/v1/issue", `{"book_id":7,"user_id":3}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.NotEmpty(t, env.Error)

	status, env = call(t, app, "GET", "/api/v1/issued", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRecordsForUnknownUserIsEmpty(t *testing.T) {
	app := newTestApp(t, nil)

	status, env := call(t, app, "GET", "/api/v1/records/42", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestFineRoutes(t *testing.T) {
	app := newTestApp(t, nil)
	seed(t, app)

	status, env := call(t, app, "POST", "/api/v1/calculate", `{"issue_date":"2024-03-01","return_date":"2024-03-21"}`)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	var quote domain.FineQuote
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "12.00", quote.Fine.StringFixed(2))

	status, _ = call(t, app, "POST", "/api/v1/calculate", `{"issue_date":"2024-03-10","return_date":"2024-03-01"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "POST", "/api/v1/calculate", `{"issue_date":"2024-03-10"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "POST", "/api/v1/issue", `{"book_id":7,"user_id":3,"issue_date":"2024-01-01"}`)
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = call(t, app, "POST", "/api/v1/return", `{"book_id":7,"user_id":3,"return_date":"2024-01-17"}`)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = call(t, app, "POST", "/api/v1/issue", `{"book_id":7,"user_id":3,"issue_date":"2024-02-01"}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, env = call(t, app, "GET", "/api/v1/calculate/3?as_of=2024-02-20", "")
	require.Equal(t, fiber.StatusOK, status, env.Error)
	var report domain.UserFineReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	// 4.00 for the closed loan, 10.00 for the open one as of 2024-02-20
	assert.Equal(t, "14.00", report.TotalFine.StringFixed(2))
	assert.Len(t, report.Details, 2)

	status, env = call(t, app, "POST", "/api/v1/fine/3", `{"return_date":"2024-02-20"}`)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "14.00", report.TotalFine.StringFixed(2))

	status, _ = call(t, app, "GET", "/api/v1/calculate/3?as_of=yesterday", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHealthRoutes(t *testing.T) {
	app := newTestApp(t, nil)

	for _, path := range []string{"/", "/health", "/api/v1"} {
		req := httptest.NewRequest("GET", path, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		resp.Body.Close()
	}
}
