package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"library-ledger/internal/core/domain"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OverdueLister is the part of the ledger the overdue monitor reads
type OverdueLister interface {
	ListOverdueLoans(ctx context.Context) ([]domain.OpenLoan, error)
}

// OverdueScan is the outcome of one overdue sweep
type OverdueScan struct {
	At      time.Time `json:"at"`
	Overdue int       `json:"overdue"`
	BookIDs []int64   `json:"book_ids"`
	Error   string    `json:"error,omitempty"`
}

// OverdueMonitor periodically sweeps the ledger for loans past their grace
// period and logs them. The sweep is advisory; it never changes a record.
type OverdueMonitor struct {
	loans  OverdueLister
	spec   string
	cron   *cron.Cron
	logger *zap.Logger

	mu   sync.RWMutex
	last *OverdueScan
}

// NewOverdueMonitor creates a monitor running on the given cron spec
// (standard five fields or descriptors such as "@hourly")
func NewOverdueMonitor(loans OverdueLister, spec string, logger *zap.Logger) (*OverdueMonitor, error) {
	m := &OverdueMonitor{
		loans:  loans,
		spec:   spec,
		cron:   cron.New(),
		logger: logger,
	}
	if _, err := m.cron.AddFunc(spec, func() { m.Scan(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid overdue scan schedule %q: %w", spec, err)
	}
	return m, nil
}

// Start launches the scheduler in its own goroutine
func (m *OverdueMonitor) Start() {
	m.cron.Start()
	m.logger.Info("Overdue monitor started", zap.String("schedule", m.spec))
}

// Stop halts the scheduler and waits for a running sweep to finish or ctx to
// expire
func (m *OverdueMonitor) Stop(ctx context.Context) {
	done := m.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	m.logger.Info("Overdue monitor stopped")
}

// Scan runs one sweep now and records its outcome
func (m *OverdueMonitor) Scan(ctx context.Context) OverdueScan {
	scan := OverdueScan{At: time.Now(), BookIDs: []int64{}}

	loans, err := m.loans.ListOverdueLoans(ctx)
	if err != nil {
		scan.Error = err.Error()
		m.logger.Error("Overdue scan failed", zap.Error(err))
	} else {
		for _, loan := range loans {
			scan.BookIDs = append(scan.BookIDs, loan.BookID)
			m.logger.Warn("Loan overdue",
				zap.Int64("book_id", loan.BookID),
				zap.Int64("user_id", loan.UserID),
				zap.Stringer("issue_date", loan.IssueDate),
				zap.Int("elapsed_days", loan.ElapsedDays),
			)
		}
		scan.Overdue = len(loans)
		m.logger.Info("Overdue scan finished", zap.Int("overdue", scan.Overdue))
	}

	m.mu.Lock()
	m.last = &scan
	m.mu.Unlock()
	return scan
}

// LastScan returns the most recent sweep, or nil before the first one
func (m *OverdueMonitor) LastScan() *OverdueScan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return nil
	}
	scan := *m.last
	return &scan
}
