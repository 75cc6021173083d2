package services

import (
	"context"
	"errors"
	"testing"

	"library-ledger/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubOverdue struct {
	loans []domain.OpenLoan
	err   error
}

func (s stubOverdue) ListOverdueLoans(context.Context) ([]domain.OpenLoan, error) {
	return s.loans, s.err
}

func TestOverdueMonitor_Scan(t *testing.T) {
	lister := stubOverdue{loans: []domain.OpenLoan{
		{LoanRecord: domain.LoanRecord{BookID: 4, UserID: 1}, ElapsedDays: 20, Overdue: true},
		{LoanRecord: domain.LoanRecord{BookID: 9, UserID: 2}, ElapsedDays: 31, Overdue: true},
	}}
	monitor, err := NewOverdueMonitor(lister, "@hourly", zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, monitor.LastScan())

	scan := monitor.Scan(context.Background())
	assert.Equal(t, 2, scan.Overdue)
	assert.Equal(t, []int64{4, 9}, scan.BookIDs)
	assert.Empty(t, scan.Error)

	last := monitor.LastScan()
	require.NotNil(t, last)
	assert.Equal(t, scan.At, last.At)
}

func TestOverdueMonitor_ScanFailure(t *testing.T) {
	monitor, err := NewOverdueMonitor(stubOverdue{err: errors.New("db down")}, "@every 1h", zap.NewNop())
	require.NoError(t, err)

	scan := monitor.Scan(context.Background())
	assert.Equal(t, 0, scan.Overdue)
	assert.Equal(t, "db down", scan.Error)
}

func TestOverdueMonitor_InvalidSchedule(t *testing.T) {
	_, err := NewOverdueMonitor(stubOverdue{}, "not a schedule", zap.NewNop())
	assert.Error(t, err)
}

func TestOverdueMonitor_StartStop(t *testing.T) {
	monitor, err := NewOverdueMonitor(stubOverdue{}, "@daily", zap.NewNop())
	require.NoError(t, err)

	monitor.Start()
	monitor.Stop(context.Background())
}
