package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/ledger"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func sampleTrade(id string, exit time.Time) ledger.Trade {
	return ledger.Trade{
		ID:          id,
		Symbol:      "ACME",
		EntryDate:   exit.AddDate(0, 0, -5),
		ExitDate:    exit,
		EntryPrice:  100,
		ExitPrice:   110,
		Shares:      50,
		PnL:         500,
		Commission:  2.5,
		ReturnRate:  0.1,
		HoldingDays: 5,
	}
}

func TestSQLiteJournal_TradeRoundTrip(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordTrade(sampleTrade("t1", day(10))))
	require.NoError(t, j.RecordTrade(sampleTrade("t2", day(20))))

	got, err := j.ListTradesClosedBetween(day(1), day(15))
	require.NoError(t, err)
	require.Len(t, got, 1)

	tr := got[0]
	assert.Equal(t, "t1", tr.ID)
	assert.Equal(t, "ACME", tr.Symbol)
	assert.Equal(t, 110.0, tr.ExitPrice)
	assert.Equal(t, 500.0, tr.PnL)
	assert.Equal(t, 5, tr.HoldingDays)
	assert.True(t, tr.ExitDate.Equal(day(10)))
}

func TestSQLiteJournal_ListOrdersByExitDate(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordTrade(sampleTrade("late", day(20))))
	require.NoError(t, j.RecordTrade(sampleTrade("early", day(10))))

	got, err := j.ListTradesClosedBetween(day(1), day(31))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].ID)
	assert.Equal(t, "late", got[1].ID)
}

func TestSQLiteJournal_SnapshotAndRun(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordSnapshot(ledger.Snapshot{
		Date:        day(4),
		TotalValue:  100500,
		Cash:        90500,
		MarketValue: 10000,
	}))

	require.NoError(t, j.RecordRun(Run{
		RunID:     "r1",
		Created:   day(5),
		Strategy:  "sma-cross",
		Symbol:    "ACME",
		Start:     day(1),
		End:       day(5),
		StartCash: 100000,
		EndValue:  100500,
		Trades:    1,
		Wins:      1,
		TotalRet:  0.005,
	}))
}
