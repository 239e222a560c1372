package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"papertrade/ledger"
)

type CSVJournal struct {
	trades *csv.Writer
	snaps  *csv.Writer
	tf, sf *os.File
}

func NewCSV(tradesPath, snapshotsPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(snapshotsPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	sw := csv.NewWriter(sf)

	if err := tw.Write([]string{"trade_id", "symbol", "entry_date", "exit_date", "entry_price", "exit_price", "shares", "pnl", "commission", "return_rate", "holding_days"}); err != nil {
		return nil, err
	}
	if err := sw.Write([]string{"date", "total_value", "cash", "market_value"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{trades: tw, snaps: sw, tf: tf, sf: sf}, nil
}

func (j *CSVJournal) RecordTrade(t ledger.Trade) error {
	err := j.trades.Write([]string{
		t.ID,
		t.Symbol,
		t.EntryDate.Format(time.RFC3339),
		t.ExitDate.Format(time.RFC3339),
		f(t.EntryPrice),
		f(t.ExitPrice),
		f(t.Shares),
		f(t.PnL),
		f(t.Commission),
		f(t.ReturnRate),
		strconv.Itoa(t.HoldingDays),
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordSnapshot(s ledger.Snapshot) error {
	err := j.snaps.Write([]string{
		s.Date.Format(time.RFC3339),
		f(s.TotalValue),
		f(s.Cash),
		f(s.MarketValue),
	})
	if err != nil {
		return err
	}
	j.snaps.Flush()
	return j.snaps.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	j.snaps.Flush()
	if err := j.tf.Close(); err != nil {
		j.sf.Close()
		return err
	}
	return j.sf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
