package journal

import (
	"time"

	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"papertrade/ledger"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t ledger.Trade) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, symbol, entry_date, exit_date, entry_price, exit_price, shares, pnl, commission, return_rate, holding_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, t.EntryDate, t.ExitDate, t.EntryPrice,
		t.ExitPrice, t.Shares, t.PnL, t.Commission, t.ReturnRate, t.HoldingDays,
	)
	return err
}

func (j *SQLiteJournal) RecordSnapshot(s ledger.Snapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO snapshots
		(date, total_value, cash, market_value)
		VALUES (?, ?, ?, ?)`,
		s.Date, s.TotalValue, s.Cash, s.MarketValue,
	)
	return err
}

func (j *SQLiteJournal) RecordRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, strategy, symbol, dataset, start_date, end_date, start_cash, end_value,
		 trades, wins, losses, total_return, sharpe, max_dd_pct, win_rate_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Strategy, r.Symbol, r.Dataset, r.Start, r.End,
		r.StartCash, r.EndValue, r.Trades, r.Wins, r.Losses,
		r.TotalRet, r.Sharpe, r.MaxDDPct, r.WinRatePct,
	)
	return err
}

// ListTradesClosedBetween returns trades with exit_date in [from, to),
// oldest first.
func (j *SQLiteJournal) ListTradesClosedBetween(from, to time.Time) ([]ledger.Trade, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, symbol, entry_date, exit_date, entry_price, exit_price,
		       shares, pnl, commission, return_rate, holding_days
		FROM trades
		WHERE exit_date >= ? AND exit_date < ?
		ORDER BY exit_date`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Trade
	for rows.Next() {
		var t ledger.Trade
		if err := rows.Scan(&t.ID, &t.Symbol, &t.EntryDate, &t.ExitDate,
			&t.EntryPrice, &t.ExitPrice, &t.Shares, &t.PnL,
			&t.Commission, &t.ReturnRate, &t.HoldingDays); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
