// journal/csv.go
package journal

import (
	"encoding/csv"
	"errors"
	"os"
	"time"
)

type CSVJournal struct {
	fills  *csv.Writer
	equity *csv.Writer
	ff, ef *os.File
}

var (
	fillsHeader  = []string{"run_id", "order_id", "symbol", "time", "type", "direction", "quantity", "price", "tag"}
	equityHeader = []string{"run_id", "time", "cash", "holdings", "price", "equity"}
)

func NewCSV(fillsPath, equityPath string) (*CSVJournal, error) {
	ff, err := os.Create(fillsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		_ = ff.Close()
		return nil, err
	}

	fw := csv.NewWriter(ff)
	ew := csv.NewWriter(ef)

	if err := fw.Write(fillsHeader); err != nil {
		return nil, err
	}
	if err := ew.Write(equityHeader); err != nil {
		return nil, err
	}

	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{fw, ew, ff, ef}, nil
}

func (j *CSVJournal) RecordFill(f FillRecord) error {
	err := j.fills.Write([]string{
		f.RunID,
		f.OrderID,
		f.Symbol,
		f.Time.UTC().Format(time.RFC3339),
		f.Type,
		f.Direction,
		f.Quantity.String(),
		f.Price.String(),
		f.Tag,
	})
	if err != nil {
		return err
	}
	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.RunID,
		e.Time.UTC().Format(time.RFC3339),
		e.Cash.StringFixed(2),
		e.Holdings.String(),
		e.Price.String(),
		e.Equity.StringFixed(2),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.fills.Flush()
	j.equity.Flush()
	return errors.Join(
		j.fills.Error(),
		j.equity.Error(),
		j.ff.Close(),
		j.ef.Close(),
	)
}
