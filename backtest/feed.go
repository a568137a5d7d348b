package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nkaradzhov/lean/market"
)

// BarFeed yields bars one at a time, oldest first.
// Implementations return (ok=false, err=nil) at EOF.
type BarFeed interface {
	Next() (b market.Bar, ok bool, err error)
	Close() error
}

// CSVBarFeed reads bar CSV rows for a single symbol:
//
//	time,open,high,low,close[,volume]
//
// where time is RFC3339 or RFC3339Nano and marks the start of the bar.
//
// It optionally filters bars to [From, To) if provided.
// Header row ("time,...") is allowed.
// Empty/short rows are skipped.
type CSVBarFeed struct {
	f      *os.File
	r      *csv.Reader
	symbol string
	period time.Duration
	from   time.Time
	to     time.Time

	sawFirst bool
}

func NewCSVBarFeed(path, symbol string, period time.Duration, from, to time.Time) (*CSVBarFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	return &CSVBarFeed{f: f, r: r, symbol: symbol, period: period, from: from, to: to}, nil
}

// Size returns the file size in bytes, for progress reporting.
func (f *CSVBarFeed) Size() int64 {
	st, err := f.f.Stat()
	if err != nil {
		return -1
	}
	return st.Size()
}

// Offset returns how far into the file the reader is, in bytes.
func (f *CSVBarFeed) Offset() int64 {
	return f.r.InputOffset()
}

func (f *CSVBarFeed) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

func (f *CSVBarFeed) Next() (market.Bar, bool, error) {
	for {
		row, err := f.r.Read()
		if err == io.EOF {
			return market.Bar{}, false, nil
		}
		if err != nil {
			return market.Bar{}, false, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !f.sawFirst {
			f.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		line, _ := f.r.FieldPos(0)
		b, ok, err := parseBarRow(row)
		if err != nil {
			return market.Bar{}, false, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			continue
		}
		if !inRange(b.Time, f.from, f.to) {
			continue
		}
		b.Symbol = f.symbol
		b.Period = f.period
		if !b.Valid() {
			return market.Bar{}, false, fmt.Errorf("line %d: inconsistent bar %v", line, row)
		}
		return b, true, nil
	}
}

func parseBarRow(row []string) (market.Bar, bool, error) {
	// Need at least: time,open,high,low,close
	if len(row) < 5 {
		return market.Bar{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return market.Bar{}, false, nil
	}
	// Accept RFC3339 or RFC3339Nano.
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return market.Bar{}, false, fmt.Errorf("bad time %q: %w", ts, err)
		}
		t = t2
	}

	names := [...]string{"open", "high", "low", "close", "volume"}
	var vals [5]float64
	for i := range names {
		col := i + 1
		if col >= len(row) {
			break
		}
		s := strings.TrimSpace(row[col])
		if s == "" && names[i] == "volume" {
			break
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return market.Bar{}, false, fmt.Errorf("bad %s %q: %w", names[i], row[col], err)
		}
		vals[i] = v
	}

	return market.Bar{
		Time:   t.UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, true, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// SliceFeed replays bars held in memory.
type SliceFeed struct {
	Bars   []market.Bar
	index  int
	closed bool
}

func (s *SliceFeed) Next() (market.Bar, bool, error) {
	if s.index >= len(s.Bars) {
		return market.Bar{}, false, nil
	}
	b := s.Bars[s.index]
	s.index++
	return b, true, nil
}

func (s *SliceFeed) Close() error {
	s.closed = true
	return nil
}
