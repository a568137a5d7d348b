package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournal_WritesHeadersAndRows(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fillsPath := filepath.Join(dir, "fills.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(fillsPath, equityPath)
	require.NoError(t, err)

	ts := time.Date(2017, 12, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordFill(FillRecord{
		RunID:     "r",
		OrderID:   "o1",
		Symbol:    "LTCUSD",
		Time:      ts,
		Type:      "StopLimit",
		Direction: "Sell",
		Quantity:  decimal.NewFromInt(-50),
		Price:     decimal.NewFromInt(98),
		Tag:       "stop-loss",
	}))
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		RunID:    "r",
		Time:     ts,
		Cash:     decimal.RequireFromString("99900"),
		Holdings: decimal.Zero,
		Price:    decimal.NewFromInt(98),
		Equity:   decimal.RequireFromString("99900"),
	}))
	require.NoError(t, j.Close())

	fills := readCSV(t, fillsPath)
	require.Len(t, fills, 2)
	assert.Equal(t, fillsHeader, fills[0])
	assert.Equal(t, []string{"r", "o1", "LTCUSD", "2017-12-01T10:00:00Z", "StopLimit", "Sell", "-50", "98", "stop-loss"}, fills[1])

	equity := readCSV(t, equityPath)
	require.Len(t, equity, 2)
	assert.Equal(t, equityHeader, equity[0])
	assert.Equal(t, "99900.00", equity[1][2])
	assert.Equal(t, "99900.00", equity[1][5])
}

func TestNewCSV_BadPath(t *testing.T) {
	t.Parallel()
	_, err := NewCSV(filepath.Join(t.TempDir(), "missing", "fills.csv"), "equity.csv")
	assert.Error(t, err)
}
