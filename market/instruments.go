// market/instruments.go
package market

import "strings"

type InstrumentMeta struct {
	Name          string
	BaseCurrency  string
	QuoteCurrency string
	Exchange      string

	// LotSize is the smallest tradable quantity increment.
	LotSize float64
	// TickSize is the smallest price increment.
	TickSize float64
	// MinimumOrderSize in base units.
	MinimumOrderSize float64
}

var Instruments = map[string]InstrumentMeta{
	"BTCUSD": {
		Name:             "BTCUSD",
		BaseCurrency:     "BTC",
		QuoteCurrency:    "USD",
		Exchange:         "GDAX",
		LotSize:          0.00000001,
		TickSize:         0.01,
		MinimumOrderSize: 0.001,
	},
	"ETHUSD": {
		Name:             "ETHUSD",
		BaseCurrency:     "ETH",
		QuoteCurrency:    "USD",
		Exchange:         "GDAX",
		LotSize:          0.00000001,
		TickSize:         0.01,
		MinimumOrderSize: 0.001,
	},
	"LTCUSD": {
		Name:             "LTCUSD",
		BaseCurrency:     "LTC",
		QuoteCurrency:    "USD",
		Exchange:         "GDAX",
		LotSize:          0.00000001,
		TickSize:         0.01,
		MinimumOrderSize: 0.01,
	},
}

// Lookup finds instrument metadata, tolerating "LTC/USD", "LTC_USD" and
// lower case spellings.
func Lookup(symbol string) (InstrumentMeta, bool) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	key = strings.NewReplacer("/", "", "_", "", "-", "").Replace(key)
	meta, ok := Instruments[key]
	return meta, ok
}
