package signal

// Reading is a snapshot of indicator output for one consolidated bar.
// It is one of MACDReading, SARReading or RSIReading.
type Reading interface {
	IsReady() bool
	mode() Mode
}

type MACDReading struct {
	Ready  bool
	Value  float64
	Signal float64
	Fast   float64
}

func (r MACDReading) IsReady() bool { return r.Ready }
func (MACDReading) mode() Mode      { return ModeMACD }

// Delta is the MACD/signal spread relative to the fast average.
// ok is false when the fast average is zero.
func (r MACDReading) Delta() (delta float64, ok bool) {
	if r.Fast == 0 {
		return 0, false
	}
	return (r.Value - r.Signal) / r.Fast, true
}

type SARReading struct {
	Ready bool
	SAR   float64
	Price float64
}

func (r SARReading) IsReady() bool { return r.Ready }
func (SARReading) mode() Mode      { return ModeSAR }

type RSIReading struct {
	Ready bool
	Value float64
}

func (r RSIReading) IsReady() bool { return r.Ready }
func (RSIReading) mode() Mode      { return ModeRSI }
