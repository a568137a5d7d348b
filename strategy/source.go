package strategy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nkaradzhov/lean/config"
	"github.com/nkaradzhov/lean/indicators"
	"github.com/nkaradzhov/lean/market"
	"github.com/nkaradzhov/lean/signal"
)

// source turns consolidated bars into readings for one signal mode.
type source interface {
	Update(b market.Bar)
	Reading() signal.Reading
	Indicator() indicators.Indicator
	// Plot returns the values worth charting for the last bar.
	Plot() []zap.Field
}

func newSource(mode signal.Mode, cfg config.StrategyConfig) (source, error) {
	switch mode {
	case signal.ModeMACD:
		m, err := indicators.NewMACD(cfg.MACD.Fast, cfg.MACD.Slow, cfg.MACD.Signal)
		if err != nil {
			return nil, err
		}
		return &macdSource{macd: m}, nil
	case signal.ModeSAR:
		s, err := indicators.NewParabolicSAR(cfg.SAR.Start, cfg.SAR.Step, cfg.SAR.Max)
		if err != nil {
			return nil, err
		}
		return &sarSource{sar: s}, nil
	case signal.ModeRSI:
		r, err := indicators.NewRSI(cfg.RSI.Period)
		if err != nil {
			return nil, err
		}
		return &rsiSource{rsi: r}, nil
	default:
		return nil, fmt.Errorf("%w: %v", signal.ErrUnknownMode, mode)
	}
}

type macdSource struct {
	macd *indicators.MACD
}

func (s *macdSource) Update(b market.Bar)             { s.macd.Update(b) }
func (s *macdSource) Indicator() indicators.Indicator { return s.macd }

func (s *macdSource) Reading() signal.Reading {
	return signal.MACDReading{
		Ready:  s.macd.Ready(),
		Value:  s.macd.Value(),
		Signal: s.macd.Signal(),
		Fast:   s.macd.Fast(),
	}
}

func (s *macdSource) Plot() []zap.Field {
	return []zap.Field{
		zap.Float64("macd", s.macd.Value()),
		zap.Float64("signal", s.macd.Signal()),
		zap.Float64("fast", s.macd.Fast()),
		zap.Float64("slow", s.macd.Slow()),
		zap.Float64("histogram", s.macd.Histogram()),
	}
}

type sarSource struct {
	sar   *indicators.ParabolicSAR
	price float64
}

func (s *sarSource) Update(b market.Bar) {
	s.sar.Update(b)
	s.price = b.Close
}

func (s *sarSource) Indicator() indicators.Indicator { return s.sar }

func (s *sarSource) Reading() signal.Reading {
	return signal.SARReading{
		Ready: s.sar.Ready(),
		SAR:   s.sar.Value(),
		Price: s.price,
	}
}

func (s *sarSource) Plot() []zap.Field {
	return []zap.Field{
		zap.Float64("sar", s.sar.Value()),
		zap.Bool("sar_long", s.sar.Long()),
	}
}

type rsiSource struct {
	rsi *indicators.RSI
}

func (s *rsiSource) Update(b market.Bar)             { s.rsi.Update(b) }
func (s *rsiSource) Indicator() indicators.Indicator { return s.rsi }

func (s *rsiSource) Reading() signal.Reading {
	return signal.RSIReading{
		Ready: s.rsi.Ready(),
		Value: s.rsi.Value(),
	}
}

func (s *rsiSource) Plot() []zap.Field {
	return []zap.Field{zap.Float64("rsi", s.rsi.Value())}
}
