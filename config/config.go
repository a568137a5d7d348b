package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/nkaradzhov/lean/market"
	"github.com/nkaradzhov/lean/signal"
)

// DateLayout is the format of backtest start and end dates.
const DateLayout = "2006-01-02"

// Config represents the complete backtest configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency" validate:"required,len=3"`
	Cash     float64 `json:"cash" yaml:"cash" validate:"gt=0"`
}

// StrategyConfig is fixed for the lifetime of a strategy instance.
type StrategyConfig struct {
	Symbol     string `json:"symbol" yaml:"symbol" validate:"required"`
	Resolution string `json:"resolution" yaml:"resolution" validate:"oneof=second minute hour daily"`
	// Every is the number of input bars merged into one decision bar.
	Every int    `json:"every" yaml:"every" validate:"gte=1"`
	Mode  string `json:"mode" yaml:"mode" validate:"required"`

	MACD MACDConfig `json:"macd" yaml:"macd"`
	SAR  SARConfig  `json:"sar" yaml:"sar"`
	RSI  RSIConfig  `json:"rsi" yaml:"rsi"`

	// Multipliers of the entry fill price; 0 disables the leg.
	SecureProfitPercent float64 `json:"secure_profit_percent" yaml:"secure_profit_percent" validate:"gte=0"`
	StopLossPercent     float64 `json:"stop_loss_percent" yaml:"stop_loss_percent" validate:"gte=0"`
}

type MACDConfig struct {
	Fast      int     `json:"fast" yaml:"fast" validate:"gt=0"`
	Slow      int     `json:"slow" yaml:"slow" validate:"gt=0"`
	Signal    int     `json:"signal" yaml:"signal" validate:"gt=0"`
	Tolerance float64 `json:"tolerance" yaml:"tolerance" validate:"gte=0"`
}

// SARConfig holds Parabolic SAR acceleration factors.
type SARConfig struct {
	Start float64 `json:"start" yaml:"start" validate:"gt=0"`
	Step  float64 `json:"step" yaml:"step" validate:"gt=0"`
	Max   float64 `json:"max" yaml:"max" validate:"gt=0"`
}

type RSIConfig struct {
	Period int     `json:"period" yaml:"period" validate:"gt=1"`
	High   float64 `json:"high" yaml:"high" validate:"gt=0,lte=100"`
	Low    float64 `json:"low" yaml:"low" validate:"gte=0,lt=100"`
}

// BacktestConfig describes the replay window.
type BacktestConfig struct {
	DataFile       string `json:"data_file" yaml:"data_file"`
	Start          string `json:"start,omitempty" yaml:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End            string `json:"end,omitempty" yaml:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LiquidateAtEnd bool   `json:"liquidate_at_end" yaml:"liquidate_at_end"`
	Seed           int64  `json:"seed" yaml:"seed"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type" validate:"oneof=none csv sqlite"`
	FillsFile  string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=console json"`
}

// Period is the duration of one input bar.
func (s StrategyConfig) Period() time.Duration {
	switch s.Resolution {
	case "second":
		return time.Second
	case "hour":
		return time.Hour
	case "daily":
		return 24 * time.Hour
	default:
		return time.Minute
	}
}

// Window returns the parsed start and end dates; a zero time means unbounded.
// End is exclusive and already advanced to the following midnight.
func (b BacktestConfig) Window() (start, end time.Time, err error) {
	if b.Start != "" {
		if start, err = time.Parse(DateLayout, b.Start); err != nil {
			return start, end, fmt.Errorf("backtest.start: %w", err)
		}
	}
	if b.End != "" {
		if end, err = time.Parse(DateLayout, b.End); err != nil {
			return start, end, fmt.Errorf("backtest.end: %w", err)
		}
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML or JSON based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints, then the rules that span fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fieldError(verrs[0])
		}
		return err
	}

	s := c.Strategy
	if _, ok := market.Lookup(s.Symbol); !ok {
		return fmt.Errorf("unknown symbol: %s", s.Symbol)
	}
	if _, err := signal.ParseMode(s.Mode); err != nil {
		return fmt.Errorf("strategy.mode: %w", err)
	}
	if s.MACD.Fast >= s.MACD.Slow {
		return fmt.Errorf("strategy.macd.fast must be less than strategy.macd.slow")
	}
	if s.SAR.Start > s.SAR.Max || s.SAR.Step > s.SAR.Max {
		return fmt.Errorf("strategy.sar.start and step must not exceed max")
	}

	start, end, err := c.Backtest.Window()
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		return fmt.Errorf("backtest.end must not be before backtest.start")
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal fills_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	// Namespace is "Config.strategy.every"; drop the root type.
	_, field, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	case "datetime":
		return fmt.Errorf("%s must be a date like %s", field, fe.Param())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "lt":
		return fmt.Errorf("%s must be less than %s", field, fe.Param())
	case "lte":
		return fmt.Errorf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Errorf("%s failed %s=%s", field, fe.Tag(), fe.Param())
	}
}

// Default mirrors the reference LTCUSD minute-bar MACD setup.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "SIM-001",
			Currency: "USD",
			Cash:     100000,
		},
		Strategy: StrategyConfig{
			Symbol:     "LTCUSD",
			Resolution: "minute",
			Every:      1,
			Mode:       "macd",
			MACD: MACDConfig{
				Fast:      12,
				Slow:      26,
				Signal:    9,
				Tolerance: signal.DefaultTolerance,
			},
			SAR: SARConfig{
				Start: 0.02,
				Step:  0.02,
				Max:   0.2,
			},
			RSI: RSIConfig{
				Period: 14,
				High:   70,
				Low:    30,
			},
			SecureProfitPercent: 1.15,
			StopLossPercent:     0.98,
		},
		Backtest: BacktestConfig{
			DataFile: "./data/LTCUSD-minute.csv",
			Start:    "2017-12-01",
			End:      "2017-12-08",
			Seed:     1,
		},
		Journal: JournalConfig{
			Type:       "csv",
			FillsFile:  "./fills.csv",
			EquityFile: "./equity.csv",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
