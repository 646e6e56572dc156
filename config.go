package tempusmark

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the measurer settings that make sense outside code.
//
//	tempusmark:
//	  capacity: 1024
//	  reportInterval: 30s
type Config struct {
	Capacity       int           `mapstructure:"capacity"`
	ReportInterval time.Duration `mapstructure:"reportInterval"`
}

// DefaultConfig returns DefaultCapacity and a disabled reporter.
func DefaultConfig() Config {
	return Config{Capacity: DefaultCapacity}
}

// LoadConfig decodes the section under key (the whole document when key is
// empty) on top of DefaultConfig. A missing section yields the defaults.
func LoadConfig(v *viper.Viper, key string) (Config, error) {
	cfg := DefaultConfig()

	sub := v
	if key != "" {
		sub = v.Sub(key)
		if sub == nil {
			return cfg, nil
		}
	}

	if err := sub.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "tempusmark: decoding config")
	}
	if !isPowerOfTwo(cfg.Capacity) {
		return Config{}, errors.Wrapf(ErrInvalidCapacity, "config capacity %d", cfg.Capacity)
	}
	return cfg, nil
}

// NewFromConfig builds a Measurer from cfg. Options given here take
// precedence over the config values.
func NewFromConfig[T any, M comparable](cfg Config, opts ...Option) (*Measurer[T, M], error) {
	all := append([]Option{WithReportInterval(cfg.ReportInterval)}, opts...)
	return New[T, M](cfg.Capacity, all...)
}
