package kukan

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config sizes a Space and describes its logger. It is usually loaded from a
// TOML file with top-level space keys and a [logging] table.
type Config struct {
	Name               string    `toml:"name"`
	MemberCapacity     int       `toml:"member_capacity"`
	DescriptorCapacity int       `toml:"descriptor_capacity"`
	Log                LogConfig `toml:"logging"`
}

// LogConfig selects the log level ("debug", "info", ...) and the format:
// "json" for production output, anything else for the console.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the settings used when a Space gets no Config.
func DefaultConfig() Config {
	return Config{
		Name:               "space",
		MemberCapacity:     64,
		DescriptorCapacity: 256,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, eris.Wrapf(err, "read config %s", path)
	}
	cfg, err := ParseConfig(string(data))
	if err != nil {
		return Config{}, eris.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes TOML text over the defaults. Negative capacities are
// rejected.
func ParseConfig(text string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, eris.Wrap(err, "parse config")
	}
	if cfg.MemberCapacity < 0 || cfg.DescriptorCapacity < 0 {
		return Config{}, eris.Errorf("negative capacity (members %d, descriptors %d)",
			cfg.MemberCapacity, cfg.DescriptorCapacity)
	}
	return cfg, nil
}

// Build constructs the zap logger described by c. An unknown level falls back
// to info.
func (c LogConfig) Build() (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if c.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "build logger")
	}
	return logger, nil
}
