// internal/config/config.go
package config

import "time"

type Config struct {
	Twiirl TwiirlConfig `yaml:"twiirl"`
}

type TwiirlConfig struct {
	Capacity      int    `yaml:"capacity"`
	FindTimeoutS  int    `yaml:"find_timeout_s"`
	PollTimeoutMs int    `yaml:"poll_timeout_ms"`
	ToggleScope   string `yaml:"toggle_scope"`
	LogLevel      string `yaml:"log_level"`

	// Register mirror (optional, opt-in)
	Mirror *MirrorConfig `yaml:"mirror"`
}

// ---- MIRROR ----

type MirrorConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	BaseSlot  uint16 `yaml:"base_slot"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- LIMITS / DEFAULTS ----

// MaxCapacity is the number of player slots a host can drive.
const MaxCapacity = 4

const (
	DefaultCapacity      = MaxCapacity
	DefaultFindTimeoutS  = 5
	DefaultPollTimeoutMs = 50
	DefaultToggleScope   = ToggleScopeSession
	DefaultLogLevel      = "info"
	DefaultMirrorTimeout = 1000
)

const (
	ToggleScopeSession = "session"
	ToggleScopeDevice  = "device"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	Normalize(cfg)
	return cfg
}

func (c TwiirlConfig) FindTimeout() time.Duration {
	return time.Duration(c.FindTimeoutS) * time.Second
}

func (c TwiirlConfig) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutMs) * time.Millisecond
}

func (m MirrorConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutMs) * time.Millisecond
}
