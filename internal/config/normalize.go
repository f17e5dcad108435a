// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	t := &cfg.Twiirl

	if t.Capacity == 0 {
		t.Capacity = DefaultCapacity
	}
	if t.FindTimeoutS == 0 {
		t.FindTimeoutS = DefaultFindTimeoutS
	}
	if t.PollTimeoutMs == 0 {
		t.PollTimeoutMs = DefaultPollTimeoutMs
	}

	t.ToggleScope = strings.ToLower(t.ToggleScope)
	if t.ToggleScope == "" {
		t.ToggleScope = DefaultToggleScope
	}

	t.LogLevel = strings.ToLower(t.LogLevel)
	if t.LogLevel == "" {
		t.LogLevel = DefaultLogLevel
	}

	if t.Mirror != nil && t.Mirror.TimeoutMs == 0 {
		t.Mirror.TimeoutMs = DefaultMirrorTimeout
	}
}
