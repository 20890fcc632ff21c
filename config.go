package mmapalloc

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// AlignPolicy selects what the allocator does when the requested alignment is
// larger than the OS page size.
type AlignPolicy int

const (
	// AlignOverAllocate maps extra space and keeps only the aligned part.
	AlignOverAllocate AlignPolicy = iota
	// AlignAbort panics with ErrUnsatisfiableAlignment. The request is a
	// broken caller contract, not a runtime condition: callers must not
	// recover from this panic and carry on as if the allocation failed.
	AlignAbort
)

func (p AlignPolicy) String() string {
	switch p {
	case AlignOverAllocate:
		return "overallocate"
	case AlignAbort:
		return "abort"
	}
	return fmt.Sprintf("AlignPolicy(%d)", int(p))
}

// UnmarshalText accepts the names printed by String.
func (p *AlignPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "overallocate":
		*p = AlignOverAllocate
	case "abort":
		*p = AlignAbort
	default:
		return fmt.Errorf("unknown alignment policy %q (want overallocate or abort)", string(text))
	}
	return nil
}

// Config defines the configuration for an Allocator.
type Config struct {
	AlignPolicy   AlignPolicy `envconfig:"ALIGN_POLICY" default:"overallocate"` // Behaviour for alignment above the page size
	EmulateResize bool        `envconfig:"EMULATE_RESIZE"`                       // Never use the OS remap primitive
	LogLevel      string      `envconfig:"LOG_LEVEL" default:"warn"`             // logrus level name
}

// LoadConfig reads the configuration from MMAPALLOC_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if c.AlignPolicy != AlignOverAllocate && c.AlignPolicy != AlignAbort {
		return fmt.Errorf("invalid alignment policy %d", int(c.AlignPolicy))
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
		}
	}
	return nil
}
