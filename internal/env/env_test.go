package env

import (
	"errors"
	"testing"
	"time"
)

type testConfig struct {
	Name    string        `env:"ENVTEST_NAME" default:"fallback"`
	Port    int           `env:"ENVTEST_PORT" default:"8080"`
	Debug   bool          `env:"ENVTEST_DEBUG"`
	Timeout time.Duration `env:"ENVTEST_TIMEOUT" default:"15s"`
}

func TestParse(t *testing.T) {
	t.Run("reads values from environment", func(t *testing.T) {
		t.Setenv("ENVTEST_NAME", "parishdesk")
		t.Setenv("ENVTEST_PORT", "9000")
		t.Setenv("ENVTEST_DEBUG", "true")
		t.Setenv("ENVTEST_TIMEOUT", "1m30s")

		var cfg testConfig
		if err := Parse(&cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Name != "parishdesk" {
			t.Errorf("expected name parishdesk, got %q", cfg.Name)
		}
		if cfg.Port != 9000 {
			t.Errorf("expected port 9000, got %d", cfg.Port)
		}
		if !cfg.Debug {
			t.Error("expected debug true")
		}
		if cfg.Timeout != 90*time.Second {
			t.Errorf("expected timeout 90s, got %v", cfg.Timeout)
		}
	})

	t.Run("applies defaults for unset variables", func(t *testing.T) {
		var cfg testConfig
		if err := Parse(&cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Name != "fallback" {
			t.Errorf("expected default name, got %q", cfg.Name)
		}
		if cfg.Port != 8080 {
			t.Errorf("expected default port, got %d", cfg.Port)
		}
		if cfg.Timeout != 15*time.Second {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
	})

	t.Run("rejects unparseable values", func(t *testing.T) {
		t.Setenv("ENVTEST_PORT", "not-a-number")

		var cfg testConfig
		err := Parse(&cfg)
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		var invalid ErrInvalidValue
		if !errors.As(err, &invalid) {
			t.Fatalf("expected ErrInvalidValue, got %T", err)
		}
		if invalid.EnvVar != "ENVTEST_PORT" {
			t.Errorf("expected ENVTEST_PORT, got %s", invalid.EnvVar)
		}
	})

	t.Run("rejects non-struct arguments", func(t *testing.T) {
		var s string
		err := Parse(&s)

		var notStruct ErrNotStructPointer
		if !errors.As(err, &notStruct) {
			t.Fatalf("expected ErrNotStructPointer, got %v", err)
		}
	})
}

type validatedConfig struct {
	Mode string `env:"ENVTEST_MODE" default:"strict"`
}

func (c *validatedConfig) Validate() error {
	if c.Mode != "strict" && c.Mode != "lenient" {
		return errors.New("mode must be strict or lenient")
	}
	return nil
}

func TestParseValidator(t *testing.T) {
	t.Setenv("ENVTEST_MODE", "bogus")

	var cfg validatedConfig
	if err := Parse(&cfg); err == nil {
		t.Fatal("expected validation error, got nil")
	}
}
