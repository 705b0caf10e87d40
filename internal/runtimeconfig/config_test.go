package runtimeconfig

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OLAP.BaseURL = "http://localhost:7777"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidateRejectsMissingDefaultLocale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLocale = "es"
	cfg.Locales = []string{"en", "de"}

	if err := cfg.Validate(); !errors.Is(err, ErrDefaultLocaleRequired) {
		t.Fatalf("expected ErrDefaultLocaleRequired, got %v", err)
	}
}

func TestValidateSearchRequiresOLAPURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Search = true
	cfg.OLAP.BaseURL = "  "

	if err := cfg.Validate(); !errors.Is(err, ErrSearchRequiresOLAP) {
		t.Fatalf("expected ErrSearchRequiresOLAP, got %v", err)
	}

	cfg.Features.Search = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("search disabled should not need an OLAP URL, got %v", err)
	}
}

func TestValidateRejectsUnknownOLAPFlavor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Search = false
	cfg.OLAP.Flavor = "essbase"

	if err := cfg.Validate(); !errors.Is(err, ErrOLAPFlavorUnknown) {
		t.Fatalf("expected ErrOLAPFlavorUnknown, got %v", err)
	}
}

func TestValidateCronRequiresScheduling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Search = false
	cfg.Commands.AutoRegisterCron = true

	if err := cfg.Validate(); !errors.Is(err, ErrCommandsCronRequiresScheduling) {
		t.Fatalf("expected ErrCommandsCronRequiresScheduling, got %v", err)
	}

	cfg.Features.Scheduling = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("scheduling enabled should allow cron registration, got %v", err)
	}
}

func TestValidateLoggingProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Search = false
	cfg.Features.Logger = true

	cfg.Logging.Provider = ""
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}

	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}

	cfg.Logging.Format = "json"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid gologger config should pass, got %v", err)
	}
}

func TestOrderedLocalesPutsDefaultFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLocale = "es"
	cfg.Locales = []string{"en", "es", "de"}

	got := cfg.OrderedLocales()
	want := []string{"es", "en", "de"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ordered locales = %v, want %v", got, want)
	}
}
