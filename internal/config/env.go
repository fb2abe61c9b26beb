package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "REWIND_"

// envSetter applies one environment value.
type envSetter func(c *Config, value string) error

// envMapping maps environment variables (without the prefix) to settings.
var envMapping = map[string]envSetter{
	"HISTORY_CAPACITY": func(c *Config, v string) error {
		return setInt(&c.History.Capacity, v)
	},
	"LOG_LEVEL": func(c *Config, v string) error {
		c.Logging.Level = strings.ToLower(v)
		return nil
	},
	"LOG_FORMAT": func(c *Config, v string) error {
		c.Logging.Format = strings.ToLower(v)
		return nil
	},
	"SCRIPT_TIMEOUT": func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Script.Timeout = Duration{d}
		return nil
	},
	"SCRIPT_CALL_STACK_SIZE": func(c *Config, v string) error {
		return setInt(&c.Script.CallStackSize, v)
	},
	"METRICS_ENABLED": func(c *Config, v string) error {
		return setBool(&c.Metrics.Enabled, v)
	},
	"METRICS_NAMESPACE": func(c *Config, v string) error {
		c.Metrics.Namespace = v
		return nil
	},
	"BROWSER_SHOW_IDS": func(c *Config, v string) error {
		return setBool(&c.Browser.ShowIDs, v)
	},
}

// ApplyEnv applies REWIND_* overrides found through lookup (os.LookupEnv
// when nil) and validates the result. Empty values are treated as unset.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var errs []error
	for name, set := range envMapping {
		val, ok := lookup(EnvPrefix + name)
		if !ok || val == "" {
			continue
		}
		if err := set(c, val); err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return c.Validate()
}

// EnvNames returns the supported environment variables.
func EnvNames() []string {
	names := make([]string, 0, len(envMapping))
	for name := range envMapping {
		names = append(names, EnvPrefix+name)
	}
	return names
}

func setInt(dst *int, s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// setBool accepts true/false, yes/no, on/off and 1/0.
func setBool(dst *bool, s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		*dst = true
	case "false", "no", "off", "0":
		*dst = false
	default:
		return fmt.Errorf("invalid boolean %q", s)
	}
	return nil
}
