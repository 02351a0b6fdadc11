// SPDX-License-Identifier: Apache-2.0

// Package lintconfig is the configuration surface recognized by
// spec.md §6: loader strategy, rule allow/deny lists, per-rule severity
// overrides, and the raw SQL loader's transaction default. Loaded from
// YAML via sigs.k8s.io/yaml, with spf13/viper layering environment
// variables and CLI flags over it, the same precedence style as the
// teacher's cmd/root.go (viper.BindPFlag + viper.AutomaticEnv).
package lintconfig

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"

	"github.com/pgmlint/pgmlint/pkg/rules"
)

// Strategy selects how a Liquibase changelog is handled.
type Strategy string

const (
	// StrategyAuto detects Liquibase vs raw SQL input automatically.
	StrategyAuto Strategy = "auto"
	// StrategyBridge always invokes the Liquibase helper subprocess.
	StrategyBridge Strategy = "bridge"
)

// Config is the fully-resolved configuration, after YAML, environment
// and flag layers have been merged.
type Config struct {
	Strategy                Strategy          `json:"strategy"`
	EnabledRules            []string          `json:"enabled_rules"`
	DisabledRules           []string          `json:"disabled_rules"`
	SeverityOverrides       map[string]string `json:"severity_overrides"`
	RunInTransactionDefault bool              `json:"run_in_transaction_default"`
	LiquibaseHelperPath     string            `json:"liquibase_helper_path"`
}

// Default returns the configuration spec.md §6 describes as the
// recognized defaults: auto strategy, every rule enabled, transactional
// by default.
func Default() Config {
	return Config{
		Strategy:                StrategyAuto,
		RunInTransactionDefault: true,
	}
}

// Load reads path (if non-empty and present) as YAML, then layers
// PGMLINT_*-prefixed environment variables and flags (if non-nil) over
// it via viper, matching the teacher's layered-precedence idiom.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, &ConfigError{Err: fmt.Errorf("read config %s: %w", path, err)}
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, &ConfigError{Err: fmt.Errorf("parse config %s: %w", path, err)}
		}
	}

	v := viper.New()
	v.SetEnvPrefix("PGMLINT")
	v.AutomaticEnv()

	// Bind each recognized option explicitly by its viper key, the same
	// one-line-per-option style as the teacher's cmd/root.go
	// (viper.BindPFlag("PG_URL", ...)), rather than a blanket BindPFlags
	// that would require flag names to match viper keys verbatim.
	if flags != nil {
		bindFlag(v, "strategy", flags.Lookup("strategy"))
		bindFlag(v, "run_in_transaction_default", flags.Lookup("run-in-transaction-default"))
		bindFlag(v, "liquibase_helper_path", flags.Lookup("liquibase-helper-path"))
	}

	if v.IsSet("strategy") {
		cfg.Strategy = Strategy(v.GetString("strategy"))
	}
	if v.IsSet("run_in_transaction_default") {
		cfg.RunInTransactionDefault = v.GetBool("run_in_transaction_default")
	}
	if v.IsSet("liquibase_helper_path") {
		cfg.LiquibaseHelperPath = v.GetString("liquibase_helper_path")
	}

	if cfg.Strategy != StrategyAuto && cfg.Strategy != StrategyBridge {
		return Config{}, &ConfigError{Err: fmt.Errorf("strategy must be %q or %q, got %q", StrategyAuto, StrategyBridge, cfg.Strategy)}
	}
	if len(cfg.EnabledRules) > 0 && len(cfg.DisabledRules) > 0 {
		return Config{}, &ConfigError{Err: fmt.Errorf("enabled_rules and disabled_rules are mutually exclusive")}
	}

	return cfg, nil
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	_ = v.BindPFlag(key, flag)
}

// ConfigError wraps a malformed-settings failure, spec.md §7's Config
// error kind.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "Config: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// Apply filters the global rule registry against the configured
// allow/deny list and rewrites per-rule default severities, returning
// the resulting active rule set. The global registry (rules.All) is
// read, never mutated, so Apply is safe to call more than once.
func Apply(cfg Config) ([]rules.Rule, error) {
	allowed := func(id string) bool {
		if len(cfg.EnabledRules) > 0 {
			return containsID(cfg.EnabledRules, id)
		}
		if len(cfg.DisabledRules) > 0 {
			return !containsID(cfg.DisabledRules, id)
		}
		return true
	}

	overrides := map[string]rules.Severity{}
	for id, sevName := range cfg.SeverityOverrides {
		sev, err := parseSeverity(sevName)
		if err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("severity override for %s: %w", id, err)}
		}
		overrides[id] = sev
	}

	active := make([]rules.Rule, 0, len(rules.All))
	for _, r := range rules.All {
		if !allowed(r.ID()) {
			continue
		}
		if sev, ok := overrides[r.ID()]; ok {
			active = append(active, rules.WithSeverity(r, sev))
			continue
		}
		active = append(active, r)
	}
	return active, nil
}

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func parseSeverity(name string) (rules.Severity, error) {
	switch name {
	case "Info":
		return rules.Info, nil
	case "Minor":
		return rules.Minor, nil
	case "Major":
		return rules.Major, nil
	case "Critical":
		return rules.Critical, nil
	case "Blocker":
		return rules.Blocker, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", name)
	}
}
