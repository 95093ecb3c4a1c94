// Package config maps viper settings and request parameters onto engine options.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/engine"
	"github.com/Veraticus/taxonomist/internal/model"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath = "database.path"

	KeyClassifyLimit     = "classify.limit"
	KeyClassifyThreshold = "classify.threshold"
	KeyClassifyOverwrite = "classify.overwrite"
	KeyClassifyStatus    = "classify.status"

	KeyBackfillLimit     = "backfill.limit"
	KeyBackfillThreshold = "backfill.threshold"
	KeyBackfillStatus    = "backfill.status"
	KeyBackfillDryRun    = "backfill.dry_run"

	KeyServerAddr    = "server.addr"
	KeyServerCronKey = "server.cron_key"

	KeyRulesCacheTTL = "rules.cache_ttl"
	KeyFeedTimeout   = "feed.timeout"

	KeyLogLevel  = "logging.level"
	KeyLogFormat = "logging.format"
)

// EnvPrefix prefixes automatic environment lookups.
const EnvPrefix = "TAXONOMIST"

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "~/.local/share/taxonomist/taxonomist.db"

// legacyEnv maps keys to the environment names older cron deployments set.
var legacyEnv = map[string][]string{
	KeyClassifyThreshold: {"AUTO_APPROVE_THRESHOLD"},
	KeyBackfillThreshold: {"BACKFILL_SUBCATEGORY_THRESHOLD"},
	KeyServerCronKey:     {"APP_CRON_KEY", "CRON_KEY"},
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)

	v.SetDefault(KeyClassifyLimit, engine.DefaultClassifyLimit)
	v.SetDefault(KeyClassifyThreshold, engine.DefaultClassifyThreshold)
	v.SetDefault(KeyClassifyOverwrite, false)
	v.SetDefault(KeyClassifyStatus, statusList(engine.DefaultClassifyStatuses))

	v.SetDefault(KeyBackfillLimit, engine.DefaultBackfillLimit)
	v.SetDefault(KeyBackfillThreshold, engine.DefaultBackfillThreshold)
	v.SetDefault(KeyBackfillStatus, statusList(engine.DefaultBackfillStatuses))
	v.SetDefault(KeyBackfillDryRun, false)

	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyServerCronKey, "")

	// Rules are read fresh on every run unless a TTL is configured.
	v.SetDefault(KeyRulesCacheTTL, time.Duration(0))
	v.SetDefault(KeyFeedTimeout, 30*time.Second)
}

// BindEnv enables TAXONOMIST_* lookups and binds the legacy variable names.
// The prefixed name wins over the legacy ones.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		args := append([]string{key, prefixed}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// Source is a read-only key/value view. *viper.Viper satisfies it.
type Source interface {
	IsSet(key string) bool
	Get(key string) any
}

// ClassifyOptionsFrom reads classification options from src, starting from the defaults.
func ClassifyOptionsFrom(src Source) (engine.ClassifyOptions, error) {
	opts := engine.DefaultClassifyOptions()
	var err error

	if opts.Limit, err = intValue(src, KeyClassifyLimit, opts.Limit); err != nil {
		return opts, err
	}
	if opts.Threshold, err = floatValue(src, KeyClassifyThreshold, opts.Threshold); err != nil {
		return opts, err
	}
	if opts.Overwrite, err = boolValue(src, KeyClassifyOverwrite, opts.Overwrite); err != nil {
		return opts, err
	}
	if opts.Statuses, err = statusValue(src, KeyClassifyStatus, opts.Statuses); err != nil {
		return opts, err
	}
	return opts.Normalized(), nil
}

// BackfillOptionsFrom reads backfill options from src, starting from the defaults.
func BackfillOptionsFrom(src Source) (engine.BackfillOptions, error) {
	opts := engine.DefaultBackfillOptions()
	var err error

	if opts.Limit, err = intValue(src, KeyBackfillLimit, opts.Limit); err != nil {
		return opts, err
	}
	if opts.Threshold, err = floatValue(src, KeyBackfillThreshold, opts.Threshold); err != nil {
		return opts, err
	}
	if opts.DryRun, err = boolValue(src, KeyBackfillDryRun, opts.DryRun); err != nil {
		return opts, err
	}
	if opts.Statuses, err = statusValue(src, KeyBackfillStatus, opts.Statuses); err != nil {
		return opts, err
	}
	return opts.Normalized(), nil
}

// ParseStatuses splits a comma separated status list. Unknown names are an error.
func ParseStatuses(raw string) ([]model.VideoStatus, error) {
	var statuses []model.VideoStatus
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		status := model.VideoStatus(part)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", common.ErrInvalidConfig, part)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func intValue(src Source, key string, fallback int) (int, error) {
	if !src.IsSet(key) {
		return fallback, nil
	}
	var (
		n   int
		err error
	)
	// Strings are always decimal; cast would read "010" as octal.
	switch raw := src.Get(key).(type) {
	case string:
		n, err = strconv.Atoi(strings.TrimSpace(raw))
	default:
		n, err = cast.ToIntE(raw)
	}
	if err != nil {
		return fallback, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, key, err)
	}
	return n, nil
}

func floatValue(src Source, key string, fallback float64) (float64, error) {
	if !src.IsSet(key) {
		return fallback, nil
	}
	f, err := cast.ToFloat64E(src.Get(key))
	if err != nil {
		return fallback, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, key, err)
	}
	return f, nil
}

func boolValue(src Source, key string, fallback bool) (bool, error) {
	if !src.IsSet(key) {
		return fallback, nil
	}
	raw := src.Get(key)
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return false, nil
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, key, err)
	}
	return b, nil
}

func statusValue(src Source, key string, fallback []model.VideoStatus) ([]model.VideoStatus, error) {
	if !src.IsSet(key) {
		return fallback, nil
	}
	var raw string
	switch v := src.Get(key).(type) {
	case string:
		raw = v
	case []string:
		raw = strings.Join(v, ",")
	case []any:
		raw = strings.Join(cast.ToStringSlice(v), ",")
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return fallback, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, key, err)
		}
		raw = s
	}
	statuses, err := ParseStatuses(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	if len(statuses) == 0 {
		return fallback, nil
	}
	return statuses, nil
}

func statusList(statuses []model.VideoStatus) string {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}
	return strings.Join(names, ",")
}
