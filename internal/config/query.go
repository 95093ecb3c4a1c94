package config

import (
	"net/url"
)

// QueryParams maps request parameter names to configuration keys for each procedure.
var (
	ClassifyQueryParams = map[string]string{
		"limit":     KeyClassifyLimit,
		"threshold": KeyClassifyThreshold,
		"overwrite": KeyClassifyOverwrite,
		"status":    KeyClassifyStatus,
	}
	BackfillQueryParams = map[string]string{
		"limit":     KeyBackfillLimit,
		"threshold": KeyBackfillThreshold,
		"status":    KeyBackfillStatus,
		"dry_run":   KeyBackfillDryRun,
	}
)

// Layered reads from the first source that has a key set.
type Layered []Source

// IsSet reports whether any layer sets key.
func (l Layered) IsSet(key string) bool {
	for _, src := range l {
		if src.IsSet(key) {
			return true
		}
	}
	return false
}

// Get returns the value from the first layer that sets key.
func (l Layered) Get(key string) any {
	for _, src := range l {
		if src.IsSet(key) {
			return src.Get(key)
		}
	}
	return nil
}

// QuerySource exposes URL query parameters under configuration keys.
type QuerySource struct {
	values url.Values
	keys   map[string]string
}

// NewQuerySource creates a source over values. params maps parameter names to keys.
func NewQuerySource(values url.Values, params map[string]string) QuerySource {
	keys := make(map[string]string, len(params))
	for param, key := range params {
		keys[key] = param
	}
	return QuerySource{values: values, keys: keys}
}

// IsSet reports whether the parameter for key is present.
func (q QuerySource) IsSet(key string) bool {
	param, ok := q.keys[key]
	if !ok {
		return false
	}
	return q.values.Has(param)
}

// Get returns the first value of the parameter for key.
func (q QuerySource) Get(key string) any {
	param, ok := q.keys[key]
	if !ok {
		return nil
	}
	return q.values.Get(param)
}
