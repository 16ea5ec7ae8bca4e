package recurrence

import "time"

// Engine provides cached recurrence expansion and range queries for the
// calendar and dashboard views. The zero-dependency path is the package
// level Expand; the Engine adds memoization on top of it.
type Engine struct {
	cache  *Cache
	config EngineConfig
}

// NewEngine creates an engine with default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// NewEngineWithConfig creates an engine with custom configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	if config.MaxRangeOccurrences <= 0 {
		config.MaxRangeOccurrences = DefaultEngineConfig.MaxRangeOccurrences
	}

	var cache *Cache
	if config.CacheEnabled {
		cache = NewCache(config.CacheConfig)
	}
	return &Engine{cache: cache, config: config}
}

// Expand is Expand with memoization on (anchor, rule, limit). Callers must
// not modify the returned slice.
func (e *Engine) Expand(anchor time.Time, rule Rule, limit int) ([]time.Time, error) {
	if e.cache != nil {
		if occurrences, ok := e.cache.Get(anchor, rule, limit); ok {
			return occurrences, nil
		}
	}

	occurrences, err := Expand(anchor, rule, limit)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(anchor, rule, limit, occurrences)
	}
	return occurrences, nil
}

// OccursInRange reports whether any occurrence of a post lands within
// [rangeStart, rangeEnd]. This is the calendar grid's "does this day light
// up" check. Non-recurring posts take a fast path without expansion.
func (e *Engine) OccursInRange(anchor time.Time, rule Rule, rangeStart, rangeEnd time.Time) bool {
	if inRange(anchor, rangeStart, rangeEnd) {
		return true
	}
	if !rule.Enabled || anchor.After(rangeEnd) {
		// Occurrences only ever move forward from the anchor.
		return false
	}

	occurrences, err := e.Expand(anchor, rule, e.config.MaxRangeOccurrences)
	if err != nil {
		return false
	}
	for _, occurrence := range occurrences {
		if inRange(occurrence, rangeStart, rangeEnd) {
			return true
		}
	}
	return false
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// CacheStats returns the expansion cache occupancy, or zero stats when
// caching is disabled.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}

// Close releases the engine's cache resources. Safe to call on an engine
// without a cache.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}
