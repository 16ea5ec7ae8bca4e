package recurrence

// EngineConfig holds configuration options for the recurrence engine.
type EngineConfig struct {
	// Cache configuration
	CacheEnabled bool
	CacheConfig  CacheConfig

	// MaxRangeOccurrences is how many occurrences OccursInRange expands
	// before giving up on a window. The hard step cap still applies
	// underneath.
	MaxRangeOccurrences int
}

// DefaultEngineConfig provides sensible defaults for production use.
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,

	MaxRangeOccurrences: DefaultCalendarLimit,
}

// NoCacheEngineConfig turns off caching entirely; every call expands fresh.
// Useful for tests and for hosts that memoize at a higher layer.
var NoCacheEngineConfig = EngineConfig{
	CacheEnabled: false,
	CacheConfig:  CacheConfig{}, // not used

	MaxRangeOccurrences: DefaultCalendarLimit,
}
