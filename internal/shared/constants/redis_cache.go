package constants

import "time"

// Redis cache keys and TTLs.
// Pattern: fitbook:{module}:{operation}:{identifier}

const CACHE_PREFIX = "fitbook"

const (
	// Class catalog listings change on every admin edit and on every spot
	// claim/release, so they stay on short TTLs and are invalidated eagerly.
	TTL_CLASS_LIST   = 5 * time.Minute
	TTL_CLASS_DETAIL = 2 * time.Minute
)

const (
	CACHE_KEY_CLASSES_ACTIVE = CACHE_PREFIX + ":classes:active"
	CACHE_KEY_CLASSES_LIST   = CACHE_PREFIX + ":classes:list" // + :category:X:day:Y:status:Z
	CACHE_KEY_CLASS_DETAIL   = CACHE_PREFIX + ":classes:detail:uuid:"

	PATTERN_INVALIDATE_CLASSES = CACHE_PREFIX + ":classes:*"
)
