package constants

import "time"

const (
	CacheKeyPost       = "blog:post:%d"    // single published post, keyed by id
	CacheKeyCategories = "blog:categories" // public category/count aggregation
)

const (
	CacheExpirePost       = 1 * time.Hour
	CacheExpireCategories = 1 * time.Hour
)
