package redisx

import "time"

const (
	// Catalog read-through cache: catalog:product:{product_id} -> product JSON
	KeyCatalogProduct = "catalog:product:%s"

	// Dedup event processing: dedup:{service}:{id} (id = order_id for the notifier)
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCatalogCache = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
