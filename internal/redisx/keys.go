package redisx

import "time"

const (
	// Cart payload per session: session:{sid}:cart -> {"token": "...", "items": [...]}
	KeySessionCart = "session:%s:cart"

	// Authenticated user per session: session:{sid}:user -> user id
	KeySessionUser = "session:%s:user"

	// Per-session mutex guarding cart read-modify-write: lock:cart:{sid}
	KeyCartLock = "lock:cart:%s"

	// Cache status order: order_status:{order_id} -> {"order_id": 1, "owner_id": 2, "status": "..."}
	KeyOrderStatus = "order_status:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
