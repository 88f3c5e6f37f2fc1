// Package ratelimiter implements a token bucket limiter with pluggable
// storage.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. A request that needs more tokens than are left is denied
// and consumes nothing. MemoryStore serves a single process; RedisStore runs
// the same algorithm atomically in a Lua script so replicas share limits.
//
//	bucket, _ := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 5, RefillRate: 1, RefillInterval: time.Minute})
//	r.With(ratelimiter.Middleware(bucket, keyFn, denied)).Post("/accounts/send_login_email", h)
package ratelimiter
