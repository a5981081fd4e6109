// Package formstore persists named form definitions: the ordered rule sets
// of each field, nested fieldsets included. Definitions are bound to
// submitted values with Definition.Bind and validated with the validator
// package.
//
// MemoryStore keeps everything in process. RedisStore stores JSON blobs in
// Redis through github.com/redis/go-redis/v9; Connect dials with retries.
// SQLiteStore keeps one row per form in a local file through the pure Go
// modernc.org/sqlite driver. NewStore picks one from Config.
package formstore
