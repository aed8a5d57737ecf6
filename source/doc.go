// Package source implements the core of imgsource: turning an identifier into
// a readable byte stream and a media format.
//
// A Source is created per request through the Factory, resolves its storage
// location through the configured lookup strategy, fetches the object through
// the configured store, and memoizes any failure so a doomed resolution is
// attempted at most once per instance. Sources are single-caller objects;
// they hold no locks and must not be shared across goroutines. The shared
// pieces (the store, the delegate client, the S3 client behind the store) are
// safe for concurrent use.
//
// # Negative Caching
//
// The first failure of a fetch, whether it came from key resolution or from
// storage, is recorded on the Source and returned verbatim by every later
// operation without further I/O. The cache is never cleared: a failed Source
// stays failed, and retry policy belongs to the caller, on a fresh instance.
//
// # Format Inference
//
// Format determination runs a fallback chain: the storage system's reported
// content type wins when it maps to a known format; otherwise the
// identifier's own textual form is tried, then the resolved storage key's
// (which can differ under delegate lookup), and finally media.Unknown, which
// is a valid terminal answer rather than an error.
package source
