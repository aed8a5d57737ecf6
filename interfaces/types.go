package interfaces

import "fmt"

// Identifier is the opaque, externally supplied name for a requested resource.
// It is compared by value and carries no structure of its own; whether it maps
// directly to a storage key is decided by the active lookup strategy.
type Identifier string

// String returns the identifier's raw textual form.
func (id Identifier) String() string {
	return string(id)
}

// ObjectLocation is the concrete storage coordinate an identifier resolves to.
type ObjectLocation struct {
	// Bucket is the storage bucket holding the object. It defaults to the
	// configured bucket and may be overridden per resolution by a delegate.
	Bucket string

	// Key is the object's name within the bucket.
	Key string
}

// String formats the location for logging.
func (loc ObjectLocation) String() string {
	return fmt.Sprintf("%s/%s", loc.Bucket, loc.Key)
}

type delegateResultKind int

const (
	delegateAbsent delegateResultKind = iota
	delegateKey
	delegateLocation
)

// DelegateResult is the validated outcome of a delegate lookup. It is a tagged
// variant with exactly three shapes: a bare key, a full bucket/key location,
// or absent. Construction goes through the three constructors below; anything
// the delegate returns that does not fit one of them is rejected with
// ErrInvalidDelegateResult before a DelegateResult is ever built.
type DelegateResult struct {
	kind   delegateResultKind
	key    string
	bucket string
}

// DelegateAbsent reports that the delegate declined to produce a key. The
// caller must treat the identifier as not found.
func DelegateAbsent() DelegateResult {
	return DelegateResult{kind: delegateAbsent}
}

// DelegateKey wraps a bare object key. The bucket stays at the configured
// default.
func DelegateKey(key string) DelegateResult {
	return DelegateResult{kind: delegateKey, key: key}
}

// DelegateLocation wraps a full bucket/key override.
func DelegateLocation(bucket, key string) DelegateResult {
	return DelegateResult{kind: delegateLocation, key: key, bucket: bucket}
}

// Absent reports whether the delegate declined to produce a key.
func (r DelegateResult) Absent() bool {
	return r.kind == delegateAbsent
}

// Location materializes the resolved object location, filling in the supplied
// default bucket when the delegate returned only a key. Calling Location on an
// absent result yields a zero location; callers check Absent first.
func (r DelegateResult) Location(defaultBucket string) ObjectLocation {
	switch r.kind {
	case delegateKey:
		return ObjectLocation{Bucket: defaultBucket, Key: r.key}
	case delegateLocation:
		return ObjectLocation{Bucket: r.bucket, Key: r.key}
	}
	return ObjectLocation{}
}
