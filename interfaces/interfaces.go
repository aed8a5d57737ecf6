package interfaces

import (
	"context"
	"io"
)

// ObjectHandle is an open remote object. The Body stream is already open (or
// lazily opened by the backend); whoever receives a handle is responsible for
// closing it on every path, including error paths.
type ObjectHandle struct {
	// Body streams the object's bytes. Never nil on a successfully fetched
	// handle.
	Body io.ReadCloser

	// ContentType is the media type reported by the storage system, or ""
	// when the backend supplies none. It is a hint, not authoritative.
	ContentType string

	// ContentLength is the object size in bytes, or -1 when unknown.
	ContentLength int64
}

// Close releases the underlying stream.
func (h *ObjectHandle) Close() error {
	if h.Body == nil {
		return nil
	}
	return h.Body.Close()
}

// ObjectStore provides read access to a remote object storage system. Fetch
// errors are already classified into the package's error taxonomy; callers
// never see raw SDK errors.
type ObjectStore interface {
	// Fetch opens the object at the given location. Returns ErrObjectNotFound
	// if no such object exists, ErrAccessDenied if it is unreadable with the
	// current credentials, and ErrStorageIO for anything else.
	Fetch(ctx context.Context, loc ObjectLocation) (*ObjectHandle, error)

	// Name returns an identifier for logging.
	Name() string
}

// KeyResolver maps an identifier to a concrete object location. Direct
// resolvers do so without I/O; delegate resolvers consult an external decision
// procedure and may fail with any delegate error.
type KeyResolver interface {
	ResolveLocation(ctx context.Context, id Identifier, requestContext map[string]string) (ObjectLocation, error)
}

// DelegateClient invokes the external decision procedure that computes object
// keys dynamically. The request context carries ambient request attributes
// (client IP, request URI) for the delegate's use.
type DelegateClient interface {
	// ResolveObjectKey asks the delegate for the object key backing an
	// identifier. A DelegateAbsent result means the delegate is certain no
	// object exists. Errors are ErrDelegateUnavailable for transport or
	// subsystem failures and ErrInvalidDelegateResult for uninterpretable
	// responses.
	ResolveObjectKey(ctx context.Context, id Identifier, requestContext map[string]string) (DelegateResult, error)
}
