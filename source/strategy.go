package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixfeed/imgsource/interfaces"
)

// DirectResolver maps an identifier to a storage key verbatim. It performs no
// I/O and cannot fail.
type DirectResolver struct {
	// Bucket is the configured default bucket.
	Bucket string
}

// ResolveLocation implements interfaces.KeyResolver.
func (r DirectResolver) ResolveLocation(_ context.Context, id interfaces.Identifier, _ map[string]string) (interfaces.ObjectLocation, error) {
	return interfaces.ObjectLocation{Bucket: r.Bucket, Key: id.String()}, nil
}

// DelegateResolver asks the external delegate for the object key. The
// delegate may return a bare key (bucket stays at the default), a full
// bucket/key override, or an absent result, which is authoritative: it maps
// to ErrObjectNotFound without consulting storage.
type DelegateResolver struct {
	Bucket string
	Client interfaces.DelegateClient
	Log    *slog.Logger
}

// ResolveLocation implements interfaces.KeyResolver.
func (r DelegateResolver) ResolveLocation(ctx context.Context, id interfaces.Identifier, requestContext map[string]string) (interfaces.ObjectLocation, error) {
	result, err := r.Client.ResolveObjectKey(ctx, id, requestContext)
	if err != nil {
		return interfaces.ObjectLocation{}, err
	}

	if result.Absent() {
		return interfaces.ObjectLocation{}, fmt.Errorf("%w: delegate returned no key for %q", interfaces.ErrObjectNotFound, id)
	}

	loc := result.Location(r.Bucket)
	r.Log.Debug("Delegate resolved object location",
		slog.String("identifier", id.String()),
		slog.String("bucket", loc.Bucket),
		slog.String("key", loc.Key))
	return loc, nil
}
