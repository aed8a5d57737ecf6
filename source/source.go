package source

import (
	"context"
	"io"
	"log/slog"

	"github.com/pixfeed/imgsource/interfaces"
	"github.com/pixfeed/imgsource/media"
	"github.com/pixfeed/imgsource/metrics"
)

// Source resolves one identifier for the duration of one request. It is not
// safe for concurrent use; each caller builds its own through a Factory and
// discards it when the request completes.
type Source struct {
	id             interfaces.Identifier
	requestContext map[string]string
	resolver       interfaces.KeyResolver
	store          interfaces.ObjectStore
	log            *slog.Logger

	// cachedErr is set exactly once, on the first failing fetch, and never
	// cleared. Every later operation short-circuits to it without I/O.
	cachedErr error

	// loc memoizes the resolved location so the delegate is consulted at most
	// once per instance, even when several operations each trigger a fetch.
	loc *interfaces.ObjectLocation

	format    media.Format
	formatSet bool
}

// Identifier returns the identifier this source resolves.
func (s *Source) Identifier() interfaces.Identifier {
	return s.id
}

// fetch is the single point of truth for obtaining the remote object. On
// success the caller owns the returned handle and must close it.
func (s *Source) fetch(ctx context.Context) (*interfaces.ObjectHandle, error) {
	if s.cachedErr != nil {
		metrics.CachedFailureHits.Inc()
		return nil, s.cachedErr
	}

	handle, err := s.doFetch(ctx)
	if err != nil {
		s.cachedErr = err
		return nil, err
	}
	return handle, nil
}

func (s *Source) doFetch(ctx context.Context) (*interfaces.ObjectHandle, error) {
	if s.loc == nil {
		loc, err := s.resolver.ResolveLocation(ctx, s.id, s.requestContext)
		if err != nil {
			return nil, err
		}
		s.loc = &loc
	}

	s.log.Info("Requesting object",
		slog.String("identifier", s.id.String()),
		slog.String("bucket", s.loc.Bucket),
		slog.String("key", s.loc.Key))

	return s.store.Fetch(ctx, *s.loc)
}

// CheckAccess probes whether the identifier resolves to a readable object. It
// surfaces the same classified errors as any other operation and shares the
// negative cache.
func (s *Source) CheckAccess(ctx context.Context) error {
	handle, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	return handle.Close()
}

// Format determines the object's media format, computed once per instance.
// The storage content type wins when it maps to a known format; otherwise the
// identifier's textual form is tried, then the resolved key's, and finally
// media.Unknown, which is a valid terminal answer. Format fails with whatever
// error the underlying fetch fails with.
func (s *Source) Format(ctx context.Context) (media.Format, error) {
	if s.formatSet {
		return s.format, nil
	}

	handle, err := s.fetch(ctx)
	if err != nil {
		return media.Unknown, err
	}
	defer handle.Close()

	format := media.FromMediaType(handle.ContentType)
	if format == media.Unknown {
		format = media.Infer(s.id.String())
	}
	if format == media.Unknown {
		format = media.Infer(s.loc.Key)
	}

	s.format = format
	s.formatSet = true
	return format, nil
}

// OpenStream fetches the object and wraps it in a ContentSource. The caller
// owns the result and must close it (or the stream obtained from it) on every
// path.
func (s *Source) OpenStream(ctx context.Context) (*ContentSource, error) {
	handle, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return &ContentSource{handle: handle}, nil
}

// ContentSource is a thin handle over a fetched object: metadata plus a
// one-shot byte stream. One remote object handle backs one stream; no
// buffering or retry happens here.
type ContentSource struct {
	handle *interfaces.ObjectHandle
}

// MediaType returns the content type reported by storage, or "".
func (c *ContentSource) MediaType() string {
	return c.handle.ContentType
}

// Size returns the object size in bytes, or -1 when unknown.
func (c *ContentSource) Size() int64 {
	return c.handle.ContentLength
}

// Open returns the object's byte stream. Ownership of the stream passes to
// the caller; closing it is equivalent to closing the ContentSource.
func (c *ContentSource) Open() io.ReadCloser {
	return c.handle.Body
}

// Close releases the underlying object handle.
func (c *ContentSource) Close() error {
	return c.handle.Close()
}
