package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/pixfeed/imgsource/config"
	"github.com/pixfeed/imgsource/interfaces"
	"github.com/pixfeed/imgsource/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubStore counts fetches and serves a fixed object or a fixed error.
type stubStore struct {
	content     string
	contentType string
	err         error

	calls   int
	lastLoc interfaces.ObjectLocation
	closed  *int
}

func (s *stubStore) Fetch(_ context.Context, loc interfaces.ObjectLocation) (*interfaces.ObjectHandle, error) {
	s.calls++
	s.lastLoc = loc
	if s.err != nil {
		return nil, s.err
	}
	return &interfaces.ObjectHandle{
		Body:          &countingCloser{Reader: strings.NewReader(s.content), closed: s.closed},
		ContentType:   s.contentType,
		ContentLength: int64(len(s.content)),
	}, nil
}

func (s *stubStore) Name() string { return "stub" }

type countingCloser struct {
	io.Reader
	closed *int
}

func (c *countingCloser) Close() error {
	if c.closed != nil {
		*c.closed++
	}
	return nil
}

// stubDelegate counts invocations and returns a fixed result or error.
type stubDelegate struct {
	result interfaces.DelegateResult
	err    error
	calls  int
}

func (d *stubDelegate) ResolveObjectKey(context.Context, interfaces.Identifier, map[string]string) (interfaces.DelegateResult, error) {
	d.calls++
	if d.err != nil {
		return interfaces.DelegateResult{}, d.err
	}
	return d.result, nil
}

func directConfig(bucket string) *config.Config {
	return &config.Config{
		Store:  config.StoreConfig{Backend: config.BackendS3, Bucket: bucket},
		Lookup: config.LookupConfig{Strategy: config.StrategyDirect},
	}
}

func delegateConfig(bucket string) *config.Config {
	return &config.Config{
		Store:  config.StoreConfig{Backend: config.BackendS3, Bucket: bucket},
		Lookup: config.LookupConfig{Strategy: config.StrategyDelegate},
	}
}

func TestSource_NegativeCache(t *testing.T) {
	store := &stubStore{err: fmt.Errorf("%w: NoSuchKey", interfaces.ErrObjectNotFound)}
	factory := NewFactory(directConfig("media"), store, nil, testLogger())

	src, err := factory.SourceFor("missing.png", nil)
	require.NoError(t, err)

	ctx := context.Background()
	first := src.CheckAccess(ctx)
	require.ErrorIs(t, first, interfaces.ErrObjectNotFound)
	assert.Equal(t, 1, store.calls)

	// Every subsequent operation returns the same cached error without
	// touching storage again.
	assert.Equal(t, first, src.CheckAccess(ctx))

	_, err = src.Format(ctx)
	assert.Equal(t, first, err)

	_, err = src.OpenStream(ctx)
	assert.Equal(t, first, err)

	assert.Equal(t, 1, store.calls, "storage must be contacted exactly once per failed source")
}

func TestSource_NegativeCacheCoversResolution(t *testing.T) {
	store := &stubStore{content: "unused"}
	del := &stubDelegate{err: fmt.Errorf("%w: boom", interfaces.ErrDelegateUnavailable)}
	factory := NewFactory(delegateConfig("media"), store, del, testLogger())

	src, err := factory.SourceFor("cats.jpg", nil)
	require.NoError(t, err)

	ctx := context.Background()
	first := src.CheckAccess(ctx)
	require.ErrorIs(t, first, interfaces.ErrDelegateUnavailable)

	assert.Equal(t, first, src.CheckAccess(ctx))
	assert.Equal(t, 1, del.calls, "delegate failure must be cached, not retried")
	assert.Equal(t, 0, store.calls, "storage must not be contacted when resolution fails")
}

func TestSource_FormatPriority(t *testing.T) {
	tests := []struct {
		name        string
		identifier  interfaces.Identifier
		contentType string
		expected    media.Format
	}{
		{
			name:        "metadata wins over identifier extension",
			identifier:  "cats.png",
			contentType: "image/jpeg",
			expected:    media.JPG,
		},
		{
			name:        "identifier inference when metadata absent",
			identifier:  "cats.jpg",
			contentType: "",
			expected:    media.JPG,
		},
		{
			name:        "identifier inference when metadata unrecognized",
			identifier:  "cats.tif",
			contentType: "binary/octet-stream",
			expected:    media.TIF,
		},
		{
			name:        "unknown is a valid terminal outcome",
			identifier:  "blob",
			contentType: "",
			expected:    media.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{content: "bytes", contentType: tt.contentType}
			factory := NewFactory(directConfig("media"), store, nil, testLogger())

			src, err := factory.SourceFor(tt.identifier, nil)
			require.NoError(t, err)

			format, err := src.Format(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestSource_FormatFallsBackToResolvedKey(t *testing.T) {
	// The identifier carries no extension; the delegate-resolved key does.
	store := &stubStore{content: "bytes", contentType: ""}
	del := &stubDelegate{result: interfaces.DelegateKey("masters/scan-042.tif")}
	factory := NewFactory(delegateConfig("media"), store, del, testLogger())

	src, err := factory.SourceFor("scan-042", nil)
	require.NoError(t, err)

	format, err := src.Format(context.Background())
	require.NoError(t, err)
	assert.Equal(t, media.TIF, format)
}

func TestSource_FormatMemoized(t *testing.T) {
	closed := 0
	store := &stubStore{content: "bytes", contentType: "image/jpeg", closed: &closed}
	factory := NewFactory(directConfig("media"), store, nil, testLogger())

	src, err := factory.SourceFor("cats.jpg", nil)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		format, err := src.Format(ctx)
		require.NoError(t, err)
		assert.Equal(t, media.JPG, format)
	}

	assert.Equal(t, 1, store.calls, "format must be computed from a single fetch")
	assert.Equal(t, 1, closed, "the metadata fetch handle must be closed")
}

func TestSource_LocationResolvedOnce(t *testing.T) {
	store := &stubStore{content: "bytes", contentType: "image/jpeg"}
	del := &stubDelegate{result: interfaces.DelegateLocation("b2", "k2")}
	factory := NewFactory(delegateConfig("media"), store, del, testLogger())

	src, err := factory.SourceFor("cats.jpg", nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, src.CheckAccess(ctx))

	_, err = src.Format(ctx)
	require.NoError(t, err)

	cs, err := src.OpenStream(ctx)
	require.NoError(t, err)
	require.NoError(t, cs.Close())

	assert.Equal(t, 1, del.calls, "the delegate must be consulted at most once per source")
	assert.Equal(t, interfaces.ObjectLocation{Bucket: "b2", Key: "k2"}, store.lastLoc)
}

func TestSource_CheckAccessClosesHandle(t *testing.T) {
	closed := 0
	store := &stubStore{content: "bytes", closed: &closed}
	factory := NewFactory(directConfig("media"), store, nil, testLogger())

	src, err := factory.SourceFor("cats.jpg", nil)
	require.NoError(t, err)

	require.NoError(t, src.CheckAccess(context.Background()))
	assert.Equal(t, 1, closed)
}

func TestSource_OpenStream(t *testing.T) {
	closed := 0
	store := &stubStore{content: "jpeg bytes", contentType: "image/jpeg", closed: &closed}
	factory := NewFactory(directConfig("media"), store, nil, testLogger())

	src, err := factory.SourceFor("cats.jpg", nil)
	require.NoError(t, err)

	cs, err := src.OpenStream(context.Background())
	require.NoError(t, err)
	defer cs.Close()

	assert.Equal(t, "image/jpeg", cs.MediaType())
	assert.Equal(t, int64(10), cs.Size())

	data, err := io.ReadAll(cs.Open())
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestSource_StorageErrorKindsSurfaceUnchanged(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", fmt.Errorf("%w: NoSuchKey", interfaces.ErrObjectNotFound)},
		{"denied", fmt.Errorf("%w: AccessDenied", interfaces.ErrAccessDenied)},
		{"io", fmt.Errorf("%w: connection reset", interfaces.ErrStorageIO)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{err: tt.err}
			factory := NewFactory(directConfig("media"), store, nil, testLogger())

			src, err := factory.SourceFor("cats.jpg", nil)
			require.NoError(t, err)

			assert.ErrorIs(t, src.CheckAccess(context.Background()), errors.Unwrap(tt.err))
		})
	}
}
