package source

import (
	"context"
	"fmt"
	"testing"

	"github.com/pixfeed/imgsource/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectResolver(t *testing.T) {
	r := DirectResolver{Bucket: "media"}

	loc, err := r.ResolveLocation(context.Background(), "images/cats.jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ObjectLocation{Bucket: "media", Key: "images/cats.jpg"}, loc)

	// Deterministic: the same identifier always yields the same location.
	again, err := r.ResolveLocation(context.Background(), "images/cats.jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, loc, again)
}

func TestDelegateResolver(t *testing.T) {
	tests := []struct {
		name     string
		delegate *stubDelegate
		expected interfaces.ObjectLocation
		wantErr  error
	}{
		{
			name:     "bare key keeps default bucket",
			delegate: &stubDelegate{result: interfaces.DelegateKey("k1")},
			expected: interfaces.ObjectLocation{Bucket: "media", Key: "k1"},
		},
		{
			name:     "location overrides bucket",
			delegate: &stubDelegate{result: interfaces.DelegateLocation("b2", "k2")},
			expected: interfaces.ObjectLocation{Bucket: "b2", Key: "k2"},
		},
		{
			name:     "absent result is authoritative not-found",
			delegate: &stubDelegate{result: interfaces.DelegateAbsent()},
			wantErr:  interfaces.ErrObjectNotFound,
		},
		{
			name:     "delegate failure propagates",
			delegate: &stubDelegate{err: fmt.Errorf("%w: down", interfaces.ErrDelegateUnavailable)},
			wantErr:  interfaces.ErrDelegateUnavailable,
		},
		{
			name:     "invalid result propagates",
			delegate: &stubDelegate{err: fmt.Errorf("%w: bad shape", interfaces.ErrInvalidDelegateResult)},
			wantErr:  interfaces.ErrInvalidDelegateResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DelegateResolver{Bucket: "media", Client: tt.delegate, Log: testLogger()}

			loc, err := r.ResolveLocation(context.Background(), "cats.jpg", nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, loc)
		})
	}
}
