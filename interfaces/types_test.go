package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDelegateResult_Location(t *testing.T) {
	tests := []struct {
		name          string
		result        DelegateResult
		defaultBucket string
		expected      ObjectLocation
	}{
		{
			name:          "bare key uses default bucket",
			result:        DelegateKey("images/cats.jpg"),
			defaultBucket: "media",
			expected:      ObjectLocation{Bucket: "media", Key: "images/cats.jpg"},
		},
		{
			name:          "location overrides default bucket",
			result:        DelegateLocation("b2", "k2"),
			defaultBucket: "media",
			expected:      ObjectLocation{Bucket: "b2", Key: "k2"},
		},
		{
			name:          "absent yields zero location",
			result:        DelegateAbsent(),
			defaultBucket: "media",
			expected:      ObjectLocation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.Location(tt.defaultBucket))
		})
	}
}

func TestDelegateResult_Absent(t *testing.T) {
	assert.True(t, DelegateAbsent().Absent())
	assert.False(t, DelegateKey("k").Absent())
	assert.False(t, DelegateLocation("b", "k").Absent())
}

func TestObjectHandle_CloseWithoutBody(t *testing.T) {
	h := &ObjectHandle{}
	assert.NoError(t, h.Close())
}
