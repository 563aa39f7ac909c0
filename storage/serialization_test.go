package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektoria/imgest/core"
)

func TestCheckpointRoundTrip(t *testing.T) {
	original := &core.Checkpoint{
		Dataset:   "flickr8k:a1b2c3",
		NextIndex: 4217,
		UpdatedAt: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
	}

	data := MarshalCheckpoint(original)
	require.NotEmpty(t, data)

	restored, err := UnmarshalCheckpoint(data)
	require.NoError(t, err)
	assert.Equal(t, original.Dataset, restored.Dataset)
	assert.Equal(t, original.NextIndex, restored.NextIndex)
	assert.True(t, original.UpdatedAt.Equal(restored.UpdatedAt))
}

func TestCheckpointRoundTripZeroValues(t *testing.T) {
	original := &core.Checkpoint{UpdatedAt: time.UnixMicro(0).UTC()}

	restored, err := UnmarshalCheckpoint(MarshalCheckpoint(original))
	require.NoError(t, err)
	assert.Equal(t, "", restored.Dataset)
	assert.Equal(t, 0, restored.NextIndex)
}

func TestUnmarshalCheckpointTruncated(t *testing.T) {
	cp := &core.Checkpoint{Dataset: "flickr30k:deadbeef", NextIndex: 10, UpdatedAt: time.Now()}
	data := MarshalCheckpoint(cp)

	_, err := UnmarshalCheckpoint(data[:2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
