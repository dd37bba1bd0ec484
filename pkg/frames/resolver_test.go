package frames

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramePadded(t *testing.T) {
	tests := []struct {
		number int
		width  int
		want   string
	}{
		{0, 4, "0000"},
		{7, 4, "0007"},
		{123, 4, "0123"},
		{12345, 4, "12345"},
		{42, 6, "000042"},
	}

	for _, tt := range tests {
		frame := Frame{Number: tt.number}
		assert.Equal(t, tt.want, frame.Padded(tt.width))
	}
}

func TestFrameExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame_0001.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0644))

	assert.True(t, Frame{Number: 1, Path: path}.Exists())
	assert.False(t, Frame{Number: 2, Path: filepath.Join(dir, "frame_0002.jpg")}.Exists())

	// A directory with a frame-shaped name is not a frame
	assert.False(t, Frame{Path: dir}.Exists())
}

func TestNewResolverDefaults(t *testing.T) {
	r := NewResolver("/frames", "", 0, "")

	assert.Equal(t, "frame_", r.Prefix)
	assert.Equal(t, 4, r.PadWidth)
	assert.Equal(t, "jpg", r.Ext)
}

func TestResolverPath(t *testing.T) {
	r := NewResolver("/movie/frames", "frame_", 4, "jpg")

	assert.Equal(t, filepath.Join("/movie/frames", "frame_0100.jpg"), r.Path(100))
	assert.Equal(t, filepath.Join("/movie/frames", "frame_0000.jpg"), r.Path(0))
	assert.Equal(t, filepath.Join("/movie/frames", "frame_99999.jpg"), r.Path(99999))
}

func TestResolverPathCustomNaming(t *testing.T) {
	r := NewResolver("/f", "img-", 6, "png")

	assert.Equal(t, filepath.Join("/f", "img-000042.png"), r.Path(42))
}

func TestResolve(t *testing.T) {
	r := NewResolver("/frames", "frame_", 4, "jpg")

	sequence, err := r.Resolve(100, 5)

	require.NoError(t, err)
	require.Len(t, sequence, 5)
	assert.Equal(t, 100, sequence[0].Number)
	assert.Equal(t, 104, sequence[4].Number)
	assert.Equal(t, r.Path(102), sequence[2].Path)
}

func TestResolveDoesNotTouchDisk(t *testing.T) {
	// The sequence is derived arithmetically; nothing needs to exist
	r := NewResolver("/does/not/exist", "frame_", 4, "jpg")

	sequence, err := r.Resolve(0, 3)

	require.NoError(t, err)
	assert.Len(t, sequence, 3)
}

func TestResolveInvalidArguments(t *testing.T) {
	r := NewResolver("/frames", "frame_", 4, "jpg")

	_, err := r.Resolve(-1, 5)
	assert.Error(t, err)

	_, err = r.Resolve(100, 0)
	assert.Error(t, err)

	_, err = r.Resolve(100, -5)
	assert.Error(t, err)
}
