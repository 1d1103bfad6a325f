package trace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_MarshalRoundTrip(t *testing.T) {
	tr := New()
	tr.AddWords(0x1000, []uint32{0x20010200, 0x11, 0x22})
	tr.AddBlock(0x8000, []byte{0xDE, 0xAD})
	tr.AddSubmission(0x1000, 3)

	data, err := Marshal(tr)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, got.Version)
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, uint64(0x1000), got.Blocks[0].Address)
	// words are stored little-endian
	assert.Equal(t, []byte{0x00, 0x02, 0x01, 0x20, 0x11, 0, 0, 0, 0x22, 0, 0, 0}, got.Blocks[0].Data)
	require.Len(t, got.Submissions, 1)
	assert.Equal(t, uint32(3), got.Submissions[0].WordCount)
}

func TestTrace_MarshalIsDeterministic(t *testing.T) {
	tr := New()
	tr.AddWords(0x1000, []uint32{1, 2, 3})
	tr.AddSubmission(0x1000, 3)

	a, err := Marshal(tr)
	require.NoError(t, err)
	b, err := Marshal(tr)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTrace_UnmarshalRejectsBadVersion(t *testing.T) {
	tr := New()
	tr.Version = FormatVersion + 1
	data, err := Marshal(tr)
	require.NoError(t, err)

	_, err = Unmarshal(data)
	assert.ErrorContains(t, err, "unsupported format version")
}

func TestTrace_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.vctrace")
	tr := New()
	tr.AddWords(0x2000, []uint32{0xAA})
	tr.AddSubmission(0x2000, 1)
	require.NoError(t, Save(path, tr))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tr.Submissions, got.Submissions)
	assert.Equal(t, tr.Blocks, got.Blocks)
}

func TestTrace_LoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.vctrace"))
	assert.Error(t, err)
}
