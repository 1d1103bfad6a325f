// Package trace defines the capture format for recorded command
// streams: the guest memory blocks a capture touched plus the ordered
// command-list submissions the guest made.
package trace

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// FormatVersion is bumped on incompatible changes to the capture
// layout.
const FormatVersion = 1

// cbor encoding uses canonical mode for deterministic output.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MemoryBlock is a chunk of guest memory preloaded before replay.
// Address is a GPU address; the session maps it into backing RAM.
type MemoryBlock struct {
	Address uint64 `cbor:"address"`
	Data    []byte `cbor:"data"`
}

// Submission is one guest ProcessCommandList call.
type Submission struct {
	Address   uint64 `cbor:"address"`
	WordCount uint32 `cbor:"words"`
}

// Trace is a replayable command-stream capture.
type Trace struct {
	Version     int           `cbor:"version"`
	Blocks      []MemoryBlock `cbor:"blocks"`
	Submissions []Submission  `cbor:"submissions"`
}

// New returns an empty trace at the current format version.
func New() *Trace {
	return &Trace{Version: FormatVersion}
}

// AddBlock records a guest memory block.
func (t *Trace) AddBlock(address uint64, data []byte) {
	t.Blocks = append(t.Blocks, MemoryBlock{Address: address, Data: data})
}

// AddWords records a guest memory block given as 32-bit words
// (little-endian in memory).
func (t *Trace) AddWords(address uint64, words []uint32) {
	data := make([]byte, len(words)*4)
	for i, w := range words {
		data[i*4+0] = byte(w)
		data[i*4+1] = byte(w >> 8)
		data[i*4+2] = byte(w >> 16)
		data[i*4+3] = byte(w >> 24)
	}
	t.AddBlock(address, data)
}

// AddSubmission records a command-list submission.
func (t *Trace) AddSubmission(address uint64, wordCount uint32) {
	t.Submissions = append(t.Submissions, Submission{Address: address, WordCount: wordCount})
}

// Marshal serializes a trace to CBOR bytes.
func Marshal(t *Trace) ([]byte, error) {
	return cborEncMode.Marshal(t)
}

// Unmarshal deserializes a trace from CBOR bytes and checks the format
// version.
func Unmarshal(data []byte) (*Trace, error) {
	var t Trace
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("trace: unmarshal: %w", err)
	}
	if t.Version != FormatVersion {
		return nil, fmt.Errorf("trace: unsupported format version %d (want %d)", t.Version, FormatVersion)
	}
	return &t, nil
}

// Load reads a trace file from disk.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trace: read %s: %w", path, err)
	}
	return Unmarshal(data)
}

// Save writes a trace file to disk.
func Save(path string, t *Trace) error {
	data, err := Marshal(t)
	if err != nil {
		return fmt.Errorf("trace: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
