package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxemu/videocore/internal/engines"
	"github.com/nxemu/videocore/internal/gpu"
	"github.com/nxemu/videocore/internal/trace"
)

func TestSession_ReplayBlitTrace(t *testing.T) {
	s := New(Config{SurfaceWidth: 16, SurfaceHeight: 16})

	words := []uint32{
		// bind subchannel 0 to the 2D engine
		gpu.EncodeHeader(uint32(gpu.MethodBindObject), 0, 1, gpu.ModeIncreasing),
		uint32(gpu.EngineFermi2D),
		// color + rect registers in one increasing burst
		gpu.EncodeHeader(engines.RegFillColor, 0, 5, gpu.ModeIncreasing),
		0x00FF00FF, // green
		1,          // x
		2,          // y
		3,          // w
		4,          // h
		// launch the fill
		gpu.EncodeHeader(engines.RegBlitTrigger, 0, 1, gpu.ModeIncreasing),
		1,
	}

	tr := trace.New()
	tr.AddWords(0x40000, words)
	tr.AddSubmission(0x40000, uint32(len(words)))

	require.NoError(t, s.RunTrace(tr))

	surf := s.Surface()
	inside := (2*16 + 1) * 4
	assert.Equal(t, byte(0x00), surf[inside+0])
	assert.Equal(t, byte(0xFF), surf[inside+1], "green channel")
	outside := (0*16 + 0) * 4
	assert.Equal(t, byte(0x00), surf[outside+1])
}

func TestSession_ReplayMacroUpload(t *testing.T) {
	s := New(Config{})

	words := []uint32{
		gpu.EncodeHeader(uint32(gpu.MethodSetGraphMacroEntry), 0, 1, gpu.ModeIncreasing),
		9,
		gpu.EncodeHeader(uint32(gpu.MethodSetGraphMacroCodeArg), 0, 3, gpu.ModeNonIncreasing),
		0x111, 0x222, 0x333,
	}
	tr := trace.New()
	tr.AddWords(0x1000, words)
	tr.AddSubmission(0x1000, uint32(len(words)))

	require.NoError(t, s.RunTrace(tr))

	code, ok := s.Maxwell3D().Macro(9)
	require.True(t, ok, "macro 9 not stored")
	assert.Equal(t, []uint32{0x111, 0x222, 0x333}, code)
	assert.False(t, s.GPU().MacroUploadActive())
}

func TestSession_FatalErrorStopsReplay(t *testing.T) {
	s := New(Config{})

	bad := []uint32{
		// write without a bind
		gpu.EncodeHeader(0x200, 2, 1, gpu.ModeIncreasing),
		0xAB,
	}
	good := []uint32{
		gpu.EncodeHeader(uint32(gpu.MethodBindObject), 0, 1, gpu.ModeIncreasing),
		uint32(gpu.EngineMaxwell3D),
	}
	tr := trace.New()
	tr.AddWords(0x1000, bad)
	tr.AddWords(0x2000, good)
	tr.AddSubmission(0x1000, uint32(len(bad)))
	tr.AddSubmission(0x2000, uint32(len(good)))

	err := s.RunTrace(tr)
	require.ErrorIs(t, err, gpu.ErrSubchannelUnbound)
	// the second submission never ran
	_, bound := s.GPU().BoundEngine(0)
	assert.False(t, bound)
}

func TestSession_LoadBlockOutOfRAM(t *testing.T) {
	s := New(Config{RAMSize: 0x100})
	err := s.LoadBlock(0x1000, make([]byte, 0x200))
	assert.ErrorContains(t, err, "out of backing RAM")
}

func TestSession_SeparateSessionsAreIsolated(t *testing.T) {
	a := New(Config{})
	b := New(Config{})
	require.NoError(t, a.WriteRegister(uint32(gpu.MethodBindObject), 0, uint32(gpu.EngineFermi2D), 0))
	_, bound := b.GPU().BoundEngine(0)
	assert.False(t, bound, "binding leaked across sessions")
}
