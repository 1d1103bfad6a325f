// Package session wires the memory manager, the emulated engines and
// the GPU front end into one replayable GPU session.
package session

import (
	"fmt"

	"github.com/nxemu/videocore/internal/engines"
	"github.com/nxemu/videocore/internal/gpu"
	"github.com/nxemu/videocore/internal/memory"
	"github.com/nxemu/videocore/internal/trace"
)

// Config contains settings that affect session construction.
type Config struct {
	RAMSize       uint64 // backing RAM for guest memory blocks
	SurfaceWidth  int    // Fermi2D render target
	SurfaceHeight int
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.RAMSize == 0 {
		c.RAMSize = 16 * 1024 * 1024
	}
	if c.SurfaceWidth <= 0 {
		c.SurfaceWidth = 320
	}
	if c.SurfaceHeight <= 0 {
		c.SurfaceHeight = 240
	}
}

// Session owns one GPU front end together with its collaborators. All
// state lives in memory for the session's lifetime; access must be
// serialized by the caller.
type Session struct {
	cfg Config

	mem     *memory.Manager
	fermi2D *engines.Fermi2D
	threeD  *engines.Maxwell3D
	compute *engines.MaxwellCompute
	gpu     *gpu.GPU

	ramCursor uint64 // next free offset for trace block mapping
}

func New(cfg Config) *Session {
	cfg.Defaults()
	s := &Session{
		cfg:     cfg,
		mem:     memory.NewManager(cfg.RAMSize),
		fermi2D: engines.NewFermi2D(cfg.SurfaceWidth, cfg.SurfaceHeight),
		threeD:  engines.NewMaxwell3D(),
		compute: engines.NewMaxwellCompute(),
	}
	s.gpu = gpu.New(s.mem, s.fermi2D, s.threeD, s.compute)
	return s
}

// LoadTrace maps every memory block of a capture into backing RAM.
func (s *Session) LoadTrace(t *trace.Trace) error {
	for _, b := range t.Blocks {
		if err := s.LoadBlock(b.Address, b.Data); err != nil {
			return err
		}
	}
	return nil
}

// LoadBlock places guest data at a GPU address, allocating backing RAM
// behind it.
func (s *Session) LoadBlock(address uint64, data []byte) error {
	size := uint64(len(data))
	if s.ramCursor+size > s.mem.Size() {
		return fmt.Errorf("session: out of backing RAM loading block at %08X", address)
	}
	if err := s.mem.Map(address, s.ramCursor, size); err != nil {
		return err
	}
	s.mem.WriteBlock(s.ramCursor, data)
	// keep blocks word-aligned
	s.ramCursor += (size + 3) &^ 3
	return nil
}

// RunTrace loads a capture and replays its submissions in order,
// stopping at the first fatal protocol error.
func (s *Session) RunTrace(t *trace.Trace) error {
	if err := s.LoadTrace(t); err != nil {
		return err
	}
	for i, sub := range t.Submissions {
		if err := s.Submit(sub.Address, sub.WordCount); err != nil {
			return fmt.Errorf("submission %d: %w", i, err)
		}
	}
	return nil
}

// Submit processes one command list, mirroring the guest-facing entry
// point.
func (s *Session) Submit(address uint64, wordCount uint32) error {
	return s.gpu.ProcessCommandList(address, wordCount)
}

// WriteRegister injects a single register write, bypassing the
// decoder.
func (s *Session) WriteRegister(method, subchannel, value, remaining uint32) error {
	return s.gpu.WriteReg(method, subchannel, value, remaining)
}

// Surface returns the Fermi2D render target as RGBA bytes.
func (s *Session) Surface() []byte { return s.fermi2D.Surface() }

// SurfaceSize returns the Fermi2D render target dimensions.
func (s *Session) SurfaceSize() (w, h int) { return s.fermi2D.SurfaceSize() }

// Fermi2D returns the 2D engine.
func (s *Session) Fermi2D() *engines.Fermi2D { return s.fermi2D }

// Maxwell3D returns the 3D engine.
func (s *Session) Maxwell3D() *engines.Maxwell3D { return s.threeD }

// MaxwellCompute returns the compute engine.
func (s *Session) MaxwellCompute() *engines.MaxwellCompute { return s.compute }

// GPU returns the command-stream front end.
func (s *Session) GPU() *gpu.GPU { return s.gpu }
