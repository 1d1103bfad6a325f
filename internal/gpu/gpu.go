// Package gpu implements the command-stream front end: it walks guest
// pushbuffers, expands command headers into register writes, and
// dispatches those writes to the engine bound to each subchannel.
package gpu

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("videocore.gpu")

// Memory provides translated access to guest command memory.
// TranslateAddress is called once per submitted command list; ReadWord
// once per consumed word.
type Memory interface {
	TranslateAddress(addr uint64) uint64
	ReadWord(addr uint64) uint32
}

// Engine is the register-write entry point of an emulated engine.
type Engine interface {
	WriteReg(method, value, remaining uint32)
}

// MacroEngine is an engine that additionally accepts uploaded macro
// programs (the 3D engine).
type MacroEngine interface {
	Engine
	SubmitMacroCode(entry uint32, code []uint32)
}

// invalidMacroEntry marks that no macro upload is in progress.
const invalidMacroEntry = 0xFFFFFFFF

// GPU owns the per-session command processing state: the subchannel
// binding table and the in-progress macro upload buffer. It is not
// safe for concurrent use; the owning session must serialize calls.
type GPU struct {
	mem Memory

	fermi2D        Engine
	maxwell3D      MacroEngine
	maxwellCompute Engine

	boundEngines map[uint32]EngineID

	currentMacroEntry uint32
	currentMacroCode  []uint32
}

// New wires a GPU front end to its collaborators. maxwell3D receives
// completed macro uploads in addition to register writes.
func New(mem Memory, fermi2D Engine, maxwell3D MacroEngine, maxwellCompute Engine) *GPU {
	return &GPU{
		mem:               mem,
		fermi2D:           fermi2D,
		maxwell3D:         maxwell3D,
		maxwellCompute:    maxwellCompute,
		boundEngines:      make(map[uint32]EngineID),
		currentMacroEntry: invalidMacroEntry,
	}
}

// WriteReg processes a single register write. Control methods (below
// MethodCount) are handled here; everything else is forwarded to the
// engine bound to the subchannel. remaining is the number of argument
// words still to come from the same header; the macro upload protocol
// uses remaining==0 to detect the final code word.
func (g *GPU) WriteReg(method, subchannel, value, remaining uint32) error {
	log.Debugf("method %04X subchannel %d value %08X remaining %d",
		method, subchannel, value, remaining)

	switch BufferMethod(method) {
	case MethodSetGraphMacroEntry:
		// Start a new upload; any partially accumulated code is discarded.
		log.Debugf("uploading GPU macro %08X", value)
		g.currentMacroEntry = value
		g.currentMacroCode = g.currentMacroCode[:0]
		return nil

	case MethodSetGraphMacroCodeArg:
		g.currentMacroCode = append(g.currentMacroCode, value)
		if remaining == 0 {
			code := make([]uint32, len(g.currentMacroCode))
			copy(code, g.currentMacroCode)
			g.maxwell3D.SubmitMacroCode(g.currentMacroEntry, code)
			g.currentMacroEntry = invalidMacroEntry
			g.currentMacroCode = g.currentMacroCode[:0]
		}
		return nil

	case MethodBindObject:
		log.Debugf("binding subchannel %d to engine %04X", subchannel, value)
		if id, ok := g.boundEngines[subchannel]; ok {
			return fmt.Errorf("%w: subchannel %d already bound to %s",
				ErrSubchannelRebound, subchannel, id)
		}
		g.boundEngines[subchannel] = EngineID(value)
		return nil
	}

	if method < uint32(MethodCount) {
		// Reserved control method without a handler; ignored.
		log.Warningf("unimplemented buffer method %04X value %08X", method, value)
		return nil
	}

	id, ok := g.boundEngines[subchannel]
	if !ok {
		return fmt.Errorf("%w: subchannel %d method %04X",
			ErrSubchannelUnbound, subchannel, method)
	}

	switch id {
	case EngineFermi2D:
		g.fermi2D.WriteReg(method, value, remaining)
	case EngineMaxwell3D:
		g.maxwell3D.WriteReg(method, value, remaining)
	case EngineMaxwellCompute:
		g.maxwellCompute.WriteReg(method, value, remaining)
	default:
		return fmt.Errorf("%w: %s (%04X) on subchannel %d",
			ErrUnimplementedEngine, id, uint32(id), subchannel)
	}
	return nil
}

// ProcessCommandList walks size words of the command buffer at addr,
// expanding each header into register writes. It stops at the first
// fatal error without consuming further words.
func (g *GPU) ProcessCommandList(addr uint64, size uint32) error {
	head := g.mem.TranslateAddress(addr)
	end := head + uint64(size)*4

	for cur := head; cur < end; {
		header := DecodeHeader(g.mem.ReadWord(cur))
		cur += 4

		switch header.Mode {
		case ModeIncreasingOld, ModeIncreasing:
			// Increase the method value with each argument.
			for i := uint32(0); i < header.ArgCount; i++ {
				err := g.WriteReg(header.Method+i, header.Subchannel,
					g.mem.ReadWord(cur), header.ArgCount-i-1)
				if err != nil {
					return err
				}
				cur += 4
			}

		case ModeNonIncreasingOld, ModeNonIncreasing:
			// Same method value for every argument.
			for i := uint32(0); i < header.ArgCount; i++ {
				err := g.WriteReg(header.Method, header.Subchannel,
					g.mem.ReadWord(cur), header.ArgCount-i-1)
				if err != nil {
					return err
				}
				cur += 4
			}

		case ModeIncreaseOnce:
			if header.ArgCount < 1 {
				return fmt.Errorf("%w: IncreaseOnce with no arguments (method %04X)",
					ErrMalformedHeader, header.Method)
			}
			// First argument goes to the original method, the rest to
			// method+1.
			err := g.WriteReg(header.Method, header.Subchannel,
				g.mem.ReadWord(cur), header.ArgCount-1)
			if err != nil {
				return err
			}
			cur += 4
			for i := uint32(1); i < header.ArgCount; i++ {
				err := g.WriteReg(header.Method+1, header.Subchannel,
					g.mem.ReadWord(cur), header.ArgCount-i-1)
				if err != nil {
					return err
				}
				cur += 4
			}

		case ModeInline:
			// Value is embedded in the header word; no argument words.
			err := g.WriteReg(header.Method, header.Subchannel, header.InlineData, 0)
			if err != nil {
				return err
			}

		default:
			return fmt.Errorf("%w: %d", ErrUnknownSubmissionMode, uint32(header.Mode))
		}
	}
	return nil
}

// BoundEngine reports the engine currently bound to a subchannel.
func (g *GPU) BoundEngine(subchannel uint32) (EngineID, bool) {
	id, ok := g.boundEngines[subchannel]
	return id, ok
}

// MacroUploadActive reports whether a macro upload is in progress.
func (g *GPU) MacroUploadActive() bool {
	return g.currentMacroEntry != invalidMacroEntry
}
