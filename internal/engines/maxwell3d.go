package engines

const maxwell3DRegCount = 0xE00

// Maxwell3D is the 3D graphics engine. The front end forwards register
// writes and hands completed macro uploads to it; macro programs are
// stored verbatim, never interpreted here.
type Maxwell3D struct {
	regs   [maxwell3DRegCount]uint32
	macros map[uint32][]uint32
}

func NewMaxwell3D() *Maxwell3D {
	return &Maxwell3D{macros: make(map[uint32][]uint32)}
}

func (e *Maxwell3D) WriteReg(method, value, remaining uint32) {
	if method >= maxwell3DRegCount {
		log.Warningf("Maxwell3D write to unknown method %04X value %08X", method, value)
		return
	}
	e.regs[method] = value
}

// SubmitMacroCode stores an uploaded macro program under its slot
// index, taking ownership of code. A later upload to the same slot
// replaces the previous program.
func (e *Maxwell3D) SubmitMacroCode(entry uint32, code []uint32) {
	log.Debugf("Maxwell3D macro %08X uploaded, %d words", entry, len(code))
	e.macros[entry] = code
}

// Reg returns the current value of a register (zero for out-of-range
// methods).
func (e *Maxwell3D) Reg(method uint32) uint32 {
	if method >= maxwell3DRegCount {
		return 0
	}
	return e.regs[method]
}

// Macro returns the stored program for a slot, if any.
func (e *Maxwell3D) Macro(entry uint32) ([]uint32, bool) {
	code, ok := e.macros[entry]
	return code, ok
}

// MacroCount returns the number of stored macro programs.
func (e *Maxwell3D) MacroCount() int { return len(e.macros) }
