package engines

const computeRegCount = 0xCF8

// MaxwellCompute is the compute engine; register storage only.
type MaxwellCompute struct {
	regs [computeRegCount]uint32
}

func NewMaxwellCompute() *MaxwellCompute {
	return &MaxwellCompute{}
}

func (e *MaxwellCompute) WriteReg(method, value, remaining uint32) {
	if method >= computeRegCount {
		log.Warningf("MaxwellCompute write to unknown method %04X value %08X", method, value)
		return
	}
	e.regs[method] = value
}

// Reg returns the current value of a register (zero for out-of-range
// methods).
func (e *MaxwellCompute) Reg(method uint32) uint32 {
	if method >= computeRegCount {
		return 0
	}
	return e.regs[method]
}
