package gpu

// BufferMethod addresses below MethodCount are session control methods
// handled by the dispatcher itself and never forwarded to an engine.
type BufferMethod uint32

const (
	MethodBindObject           BufferMethod = 0x00
	MethodSetGraphMacroCode    BufferMethod = 0x45
	MethodSetGraphMacroCodeArg BufferMethod = 0x46
	MethodSetGraphMacroEntry   BufferMethod = 0x47
	MethodCount                BufferMethod = 0x100
)

// EngineID identifies an emulated engine class. The values are the
// class IDs guests pass to BindObject.
type EngineID uint32

const (
	EngineFermi2D              EngineID = 0x902D
	EngineKeplerInlineToMemory EngineID = 0xA140
	EngineMaxwellDMA           EngineID = 0xB0B5
	EngineMaxwell3D            EngineID = 0xB197
	EngineMaxwellCompute       EngineID = 0xB1C0
)

func (e EngineID) String() string {
	switch e {
	case EngineFermi2D:
		return "Fermi2D"
	case EngineKeplerInlineToMemory:
		return "KeplerInlineToMemory"
	case EngineMaxwellDMA:
		return "MaxwellDMA"
	case EngineMaxwell3D:
		return "Maxwell3D"
	case EngineMaxwellCompute:
		return "MaxwellCompute"
	default:
		return "Unknown"
	}
}
