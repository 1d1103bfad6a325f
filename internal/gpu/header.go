package gpu

// SubmissionMode selects how the argument words following a command
// header map onto method addresses.
type SubmissionMode uint32

const (
	ModeIncreasingOld    SubmissionMode = 0
	ModeIncreasing       SubmissionMode = 1
	ModeNonIncreasingOld SubmissionMode = 2
	ModeNonIncreasing    SubmissionMode = 3
	ModeInline           SubmissionMode = 4
	ModeIncreaseOnce     SubmissionMode = 5
)

func (m SubmissionMode) String() string {
	switch m {
	case ModeIncreasingOld:
		return "IncreasingOld"
	case ModeIncreasing:
		return "Increasing"
	case ModeNonIncreasingOld:
		return "NonIncreasingOld"
	case ModeNonIncreasing:
		return "NonIncreasing"
	case ModeInline:
		return "Inline"
	case ModeIncreaseOnce:
		return "IncreaseOnce"
	default:
		return "Unknown"
	}
}

// CommandHeader is one decoded pushbuffer header word.
type CommandHeader struct {
	Method     uint32         // bits 0-12
	Subchannel uint32         // bits 13-15
	ArgCount   uint32         // bits 16-28
	InlineData uint32         // bits 16-28 (Inline mode only)
	Mode       SubmissionMode // bits 29-31
}

// DecodeHeader unpacks a raw 32-bit header word.
func DecodeHeader(word uint32) CommandHeader {
	return CommandHeader{
		Method:     word & 0x1FFF,
		Subchannel: (word >> 13) & 0x7,
		ArgCount:   (word >> 16) & 0x1FFF,
		InlineData: (word >> 16) & 0x1FFF,
		Mode:       SubmissionMode((word >> 29) & 0x7),
	}
}

// EncodeHeader packs header fields back into a raw word. Inline data
// shares the arg-count bits, so pass it as argCount for Inline mode.
func EncodeHeader(method, subchannel, argCount uint32, mode SubmissionMode) uint32 {
	return (method & 0x1FFF) |
		(subchannel&0x7)<<13 |
		(argCount&0x1FFF)<<16 |
		uint32(mode&0x7)<<29
}
