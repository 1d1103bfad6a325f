package gpu

import "errors"

// Fatal protocol errors. Each one means the emulated command stream
// has diverged from what the guest expects; processing must stop
// immediately and the remaining words of the stream are not trusted.
var (
	ErrSubchannelRebound     = errors.New("gpu: BindObject on an already bound subchannel")
	ErrSubchannelUnbound     = errors.New("gpu: register write to an unbound subchannel")
	ErrUnimplementedEngine   = errors.New("gpu: bound engine has no emulated handler")
	ErrUnknownSubmissionMode = errors.New("gpu: unknown submission mode")
	ErrMalformedHeader       = errors.New("gpu: malformed command header")
)
