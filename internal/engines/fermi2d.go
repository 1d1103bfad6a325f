// Package engines holds the emulated engines reachable through GPU
// subchannels. Each engine owns a private register file; behavior
// beyond register storage is kept to the minimum needed to make
// replays observable.
package engines

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("videocore.engines")

// Fermi2D register map (13-bit method space, registers below 0x100 are
// unreachable through the command stream).
const (
	fermi2DRegCount = 0x258

	RegSurfaceWidth  = 0x120
	RegSurfaceHeight = 0x121
	RegFillColor     = 0x140 // RGBA8888
	RegBlitDstX      = 0x141
	RegBlitDstY      = 0x142
	RegBlitWidth     = 0x143
	RegBlitHeight    = 0x144
	RegBlitTrigger   = 0x145 // any write launches the fill
)

const maxSurfaceDim = 4096

// Fermi2D is the 2D blit engine. It renders solid fills into a
// software RGBA surface.
type Fermi2D struct {
	regs    [fermi2DRegCount]uint32
	surface []byte // RGBA, width*height*4
	w, h    int
}

func NewFermi2D(width, height int) *Fermi2D {
	e := &Fermi2D{}
	e.resize(width, height)
	e.regs[RegSurfaceWidth] = uint32(width)
	e.regs[RegSurfaceHeight] = uint32(height)
	return e
}

func (e *Fermi2D) WriteReg(method, value, remaining uint32) {
	if method >= fermi2DRegCount {
		log.Warningf("Fermi2D write to unknown method %04X value %08X", method, value)
		return
	}
	e.regs[method] = value

	switch method {
	case RegSurfaceWidth, RegSurfaceHeight:
		e.resize(int(e.regs[RegSurfaceWidth]), int(e.regs[RegSurfaceHeight]))
	case RegBlitTrigger:
		e.fillRect()
	}
}

// Reg returns the current value of a register (zero for out-of-range
// methods).
func (e *Fermi2D) Reg(method uint32) uint32 {
	if method >= fermi2DRegCount {
		return 0
	}
	return e.regs[method]
}

// Surface returns the render target as RGBA bytes, row-major.
func (e *Fermi2D) Surface() []byte { return e.surface }

// SurfaceSize returns the render target dimensions.
func (e *Fermi2D) SurfaceSize() (w, h int) { return e.w, e.h }

func (e *Fermi2D) resize(w, h int) {
	if w <= 0 || h <= 0 || w > maxSurfaceDim || h > maxSurfaceDim {
		log.Warningf("Fermi2D surface size %dx%d ignored", w, h)
		return
	}
	e.w, e.h = w, h
	e.surface = make([]byte, w*h*4)
}

// fillRect paints the configured rectangle with the fill color,
// clamped to the surface.
func (e *Fermi2D) fillRect() {
	x0 := int(e.regs[RegBlitDstX])
	y0 := int(e.regs[RegBlitDstY])
	x1 := x0 + int(e.regs[RegBlitWidth])
	y1 := y0 + int(e.regs[RegBlitHeight])
	if x1 > e.w {
		x1 = e.w
	}
	if y1 > e.h {
		y1 = e.h
	}

	c := e.regs[RegFillColor]
	r, g, b, a := byte(c>>24), byte(c>>16), byte(c>>8), byte(c)
	for y := y0; y < y1; y++ {
		row := y * e.w * 4
		for x := x0; x < x1; x++ {
			i := row + x*4
			e.surface[i+0] = r
			e.surface[i+1] = g
			e.surface[i+2] = b
			e.surface[i+3] = a
		}
	}
}
