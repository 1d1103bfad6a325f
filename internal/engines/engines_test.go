package engines

import "testing"

func TestFermi2D_FillRect(t *testing.T) {
	e := NewFermi2D(8, 8)
	e.WriteReg(RegFillColor, 0xFF000080, 0) // red, half alpha
	e.WriteReg(RegBlitDstX, 2, 0)
	e.WriteReg(RegBlitDstY, 3, 0)
	e.WriteReg(RegBlitWidth, 4, 0)
	e.WriteReg(RegBlitHeight, 2, 0)
	e.WriteReg(RegBlitTrigger, 1, 0)

	s := e.Surface()
	at := func(x, y int) [4]byte {
		i := (y*8 + x) * 4
		return [4]byte{s[i], s[i+1], s[i+2], s[i+3]}
	}
	if got := at(2, 3); got != [4]byte{0xFF, 0, 0, 0x80} {
		t.Fatalf("inside pixel got %v want red", got)
	}
	if got := at(5, 4); got != [4]byte{0xFF, 0, 0, 0x80} {
		t.Fatalf("inside pixel got %v want red", got)
	}
	if got := at(1, 3); got != [4]byte{} {
		t.Fatalf("outside pixel got %v want blank", got)
	}
	if got := at(2, 5); got != [4]byte{} {
		t.Fatalf("outside pixel got %v want blank", got)
	}
}

func TestFermi2D_FillClampsToSurface(t *testing.T) {
	e := NewFermi2D(4, 4)
	e.WriteReg(RegFillColor, 0x00FF00FF, 0)
	e.WriteReg(RegBlitDstX, 3, 0)
	e.WriteReg(RegBlitDstY, 3, 0)
	e.WriteReg(RegBlitWidth, 10, 0)
	e.WriteReg(RegBlitHeight, 10, 0)
	e.WriteReg(RegBlitTrigger, 1, 0) // must not panic
	s := e.Surface()
	i := (3*4 + 3) * 4
	if s[i+1] != 0xFF {
		t.Fatalf("corner pixel not filled")
	}
}

func TestFermi2D_ResizeViaRegisters(t *testing.T) {
	e := NewFermi2D(4, 4)
	e.WriteReg(RegSurfaceWidth, 16, 0)
	e.WriteReg(RegSurfaceHeight, 8, 0)
	if w, h := e.SurfaceSize(); w != 16 || h != 8 {
		t.Fatalf("surface size got %dx%d want 16x8", w, h)
	}
	if len(e.Surface()) != 16*8*4 {
		t.Fatalf("surface length got %d want %d", len(e.Surface()), 16*8*4)
	}
	// Absurd sizes are ignored, keeping the previous surface.
	e.WriteReg(RegSurfaceWidth, 100000, 0)
	if w, _ := e.SurfaceSize(); w != 16 {
		t.Fatalf("oversized resize not ignored, width %d", w)
	}
}

func TestFermi2D_UnknownMethodIgnored(t *testing.T) {
	e := NewFermi2D(4, 4)
	e.WriteReg(0x1FFF, 0x1234, 0)
	if got := e.Reg(0x1FFF); got != 0 {
		t.Fatalf("unknown method stored: %08X", got)
	}
}

func TestMaxwell3D_RegsAndMacros(t *testing.T) {
	e := NewMaxwell3D()
	e.WriteReg(0x6C3, 0xABCD, 0)
	if got := e.Reg(0x6C3); got != 0xABCD {
		t.Fatalf("reg got %04X want ABCD", got)
	}

	e.SubmitMacroCode(5, []uint32{1, 2, 3})
	code, ok := e.Macro(5)
	if !ok || len(code) != 3 || code[2] != 3 {
		t.Fatalf("macro 5 got %v,%v", code, ok)
	}
	// Re-upload replaces.
	e.SubmitMacroCode(5, []uint32{9})
	code, _ = e.Macro(5)
	if len(code) != 1 || code[0] != 9 {
		t.Fatalf("macro 5 after replace got %v", code)
	}
	if e.MacroCount() != 1 {
		t.Fatalf("macro count got %d want 1", e.MacroCount())
	}
}

func TestMaxwellCompute_Regs(t *testing.T) {
	e := NewMaxwellCompute()
	e.WriteReg(0x200, 42, 0)
	if got := e.Reg(0x200); got != 42 {
		t.Fatalf("reg got %d want 42", got)
	}
	e.WriteReg(0x1F00, 7, 0) // out of range, ignored
	if got := e.Reg(0x1F00); got != 0 {
		t.Fatalf("out-of-range reg got %d want 0", got)
	}
}
