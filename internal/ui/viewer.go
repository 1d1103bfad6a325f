// Package ui displays the Fermi2D render surface of a replayed GPU
// session in a window. Debug tooling only; the core never imports it.
package ui

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/nxemu/videocore/internal/session"
)

type App struct {
	cfg Config
	s   *session.Session
	tex *ebiten.Image
}

func NewApp(cfg Config, s *session.Session) *App {
	cfg.Defaults()
	w, h := s.SurfaceSize()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w*cfg.Scale, h*cfg.Scale)
	return &App{cfg: cfg, s: s}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		_ = a.saveScreenshot()
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := a.s.SurfaceSize()
	if a.tex == nil {
		a.tex = ebiten.NewImage(w, h)
	}
	a.tex.WritePixels(a.s.Surface())
	screen.DrawImage(a.tex, nil)
}

func (a *App) Layout(outW, outH int) (int, int) { return a.s.SurfaceSize() }

func (a *App) saveScreenshot() error {
	w, h := a.s.SurfaceSize()
	surf := a.s.Surface()
	img := &image.RGBA{
		Pix:    make([]byte, len(surf)),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	copy(img.Pix, surf)
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("surface_%s.png", ts)
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
