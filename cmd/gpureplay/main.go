// gpureplay replays recorded GPU command-stream captures through the
// emulated front end, either headless (with surface checksumming) or
// in a debug viewer window.
package main

import (
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/nxemu/videocore/internal/config"
	"github.com/nxemu/videocore/internal/engines"
	"github.com/nxemu/videocore/internal/gpu"
	"github.com/nxemu/videocore/internal/session"
	"github.com/nxemu/videocore/internal/trace"
	"github.com/nxemu/videocore/internal/ui"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gpureplay",
		Short: "Replay GPU command-stream captures",
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	var (
		configPath string
		tracePath  string
		headless   bool
		pngOut     string
		expect     string
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a capture through the emulated GPU",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			commonlog.Configure(cfg.Log.Verbosity, nil)

			tr, err := trace.Load(tracePath)
			if err != nil {
				return err
			}

			s := session.New(session.Config{
				RAMSize:       uint64(cfg.Session.RAMMegabytes) * 1024 * 1024,
				SurfaceWidth:  cfg.Surface.Width,
				SurfaceHeight: cfg.Surface.Height,
			})

			start := time.Now()
			runErr := s.RunTrace(tr)
			dur := time.Since(start)

			crc := crc32.ChecksumIEEE(s.Surface())
			fmt.Printf("replay: submissions=%d elapsed=%s macros=%d surface_crc32=%08x\n",
				len(tr.Submissions), dur.Truncate(time.Microsecond), s.Maxwell3D().MacroCount(), crc)
			if runErr != nil {
				return fmt.Errorf("replay aborted: %w", runErr)
			}

			if pngOut != "" {
				w, h := s.SurfaceSize()
				if err := savePNG(s.Surface(), w, h, pngOut); err != nil {
					return fmt.Errorf("write PNG: %w", err)
				}
				fmt.Printf("wrote %s\n", pngOut)
			}

			if expect != "" {
				// normalize expected hex (allow with/without 0x, upper/lowercase)
				want := strings.TrimPrefix(strings.ToLower(expect), "0x")
				got := fmt.Sprintf("%08x", crc)
				if got != want {
					return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
				}
			}

			if !headless {
				app := ui.NewApp(ui.Config{Title: cfg.Viewer.Title, Scale: cfg.Viewer.Scale}, s)
				return app.Run()
			}
			return nil
		},
	}
	runCmd.Flags().StringVar(&tracePath, "trace", "", "path to capture file (required)")
	runCmd.Flags().StringVar(&configPath, "config", "gpureplay.toml", "path to config file")
	runCmd.Flags().BoolVar(&headless, "headless", false, "run without a window")
	runCmd.Flags().StringVar(&pngOut, "outpng", "", "write the final surface to PNG at path")
	runCmd.Flags().StringVar(&expect, "expect", "", "assert surface CRC32 (hex)")
	runCmd.MarkFlagRequired("trace")
	rootCmd.AddCommand(runCmd)

	var demoOut string
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a small sample capture",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := trace.Save(demoOut, demoTrace()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", demoOut)
			return nil
		},
	}
	demoCmd.Flags().StringVar(&demoOut, "out", "demo.vctrace", "output path")
	rootCmd.AddCommand(demoCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// demoTrace builds a capture that binds the 2D engine and fills two
// overlapping rectangles.
func demoTrace() *trace.Trace {
	words := []uint32{
		gpu.EncodeHeader(uint32(gpu.MethodBindObject), 0, 1, gpu.ModeIncreasing),
		uint32(gpu.EngineFermi2D),
		gpu.EncodeHeader(engines.RegFillColor, 0, 5, gpu.ModeIncreasing),
		0xFF4000FF, 40, 30, 160, 120,
		gpu.EncodeHeader(engines.RegBlitTrigger, 0, 1, gpu.ModeIncreasing),
		1,
		gpu.EncodeHeader(engines.RegFillColor, 0, 5, gpu.ModeIncreasing),
		0x00C0FFFF, 120, 90, 160, 120,
		gpu.EncodeHeader(engines.RegBlitTrigger, 0, 1, gpu.ModeIncreasing),
		1,
	}
	tr := trace.New()
	tr.AddWords(0x40000, words)
	tr.AddSubmission(0x40000, uint32(len(words)))
	return tr
}

func savePNG(pix []byte, w, h int, path string) error {
	img := &image.RGBA{
		Pix:    make([]byte, len(pix)),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	copy(img.Pix, pix)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
