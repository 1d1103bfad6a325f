// gpudis decodes a capture's command headers and prints the register
// writes each one expands to, without driving any engine.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/nxemu/videocore/internal/gpu"
	"github.com/nxemu/videocore/internal/memory"
	"github.com/nxemu/videocore/internal/trace"
)

func main() {
	tracePath := flag.String("trace", "", "path to capture file")
	showArgs := flag.Bool("args", true, "print expanded register writes")
	flag.Parse()

	if *tracePath == "" {
		log.Fatal("-trace is required")
	}
	tr, err := trace.Load(*tracePath)
	if err != nil {
		log.Fatalf("load trace: %v", err)
	}

	mem := memory.NewManager(ramSize(tr))
	var cursor uint64
	for _, b := range tr.Blocks {
		if err := mem.Map(b.Address, cursor, uint64(len(b.Data))); err != nil {
			log.Fatalf("map block: %v", err)
		}
		mem.WriteBlock(cursor, b.Data)
		cursor += (uint64(len(b.Data)) + 3) &^ 3
	}

	for i, sub := range tr.Submissions {
		fmt.Printf("; submission %d: address %08X, %d words\n", i, sub.Address, sub.WordCount)
		disasm(mem, sub.Address, sub.WordCount, *showArgs)
	}
}

func ramSize(tr *trace.Trace) uint64 {
	var total uint64 = 0x1000
	for _, b := range tr.Blocks {
		total += (uint64(len(b.Data)) + 3) &^ 3
	}
	return total
}

func disasm(mem *memory.Manager, addr uint64, size uint32, showArgs bool) {
	head := mem.TranslateAddress(addr)
	end := head + uint64(size)*4

	for cur := head; cur < end; {
		word := mem.ReadWord(cur)
		h := gpu.DecodeHeader(word)
		cur += 4

		switch h.Mode {
		case gpu.ModeInline:
			fmt.Printf("%08X  %-16s subch=%d method=%04X imm=%04X\n",
				word, h.Mode, h.Subchannel, h.Method, h.InlineData)

		case gpu.ModeIncreasing, gpu.ModeIncreasingOld,
			gpu.ModeNonIncreasing, gpu.ModeNonIncreasingOld,
			gpu.ModeIncreaseOnce:
			fmt.Printf("%08X  %-16s subch=%d method=%04X args=%d\n",
				word, h.Mode, h.Subchannel, h.Method, h.ArgCount)
			for i := uint32(0); i < h.ArgCount; i++ {
				value := mem.ReadWord(cur)
				cur += 4
				if showArgs {
					fmt.Printf("          -> %04X <- %08X\n", argMethod(h, i), value)
				}
			}

		default:
			fmt.Printf("%08X  unknown mode %d, stopping\n", word, uint32(h.Mode))
			return
		}
	}
}

// argMethod mirrors the dispatcher's expansion rules for display.
func argMethod(h gpu.CommandHeader, i uint32) uint32 {
	switch h.Mode {
	case gpu.ModeIncreasing, gpu.ModeIncreasingOld:
		return h.Method + i
	case gpu.ModeIncreaseOnce:
		if i == 0 {
			return h.Method
		}
		return h.Method + 1
	default:
		return h.Method
	}
}
