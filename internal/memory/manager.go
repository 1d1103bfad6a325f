// Package memory models the emulated RAM shared between the guest and
// the GPU front end, together with the GPU address space mappings used
// to translate command-buffer addresses.
package memory

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("videocore.memory")

// mapping ties a GPU address range to an offset in backing RAM.
type mapping struct {
	gpuBase uint64
	size    uint64
	ramBase uint64
}

// Manager owns a flat backing RAM and the table of GPU address
// mappings into it. Reads are little-endian and uncached.
type Manager struct {
	ram      []byte
	mappings []mapping // sorted by gpuBase, non-overlapping
}

func NewManager(ramSize uint64) *Manager {
	return &Manager{ram: make([]byte, ramSize)}
}

// Map makes size bytes at gpuBase resolve to ramBase. Ranges must not
// overlap an existing mapping and must fit in backing RAM.
func (m *Manager) Map(gpuBase, ramBase, size uint64) error {
	if ramBase+size > uint64(len(m.ram)) {
		return fmt.Errorf("memory: mapping %08X+%X exceeds RAM size %X", ramBase, size, len(m.ram))
	}
	for _, e := range m.mappings {
		if gpuBase < e.gpuBase+e.size && e.gpuBase < gpuBase+size {
			return fmt.Errorf("memory: GPU range %08X+%X overlaps existing mapping at %08X", gpuBase, size, e.gpuBase)
		}
	}
	m.mappings = append(m.mappings, mapping{gpuBase: gpuBase, size: size, ramBase: ramBase})
	sort.Slice(m.mappings, func(i, j int) bool { return m.mappings[i].gpuBase < m.mappings[j].gpuBase })
	return nil
}

// TranslateAddress resolves a GPU address to its backing RAM address.
// Unmapped addresses translate to themselves; the subsequent reads
// will then see the out-of-range fill value.
func (m *Manager) TranslateAddress(addr uint64) uint64 {
	i := sort.Search(len(m.mappings), func(i int) bool {
		return m.mappings[i].gpuBase+m.mappings[i].size > addr
	})
	if i < len(m.mappings) && addr >= m.mappings[i].gpuBase {
		e := m.mappings[i]
		return e.ramBase + (addr - e.gpuBase)
	}
	log.Warningf("translating unmapped GPU address %08X", addr)
	return addr
}

// ReadWord reads a little-endian 32-bit word at a translated address.
func (m *Manager) ReadWord(addr uint64) uint32 {
	if addr+4 > uint64(len(m.ram)) {
		return 0xFFFFFFFF // out-of-bounds read
	}
	return binary.LittleEndian.Uint32(m.ram[addr : addr+4])
}

// WriteWord stores a little-endian 32-bit word at a translated address.
func (m *Manager) WriteWord(addr uint64, value uint32) {
	if addr+4 > uint64(len(m.ram)) {
		return
	}
	binary.LittleEndian.PutUint32(m.ram[addr:addr+4], value)
}

// WriteBlock copies raw bytes into backing RAM, truncating at the end
// of RAM.
func (m *Manager) WriteBlock(addr uint64, data []byte) {
	if addr >= uint64(len(m.ram)) {
		return
	}
	copy(m.ram[addr:], data)
}

// Size returns the backing RAM size in bytes.
func (m *Manager) Size() uint64 { return uint64(len(m.ram)) }
