package memory

// Chip type ids as they appear in CHIP packets and in the attribute
// table. Ids without a registered handler behave as Reserved.
const (
	ROM      uint8 = 0x00
	RAM      uint8 = 0x01
	LED      uint8 = 0x02
	NVRAM    uint8 = 0x03
	Reserved uint8 = 0xFF
)

// ChipType determines how reads and writes behave at an address. New
// chip types are added by implementing this interface and registering
// the id; the emulation core dispatches through a dense 256-entry
// table, so lookup is a single index.
type ChipType interface {
	Read(m *Memory, address uint16) uint8
	Write(m *Memory, address uint16, data uint8)
	// HasData reports whether image files carry payload bytes for this
	// chip type. The loader consults it to decide whether a CHIP packet
	// has a payload.
	HasData() bool
}

// romChip is read-only memory.
type romChip struct{}

func (romChip) Read(m *Memory, address uint16) uint8 {
	return m.rom[address]
}

func (romChip) Write(m *Memory, address uint16, data uint8) {}

func (romChip) HasData() bool { return true }

// ramChip is read/write memory.
type ramChip struct{}

func (ramChip) Read(m *Memory, address uint16) uint8 {
	return m.rom[address]
}

func (ramChip) Write(m *Memory, address uint16, data uint8) {
	m.rom[address] = data
}

func (ramChip) HasData() bool { return false }

// ledChip reads like ROM but toggles the debug LED when written to.
// Programs use it to signal that a code path was reached.
type ledChip struct{}

func (ledChip) Read(m *Memory, address uint16) uint8 {
	return m.rom[address]
}

func (ledChip) Write(m *Memory, address uint16, data uint8) {
	if m.led != nil {
		m.led()
	}
}

func (ledChip) HasData() bool { return true }

// nvramChip is non-volatile RAM. Without an attached NVStore it reads
// 0xFF and drops writes; the persistence layer itself is board support.
type nvramChip struct{}

func (nvramChip) Read(m *Memory, address uint16) uint8 {
	if m.nvstore != nil {
		return m.nvstore.Read(address)
	}
	return 0xFF
}

func (nvramChip) Write(m *Memory, address uint16, data uint8) {
	if m.nvstore != nil {
		m.nvstore.Write(address, data)
	}
}

func (nvramChip) HasData() bool { return true }

// reservedChip cannot be read or written. Reads return 0xFF without
// touching the backing store; the bus never drives for these addresses.
type reservedChip struct{}

func (reservedChip) Read(m *Memory, address uint16) uint8 { return 0xFF }

func (reservedChip) Write(m *Memory, address uint16, data uint8) {}

func (reservedChip) HasData() bool { return false }
