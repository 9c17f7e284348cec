// Package ports implements the console's I/O port space: 256
// addressable endpoints driven by the host's IN/OUT instructions, each
// either empty or occupied by an emulated peripheral.
//
// Dispatch is single-threaded; peripherals share state freely across
// port instances without locking.
package ports

// Port is an emulated peripheral addressed by an 8-bit port number.
type Port interface {
	Read() uint8
	Write(data uint8)
}

// Table maps the 256 port addresses to installed peripherals. Lookup
// is a single index into a dense array; empty slots are nil.
type Table struct {
	slots [256]Port
}

// NewTable returns an empty port table.
func NewTable() *Table {
	return &Table{}
}

// Install occupies a port address with a peripheral, replacing any
// previous occupant.
func (t *Table) Install(address uint8, p Port) {
	t.slots[address] = p
}

// Lookup returns the peripheral at the given address, or nil when the
// slot is empty.
func (t *Table) Lookup(address uint8) Port {
	return t.slots[address]
}

// ReleaseAll empties every slot. The loader calls this before a new
// image installs its own peripherals.
func (t *Table) ReleaseAll() {
	for i := range t.slots {
		t.slots[i] = nil
	}
}

// Installed returns the occupied port addresses in ascending order.
func (t *Table) Installed() []uint8 {
	var addrs []uint8
	for i := range t.slots {
		if t.slots[i] != nil {
			addrs = append(addrs, uint8(i))
		}
	}
	return addrs
}

// FileList is the directory snapshot the Launcher pages through. It is
// immutable once emulation starts.
type FileList interface {
	// Len returns the number of entries.
	Len() int
	// Title returns the 32-byte space-padded CP437 title of entry i.
	Title(i int) string
	// IsFile reports whether entry i is a loadable file rather than a
	// directory.
	IsFile(i int) bool
}
