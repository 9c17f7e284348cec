package ports

import (
	"github.com/ZX-80/PicoVideocart/internal/memory"
	"github.com/ZX-80/PicoVideocart/pkg/utils"
)

// Launcher commands, one bit per console button.
const (
	cmdNext   = 0x01
	cmdSelect = 0x02
	cmdPrev   = 0x04
	cmdNone   = 0x08
)

// sramStart is the base of the emulated RAM window; menu titles are
// staged two bytes in, at 0x2802..0x2822.
const sramStart = 0x2800

// titleLength is the painted title width in bytes, space padded and
// followed by a NUL.
const titleLength = 32

// Launcher is the menu control port at 0xFF. The on-screen menu
// program pages through the directory snapshot with NEXT/PREV, reads
// the staged title out of emulated RAM, and SELECTs an entry to
// request a new image load.
//
// Loading process:
//
//	Stage | BIOS         | Menu                       | Cartridge
//	------|--------------|----------------------------|----------
//	1     |              | Sends $02 (select) command |
//	2     |              | Jumps to $0000             | Raises the load trigger
//	3     |              |                            | Rewrites memory, ports
//	4     | Runs program |                            |
type Launcher struct {
	files FileList
	mem   *memory.Memory

	index    int
	previous uint8

	// trigger is the single-slot load channel polled by the main loop
	// between bus cycles. The dispatcher never mutates loader state
	// directly.
	trigger chan<- int
}

// NewLauncher returns a Launcher paging over files, painting titles
// into mem and announcing selections on trigger.
func NewLauncher(files FileList, mem *memory.Memory, trigger chan<- int) *Launcher {
	return &Launcher{files: files, mem: mem, trigger: trigger}
}

// Index returns the current entry index.
func (l *Launcher) Index() int {
	return l.index
}

func (l *Launcher) Read() uint8 { return 0xFF }

// Write handles a command byte. Commands are level-triggered on
// change: a byte equal to the previous one is ignored, which filters
// the host's button-held repeats.
func (l *Launcher) Write(command uint8) {
	if command != l.previous {
		if l.files == nil || l.files.Len() == 0 {
			l.paint("No Data")
		} else {
			switch command {
			case cmdNext:
				l.index = utils.Clamp(0, l.index+1, l.files.Len()-1)
				l.paint(l.files.Title(l.index))
			case cmdPrev:
				l.index = utils.Clamp(0, l.index-1, l.files.Len()-1)
				l.paint(l.files.Title(l.index))
			case cmdSelect:
				if l.files.IsFile(l.index) {
					select {
					case l.trigger <- l.index:
					default:
					}
				}
			case cmdNone:
				if l.previous == 0 {
					l.paint(l.files.Title(l.index))
				}
			}
		}
	}
	l.previous = command
}

// paint stages a title into emulated RAM: 32 bytes, space padded,
// followed by a NUL. Poked directly so the staging area's chip type
// does not matter.
func (l *Launcher) paint(title string) {
	addr := uint16(sramStart + 2)
	for i := 0; i < titleLength; i++ {
		b := byte(' ')
		if i < len(title) {
			b = title[i]
		}
		l.mem.Poke(addr+uint16(i), b)
	}
	l.mem.Poke(addr+titleLength, 0)
}
