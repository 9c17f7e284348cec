// Package filecache snapshots a directory of images so the menu
// program can page through it after the storage device has gone quiet.
//
// The storage medium cannot be touched while the bus emulation is
// running, so the listing is built once, before emulation starts, and
// is immutable afterwards. Only a flat directory of up to 100 entries
// is supported.
package filecache

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZX-80/PicoVideocart/internal/cartridge"
	"github.com/ZX-80/PicoVideocart/internal/cp437"
	"github.com/ZX-80/PicoVideocart/pkg/log"
	"github.com/ZX-80/PicoVideocart/pkg/utils"
)

// FolderLimit is the maximum number of entries in a snapshot.
const FolderLimit = 100

// TitleLength is the fixed width of a cached title: CP437, space
// padded.
const TitleLength = 32

// Entry is one cached directory entry.
type Entry struct {
	// Title is exactly TitleLength bytes of CP437, space padded.
	Title string
	// IsFile is false for subdirectories, which are listed but cannot
	// be selected.
	IsFile bool
	// Path locates the file for re-reading at load time.
	Path string
}

// Cache is an immutable directory snapshot.
type Cache struct {
	entries []Entry
}

// Scan enumerates dir, deriving a menu title for each entry:
//
//   - directories: '/' prepended to the translated name
//   - CHF images: the title field of the CHF header
//   - BIN images: the file name without its final extension
//   - anything else: the raw file name
func Scan(dir string, logger log.Logger) (*Cache, error) {
	if logger == nil {
		logger = log.NewNullLogger()
	}

	listing, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	c := &Cache{}
	for _, d := range listing {
		if len(c.entries) == FolderLimit {
			logger.Infof("directory holds more than %d entries, rest ignored", FolderLimit)
			break
		}

		path := filepath.Join(dir, d.Name())
		if d.IsDir() {
			c.entries = append(c.entries, Entry{
				Title: pad(cp437.Translate("/"+d.Name(), TitleLength)),
				Path:  path,
			})
			continue
		}

		title, err := deriveTitle(path, d.Name())
		if err != nil {
			logger.Errorf("skipping %s: %v", d.Name(), err)
			continue
		}
		c.entries = append(c.entries, Entry{Title: pad(title), IsFile: true, Path: path})
	}

	logger.Infof("cached %d directory entries", len(c.entries))
	return c, nil
}

// deriveTitle reads the whole file (decompressing it if needed) and
// derives its menu title.
func deriveTitle(path, name string) (string, error) {
	data, err := utils.LoadFile(path)
	if err != nil {
		return "", err
	}

	switch cartridge.DetectKind(data) {
	case cartridge.KindCHF:
		h, err := cartridge.ParseHeader(data)
		if err != nil {
			return "", err
		}
		return cp437.Translate(h.Title, TitleLength), nil
	case cartridge.KindBIN:
		// strip the final extension
		if i := strings.LastIndexByte(name, '.'); i > 0 {
			name = name[:i]
		}
		return cp437.Translate(name, TitleLength), nil
	default:
		return cp437.Translate(name, TitleLength), nil
	}
}

// pad widens a title to exactly TitleLength bytes with spaces.
func pad(title string) string {
	if len(title) >= TitleLength {
		return title[:TitleLength]
	}
	return title + strings.Repeat(" ", TitleLength-len(title))
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return len(c.entries) }

// Title returns the padded CP437 title of entry i.
func (c *Cache) Title(i int) string { return c.entries[i].Title }

// IsFile reports whether entry i can be loaded.
func (c *Cache) IsFile(i int) bool { return c.entries[i].IsFile }

// Path returns the path of entry i.
func (c *Cache) Path(i int) string { return c.entries[i].Path }

// Open re-reads the image bytes of entry i. Called by the main loop
// when the Launcher selects an entry; the bus is idle while it runs.
func (c *Cache) Open(i int) ([]byte, error) {
	return utils.LoadFile(c.entries[i].Path)
}
