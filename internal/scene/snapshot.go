package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// VideoExtensions are the clip extensions picked up from scene folders,
// compared case-insensitively.
var VideoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
	".mkv": true,
	".flv": true,
	".wmv": true,
}

// IsVideo reports whether name has a recognized video extension.
func IsVideo(name string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(name))]
}

func extOf(name string) string { return filepath.Ext(name) }

// Snapshot is the set of clip basenames in one folder, in discovery order.
type Snapshot struct {
	Dir   string
	names []string
	set   map[string]bool
}

// NewSnapshot builds a snapshot from basenames in the given order.
// Duplicates are ignored.
func NewSnapshot(dir string, names []string) *Snapshot {
	s := &Snapshot{Dir: dir, set: make(map[string]bool, len(names))}
	for _, n := range names {
		if s.set[n] {
			continue
		}
		s.set[n] = true
		s.names = append(s.names, n)
	}
	return s
}

// TakeSnapshot lists the regular video files in dir, sorted by name so
// discovery order does not depend on the filesystem. Symlinks are followed;
// dangling ones are ignored.
func TakeSnapshot(dir string) (*Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !IsVideo(e.Name()) || !TargetMode(dir, e).IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return NewSnapshot(dir, names), nil
}

// TargetMode returns the mode of e, resolving a symlink to what it points
// at. A dangling link reports the zero mode.
func TargetMode(dir string, e os.DirEntry) os.FileMode {
	if e.Type()&os.ModeSymlink == 0 {
		return e.Type()
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	if err != nil {
		return 0
	}
	return info.Mode()
}

// Names returns the basenames in discovery order.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Has reports whether base is in the snapshot.
func (s *Snapshot) Has(base string) bool { return s.set[base] }

// Path joins base onto the snapshot's directory.
func (s *Snapshot) Path(base string) string { return filepath.Join(s.Dir, base) }

// Len returns the number of clips.
func (s *Snapshot) Len() int { return len(s.names) }
