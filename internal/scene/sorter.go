package scene

import (
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one surviving clip with its rank.
type Entry struct {
	Name     string // Basename.
	Path     string
	Tag      string
	Priority int
}

// Sort is the AssetSorter contract: it returns the deduplicated clip paths
// of a folder in presentation order. paths are taken in discovery order
// and must share a directory.
func Sort(paths []string, c Category, folder string) []string {
	if len(paths) == 0 {
		return nil
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	snap := NewSnapshot(filepath.Dir(paths[0]), names)
	return EntryPaths(StrategyFor(c).Sort(folder, snap))
}

// EntryPaths extracts the paths of entries.
func EntryPaths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

// rank orders entries by priority; equal priorities keep discovery order.
func rank(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority < entries[j].Priority
	})
	return entries
}

type comparisonStrategy struct{}

func (comparisonStrategy) Category() Category { return Comparison }
func (comparisonStrategy) CropsToWidth() bool { return true }

func (comparisonStrategy) Sort(folder string, snap *Snapshot) []Entry {
	rels := active(ComparisonSupersessions, folder, snap)
	var out []Entry
	for _, name := range snap.names {
		if superseded(rels, name, snap) {
			continue
		}
		e := Entry{Name: name, Path: snap.Path(name), Tag: MethodOther, Priority: UnmatchedPriority}
		if r, ok := match(ComparisonRules, strings.ToLower(name)); ok {
			e.Tag, e.Priority = r.Tag, r.Priority
		}
		out = append(out, e)
	}
	return rank(out)
}

type rotateStrategy struct{}

func (rotateStrategy) Category() Category { return Rotate }
func (rotateStrategy) CropsToWidth() bool { return true }

func (rotateStrategy) Sort(_ string, snap *Snapshot) []Entry {
	var out []Entry
	for _, name := range snap.names {
		e := Entry{Name: name, Path: snap.Path(name), Tag: MethodOther, Priority: UnmatchedPriority}
		if r, ok := match(RotateRules, strings.ToLower(name)); ok {
			e.Tag, e.Priority = r.Tag, r.Priority
		}
		out = append(out, e)
	}
	return rank(out)
}

type retargetStrategy struct{}

func (retargetStrategy) Category() Category { return Retarget }

// Retarget clips keep their differing aspect ratios side by side.
func (retargetStrategy) CropsToWidth() bool { return false }

func (retargetStrategy) Sort(_ string, snap *Snapshot) []Entry {
	var out []Entry
	for _, name := range snap.names {
		r, ok := match(RetargetRules, name)
		if !ok {
			continue
		}
		out = append(out, Entry{Name: name, Path: snap.Path(name), Tag: r.Tag, Priority: r.Priority})
	}
	return rank(out)
}
