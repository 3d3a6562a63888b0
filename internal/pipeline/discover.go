package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/clipstack/internal/scene"
)

// DiscoverScenes returns the scene folders directly under root, sorted by
// name for deterministic processing order. Hidden directories are skipped;
// symlinked ones are followed.
func DiscoverScenes(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !scene.TargetMode(root, e).IsDir() {
			continue
		}
		dirs = append(dirs, filepath.Join(root, e.Name()))
	}
	sort.Strings(dirs)
	return dirs, nil
}
