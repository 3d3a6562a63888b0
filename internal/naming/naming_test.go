package naming

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		dir    string
		folder string
		ext    string
		want   string
	}{
		{"plain", "/media/out", "SM2", "mp4", "/media/out/SM2.mp4"},
		{"dotted ext", "/media/out", "dexycb_07", ".mkv", "/media/out/dexycb_07.mkv"},
		{"folder with dots", "/out", "ABF12.v2_retarget", "mp4", "/out/ABF12.v2_retarget.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.dir, tt.folder, tt.ext); got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollisionResolver(t *testing.T) {
	cr := NewCollisionResolver()
	out := filepath.Join("/out", "SM2.mp4")

	if got := cr.Resolve("SM2", out); got != out {
		t.Fatalf("first claim = %q", got)
	}
	if got := cr.Resolve("SM2", out); got != out {
		t.Errorf("re-claim by owner = %q", got)
	}

	upper := filepath.Join("/out", "sm2.mp4")
	want := filepath.Join("/out", "sm2 - dup1.mp4")
	if got := cr.Resolve("sm2", upper); got != want {
		t.Errorf("case-folded collision = %q, want %q", got, want)
	}
	want = filepath.Join("/out", "Sm2 - dup2.mp4")
	if got := cr.Resolve("Sm2", filepath.Join("/out", "Sm2.mp4")); got != want {
		t.Errorf("second collision = %q, want %q", got, want)
	}
}

func TestCollisionResolver_Concurrent(t *testing.T) {
	cr := NewCollisionResolver()
	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cr.Resolve(string(rune('a'+i)), "/out/X.mp4")
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, r := range results {
		if seen[r] {
			t.Fatalf("duplicate output path %q", r)
		}
		seen[r] = true
	}
}
