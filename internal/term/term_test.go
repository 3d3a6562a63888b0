package term

import (
	"os"
	"testing"

	"github.com/backmassage/clipstack/internal/config"
)

func TestConfigure_Modes(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })

	Configure(config.ColorAlways)
	if !Enabled() || Red == "" {
		t.Fatal("ColorAlways should enable colors")
	}

	Configure(config.ColorNever)
	if Enabled() || Red != "" || NC != "" {
		t.Fatal("ColorNever should clear every color")
	}
}

func TestConfigure_AutoRespectsNoColor(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })
	t.Setenv("NO_COLOR", "1")

	Configure(config.ColorAuto)
	if Enabled() {
		t.Error("NO_COLOR must disable colors in auto mode")
	}
}

func TestIsTerminal_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "tty")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
	if IsTerminal(nil) {
		t.Error("nil file is not a terminal")
	}
}

func TestConfigure_AutoOffForDumbTerminal(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")

	Configure(config.ColorAuto)
	if Enabled() || Yellow != "" || Magenta != "" {
		t.Error("TERM=dumb must disable level tag and banner colors")
	}
}

func TestConfigure_TagColorsDiffer(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })

	Configure(config.ColorAlways)
	seen := map[string]bool{}
	for _, c := range []string{Red, Green, Yellow, Blue, Cyan, Magenta} {
		if seen[c] {
			t.Fatalf("color %q used twice", c)
		}
		seen[c] = true
	}
}
