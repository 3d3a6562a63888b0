package preprocess

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Lookup(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	tests := []struct {
		folder    string
		wantPlan  string
		wantKinds string
	}{
		{"ABF12_retarget", "ABF12_retarget", "trim"},
		{"SM2_retarget", "SM2_retarget", "trim"},
		{"SM4", "SM4", "trim"},
		{"GSF13", "GSF13", "trim"},
		{"dexycb_07", "dexycb_07", "normalize, placeholder"},
		{"dexycb_03", "dexycb", "autocrop, placeholder"},
		{"dexycb", "dexycb", "autocrop, placeholder"},
	}
	for _, tt := range tests {
		t.Run(tt.folder, func(t *testing.T) {
			p, ok := reg.Lookup(tt.folder)
			require.True(t, ok)
			assert.Equal(t, tt.wantPlan, p.Name)
			assert.Equal(t, tt.wantKinds, p.StepKinds())
		})
	}

	for _, folder := range []string{"SM2", "SM44", "sm4", "xdexycb_01", "mug_rotate"} {
		_, ok := reg.Lookup(folder)
		assert.False(t, ok, "folder %s has no plan", folder)
	}
}

func TestDefaultRegistry_StepDefaults(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	p, _ := reg.Lookup("dexycb_07")
	assert.Equal(t, 976, p.Steps[0].Height)
	assert.Equal(t, "input", p.Steps[0].Reference)
	assert.Equal(t, "gt", p.Steps[1].Reference)
	assert.Equal(t, []string{"input", "gt", "ours", "hold", "magichoi"}, p.Steps[1].Methods)

	p, _ = reg.Lookup("ABF12_retarget")
	assert.Equal(t, KeepTail, p.Steps[0].Keep)
	assert.Equal(t, "ABF12_cut_cut_cut_trimmed.mp4", p.Steps[0].Output)
}

func TestRegistry_LongestPrefixWins(t *testing.T) {
	reg, err := ParseRegistry(strings.NewReader(`
[[plan]]
name = "dex"
match = "prefix"
  [[plan.step]]
  kind = "autocrop"

[[plan]]
name = "dexycb"
match = "prefix"
  [[plan.step]]
  kind = "placeholder"
`))
	require.NoError(t, err)

	p, ok := reg.Lookup("dexycb_11")
	require.True(t, ok)
	assert.Equal(t, "dexycb", p.Name)

	p, ok = reg.Lookup("dexter")
	require.True(t, ok)
	assert.Equal(t, "dex", p.Name)
	assert.Len(t, reg.Plans(), 2)
}

func TestParseRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"unknown kind", "[[plan]]\nname='a'\nmatch='exact'\n[[plan.step]]\nkind='blur'\n"},
		{"unknown match", "[[plan]]\nname='a'\nmatch='glob'\n[[plan.step]]\nkind='autocrop'\n"},
		{"no steps", "[[plan]]\nname='a'\nmatch='exact'\n"},
		{"missing name", "[[plan]]\nmatch='exact'\n[[plan.step]]\nkind='autocrop'\n"},
		{"trim without source", "[[plan]]\nname='a'\nmatch='exact'\n[[plan.step]]\nkind='trim'\nreference='r.mp4'\nkeep='head'\n"},
		{"trim without keep", "[[plan]]\nname='a'\nmatch='exact'\n[[plan.step]]\nkind='trim'\nsource='s.mp4'\nreference='r.mp4'\n"},
		{"bad keep", "[[plan]]\nname='a'\nmatch='exact'\n[[plan.step]]\nkind='trim'\nsource='s'\nreference='r'\nkeep='middle'\n"},
		{"bad pattern", "[[plan]]\nname='a'\nmatch='exact'\n[[plan.step]]\nkind='trim'\nsource='ours_[.mp4'\nreference='r'\nkeep='head'\n"},
		{"output outside folder", "[[plan]]\nname='a'\nmatch='exact'\n[[plan.step]]\nkind='trim'\nsource='s'\nreference='r'\nkeep='head'\noutput='../x.mp4'\n"},
		{"normalize without height", "[[plan]]\nname='a'\nmatch='exact'\n[[plan.step]]\nkind='normalize'\n"},
		{"unknown reference", "[[plan]]\nname='a'\nmatch='exact'\n[[plan.step]]\nkind='placeholder'\nreference='baseline'\n"},
		{"unknown method", "[[plan]]\nname='a'\nmatch='exact'\n[[plan.step]]\nkind='placeholder'\nmethods=['gt','nerf']\n"},
		{"unknown key", "[[plan]]\nname='a'\nmatch='exact'\ncolor='red'\n[[plan.step]]\nkind='autocrop'\n"},
		{"duplicate exact", "[[plan]]\nname='a'\nmatch='exact'\n[[plan.step]]\nkind='autocrop'\n[[plan]]\nname='a'\nmatch='exact'\n[[plan.step]]\nkind='autocrop'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRegistry(strings.NewReader(tt.toml))
			assert.Error(t, err)
		})
	}
}

func TestLoadRegistry_UserFileReplacesBuiltIn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[plan]]
name = "lab_"
match = "prefix"
  [[plan.step]]
  kind = "autocrop"
`), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	_, ok := reg.Lookup("lab_12")
	assert.True(t, ok)
	_, ok = reg.Lookup("dexycb_07")
	assert.False(t, ok, "built-in plans are replaced, not merged")

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	reg, err = LoadRegistry("")
	require.NoError(t, err)
	_, ok = reg.Lookup("dexycb_07")
	assert.True(t, ok)
}
