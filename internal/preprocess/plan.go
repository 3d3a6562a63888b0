package preprocess

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/backmassage/clipstack/internal/scene"
)

//go:embed plans.toml
var defaultPlans []byte

// MatchKind selects how a plan's name is compared with a folder name.
type MatchKind string

const (
	MatchExact  MatchKind = "exact"
	MatchPrefix MatchKind = "prefix"
)

// Step kinds.
const (
	StepTrim        = "trim"
	StepAutocrop    = "autocrop"
	StepNormalize   = "normalize"
	StepPlaceholder = "placeholder"
)

// Trim modes.
const (
	KeepHead = "head"
	KeepTail = "tail"
)

// Step is one transform in a plan. Which fields apply depends on Kind.
type Step struct {
	Kind      string   `toml:"kind" validate:"oneof=trim autocrop normalize placeholder"`
	Source    string   `toml:"source"`
	Reference string   `toml:"reference"`
	Keep      string   `toml:"keep" validate:"omitempty,oneof=head tail"`
	Output    string   `toml:"output"`
	Height    int      `toml:"height" validate:"gte=0"`
	Methods   []string `toml:"methods"`
}

// Plan is an ordered transform chain for the folders it matches.
type Plan struct {
	Name  string    `toml:"name" validate:"required"`
	Match MatchKind `toml:"match" validate:"oneof=exact prefix"`
	Steps []Step    `toml:"step" validate:"min=1,dive"`
}

type registryFile struct {
	Plans []Plan `toml:"plan" validate:"dive"`
}

// Registry resolves folder names to plans.
type Registry struct {
	exact    map[string]Plan
	prefixes []Plan // longest name first
	plans    []Plan
}

var validate = validator.New()

// DefaultRegistry returns the built-in plans.
func DefaultRegistry() (*Registry, error) {
	return ParseRegistry(bytes.NewReader(defaultPlans))
}

// LoadRegistry reads a plan file. An empty path returns the built-in plans.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan file: %w", err)
	}
	defer f.Close()

	reg, err := ParseRegistry(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// ParseRegistry decodes and validates a TOML plan registry.
func ParseRegistry(r io.Reader) (*Registry, error) {
	var file registryFile
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse plans: %w", err)
	}
	if err := validate.Struct(&file); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, fmt.Errorf("invalid plan: %s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	reg := &Registry{exact: make(map[string]Plan)}
	for i := range file.Plans {
		p := &file.Plans[i]
		for j := range p.Steps {
			if err := normalizeStep(&p.Steps[j]); err != nil {
				return nil, fmt.Errorf("plan %q step %d: %w", p.Name, j+1, err)
			}
		}
		switch p.Match {
		case MatchExact:
			if _, dup := reg.exact[p.Name]; dup {
				return nil, fmt.Errorf("duplicate exact plan %q", p.Name)
			}
			reg.exact[p.Name] = *p
		case MatchPrefix:
			reg.prefixes = append(reg.prefixes, *p)
		}
		reg.plans = append(reg.plans, *p)
	}
	sort.SliceStable(reg.prefixes, func(i, j int) bool {
		return len(reg.prefixes[i].Name) > len(reg.prefixes[j].Name)
	})
	return reg, nil
}

// normalizeStep fills per-kind defaults and checks the fields the struct
// tags cannot express.
func normalizeStep(s *Step) error {
	switch s.Kind {
	case StepTrim:
		for _, pat := range []string{s.Source, s.Reference} {
			if pat == "" {
				return errors.New("trim needs source and reference")
			}
			if _, err := filepath.Match(pat, ""); err != nil {
				return fmt.Errorf("pattern %q: %w", pat, err)
			}
		}
		if s.Keep == "" {
			return errors.New("trim needs keep = \"head\" or \"tail\"")
		}
		if s.Output != "" && filepath.Base(s.Output) != s.Output {
			return fmt.Errorf("output %q must be a file name within the folder", s.Output)
		}
	case StepNormalize:
		if s.Height <= 0 {
			return errors.New("normalize needs a positive height")
		}
		if s.Reference == "" {
			s.Reference = scene.MethodInput
		}
	case StepPlaceholder:
		if s.Reference == "" {
			s.Reference = scene.MethodGT
		}
		if len(s.Methods) == 0 {
			s.Methods = slices.Clone(scene.RequiredMethods)
		}
	}
	if s.Kind == StepNormalize || s.Kind == StepPlaceholder {
		if !slices.Contains(scene.RequiredMethods, s.Reference) {
			return fmt.Errorf("unknown reference method %q", s.Reference)
		}
	}
	for _, m := range s.Methods {
		if !slices.Contains(scene.RequiredMethods, m) {
			return fmt.Errorf("unknown method %q", m)
		}
	}
	return nil
}

// Lookup returns the plan for folder: an exact match first, then the
// longest matching prefix.
func (r *Registry) Lookup(folder string) (Plan, bool) {
	if p, ok := r.exact[folder]; ok {
		return p, true
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(folder, p.Name) {
			return p, true
		}
	}
	return Plan{}, false
}

// Plans returns every plan in file order.
func (r *Registry) Plans() []Plan {
	return slices.Clone(r.plans)
}

// StepKinds returns the plan's step kinds, e.g. "normalize, placeholder".
func (p Plan) StepKinds() string {
	kinds := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		kinds[i] = s.Kind
	}
	return strings.Join(kinds, ", ")
}
