package level

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-frontline/internal/state"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)

type validatingSpec interface {
	Validate() error
}

// asset is the on-disk envelope for one authored level element.
type asset[T validatingSpec] struct {
	Version    uint   `json:"version"`
	Identifier string `json:"id"`
	Spec       T      `json:"spec"`
}

func (a *asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.Identifier == "" {
		el.Add(fmt.Errorf("id must be set"))
	}

	if !identifierPattern.MatchString(a.Identifier) {
		el.Add(fmt.Errorf("id must be alphanumeric"))
	}

	el.Add(a.Spec.Validate())

	return el.Err()
}

// AreaSpec is an authored area volume: a named axis-aligned box.
type AreaSpec struct {
	Name     string     `json:"name"`
	Position state.Vec3 `json:"position"`
	Size     state.Vec3 `json:"size"`
}

func (s *AreaSpec) Validate() error {
	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}

	if s.Size.X <= 0 || s.Size.Y <= 0 || s.Size.Z <= 0 {
		el.Add(fmt.Errorf("size must be positive on every axis"))
	}

	return el.Err()
}

// ObjectiveSpec is an authored objective point. Links reference other
// objective assets by identifier and must be authored symmetrically.
type ObjectiveSpec struct {
	Name                string     `json:"name"`
	Position            state.Vec3 `json:"position"`
	InitialFactionIndex *int       `json:"initial_faction_index,omitempty"`
	Links               []string   `json:"links,omitempty"`
}

func (s *ObjectiveSpec) Validate() error {
	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}

	if s.InitialFactionIndex != nil && *s.InitialFactionIndex < 0 {
		el.Add(fmt.Errorf("initial_faction_index must not be negative"))
	}

	return el.Err()
}

// loadAssets reads every .json asset in dir in sorted filename order. The
// ordering is what makes discovery indexes stable across restarts.
func loadAssets[T validatingSpec](dir string) ([]asset[T], error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading asset directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	seen := map[string]bool{}
	assets := make([]asset[T], 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		var a asset[T]
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("unmarshaling %s: %w", name, err)
		}

		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("validating %s: %w", name, err)
		}

		if seen[a.Identifier] {
			return nil, fmt.Errorf("duplicate id detected: %s", a.Identifier)
		}
		seen[a.Identifier] = true

		assets = append(assets, a)
	}

	return assets, nil
}
