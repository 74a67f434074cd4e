// Package roster loads the team roster the delegation advisor scores
// against. The roster is plain YAML under the opq config directory and is
// immutable once loaded; member order is meaningful (it breaks scoring
// ties).
package roster

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const rosterFile = "roster.yaml"

// Member is one delegation candidate.
type Member struct {
	Name     string   `yaml:"name"`
	Email    string   `yaml:"email"`
	Lanes    []string `yaml:"lanes,omitempty"`
	Projects []string `yaml:"projects,omitempty"`
	Capacity string   `yaml:"capacity,omitempty"` // high, medium, low
}

// Roster is the ordered list of team members.
type Roster struct {
	Members []Member `yaml:"members"`
}

// Default returns the built-in roster used when no roster file exists.
func Default() *Roster {
	return &Roster{Members: []Member{
		{
			Name:     "Mara Lindqvist",
			Email:    "mara@studio.example",
			Lanes:    []string{"finance", "admin"},
			Projects: []string{"GMG", "Harbor Supply"},
			Capacity: "high",
		},
		{
			Name:     "Jonas Reyes",
			Email:    "jonas@studio.example",
			Lanes:    []string{"creative", "design"},
			Projects: []string{"Atlas Rebrand", "GMG"},
			Capacity: "medium",
		},
		{
			Name:     "Priya Nair",
			Email:    "priya@studio.example",
			Lanes:    []string{"production", "web"},
			Projects: []string{"Harbor Supply", "Corelink"},
			Capacity: "low",
		},
	}}
}

// DefaultPath returns the roster file location under the opq config dir.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "opq", rosterFile), nil
}

// Load reads the roster from path, falling back to the built-in default when
// the file does not exist. A present-but-broken file is an error; silently
// ignoring a half-written roster would misroute delegations.
func Load(path string) (*Roster, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	var r Roster
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", path, err)
	}
	if len(r.Members) == 0 {
		return nil, fmt.Errorf("roster %s has no members", path)
	}
	return &r, nil
}
