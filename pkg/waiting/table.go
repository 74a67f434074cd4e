// Package waiting tracks when tasks entered waiting status. The Tasks API
// doesn't carry a waiting-since timestamp, so the collector records its own:
// the first run that sees a task waiting stamps it, later runs reuse the
// stamp, and tasks that leave waiting drop out of the table.
package waiting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

type Entry struct {
	Since time.Time `json:"since"`
	Title string    `json:"title"`
}

type Table struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	dirty   bool
}

// NewTable loads the waiting table from ~/.config/opq/waiting.json,
// returning an empty table when the file doesn't exist yet.
func NewTable() (*Table, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "opq", "waiting.json")

	t := &Table{
		Path:    path,
		Entries: make(map[string]Entry),
	}

	if _, err := os.Stat(path); err == nil {
		if err := t.Load(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Table) Load() error {
	f, err := os.Open(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(t)
}

func (t *Table) Save() error {
	if !t.dirty {
		return nil
	}
	dir := filepath.Dir(t.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	f, err := os.Create(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(t)
	if err == nil {
		t.dirty = false
	}
	return err
}

// Mark records that a task is waiting as of now, unless it already has an
// earlier stamp. It returns the effective waiting-since time.
func (t *Table) Mark(id, title string, now time.Time) time.Time {
	if e, exists := t.Entries[id]; exists {
		if e.Title != title {
			e.Title = title
			t.Entries[id] = e
			t.dirty = true
		}
		return e.Since
	}
	t.Entries[id] = Entry{Since: now, Title: title}
	t.dirty = true
	return now
}

// Clear removes a task that is no longer waiting.
func (t *Table) Clear(id string) {
	if _, exists := t.Entries[id]; exists {
		delete(t.Entries, id)
		t.dirty = true
	}
}

// Since returns the recorded waiting-since time for a task, if any.
func (t *Table) Since(id string) (time.Time, bool) {
	e, ok := t.Entries[id]
	return e.Since, ok
}
