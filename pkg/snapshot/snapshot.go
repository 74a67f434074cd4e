// Package snapshot persists one collection run per surface as JSON files
// under the opq config directory. Collectors write snapshots; the queue
// builder reads them back. Loading is strict: a missing or malformed
// snapshot is an error, never a silent empty result.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hfoster/opq/pkg/queue"
)

const (
	xdgAppName  = "opq"
	snapshotDir = "snapshots"
)

// Store reads and writes surface snapshots under Dir.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at ~/.config/opq/snapshots.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Store{Dir: filepath.Join(home, ".config", xdgAppName, snapshotDir)}, nil
}

// SaveChat writes the chat surface snapshot.
func (s *Store) SaveChat(chat map[string]queue.ChatSpace) error {
	return s.write("chat.json", chat)
}

// SaveCalendar writes the calendar surface snapshot.
func (s *Store) SaveCalendar(events []queue.Event) error {
	return s.write("calendar.json", events)
}

// SaveGmail writes the gmail surface snapshot.
func (s *Store) SaveGmail(threads []queue.Thread) error {
	return s.write("gmail.json", threads)
}

// SaveTasks writes the tasks surface snapshot.
func (s *Store) SaveTasks(items []queue.TaskItem) error {
	return s.write("tasks.json", items)
}

// LoadTasks reads the tasks surface snapshot.
func (s *Store) LoadTasks() ([]queue.TaskItem, error) {
	f, err := os.Open(filepath.Join(s.Dir, "tasks.json"))
	if err != nil {
		return nil, fmt.Errorf("missing tasks snapshot: %w", err)
	}
	defer f.Close()
	var items []queue.TaskItem
	if err := json.NewDecoder(f).Decode(&items); err != nil {
		return nil, fmt.Errorf("malformed tasks snapshot: %w", err)
	}
	return items, nil
}

// LoadAll reads the three view surfaces for rendering.
func (s *Store) LoadAll() (queue.Snapshots, error) {
	return queue.LoadSnapshots(s.Dir)
}

func (s *Store) write(name string, v interface{}) error {
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
