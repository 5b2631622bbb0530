package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// inviteData is the on-disk shape: a flat id list under "requested"
type inviteData struct {
	Requested []int64 `json:"requested"`
}

// InviteStore is a file-backed set of user ids that already claimed a
// one-time invite. The whole document is read and rewritten on every
// mutation; the mutex closes the lost-update race between concurrent
// writers on the same process.
type InviteStore struct {
	mu   sync.Mutex
	path string
}

func NewInviteStore(path string) *InviteStore {
	return &InviteStore{path: path}
}

func (s *InviteStore) load() (*inviteData, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &inviteData{Requested: []int64{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read invite store: %w", err)
	}

	var data inviteData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse invite store: %w", err)
	}
	if data.Requested == nil {
		data.Requested = []int64{}
	}
	return &data, nil
}

func (s *InviteStore) save(data *inviteData) error {
	raw, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode invite store: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write invite store: %w", err)
	}
	return nil
}

// Get returns the current id set
func (s *InviteStore) Get() (map[int64]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(data.Requested))
	for _, id := range data.Requested {
		set[id] = struct{}{}
	}
	return set, nil
}

// Contains reports whether the id has already claimed an invite
func (s *InviteStore) Contains(id int64) (bool, error) {
	set, err := s.Get()
	if err != nil {
		return false, err
	}
	_, ok := set[id]
	return ok, nil
}

// Add records the id; adding an existing id is a no-op
func (s *InviteStore) Add(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range data.Requested {
		if existing == id {
			return nil
		}
	}
	data.Requested = append(data.Requested, id)
	return s.save(data)
}

// Remove deletes the id; removing an absent id is a no-op and reported back
func (s *InviteStore) Remove(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return false, err
	}

	filtered := data.Requested[:0]
	removed := false
	for _, existing := range data.Requested {
		if existing == id {
			removed = true
			continue
		}
		filtered = append(filtered, existing)
	}
	if !removed {
		return false, nil
	}
	data.Requested = filtered
	return true, s.save(data)
}
