package cache

import (
	"encoding/json"
	"fmt"

	"github.com/momai/momai/internal/domain"
)

// Cache keys. Conversation state and identity are always invalidated
// together so a later sign-in on the same device never sees a previous
// user's conversations.
const (
	keyConversations = "conversations"
	keyActive        = "active"
	keyIdentity      = "identity"
)

// Snapshot is the persisted shape of the session state.
type Snapshot struct {
	Conversations []domain.Conversation `json:"conversations"`
	ActiveID      string                `json:"activeId,omitempty"`
}

// SnapshotStore persists session state through a KV backend.
type SnapshotStore struct {
	kv KV
}

// NewSnapshotStore wraps a KV backend.
func NewSnapshotStore(kv KV) *SnapshotStore {
	return &SnapshotStore{kv: kv}
}

// SaveState writes the conversation set and active selection.
func (s *SnapshotStore) SaveState(conversations []domain.Conversation, activeID string) error {
	data, err := json.Marshal(conversations)
	if err != nil {
		return fmt.Errorf("encoding conversations: %w", err)
	}
	if err := s.kv.Set(keyConversations, data); err != nil {
		return err
	}
	if activeID == "" {
		return s.kv.Remove(keyActive)
	}
	return s.kv.Set(keyActive, []byte(activeID))
}

// LoadState reads the persisted conversation set and active selection.
// A missing or undecodable snapshot degrades to empty state.
func (s *SnapshotStore) LoadState() (Snapshot, error) {
	var snap Snapshot

	data, ok, err := s.kv.Get(keyConversations)
	if err != nil {
		return snap, err
	}
	if ok {
		if err := json.Unmarshal(data, &snap.Conversations); err != nil {
			return Snapshot{}, fmt.Errorf("decoding conversations: %w", err)
		}
	}

	active, ok, err := s.kv.Get(keyActive)
	if err != nil {
		return snap, err
	}
	if ok {
		snap.ActiveID = string(active)
	}
	return snap, nil
}

// SaveIdentity writes the identity marker.
func (s *SnapshotStore) SaveIdentity(identity domain.Identity) error {
	if !identity.Known() {
		return s.kv.Remove(keyIdentity)
	}
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}
	return s.kv.Set(keyIdentity, data)
}

// LoadIdentity reads the identity marker; a missing marker yields the
// anonymous zero value.
func (s *SnapshotStore) LoadIdentity() (domain.Identity, error) {
	var identity domain.Identity
	data, ok, err := s.kv.Get(keyIdentity)
	if err != nil || !ok {
		return identity, err
	}
	if err := json.Unmarshal(data, &identity); err != nil {
		return domain.Identity{}, fmt.Errorf("decoding identity: %w", err)
	}
	return identity, nil
}

// Clear removes the conversation snapshot and identity marker together.
func (s *SnapshotStore) Clear() error {
	return s.kv.Clear()
}
