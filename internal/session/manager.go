// Package session owns the in-memory conversation state: which conversations
// exist, which one is active, and the send/receive lifecycle against the
// remote API. The UI layer (the CLI here) only reads snapshots and issues
// operations; it never mutates state directly.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/momai/momai/internal/api"
	"github.com/momai/momai/internal/cache"
	"github.com/momai/momai/internal/domain"
	"github.com/momai/momai/internal/logging"
)

// State is the manager's lifecycle state. Transitions: NoIdentity →
// (identity set) → Loading → (fetch success or failure) → Ready; sign-out
// returns to NoIdentity.
type State string

const (
	StateNoIdentity State = "no-identity"
	StateLoading    State = "loading"
	StateReady      State = "ready"
)

// Transcript notices. Failures surface inside the conversation so the
// transcript stays the single audit trail of what was attempted.
const (
	noticeNotSignedIn = "You are not signed in. Sign in to keep chatting."
	noticeSyncFailed  = "No reply received (sync failed). Try resending your message."
)

const defaultTimeout = 60 * time.Second

// Config assembles a Manager's collaborators.
type Config struct {
	API     api.Client
	Cache   *cache.SnapshotStore
	Log     *logging.Logger
	Timeout time.Duration // bound on each remote call; defaults to 60s
}

// Manager is the single source of truth for conversations, active selection,
// and message send state. All mutation happens under one mutex; remote calls
// run outside it. Sends are serialized by the busy flag: while one is
// outstanding, further sends are rejected as no-ops.
type Manager struct {
	mu sync.Mutex

	api     api.Client
	store   *cache.SnapshotStore
	log     *logging.Logger
	timeout time.Duration

	conversations []*domain.Conversation // display order
	index         map[string]*domain.Conversation
	activeID      string
	identity      domain.Identity
	state         State
	busy          bool

	// cancels the in-flight send when identity changes or the user signs out
	cancelSend context.CancelFunc
}

// NewManager creates a manager in the no-identity state.
func NewManager(cfg Config) *Manager {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Manager{
		api:     cfg.API,
		store:   cfg.Cache,
		log:     cfg.Log.Sub("session"),
		timeout: timeout,
		index:   make(map[string]*domain.Conversation),
		state:   StateNoIdentity,
	}
}

// Restore rehydrates identity and conversation state from the local cache.
// Call once at startup, before any remote fetch; the cached state keeps the
// UI usable until LoadForIdentity completes. Conversations are only adopted
// when an identity marker is present, since the cache is cleared on sign-out.
func (m *Manager) Restore() {
	identity, err := m.store.LoadIdentity()
	if err != nil {
		m.log.Warn().Err(err).Msg("identity restore failed")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.identity = identity
	if !identity.Known() {
		m.state = StateNoIdentity
		return
	}
	m.state = StateReady

	snap, err := m.store.LoadState()
	if err != nil {
		m.log.Warn().Err(err).Msg("snapshot restore failed")
		return
	}
	m.replaceLocked(snap.Conversations, snap.ActiveID)
	m.log.Debug().Int("conversations", len(m.conversations)).Msg("state restored from cache")
}

// LoadForIdentity makes identity the current user and replaces local state
// with the authoritative conversation list. State belonging to a different
// identity is discarded before the fetch, so no cross-identity data is
// visible even transiently. A failed fetch is non-fatal: same-identity
// cached state is kept as a degraded fallback.
func (m *Manager) LoadForIdentity(ctx context.Context, identity domain.Identity) {
	m.mu.Lock()
	if m.cancelSend != nil {
		m.cancelSend()
	}
	if !m.identity.Equal(identity) {
		m.clearConversationsLocked()
		// The previous user's snapshot must not outlive the switch: persist
		// the cleared set now, before the new identity marker lands, so a
		// failed fetch plus restart cannot resurrect it under the new user.
		m.persistLocked()
	}
	m.identity = identity
	m.state = StateLoading
	prevActive := m.activeID
	if err := m.store.SaveIdentity(identity); err != nil {
		m.log.Warn().Err(err).Msg("identity persist failed")
	}
	m.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	convs, err := m.api.ListConversations(cctx, identity)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateReady
	if err != nil {
		m.log.Warn().Err(err).Msg("conversation fetch failed, keeping cached state")
		return
	}
	m.replaceLocked(convs, prevActive)
	m.persistLocked()
	m.log.Info().Int("conversations", len(convs)).Msg("conversations loaded")
}

// CreateConversation creates a conversation, makes it active, and returns
// its descriptor. The local placeholder is created first so the UI stays
// usable; on remote success the authoritative id/title replace it, on remote
// failure the placeholder survives in degraded mode.
func (m *Manager) CreateConversation(ctx context.Context, title string) domain.Conversation {
	m.mu.Lock()
	conv := m.newConversationLocked(title)
	m.activeID = conv.ID
	identity := m.identity
	localID := conv.ID
	m.persistLocked()
	m.mu.Unlock()

	m.log.Info().Str("conversation", localID).Msg("conversation created")

	if !identity.Known() {
		return m.cloneByID(localID)
	}

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	remote, err := m.api.CreateConversation(cctx, identity, title)

	m.mu.Lock()
	defer m.mu.Unlock()
	local := m.index[localID]
	if local == nil {
		// removed while the request was in flight
		return domain.Conversation{ID: localID}
	}
	if err != nil {
		m.log.Warn().Err(err).Str("conversation", localID).Msg("remote create failed, keeping local placeholder")
		return local.Clone()
	}

	delete(m.index, local.ID)
	local.ID = remote.ID
	if remote.Title != "" {
		local.Title = remote.Title
	}
	m.index[local.ID] = local
	if m.activeID == localID {
		m.activeID = local.ID
	}
	m.persistLocked()
	return local.Clone()
}

// SelectConversation makes id the active conversation if it exists;
// an unknown id is a no-op. Idempotent.
func (m *Manager) SelectConversation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[id]; !ok {
		return
	}
	m.activeID = id
	m.persistLocked()
}

// ClearActiveSelection clears the active conversation without deleting
// anything; used when navigating to a fresh chat view.
func (m *Manager) ClearActiveSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeID = ""
	m.persistLocked()
}

// RemoveConversation removes id from the local set. If it was active, the
// next remaining conversation becomes active, or none if the set is empty.
// Unknown ids are a no-op.
func (m *Manager) RemoveConversation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[id]; !ok {
		return
	}
	delete(m.index, id)
	for i, c := range m.conversations {
		if c.ID == id {
			m.conversations = append(m.conversations[:i], m.conversations[i+1:]...)
			break
		}
	}
	if m.activeID == id {
		m.activeID = ""
		if len(m.conversations) > 0 {
			m.activeID = m.conversations[0].ID
		}
	}
	m.persistLocked()
	m.log.Info().Str("conversation", id).Msg("conversation removed")
}

// SendMessage appends text as a user message to the active conversation and
// requests the assistant's reply. With no active conversation one is created
// first. Empty text and sends while busy are no-ops. The optimistic user
// message is visible before any network round trip and is never rolled back;
// failures append an assistant-role notice instead.
func (m *Manager) SendMessage(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		m.log.Debug().Msg("send rejected: busy")
		return
	}
	_, haveActive := m.index[m.activeID]
	m.mu.Unlock()

	if !haveActive {
		// Precondition fixup: sending with no active conversation creates one.
		m.CreateConversation(ctx, "")
	}

	m.mu.Lock()
	target := m.index[m.activeID]
	m.sendLocked(ctx, target, text)
}

// ResendAsUser appends text as a new user message to the given conversation
// and follows the same send contract as SendMessage, without changing the
// active selection. Unknown conversations are a no-op.
func (m *Manager) ResendAsUser(ctx context.Context, conversationID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		m.log.Debug().Msg("resend rejected: busy")
		return
	}
	target := m.index[conversationID]
	m.sendLocked(ctx, target, text)
}

// sendLocked runs the shared send lifecycle. Called with m.mu held; releases
// it around the remote calls and always leaves it unlocked on return.
func (m *Manager) sendLocked(ctx context.Context, target *domain.Conversation, text string) {
	if target == nil || m.busy {
		m.mu.Unlock()
		return
	}

	userMsg := domain.Message{
		ID:        uuid.New().String(),
		Role:      domain.RoleUser,
		Text:      text,
		State:     domain.StatePending,
		CreatedAt: time.Now(),
	}
	m.appendLocked(target, userMsg)

	if !m.identity.Known() {
		// Distinct from a network failure: report locally, skip the remote call.
		m.markLocked(target, userMsg.ID, domain.StateFailed)
		m.appendLocked(target, notice(noticeNotSignedIn))
		m.persistLocked()
		m.mu.Unlock()
		return
	}

	m.busy = true
	identity := m.identity
	convID := target.ID
	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	m.cancelSend = cancel
	m.persistLocked()
	m.mu.Unlock()

	reply, err := m.api.PostMessage(cctx, identity, convID, text)

	// Empty reply means the backend accepted the message but did not return
	// the assistant turn inline; reconcile by re-reading the message list.
	var remote []domain.Message
	var syncErr error
	if err == nil && reply == nil {
		remote, syncErr = m.api.ListMessages(cctx, identity, convID)
	}
	cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	m.cancelSend = nil
	defer m.persistLocked()

	conv := m.index[convID]
	if conv == nil {
		// Conversation was removed while the send was in flight.
		return
	}

	switch {
	case err != nil:
		m.markLocked(conv, userMsg.ID, domain.StateFailed)
		m.appendLocked(conv, notice(failureText(err)))
		m.log.Warn().Err(err).Str("conversation", convID).Msg("send failed")
	case reply != nil:
		m.markLocked(conv, userMsg.ID, domain.StateConfirmed)
		m.appendLocked(conv, *reply)
	case syncErr != nil || len(remote) == 0:
		m.markLocked(conv, userMsg.ID, domain.StateConfirmed)
		m.appendLocked(conv, notice(noticeSyncFailed))
		m.log.Warn().Err(syncErr).Str("conversation", convID).Msg("reply reconciliation failed")
	default:
		// Adopt the authoritative transcript wholesale.
		conv.Messages = remote
		conv.UpdatedAt = time.Now()
	}
}

// UpdateMessage replaces the text of an existing message in place (inline
// edit). It never triggers a remote send; resending edited content is the
// explicit ResendAsUser action. Unknown ids or empty text are a no-op.
func (m *Manager) UpdateMessage(conversationID, messageID, newText string) {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	conv := m.index[conversationID]
	if conv == nil {
		return
	}
	for i := range conv.Messages {
		if conv.Messages[i].ID == messageID {
			conv.Messages[i].Text = newText
			conv.UpdatedAt = time.Now()
			m.persistLocked()
			return
		}
	}
}

// SignOut tears down session state: cancels any in-flight send, clears
// conversations and identity from memory and cache together.
func (m *Manager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelSend != nil {
		m.cancelSend()
		m.cancelSend = nil
	}
	m.clearConversationsLocked()
	m.identity = domain.Identity{}
	m.state = StateNoIdentity
	m.busy = false
	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("cache clear failed")
	}
	m.log.Info().Msg("signed out")
}

// Snapshot is a read-only view of the manager for the UI layer.
type Snapshot struct {
	State         State
	Busy          bool
	SignedIn      bool
	ActiveID      string
	Conversations []domain.Conversation
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	convs := make([]domain.Conversation, 0, len(m.conversations))
	for _, c := range m.conversations {
		convs = append(convs, c.Clone())
	}
	return Snapshot{
		State:         m.state,
		Busy:          m.busy,
		SignedIn:      m.identity.Known(),
		ActiveID:      m.activeID,
		Conversations: convs,
	}
}

// ActiveConversation returns a copy of the active conversation, or nil when
// none is selected.
func (m *Manager) ActiveConversation() *domain.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv := m.index[m.activeID]
	if conv == nil {
		return nil
	}
	clone := conv.Clone()
	return &clone
}

// --- internal helpers (all require m.mu) ---

// newConversationLocked appends a local placeholder conversation.
func (m *Manager) newConversationLocked(title string) *domain.Conversation {
	if title == "" {
		title = fmt.Sprintf("Conversation %d", len(m.conversations)+1)
	}
	now := time.Now()
	conv := &domain.Conversation{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.conversations = append(m.conversations, conv)
	m.index[conv.ID] = conv
	return conv
}

// replaceLocked swaps in a new conversation set and fixes up the active
// selection: a still-present previous active id stays active, otherwise the
// first conversation is selected, otherwise the selection clears.
func (m *Manager) replaceLocked(convs []domain.Conversation, prevActive string) {
	m.conversations = m.conversations[:0]
	m.index = make(map[string]*domain.Conversation, len(convs))
	for i := range convs {
		c := convs[i].Clone()
		m.conversations = append(m.conversations, &c)
		m.index[c.ID] = &c
	}

	switch {
	case prevActive != "" && m.index[prevActive] != nil:
		m.activeID = prevActive
	case len(m.conversations) > 0:
		m.activeID = m.conversations[0].ID
	default:
		m.activeID = ""
	}
}

func (m *Manager) clearConversationsLocked() {
	m.conversations = nil
	m.index = make(map[string]*domain.Conversation)
	m.activeID = ""
}

func (m *Manager) appendLocked(conv *domain.Conversation, msg domain.Message) {
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = time.Now()
}

func (m *Manager) markLocked(conv *domain.Conversation, messageID string, state domain.DeliveryState) {
	for i := range conv.Messages {
		if conv.Messages[i].ID == messageID {
			conv.Messages[i].State = state
			return
		}
	}
}

// persistLocked writes the snapshot after every mutation so a reload can
// restore the last known state.
func (m *Manager) persistLocked() {
	convs := make([]domain.Conversation, 0, len(m.conversations))
	for _, c := range m.conversations {
		convs = append(convs, c.Clone())
	}
	if err := m.store.SaveState(convs, m.activeID); err != nil {
		m.log.Warn().Err(err).Msg("snapshot persist failed")
	}
}

func (m *Manager) cloneByID(id string) domain.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conv := m.index[id]; conv != nil {
		return conv.Clone()
	}
	return domain.Conversation{ID: id}
}

// notice builds a confirmed assistant-role transcript notice.
func notice(text string) domain.Message {
	return domain.Message{
		ID:        uuid.New().String(),
		Role:      domain.RoleAssistant,
		Text:      text,
		State:     domain.StateConfirmed,
		CreatedAt: time.Now(),
	}
}

// failureText renders a remote failure as a human-readable transcript line.
func failureText(err error) string {
	return fmt.Sprintf("Sorry, your message could not be delivered (%v). It was kept above; resend when you're ready.", err)
}
