// Package chat holds the authoritative client-side state: rooms, the
// active room, typing indicators, and the current local participant.
// All mutation goes through Store operations; the UI layer only reads.
package chat

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"svasthya/domain"
	"svasthya/domain/event"
	"svasthya/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// MaxImageBytes is the upload ceiling for image messages.
const MaxImageBytes = 5 * 1024 * 1024

// Store is the single source of truth for the chat state. It is created
// explicitly by the caller (no package-level singleton) so tests can run
// independent instances side by side.
//
// Operations on a missing current participant are silent no-ops, logged
// as diagnostics. This is a documented contract, not a bug: the UI stays
// resilient while identity is not yet initialized.
type Store struct {
	mu      sync.Mutex
	log     *slog.Logger
	clock   clockwork.Clock
	current *domain.Participant

	groups   map[domain.RoomID]*domain.DiscussionGroup
	sessions map[domain.RoomID]*domain.MentorSession
	active   domain.Room
	typing   *Tracker
	images   map[string][]byte

	connected bool
	events    chan event.DomainEvent
}

func NewStore(log *slog.Logger, clock clockwork.Clock, debounce time.Duration, bufferSize int) *Store {
	return &Store{
		log:      log,
		clock:    clock,
		groups:   make(map[domain.RoomID]*domain.DiscussionGroup),
		sessions: make(map[domain.RoomID]*domain.MentorSession),
		typing:   NewTracker(clock, debounce),
		images:   make(map[string][]byte),
		events:   make(chan event.DomainEvent, bufferSize),
	}
}

// Events exposes the outbound event stream consumed by the runtime fanout.
func (s *Store) Events() <-chan event.DomainEvent { return s.events }

// SetCurrentParticipant sets the singleton local identity. Idempotent.
func (s *Store) SetCurrentParticipant(p domain.Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &p
}

func (s *Store) CurrentParticipant() *domain.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// LoadGroups replaces the discussion-group set, used once at startup with
// the seed list.
func (s *Store) LoadGroups(groups []*domain.DiscussionGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range groups {
		s.groups[g.RoomID()] = g
	}
}

// SendMessage appends a text message to the matching room and bumps its
// last-activity timestamp. Empty or whitespace-only content, an unset
// current participant, and an unknown room are all logged no-ops.
func (s *Store) SendMessage(roomID domain.RoomID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		s.log.Debug("No current participant set, dropping message", "room", roomID)
		return
	}
	content = strings.TrimSpace(content)
	if content == "" {
		s.log.Debug("Empty message content, dropping message", "room", roomID)
		return
	}

	msg := domain.NewTextMessage(*s.current, content, s.clock.Now().UTC())
	s.append(roomID, msg)
}

// ImageUpload carries one file selected for an image message.
type ImageUpload struct {
	Name   string
	Reader io.Reader
}

// SendImageMessage validates that the upload is an image (content-sniffed,
// the filename is not trusted) no larger than MaxImageBytes, stores a
// local object reference, and appends an image-kind message. Validation
// failures return an error with no state change.
func (s *Store) SendImageMessage(roomID domain.RoomID, upload ImageUpload) error {
	// Read one byte past the limit so an oversized file is rejected
	// without buffering the whole thing.
	data, err := io.ReadAll(io.LimitReader(upload.Reader, MaxImageBytes+1))
	if err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxImageBytes {
		return errors.ErrImageTooLarge
	}
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return errors.ErrNotAnImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		s.log.Debug("No current participant set, dropping image", "room", roomID)
		return nil
	}
	if s.room(roomID) == nil {
		return errors.ErrUnknownRoom
	}

	ref := "mem://" + uuid.NewString()
	s.images[ref] = data

	msg := domain.NewImageMessage(*s.current, ref, upload.Name, int64(len(data)), s.clock.Now().UTC())
	s.append(roomID, msg)
	return nil
}

// Image resolves a local object reference created by SendImageMessage.
func (s *Store) Image(ref string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.images[ref]
	return data, ok
}

// append requires s.mu held. The active-room mirror is the same pointer,
// so it needs no separate update. Sending implies the sender stopped
// composing.
func (s *Store) append(roomID domain.RoomID, msg domain.Message) {
	room := s.room(roomID)
	if room == nil {
		s.log.Warn("Unknown room, dropping message", "room", roomID)
		return
	}
	room.Append(msg)
	if s.current != nil && msg.SenderID == s.current.ID {
		if s.typing.Stop(roomID, msg.SenderID) {
			s.emit(event.TypingStopped{Room: roomID, Participant: msg.SenderID})
		}
	}
	s.emit(event.MessagePosted{
		ID:      msg.ID,
		Room:    roomID,
		Author:  msg.SenderID,
		Kind:    msg.Kind,
		Content: msg.Content,
		At:      msg.CreatedAt,
		Message: msg,
	})
}

// room requires s.mu held.
func (s *Store) room(roomID domain.RoomID) domain.Room {
	if g, ok := s.groups[roomID]; ok {
		return g
	}
	if sess, ok := s.sessions[roomID]; ok {
		return sess
	}
	return nil
}

// JoinGroup adds the current participant to the group roster, marks the
// group joined, and announces the join with a system message. A no-op if
// they already belong to the group.
func (s *Store) JoinGroup(groupID domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		s.log.Debug("No current participant set, cannot join group", "room", groupID)
		return
	}
	group, ok := s.groups[groupID]
	if !ok {
		s.log.Warn("Unknown group", "room", groupID)
		return
	}
	if !group.Join(*s.current) {
		return
	}

	now := s.clock.Now().UTC()
	s.emit(event.ParticipantJoined{Room: groupID, Participant: s.current.ID, At: now})
	s.append(groupID, domain.NewSystemMessage(fmt.Sprintf("%s joined the discussion", s.current.Name), now))
}

// LeaveGroup removes the group from the active set entirely. The original
// behavior is deliberately coarse: it does not merely remove the
// participant from the roster.
func (s *Store) LeaveGroup(groupID domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return
	}
	delete(s.groups, groupID)
	if s.active != nil && s.active.RoomID() == groupID {
		s.active = nil
	}
	if s.current != nil {
		s.emit(event.ParticipantLeft{Room: groupID, Participant: s.current.ID, At: s.clock.Now().UTC()})
	}
}

// StartTyping flags the current participant as composing in the room,
// extending the debounce deadline on every call. The typing set only ever
// contains room members.
func (s *Store) StartTyping(roomID domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	room := s.room(roomID)
	if room == nil {
		return
	}
	member := false
	for _, p := range room.Roster() {
		if p.ID == s.current.ID {
			member = true
			break
		}
	}
	if !member {
		s.log.Debug("Typing ignored for non-member", "room", roomID, "participant", s.current.ID)
		return
	}
	if s.typing.Keystroke(roomID, s.current.ID) {
		s.emit(event.TypingStarted{Room: roomID, Participant: s.current.ID})
	}
}

// StopTyping clears the current participant's composing flag immediately.
// Idempotent.
func (s *Store) StopTyping(roomID domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	if s.typing.Stop(roomID, s.current.ID) {
		s.emit(event.TypingStopped{Room: roomID, Participant: s.current.ID})
	}
}

// SweepTyping expires composing deadlines against the given time and
// emits one stop event per expired slot. Called by the sweeper worker.
func (s *Store) SweepTyping(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.typing.Expire(now) {
		s.emit(event.TypingStopped{Room: e.Room, Participant: e.Participant})
	}
}

// Typing returns the participant ids currently composing in the room.
func (s *Store) Typing(roomID domain.RoomID) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing.Composing(roomID)
}

// ResolveMentorSession returns the existing session for the unordered
// (a, b) pair, or creates one seeded with a system message. Repeated calls
// always resolve to the same session regardless of argument order.
func (s *Store) ResolveMentorSession(mentor, student domain.Participant) *domain.MentorSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.Pairs(mentor.ID, student.ID) {
			return sess
		}
	}

	sess := domain.NewMentorSession(mentor, student, s.clock.Now().UTC())
	s.sessions[sess.RoomID()] = sess
	s.emit(event.SessionCreated{
		Room:    sess.RoomID(),
		Mentor:  mentor.ID,
		Student: student.ID,
		At:      sess.LastActive(),
	})
	return sess
}

// CreateMentorSession inserts or replaces a session by id.
func (s *Store) CreateMentorSession(sess *domain.MentorSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.RoomID()] = sess
}

// UpdateMentorSession is CreateMentorSession under its historical name:
// both are insert-or-replace by session id.
func (s *Store) UpdateMentorSession(sess *domain.MentorSession) {
	s.CreateMentorSession(sess)
}

func (s *Store) SetActiveRoom(roomID domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = s.room(roomID)
}

func (s *Store) ActiveRoom() domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetConnected flips the simulated backend link flag.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected == connected {
		return
	}
	s.connected = connected
	s.emit(event.ConnectionChanged{Connected: connected, At: s.clock.Now().UTC()})
}

func (s *Store) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// UpdateParticipantStatus propagates a presence change to every roster
// the participant appears on.
func (s *Store) UpdateParticipantStatus(participantID string, status domain.Presence) {
	s.mu.Lock()
	defer s.mu.Unlock()

	update := func(roster []domain.Participant) {
		for i := range roster {
			if roster[i].ID == participantID {
				roster[i].Status = status
				roster[i].LastActive = s.clock.Now().UTC()
			}
		}
	}
	for _, g := range s.groups {
		update(g.Participants)
	}
	for _, sess := range s.sessions {
		update(sess.Participants)
	}
	if s.current != nil && s.current.ID == participantID {
		s.current.Status = status
	}
	s.emit(event.StatusChanged{Participant: participantID, Status: status, At: s.clock.Now().UTC()})
}

// Group returns the discussion group by id.
func (s *Store) Group(groupID domain.RoomID) (*domain.DiscussionGroup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	return g, ok
}

// Groups returns the current discussion-group set.
func (s *Store) Groups() []*domain.DiscussionGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := make([]*domain.DiscussionGroup, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	return groups
}

// Session returns a mentor session by id.
func (s *Store) Session(roomID domain.RoomID) (*domain.MentorSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[roomID]
	return sess, ok
}

// emit requires s.mu held. Delivery is best effort: a full channel drops
// the event with a warning so a state transition never blocks on
// observers.
func (s *Store) emit(e event.DomainEvent) {
	select {
	case s.events <- e:
	default:
		s.log.Warn(fmt.Sprintf("Event channel full, dropping event for room %s", e.RoomID()))
	}
}
