package domain

import (
	"fmt"
	"time"
)

type RoomID string

// Room is the common surface of the two room variants. Message append
// and roster access are written once on roomCore; the variants only add
// their extra fields.
type Room interface {
	RoomID() RoomID
	Roster() []Participant
	Log() []Message
	Append(message Message)
	LastActive() time.Time
}

// roomCore holds the state shared by both room variants.
// The message log is append-only and never reordered.
type roomCore struct {
	ID           RoomID
	Participants []Participant
	Messages     []Message
	CreatedAt    time.Time
	LastActivity time.Time
}

func (r *roomCore) RoomID() RoomID        { return r.ID }
func (r *roomCore) Roster() []Participant { return r.Participants }
func (r *roomCore) Log() []Message        { return r.Messages }
func (r *roomCore) LastActive() time.Time { return r.LastActivity }

func (r *roomCore) Append(message Message) {
	r.Messages = append(r.Messages, message)
	r.LastActivity = message.CreatedAt
}

// HasParticipant reports membership by participant id.
func (r *roomCore) HasParticipant(id string) bool {
	for _, p := range r.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// DiscussionGroup is a persistent multi-party room created from the seed
// list at startup. It is never destroyed during a session; leaving simply
// drops it from the active set.
type DiscussionGroup struct {
	roomCore
	Topic           string
	Description     string
	Moderator       Participant
	NextSession     time.Time
	Tags            []string
	Joined          bool
	MaxParticipants int
}

func NewDiscussionGroup(id RoomID, topic, description string, moderator Participant, at time.Time) *DiscussionGroup {
	return &DiscussionGroup{
		roomCore: roomCore{
			ID:           id,
			CreatedAt:    at,
			LastActivity: at,
		},
		Topic:       topic,
		Description: description,
		Moderator:   moderator,
	}
}

// Join adds the participant to the roster and marks the group as joined.
// Idempotent: a participant already on the roster is never duplicated.
func (g *DiscussionGroup) Join(p Participant) bool {
	if g.HasParticipant(p.ID) {
		return false
	}
	g.Participants = append(g.Participants, p)
	g.Joined = true
	return true
}

type SessionStatus string

const SessionActive SessionStatus = "active"

// MentorSession is a lazily created 1:1 room pairing one mentor and one
// student. At most one session exists per unordered participant pair.
type MentorSession struct {
	roomCore
	Name    string
	Mentor  Participant
	Student Participant
	Status  SessionStatus
}

// NewMentorSession builds a session whose id is derived from both
// participant ids and the creation time, and seeds the log with a single
// system message announcing the pairing.
func NewMentorSession(mentor, student Participant, at time.Time) *MentorSession {
	s := &MentorSession{
		roomCore: roomCore{
			ID:           RoomID(fmt.Sprintf("session-%s-%s-%d", mentor.ID, student.ID, at.UnixNano())),
			Participants: []Participant{mentor, student},
			CreatedAt:    at,
			LastActivity: at,
		},
		Name:    fmt.Sprintf("%s & %s", mentor.Name, student.Name),
		Mentor:  mentor,
		Student: student,
		Status:  SessionActive,
	}
	s.Append(NewSystemMessage(
		fmt.Sprintf("Chat session started between %s and %s", mentor.Name, student.Name), at))
	return s
}

// Pairs reports whether the session is the 1:1 room for the given
// unordered pair of participant ids.
func (s *MentorSession) Pairs(a, b string) bool {
	return s.HasParticipant(a) && s.HasParticipant(b)
}
