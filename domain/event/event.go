package event

import (
	"time"

	"svasthya/domain"

	"github.com/google/uuid"
)

type DomainEvent interface {
	RoomID() domain.RoomID
}

type MessagePosted struct {
	ID      uuid.UUID
	Room    domain.RoomID
	Author  string
	Kind    domain.MessageKind
	Content string
	At      time.Time
	Message domain.Message
}

func (m MessagePosted) RoomID() domain.RoomID { return m.Room }

type ParticipantJoined struct {
	Room        domain.RoomID
	Participant string
	At          time.Time
}

func (p ParticipantJoined) RoomID() domain.RoomID { return p.Room }

type ParticipantLeft struct {
	Room        domain.RoomID
	Participant string
	At          time.Time
}

func (p ParticipantLeft) RoomID() domain.RoomID { return p.Room }

type TypingStarted struct {
	Room        domain.RoomID
	Participant string
}

func (t TypingStarted) RoomID() domain.RoomID { return t.Room }

type TypingStopped struct {
	Room        domain.RoomID
	Participant string
}

func (t TypingStopped) RoomID() domain.RoomID { return t.Room }

type SessionCreated struct {
	Room    domain.RoomID
	Mentor  string
	Student string
	At      time.Time
}

func (s SessionCreated) RoomID() domain.RoomID { return s.Room }

// ConnectionChanged carries no room: it describes the simulated backend
// link for the whole client process.
type ConnectionChanged struct {
	Connected bool
	At        time.Time
}

func (c ConnectionChanged) RoomID() domain.RoomID { return "" }

type StatusChanged struct {
	Participant string
	Status      domain.Presence
	At          time.Time
}

func (s StatusChanged) RoomID() domain.RoomID { return "" }
