// Package domain contains core concepts of the wellness chat system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
	RoleSystem  Role = "system"
)

type Presence string

const (
	Online  Presence = "online"
	Away    Presence = "away"
	Offline Presence = "offline"
)

// Participant represents a person in the system.
// Created once per session, mutated only by presence updates.
type Participant struct {
	ID         string
	Name       string
	Avatar     string
	Status     Presence
	Role       Role
	LastActive time.Time
}

// System is the pseudo-participant used as the sender of system messages.
var System = Participant{
	ID:     "system",
	Name:   "System",
	Avatar: "🤖",
	Role:   RoleSystem,
	Status: Online,
}
