// Package domain contains core concepts of the wellness chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageKind string

const (
	KindText   MessageKind = "text"
	KindImage  MessageKind = "image"
	KindSystem MessageKind = "system"
)

// Message represents an immutable chat entry.
// Sender name and avatar are denormalized so a log stays renderable
// after the roster changes.
type Message struct {
	ID           uuid.UUID
	SenderID     string
	SenderName   string
	SenderAvatar string
	Content      string
	Kind         MessageKind
	CreatedAt    time.Time

	// Image fields, set only when Kind == KindImage.
	ImageRef string
	FileName string
	FileSize int64
}

// NewTextMessage builds a text message from the sending participant.
func NewTextMessage(sender Participant, content string, at time.Time) Message {
	return Message{
		ID:           uuid.New(),
		SenderID:     sender.ID,
		SenderName:   sender.Name,
		SenderAvatar: sender.Avatar,
		Content:      content,
		Kind:         KindText,
		CreatedAt:    at,
	}
}

// NewImageMessage builds an image message pointing at a local object
// reference produced by the upload path.
func NewImageMessage(sender Participant, ref, fileName string, fileSize int64, at time.Time) Message {
	return Message{
		ID:           uuid.New(),
		SenderID:     sender.ID,
		SenderName:   sender.Name,
		SenderAvatar: sender.Avatar,
		Content:      "Shared an image: " + fileName,
		Kind:         KindImage,
		CreatedAt:    at,
		ImageRef:     ref,
		FileName:     fileName,
		FileSize:     fileSize,
	}
}

// NewSystemMessage builds an announcement authored by the System participant.
func NewSystemMessage(content string, at time.Time) Message {
	return Message{
		ID:           uuid.New(),
		SenderID:     System.ID,
		SenderName:   System.Name,
		SenderAvatar: System.Avatar,
		Content:      content,
		Kind:         KindSystem,
		CreatedAt:    at,
	}
}
