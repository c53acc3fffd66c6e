//go:generate go run go.uber.org/mock/mockgen -source=transcript.go -destination=../mocks/mock_transcript_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"svasthya/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type ITranscriptRepository interface {
	StoreMessage(message DiskMessage) error
	GetMessages(room domain.RoomID, cursor *string) ([]DiskMessage, *string, error)
}

// TranscriptRepository persists an append-only mirror of room logs in
// BadgerDB. The in-memory store stays the source of truth; this mirror
// survives restarts and feeds the viewer.
type TranscriptRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewTranscriptRepository(db *badger.DB, log *slog.Logger, limitMessages *int) TranscriptRepository {
	return TranscriptRepository{db: db, log: log, limitMessages: limitMessages}
}

// DiskMessage is the storage-friendly representation of one chat entry.
type DiskMessage struct {
	ID      uuid.UUID          `json:"id"`
	Room    domain.RoomID      `json:"room"`
	Author  string             `json:"author"`
	Kind    domain.MessageKind `json:"kind"`
	Content string             `json:"content"`
	At      time.Time          `json:"at"`
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func (t TranscriptRepository) StoreMessage(message DiskMessage) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		message.Room,
		message.At.UnixNano(),
		message.ID,
	)
	bytes, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetMessages retrieves messages for a room using a reverse prefix scan,
// newest first. Thanks to the padded timestamp in the key the iteration
// order is chronological; the returned cursor resumes the next page.
func (t TranscriptRepository) GetMessages(room domain.RoomID, cursor *string) ([]DiskMessage, *string, error) {
	var raw [][]byte
	var lastKey string
	err := t.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", room)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk back.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if t.limitMessages != nil && len(raw) == *t.limitMessages {
				t.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *t.limitMessages))
				break
			}
			item := it.Item()
			// Memorize the cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				raw = append(raw, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]DiskMessage, 0, len(raw))
	for _, b := range raw {
		var m DiskMessage
		if err = json.Unmarshal(b, &m); err != nil {
			return nil, nil, err
		}
		messages = append(messages, m)
	}
	return messages, &lastKey, nil
}

// FromMessage converts a domain message for storage.
func FromMessage(room domain.RoomID, m domain.Message) DiskMessage {
	return DiskMessage{
		ID:      m.ID,
		Room:    room,
		Author:  m.SenderID,
		Kind:    m.Kind,
		Content: m.Content,
		At:      m.CreatedAt,
	}
}
