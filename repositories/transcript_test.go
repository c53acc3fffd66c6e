package repositories

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"svasthya/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Store_And_Fetch_Messages(t *testing.T) {
	req := require.New(t)
	repository := NewTranscriptRepository(openTestDB(t), slog.Default(), nil)

	room := domain.RoomID("group-1")
	at := time.Now().UTC()
	stored := []DiskMessage{
		{ID: uuid.New(), Room: room, Author: "user-1", Kind: domain.KindText, Content: "first", At: at},
		{ID: uuid.New(), Room: room, Author: "user-2", Kind: domain.KindText, Content: "second", At: at.Add(time.Minute)},
		{ID: uuid.New(), Room: room, Author: "user-1", Kind: domain.KindText, Content: "third", At: at.Add(2 * time.Minute)},
	}
	for _, dm := range stored {
		req.NoError(repository.StoreMessage(dm))
	}

	fetched, cursor, err := repository.GetMessages(room, nil)
	req.NoError(err)
	req.NotNil(cursor)
	req.Len(fetched, len(stored))

	// Reverse scan returns newest first
	req.Equal("third", fetched[0].Content)
	req.Equal("second", fetched[1].Content)
	req.Equal("first", fetched[2].Content)
}

func Test_Fetch_Messages_Is_Room_Scoped(t *testing.T) {
	req := require.New(t)
	repository := NewTranscriptRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()

	req.NoError(repository.StoreMessage(DiskMessage{
		ID: uuid.New(), Room: "group-1", Author: "user-1", Kind: domain.KindText, Content: "in group one", At: at}))
	req.NoError(repository.StoreMessage(DiskMessage{
		ID: uuid.New(), Room: "group-2", Author: "user-1", Kind: domain.KindText, Content: "in group two", At: at}))

	fetched, _, err := repository.GetMessages("group-1", nil)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("in group one", fetched[0].Content)
}

func Test_Fetch_Messages_Pagination(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewTranscriptRepository(openTestDB(t), slog.Default(), &limit)

	room := domain.RoomID("session-mentor-1-user-1-42")
	at := time.Now().UTC()
	for i := 1; i <= 5; i++ {
		req.NoError(repository.StoreMessage(DiskMessage{
			ID:      uuid.New(),
			Room:    room,
			Author:  "user-1",
			Kind:    domain.KindText,
			Content: fmt.Sprintf("message %d", i),
			At:      at.Add(time.Duration(i) * time.Minute),
		}))
	}

	page1, cursor1, err := repository.GetMessages(room, nil)
	req.NoError(err)
	req.Len(page1, 2)
	req.Equal("message 5", page1[0].Content)
	req.Equal("message 4", page1[1].Content)

	page2, cursor2, err := repository.GetMessages(room, cursor1)
	req.NoError(err)
	req.Len(page2, 2)
	req.Equal("message 3", page2[0].Content)
	req.Equal("message 2", page2[1].Content)

	page3, _, err := repository.GetMessages(room, cursor2)
	req.NoError(err)
	req.Len(page3, 1)
	req.Equal("message 1", page3[0].Content)
}

func Test_FromMessage_Conversion(t *testing.T) {
	req := require.New(t)
	sender := domain.Participant{ID: "user-1", Name: "Arjun Sharma", Avatar: "🧑‍🎓"}
	msg := domain.NewTextMessage(sender, "hello", time.Now().UTC())

	dm := FromMessage("group-1", msg)
	req.Equal(msg.ID, dm.ID)
	req.Equal(domain.RoomID("group-1"), dm.Room)
	req.Equal("user-1", dm.Author)
	req.Equal(domain.KindText, dm.Kind)
	req.Equal("hello", dm.Content)
}
