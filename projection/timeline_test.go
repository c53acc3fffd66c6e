package projection

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"svasthya/domain"
	"svasthya/domain/event"
)

func postedAt(room domain.RoomID, sender, content string, at time.Time) event.MessagePosted {
	id := uuid.New()
	return event.MessagePosted{
		ID:      id,
		Room:    room,
		Author:  sender,
		Content: content,
		At:      at,
		Message: domain.Message{ID: id, SenderID: sender, Content: content, CreatedAt: at},
	}
}

func TestTimelineConsumeMessagePosted(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("group-1")
	ctx := context.Background()
	now := time.Now()

	req.NoError(timeline.Consume(ctx, postedAt("group-1", "user-1", "hello", now)))
	req.NoError(timeline.Consume(ctx, postedAt("group-1", "user-2", "hi", now.Add(time.Second))))

	req.Equal(2, timeline.Len())
	req.Equal("user-1", timeline.Messages[0].SenderID)
	req.Equal("user-2", timeline.Messages[1].SenderID)
}

func TestTimelineIgnoresOtherRooms(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("group-1")
	ctx := context.Background()

	req.NoError(timeline.Consume(ctx, postedAt("group-2", "user-1", "elsewhere", time.Now())))
	req.Zero(timeline.Len())
}

func TestTimelineDeduplicates(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("group-1")
	ctx := context.Background()

	evt := postedAt("group-1", "user-1", "once", time.Now())
	req.NoError(timeline.Consume(ctx, evt))
	req.NoError(timeline.Consume(ctx, evt))

	req.Equal(1, timeline.Len())
}

func TestTimelineOrdersLateArrivals(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("group-1")
	ctx := context.Background()
	now := time.Now()

	req.NoError(timeline.Consume(ctx, postedAt("group-1", "user-2", "second", now.Add(time.Second))))
	req.NoError(timeline.Consume(ctx, postedAt("group-1", "user-1", "first", now)))

	req.Equal("first", timeline.Messages[0].Content)
	req.Equal("second", timeline.Messages[1].Content)
}

func TestTimelineIgnoresNonMessageEvents(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("group-1")

	req.NoError(timeline.Consume(context.Background(), event.TypingStarted{Room: "group-1", Participant: "user-1"}))
	req.Zero(timeline.Len())
}
