package chat

import (
	"time"

	"svasthya/domain"
)

// Mock roster used until a real identity provider is wired in. Indexes
// are stable: 0..3 are students, 4 is the mentor/moderator.
var MockParticipants = []domain.Participant{
	{ID: "user-1", Name: "Arjun Sharma", Avatar: "🧑‍🎓", Status: domain.Online, Role: domain.RoleStudent},
	{ID: "user-2", Name: "Priya Patel", Avatar: "👩‍🎓", Status: domain.Online, Role: domain.RoleStudent},
	{ID: "user-3", Name: "Rahul Verma", Avatar: "🧑‍💻", Status: domain.Away, Role: domain.RoleStudent},
	{ID: "user-4", Name: "Sneha Iyer", Avatar: "👩‍💻", Status: domain.Offline, Role: domain.RoleStudent},
	{ID: "mentor-1", Name: "Dr. Kavita Rao", Avatar: "👩‍⚕️", Status: domain.Online, Role: domain.RoleMentor},
}

// SeedGroups builds the fixed discussion groups loaded at application
// start, with their opening messages and scheduled next sessions.
func SeedGroups(now time.Time) []*domain.DiscussionGroup {
	moderator := MockParticipants[4]

	stress := domain.NewDiscussionGroup(
		"group-1",
		"Managing Academic Stress",
		"A safe space to discuss study-related anxiety and stress management techniques.",
		moderator,
		now.Add(-24*time.Hour),
	)
	stress.Participants = []domain.Participant{MockParticipants[0], MockParticipants[1], moderator}
	stress.NextSession = time.Date(2025, time.September, 15, 19, 0, 0, 0, time.UTC)
	stress.Tags = []string{"stress", "academic", "support"}
	stress.MaxParticipants = 15

	welcome := domain.NewTextMessage(moderator,
		"Welcome everyone! Let's start by sharing what brings you the most stress in your academic life.",
		now.Add(-1*time.Hour))
	stress.Append(welcome)
	stress.Append(domain.NewTextMessage(MockParticipants[0],
		"Hi everyone! For me, it's definitely exam preparation and time management.",
		now.Add(-55*time.Minute)))

	mindfulness := domain.NewDiscussionGroup(
		"group-2",
		"Mindfulness & Meditation",
		"Learn and practice mindfulness together in this supportive group environment.",
		moderator,
		now.Add(-48*time.Hour),
	)
	mindfulness.Participants = []domain.Participant{MockParticipants[1], MockParticipants[2]}
	mindfulness.NextSession = time.Date(2025, time.September, 16, 18, 30, 0, 0, time.UTC)
	mindfulness.Tags = []string{"mindfulness", "meditation", "wellness"}
	mindfulness.MaxParticipants = 12
	mindfulness.LastActivity = now.Add(-2 * time.Hour)

	return []*domain.DiscussionGroup{stress, mindfulness}
}
