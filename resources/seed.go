package resources

// SeedResources is the built-in catalogue indexed at application start.
func SeedResources() []Resource {
	return []Resource{
		{
			ID:       "res-1",
			Title:    "Breathing Exercises for Exam Anxiety",
			Summary:  "A five minute guided box-breathing routine to calm your nervous system before and during exams.",
			Category: "anxiety",
			URL:      "https://svasthya.app/resources/breathing-exercises",
		},
		{
			ID:       "res-2",
			Title:    "Sleep Hygiene for Students",
			Summary:  "Practical habits for better sleep: consistent schedules, screen curfews, and wind-down rituals.",
			Category: "sleep",
			URL:      "https://svasthya.app/resources/sleep-hygiene",
		},
		{
			ID:       "res-3",
			Title:    "Managing Academic Pressure",
			Summary:  "How to break large study goals into manageable steps and recognise the early signs of burnout.",
			Category: "stress",
			URL:      "https://svasthya.app/resources/academic-pressure",
		},
		{
			ID:       "res-4",
			Title:    "Introduction to Mindfulness Meditation",
			Summary:  "A beginner friendly series of short mindfulness practices you can do between classes.",
			Category: "mindfulness",
			URL:      "https://svasthya.app/resources/mindfulness-intro",
		},
		{
			ID:       "res-5",
			Title:    "When and How to Reach Out for Help",
			Summary:  "Recognising when stress becomes something more, and the helplines and counsellors available to you.",
			Category: "support",
			URL:      "https://svasthya.app/resources/reaching-out",
		},
		{
			ID:       "res-6",
			Title:    "Healthy Study Breaks",
			Summary:  "Short movement and stretching ideas that reset focus without derailing a study session.",
			Category: "stress",
			URL:      "https://svasthya.app/resources/study-breaks",
		},
	}
}
