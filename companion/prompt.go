package companion

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the rolling conversation transcript.
type Turn struct {
	Role    Role
	Content string
	At      time.Time
}

const (
	// historyWindow caps the retained transcript.
	historyWindow = 10
	// promptTurns is how many recent turns are replayed into the prompt.
	promptTurns = 3

	studentLabel   = "Student"
	assistantLabel = "Manas Svasthya"
)

// SystemPrompt is the fixed instruction sent ahead of every transcript.
const SystemPrompt = `You are Manas Svasthya, a compassionate AI mental health companion designed specifically for college students. Your role is to provide supportive, empathetic, and helpful responses while maintaining professional boundaries.

## Core Principles:
1. **Empathy First**: Always respond with warmth, understanding, and validation
2. **Safety Priority**: If someone expresses thoughts of self-harm or suicidal ideation, immediately provide emergency crisis numbers
3. **Professional Boundaries**: You are a supportive companion, not a replacement for professional therapy
4. **Student-Focused**: Tailor advice to college life challenges (academic stress, social pressures, financial concerns, etc.)

## Interaction Guidelines:
- Use a warm, conversational tone
- Validate feelings before offering suggestions
- Provide practical, actionable advice when appropriate
- Encourage healthy coping strategies
- Suggest campus resources when relevant
- Maintain confidentiality and respect privacy
- Be non-judgmental and inclusive

## Response Style:
- Keep responses concise but meaningful (2-4 sentences typically)
- Use "I understand" and "That sounds really challenging" type phrases
- Offer specific, actionable suggestions when possible
- End with supportive encouragement

## What You Should NOT Do:
- Provide medical diagnoses
- Give specific medication advice
- Replace professional therapy
- Minimize serious mental health concerns
- Delay crisis intervention

Remember: You're here to support, listen, and guide students toward healthier coping strategies and professional help when needed. Safety is always the top priority.`

// buildPrompt assembles the provider prompt from the system instruction
// and the most recent turns. A single-turn history uses the simpler
// first-contact shape.
func buildPrompt(history []Turn) string {
	if len(history) == 1 {
		return SystemPrompt + "\n\n" + studentLabel + ": " + history[0].Content +
			"\n\nPlease respond as " + assistantLabel + ":"
	}

	var b strings.Builder
	b.WriteString(SystemPrompt)
	b.WriteString("\n\nRecent conversation:\n")

	recent := history
	if len(recent) > promptTurns {
		recent = recent[len(recent)-promptTurns:]
	}
	for _, turn := range recent {
		label := studentLabel
		if turn.Role == RoleAssistant {
			label = assistantLabel
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}

	b.WriteString("\nPlease respond as ")
	b.WriteString(assistantLabel)
	b.WriteString(":")
	return b.String()
}
