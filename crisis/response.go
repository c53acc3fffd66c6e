package crisis

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// SafetyMessage is the fixed reply substituted for the generative answer
// whenever a crisis phrase is detected. Never generated, never localized.
const SafetyMessage = `I'm really concerned about what you're sharing with me. Your life has value and there are people who want to help you right now. Please reach out immediately:

🚨 EMERGENCY NUMBERS:
• 911 (Emergency Services)
• 1098 (Childline India - 24/7 Crisis Support)
• 1800-599-0019 (KIRAN Mental Health Helpline)

You are not alone. Please call one of these numbers right now, or go to your nearest emergency room. Your safety is the most important thing right now.

If you're on a college campus, also contact your campus counseling center or student health services immediately.`

// StreamSafetyMessage replays the safety message word by word so crisis
// replies render the same way as normal streamed answers. The channel is
// closed when the message is complete or the context is canceled.
func StreamSafetyMessage(ctx context.Context, clock clockwork.Clock, delay time.Duration) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		// Split on single spaces so newlines survive inside chunks.
		for _, word := range strings.Split(SafetyMessage, " ") {
			select {
			case <-ctx.Done():
				return
			case out <- word + " ":
			}
			if delay > 0 {
				select {
				case <-ctx.Done():
					return
				case <-clock.After(delay):
				}
			}
		}
	}()
	return out
}
