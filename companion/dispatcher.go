//go:generate go run go.uber.org/mock/mockgen -source=dispatcher.go -destination=../mocks/mock_provider.go -package=mocks
// Package companion dispatches student utterances to a generative
// provider pair with crisis gating in front and a failover retry behind:
// try primary, on any rejection try fallback, on both rejections answer
// with a static apology. Raw provider errors never reach the UI.
package companion

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"svasthya/crisis"
	"svasthya/errors"

	"github.com/jonboulle/clockwork"
)

// Chunk is one streamed piece of a reply. A provider reports a mid-stream
// failure by sending a final chunk with Err set before closing.
type Chunk struct {
	Text string
	Err  error
}

// Provider is one credentialed client of the external generative service.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStream(ctx context.Context, prompt string) (<-chan Chunk, error)
}

// Which credential answered the last dispatch.
const (
	UsedPrimary  = "primary"
	UsedFallback = "fallback"
)

// Apology strings substituted when both providers reject. The
// conversation continues normally afterwards; this is not fatal.
const (
	apologyConfig  = "I'm having trouble connecting to my AI service. Please check with the administrator about the API configuration."
	apologyQuota   = "I'm experiencing high demand right now. Please try again in a few moments."
	apologyGeneric = "I'm sorry, I'm having trouble responding right now. Please try again in a moment, or consider reaching out to your campus counseling center for immediate support."
)

// defaultStreamDelay paces simulated streams (crisis replies) between
// words.
const defaultStreamDelay = 50 * time.Millisecond

// Dispatcher owns the rolling transcript and the provider pair.
// A new streamed send cancels a prior in-flight stream.
type Dispatcher struct {
	mu       sync.Mutex
	log      *slog.Logger
	clock    clockwork.Clock
	detector crisis.Detector

	primary  Provider
	fallback Provider

	history    []Turn
	lastUsed   string
	cancelPrev context.CancelFunc

	streamDelay time.Duration
}

func NewDispatcher(log *slog.Logger, clock clockwork.Clock, detector crisis.Detector, primary, fallback Provider) *Dispatcher {
	return &Dispatcher{
		log:         log,
		clock:       clock,
		detector:    detector,
		primary:     primary,
		fallback:    fallback,
		streamDelay: defaultStreamDelay,
	}
}

// Send produces a single assistant reply for the utterance. It never
// returns an error: crisis utterances get the safety message, provider
// failures get an apology string.
func (d *Dispatcher) Send(ctx context.Context, utterance string) string {
	d.pushTurn(Turn{Role: RoleUser, Content: utterance, At: d.clock.Now().UTC()})

	if d.detector.IsCrisis(utterance) {
		d.pushTurn(Turn{Role: RoleAssistant, Content: crisis.SafetyMessage, At: d.clock.Now().UTC()})
		return crisis.SafetyMessage
	}

	prompt := d.snapshotPrompt()

	reply, used, err := d.generateWithFailover(ctx, prompt)
	if err != nil {
		// Apologies never enter the transcript.
		return apologyFor(err)
	}

	d.recordReply(reply, used)
	return reply
}

// SendStream produces a cancellable chunk stream for the utterance.
// Crisis replies are streamed word by word to stay consistent with
// normal streamed answers. Starting a new stream cancels the previous
// in-flight one.
func (d *Dispatcher) SendStream(ctx context.Context, utterance string) <-chan string {
	d.mu.Lock()
	if d.cancelPrev != nil {
		d.cancelPrev()
	}
	ctx, cancel := context.WithCancel(ctx)
	d.cancelPrev = cancel
	d.mu.Unlock()

	d.pushTurn(Turn{Role: RoleUser, Content: utterance, At: d.clock.Now().UTC()})

	if d.detector.IsCrisis(utterance) {
		out := make(chan string)
		go func() {
			defer close(out)
			for chunk := range crisis.StreamSafetyMessage(ctx, d.clock, d.streamDelay) {
				select {
				case <-ctx.Done():
					return
				case out <- chunk:
				}
			}
			d.pushTurn(Turn{Role: RoleAssistant, Content: crisis.SafetyMessage, At: d.clock.Now().UTC()})
		}()
		return out
	}

	prompt := d.snapshotPrompt()
	out := make(chan string)

	go func() {
		defer close(out)

		for _, attempt := range []struct {
			provider Provider
			used     string
		}{
			{d.primary, UsedPrimary},
			{d.fallback, UsedFallback},
		} {
			if attempt.provider == nil {
				continue
			}
			full, err := d.relayStream(ctx, attempt.provider, prompt, out)
			if err == nil {
				d.recordReply(full, attempt.used)
				return
			}
			if ctx.Err() != nil {
				return
			}
			d.log.Warn("Provider stream failed", "provider", attempt.used, "error", err)
		}

		// Both rejected: stream the apology like any other reply.
		select {
		case <-ctx.Done():
		case out <- apologyGeneric:
		}
	}()

	return out
}

// relayStream forwards one provider's chunks to out and returns the
// accumulated reply. An error mid-stream aborts this attempt; the caller
// decides whether to fail over.
func (d *Dispatcher) relayStream(ctx context.Context, p Provider, prompt string, out chan<- string) (string, error) {
	stream, err := p.GenerateStream(ctx, prompt)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for chunk := range stream {
		if chunk.Err != nil {
			return "", chunk.Err
		}
		if chunk.Text == "" {
			continue
		}
		b.WriteString(chunk.Text)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case out <- chunk.Text:
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// generateWithFailover tries primary then fallback, returning which one
// answered.
func (d *Dispatcher) generateWithFailover(ctx context.Context, prompt string) (string, string, error) {
	var firstErr error

	if d.primary != nil {
		reply, err := d.primary.Generate(ctx, prompt)
		if err == nil {
			return reply, UsedPrimary, nil
		}
		firstErr = err
		d.log.Warn("Primary provider failed, trying fallback", "error", err)
	}

	if d.fallback != nil {
		reply, err := d.fallback.Generate(ctx, prompt)
		if err == nil {
			return reply, UsedFallback, nil
		}
		d.log.Error("Both providers failed", "error", err)
		return "", "", err
	}

	if firstErr != nil {
		return "", "", firstErr
	}
	return "", "", errors.ErrNoProvider
}

// LastUsed reports which credential answered the most recent successful
// dispatch ("primary", "fallback", or empty).
func (d *Dispatcher) LastUsed() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastUsed
}

// History returns a copy of the rolling transcript.
func (d *Dispatcher) History() []Turn {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Turn, len(d.history))
	copy(out, d.history)
	return out
}

// ClearHistory resets the transcript.
func (d *Dispatcher) ClearHistory() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = nil
}

// KeyStatus describes the configured credential pair.
type KeyStatus struct {
	HasPrimary  bool
	HasFallback bool
	LastUsed    string
}

func (d *Dispatcher) Status() KeyStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return KeyStatus{
		HasPrimary:  d.primary != nil,
		HasFallback: d.fallback != nil,
		LastUsed:    d.lastUsed,
	}
}

func (d *Dispatcher) pushTurn(turn Turn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = append(d.history, turn)
	if len(d.history) > historyWindow {
		d.history = d.history[len(d.history)-historyWindow:]
	}
}

func (d *Dispatcher) snapshotPrompt() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return buildPrompt(d.history)
}

func (d *Dispatcher) recordReply(reply, used string) {
	d.mu.Lock()
	d.lastUsed = used
	d.mu.Unlock()
	d.pushTurn(Turn{Role: RoleAssistant, Content: reply, At: d.clock.Now().UTC()})
}

// apologyFor maps a provider failure to the user-facing apology string.
func apologyFor(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api_key") || strings.Contains(msg, "api key"):
		return apologyConfig
	case strings.Contains(msg, "quota") || strings.Contains(msg, "limit"):
		return apologyQuota
	default:
		return apologyGeneric
	}
}
