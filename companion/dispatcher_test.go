package companion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"svasthya/crisis"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply string
	err   error
	calls int
	// midStreamErr makes the stream fail after emitting one chunk.
	midStreamErr error
}

func (s *stubProvider) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubProvider) GenerateStream(_ context.Context, _ string) (<-chan Chunk, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make(chan Chunk)
	go func() {
		defer close(out)
		words := strings.SplitAfter(s.reply, " ")
		for i, w := range words {
			out <- Chunk{Text: w}
			if s.midStreamErr != nil && i == 0 {
				out <- Chunk{Err: s.midStreamErr}
				return
			}
		}
	}()
	return out, nil
}

func newTestDispatcher(t *testing.T, primary, fallback Provider) *Dispatcher {
	t.Helper()
	data, err := crisis.LoadPhrases()
	require.NoError(t, err)
	detector, err := crisis.NewDetector(data.Phrases, slog.Default())
	require.NoError(t, err)
	return NewDispatcher(slog.Default(), clockwork.NewRealClock(), detector, primary, fallback)
}

func TestDispatcher_PrimaryAnswers(t *testing.T) {
	req := require.New(t)
	primary := &stubProvider{reply: "That sounds really challenging."}
	fallback := &stubProvider{reply: "fallback reply"}
	d := newTestDispatcher(t, primary, fallback)

	reply := d.Send(context.Background(), "exams are stressing me out")

	req.Equal("That sounds really challenging.", reply)
	req.Equal(UsedPrimary, d.LastUsed())
	req.Zero(fallback.calls, "fallback must not be touched when primary succeeds")

	history := d.History()
	req.Len(history, 2)
	req.Equal(RoleUser, history[0].Role)
	req.Equal(RoleAssistant, history[1].Role)
}

func TestDispatcher_FallbackAnswersWhenPrimaryRejects(t *testing.T) {
	req := require.New(t)
	primary := &stubProvider{err: fmt.Errorf("503 backend unavailable")}
	fallback := &stubProvider{reply: "I understand, let's take it one step at a time."}
	d := newTestDispatcher(t, primary, fallback)

	reply := d.Send(context.Background(), "i failed my midterm")

	req.Equal("I understand, let's take it one step at a time.", reply)
	req.Equal(UsedFallback, d.LastUsed(), "last used provider must be recorded as fallback")
	req.Equal(1, primary.calls)
	req.Equal(1, fallback.calls)
}

func TestDispatcher_BothRejectYieldsApology(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Key misconfiguration", fmt.Errorf("invalid API_KEY provided"), apologyConfig},
		{"Quota exhausted", fmt.Errorf("quota exceeded for project"), apologyQuota},
		{"Anything else", fmt.Errorf("connection reset by peer"), apologyGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			d := newTestDispatcher(t,
				&stubProvider{err: fmt.Errorf("primary down")},
				&stubProvider{err: tt.err},
			)

			reply := d.Send(context.Background(), "hello")
			req.Equal(tt.want, reply)

			// The apology is not recorded as an assistant turn
			history := d.History()
			req.Len(history, 1)
			req.Equal(RoleUser, history[0].Role)
		})
	}
}

func TestDispatcher_CrisisShortCircuitsBeforeAnyProvider(t *testing.T) {
	req := require.New(t)
	primary := &stubProvider{err: fmt.Errorf("provider would reject")}
	fallback := &stubProvider{err: fmt.Errorf("provider would reject")}
	d := newTestDispatcher(t, primary, fallback)

	reply := d.Send(context.Background(), "I WANT TO DIE")

	req.Equal(crisis.SafetyMessage, reply)
	req.Zero(primary.calls, "crisis replies must not reach the external service")
	req.Zero(fallback.calls)

	history := d.History()
	req.Equal(crisis.SafetyMessage, history[len(history)-1].Content)
}

func TestDispatcher_CrisisStreamReassemblesSafetyMessage(t *testing.T) {
	req := require.New(t)
	d := newTestDispatcher(t, &stubProvider{}, nil)
	d.streamDelay = 0

	var b strings.Builder
	for chunk := range d.SendStream(context.Background(), "i want to die") {
		b.WriteString(chunk)
	}
	req.Equal(crisis.SafetyMessage+" ", b.String())
}

func TestDispatcher_StreamFailsOverMidStream(t *testing.T) {
	req := require.New(t)
	primary := &stubProvider{reply: "partial answer", midStreamErr: fmt.Errorf("stream reset")}
	fallback := &stubProvider{reply: "full fallback answer"}
	d := newTestDispatcher(t, primary, fallback)

	var b strings.Builder
	for chunk := range d.SendStream(context.Background(), "long question") {
		b.WriteString(chunk)
	}

	req.Contains(b.String(), "full fallback answer")
	req.Equal(UsedFallback, d.LastUsed())
}

func TestDispatcher_StreamBothRejectYieldsApology(t *testing.T) {
	req := require.New(t)
	d := newTestDispatcher(t,
		&stubProvider{err: fmt.Errorf("primary down")},
		&stubProvider{err: fmt.Errorf("fallback down")},
	)

	var b strings.Builder
	for chunk := range d.SendStream(context.Background(), "hello") {
		b.WriteString(chunk)
	}
	req.Equal(apologyGeneric, b.String())
}

// sequenceProvider blocks its first stream until the context is
// canceled, then answers instantly, so a test can supersede an
// in-flight stream.
type sequenceProvider struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
}

func (s *sequenceProvider) Generate(_ context.Context, _ string) (string, error) {
	return "quick reply", nil
}

func (s *sequenceProvider) GenerateStream(ctx context.Context, _ string) (<-chan Chunk, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	if first {
		close(s.started)
	}
	s.mu.Unlock()

	out := make(chan Chunk)
	go func() {
		defer close(out)
		if first {
			<-ctx.Done()
			return
		}
		out <- Chunk{Text: "quick reply"}
	}()
	return out, nil
}

func TestDispatcher_NewSendCancelsInFlightStream(t *testing.T) {
	req := require.New(t)
	provider := &sequenceProvider{started: make(chan struct{})}
	d := newTestDispatcher(t, provider, nil)

	first := d.SendStream(context.Background(), "first question")
	// Wait until the first stream is actually in flight before
	// superseding it.
	select {
	case <-provider.started:
	case <-time.After(time.Second):
		t.Fatal("first stream never started")
	}
	second := d.SendStream(context.Background(), "second question")

	var b strings.Builder
	for chunk := range second {
		b.WriteString(chunk)
	}
	req.Equal("quick reply", b.String())

	select {
	case _, ok := <-first:
		req.False(ok, "superseded stream must close without content")
	case <-time.After(time.Second):
		t.Fatal("superseded stream did not close")
	}
}

func TestDispatcher_HistoryWindowIsCapped(t *testing.T) {
	req := require.New(t)
	d := newTestDispatcher(t, &stubProvider{reply: "ok"}, nil)

	for i := 0; i < 12; i++ {
		d.Send(context.Background(), fmt.Sprintf("message %d", i))
	}

	history := d.History()
	req.Len(history, historyWindow)
	// Oldest surviving turn is recent, not message 0
	req.NotEqual("message 0", history[0].Content)
}

func TestBuildPrompt(t *testing.T) {
	req := require.New(t)

	single := buildPrompt([]Turn{{Role: RoleUser, Content: "hi"}})
	req.Contains(single, SystemPrompt)
	req.Contains(single, "Student: hi")
	req.NotContains(single, "Recent conversation")

	many := buildPrompt([]Turn{
		{Role: RoleUser, Content: "one"},
		{Role: RoleAssistant, Content: "two"},
		{Role: RoleUser, Content: "three"},
		{Role: RoleAssistant, Content: "four"},
	})
	req.Contains(many, "Recent conversation:")
	req.NotContains(many, "Student: one", "only the last turns are replayed")
	req.Contains(many, "Manas Svasthya: two")
	req.Contains(many, "Student: three")
	req.Contains(many, "Manas Svasthya: four")
}
