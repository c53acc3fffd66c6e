package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"svasthya/chat"
	"svasthya/companion"
	"svasthya/domain"
)

// repl reads lines from in and routes them either to the companion or,
// with the /say prefix, to the active discussion group. It exits when
// the input closes or the context is canceled.
type repl struct {
	in         io.Reader
	out        io.Writer
	store      *chat.Store
	dispatcher *companion.Dispatcher
	room       domain.RoomID
}

func (r *repl) Run(ctx context.Context) error {
	// Reading happens in its own goroutine so a canceled context stops
	// the worker even while Scan blocks on input.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-lines:
			if !ok {
				return nil
			}
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}

			if after, found := strings.CutPrefix(line, "/say "); found {
				r.store.SendMessage(r.room, after)
				continue
			}

			for chunk := range r.dispatcher.SendStream(ctx, line) {
				fmt.Fprint(r.out, chunk)
			}
			fmt.Fprintln(r.out)
		}
	}
}
