package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/wavechat/herald/internal/config"
)

var testMessages = config.MessagesConfig{
	MentionAck:     "room ack",
	DirectGreeting: "direct greeting",
}

func newTestDispatcher(store *fakeStore) *Dispatcher {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := NewRegistry(Deps{Logger: log, Store: store})
	return NewDispatcher(registry, testMessages, log)
}

func TestDispatchPlainText(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(&fakeStore{})

	testCases := []struct {
		name   string
		roomID string
		want   string
	}{
		{name: "room-scoped message gets mention ack", roomID: "room-1", want: "room ack"},
		{name: "direct message gets greeting", roomID: "", want: "direct greeting"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := NewRequest("user-1", tc.roomID, "hello bot")
			if got := d.Dispatch(context.Background(), req); got != tc.want {
				t.Errorf("Dispatch() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(&fakeStore{})

	testCases := []struct {
		name       string
		rawMessage string
		wantToken  string
	}{
		{name: "unregistered command", rawMessage: "/frobnicate now", wantToken: "frobnicate"},
		{name: "token echoed as typed", rawMessage: "/FooBar", wantToken: "FooBar"},
		{name: "bare sigil", rawMessage: "/", wantToken: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := NewRequest("user-1", "", tc.rawMessage)
			got := d.Dispatch(context.Background(), req)

			if !strings.Contains(got, "Unknown command") {
				t.Errorf("Dispatch() = %q, want it to contain %q", got, "Unknown command")
			}
			if !strings.Contains(got, "/"+tc.wantToken) {
				t.Errorf("Dispatch() = %q, want it to contain %q", got, "/"+tc.wantToken)
			}
		})
	}
}

func TestDispatchHandlerErrorBecomesApology(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := NewRegistry(Deps{Logger: log, Store: &fakeStore{}})
	registry.register(&Descriptor{
		Name:        "boom",
		Description: "always fails",
		Usage:       "/boom",
		Handler: func(ctx context.Context, req *Request) (string, error) {
			return "", errors.New("handler exploded")
		},
	})
	d := NewDispatcher(registry, testMessages, log)

	got := d.Dispatch(context.Background(), NewRequest("user-1", "", "/boom"))
	want := "Sorry, an error occurred while processing the /boom command."
	if got != want {
		t.Errorf("Dispatch() = %q, want %q", got, want)
	}
}

func TestDispatchHandlerPanicBecomesApology(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := NewRegistry(Deps{Logger: log, Store: &fakeStore{}})
	registry.register(&Descriptor{
		Name:        "panic",
		Description: "always panics",
		Usage:       "/panic",
		Handler: func(ctx context.Context, req *Request) (string, error) {
			panic("handler panicked")
		},
	})
	d := NewDispatcher(registry, testMessages, log)

	got := d.Dispatch(context.Background(), NewRequest("user-1", "", "/panic"))
	want := "Sorry, an error occurred while processing the /panic command."
	if got != want {
		t.Errorf("Dispatch() = %q, want %q", got, want)
	}
}
