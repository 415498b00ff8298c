package delivery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wavechat/herald/internal/database"
)

// recordingStore keeps delivered rows in memory and can be told to fail
// individual operations.
type recordingStore struct {
	roomMessages   []database.Message
	directMessages []database.DirectMessage
	conversations  []database.Conversation
	touched        []string

	failRoomInsert   bool
	failDirectInsert bool
}

func (s *recordingStore) Ping(context.Context) error { return nil }

func (s *recordingStore) AuthenticateService(context.Context, string, string) error { return nil }

func (s *recordingStore) GetProfileByID(context.Context, string) (*database.Profile, error) {
	return nil, database.ErrNotFound
}

func (s *recordingStore) GetProfileByUsername(context.Context, string) (*database.Profile, error) {
	return nil, database.ErrNotFound
}

func (s *recordingStore) CountProfiles(context.Context) (int64, error)       { return 0, nil }
func (s *recordingStore) CountChatrooms(context.Context) (int64, error)      { return 0, nil }
func (s *recordingStore) CountMessages(context.Context) (int64, error)       { return 0, nil }
func (s *recordingStore) CountOnlineProfiles(context.Context) (int64, error) { return 0, nil }

func (s *recordingStore) CountFollowers(context.Context, string) (int64, error) { return 0, nil }
func (s *recordingStore) CountFollowing(context.Context, string) (int64, error) { return 0, nil }

func (s *recordingStore) ListRegions(context.Context) ([]database.Region, error) { return nil, nil }

func (s *recordingStore) InsertRoomMessage(_ context.Context, msg *database.Message) error {
	if s.failRoomInsert {
		return errors.New("room insert failed")
	}
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()
	s.roomMessages = append(s.roomMessages, *msg)
	return nil
}

func (s *recordingStore) InsertDirectMessage(_ context.Context, dm *database.DirectMessage) error {
	if s.failDirectInsert {
		return errors.New("direct insert failed")
	}
	dm.ID = uuid.NewString()
	dm.CreatedAt = time.Now().UTC()
	s.directMessages = append(s.directMessages, *dm)
	return nil
}

func (s *recordingStore) FindConversation(_ context.Context, userA, userB string) (*database.Conversation, error) {
	a, b := database.NormalizePair(userA, userB)
	for i := range s.conversations {
		if s.conversations[i].ParticipantA == a && s.conversations[i].ParticipantB == b {
			return &s.conversations[i], nil
		}
	}
	return nil, nil
}

func (s *recordingStore) TouchConversation(_ context.Context, id string, at time.Time) error {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			s.conversations[i].LastMessageAt = at
			s.touched = append(s.touched, id)
			return nil
		}
	}
	return errors.New("conversation not found")
}

func (s *recordingStore) InsertConversation(_ context.Context, conv *database.Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	conv.ParticipantA, conv.ParticipantB = database.NormalizePair(conv.ParticipantA, conv.ParticipantB)
	s.conversations = append(s.conversations, *conv)
	return nil
}

func (s *recordingStore) MarkStaleProfilesOffline(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s *recordingStore) RunMaintenance(context.Context) error { return nil }

func newTestManager(store *recordingStore) *Manager {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(store, "bot-1", log)
}

func TestDeliverToRoom(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	m := newTestManager(store)

	if err := m.Deliver(context.Background(), "first reply", Destination{RoomID: "room-1"}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if err := m.Deliver(context.Background(), "second reply", Destination{RoomID: "room-1"}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if len(store.roomMessages) != 2 {
		t.Fatalf("got %d room messages, want 2", len(store.roomMessages))
	}
	if store.roomMessages[0].ID == store.roomMessages[1].ID {
		t.Errorf("both messages share id %q, want distinct rows", store.roomMessages[0].ID)
	}
	if store.roomMessages[0].Content != "first reply" || store.roomMessages[1].Content != "second reply" {
		t.Errorf("messages out of insertion order: %q, %q",
			store.roomMessages[0].Content, store.roomMessages[1].Content)
	}
	for i, msg := range store.roomMessages {
		if msg.SenderID != "bot-1" {
			t.Errorf("message %d attributed to %q, want bot-1", i, msg.SenderID)
		}
	}
}

func TestDeliverToRoomFailureIsTerminal(t *testing.T) {
	t.Parallel()

	store := &recordingStore{failRoomInsert: true}
	m := newTestManager(store)

	if err := m.Deliver(context.Background(), "reply", Destination{RoomID: "room-1"}); err == nil {
		t.Fatal("Deliver() error = nil, want insert failure surfaced")
	}
}

func TestDeliverDirectConversationBookkeeping(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	m := newTestManager(store)

	if err := m.Deliver(context.Background(), "hi", Destination{RecipientID: "user-9"}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if len(store.directMessages) != 1 {
		t.Fatalf("got %d direct messages, want 1", len(store.directMessages))
	}
	if len(store.conversations) != 1 {
		t.Fatalf("got %d conversations after first contact, want 1", len(store.conversations))
	}

	first := store.conversations[0]
	a, b := database.NormalizePair("bot-1", "user-9")
	if first.ParticipantA != a || first.ParticipantB != b {
		t.Errorf("conversation links %q/%q, want %q/%q",
			first.ParticipantA, first.ParticipantB, a, b)
	}

	// Second reply to the same recipient refreshes the record instead of
	// creating a second one.
	if err := m.Deliver(context.Background(), "hi again", Destination{RecipientID: "user-9"}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if len(store.conversations) != 1 {
		t.Fatalf("got %d conversations after second contact, want 1", len(store.conversations))
	}
	if len(store.touched) != 1 || store.touched[0] != first.ID {
		t.Errorf("touched = %v, want exactly one touch of %q", store.touched, first.ID)
	}
	if store.conversations[0].LastMessageAt.Before(first.LastMessageAt) {
		t.Errorf("recency marker went backwards: %v -> %v",
			first.LastMessageAt, store.conversations[0].LastMessageAt)
	}
}

func TestDeliverDirectFailureSkipsBookkeeping(t *testing.T) {
	t.Parallel()

	store := &recordingStore{failDirectInsert: true}
	m := newTestManager(store)

	if err := m.Deliver(context.Background(), "hi", Destination{RecipientID: "user-9"}); err == nil {
		t.Fatal("Deliver() error = nil, want insert failure surfaced")
	}
	if len(store.conversations) != 0 {
		t.Errorf("got %d conversations after failed send, want 0 (no orphan records)",
			len(store.conversations))
	}
}

func TestDeliverRejectsBadDestination(t *testing.T) {
	t.Parallel()

	m := newTestManager(&recordingStore{})

	testCases := []struct {
		name string
		dest Destination
	}{
		{name: "neither set", dest: Destination{}},
		{name: "both set", dest: Destination{RoomID: "room-1", RecipientID: "user-1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := m.Deliver(context.Background(), "reply", tc.dest)
			if !errors.Is(err, ErrBadDestination) {
				t.Errorf("Deliver() error = %v, want ErrBadDestination", err)
			}
		})
	}
}
