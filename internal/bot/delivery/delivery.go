// Package delivery persists the bot's reply into the correct message
// stream and maintains the direct-conversation bookkeeping row.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wavechat/herald/internal/database"
)

// ErrBadDestination is returned when a destination does not name exactly
// one of a room or a direct recipient.
var ErrBadDestination = errors.New("destination must name exactly one of a room or a recipient")

// Destination names where a reply goes: a chatroom's message stream or a
// direct-message thread with one recipient. Exactly one field must be set.
type Destination struct {
	RoomID      string
	RecipientID string
}

// Manager is a pure sink for formatted replies. It never mutates or
// re-derives the reply text, and it does not retry: a failed insert is
// terminal for the call.
type Manager struct {
	store  database.Store
	botID  string
	logger *slog.Logger
}

// NewManager creates a delivery manager writing as the given bot identity.
func NewManager(store database.Store, botID string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		botID:  botID,
		logger: logger.With("component", "delivery"),
	}
}

// Deliver persists one reply. Room replies are a single message insert.
// Direct replies insert the message first and only then update or create
// the conversation record; a failed send never creates an orphan
// conversation.
func (m *Manager) Deliver(ctx context.Context, reply string, dest Destination) error {
	if (dest.RoomID == "") == (dest.RecipientID == "") {
		return ErrBadDestination
	}

	if dest.RoomID != "" {
		msg := &database.Message{
			ChatroomID: dest.RoomID,
			SenderID:   m.botID,
			Content:    reply,
		}
		if err := m.store.InsertRoomMessage(ctx, msg); err != nil {
			m.logger.ErrorContext(ctx, "Failed to deliver room reply",
				"chatroom_id", dest.RoomID, "error", err)
			return fmt.Errorf("failed to deliver reply to room %s: %w", dest.RoomID, err)
		}
		m.logger.DebugContext(ctx, "Room reply delivered",
			"chatroom_id", dest.RoomID, "message_id", msg.ID)
		return nil
	}

	dm := &database.DirectMessage{
		SenderID:    m.botID,
		RecipientID: dest.RecipientID,
		Content:     reply,
	}
	if err := m.store.InsertDirectMessage(ctx, dm); err != nil {
		m.logger.ErrorContext(ctx, "Failed to deliver direct reply",
			"recipient_id", dest.RecipientID, "error", err)
		return fmt.Errorf("failed to deliver direct reply to %s: %w", dest.RecipientID, err)
	}

	if err := m.upsertConversation(ctx, dest.RecipientID); err != nil {
		// The reply itself was delivered; stale bookkeeping is tolerable.
		m.logger.WarnContext(ctx, "Conversation bookkeeping failed after direct reply",
			"recipient_id", dest.RecipientID, "error", err)
	}

	m.logger.DebugContext(ctx, "Direct reply delivered",
		"recipient_id", dest.RecipientID, "message_id", dm.ID)
	return nil
}

// upsertConversation refreshes the recency marker of the conversation
// between the bot and the recipient, creating the record on first contact.
// The lookup-then-write pair is not atomic; last writer wins on the marker.
func (m *Manager) upsertConversation(ctx context.Context, recipientID string) error {
	now := time.Now().UTC()

	conv, err := m.store.FindConversation(ctx, m.botID, recipientID)
	if err != nil {
		return err
	}

	if conv != nil {
		return m.store.TouchConversation(ctx, conv.ID, now)
	}

	return m.store.InsertConversation(ctx, &database.Conversation{
		ParticipantA:  m.botID,
		ParticipantB:  recipientID,
		LastMessageAt: now,
	})
}
