package database

import (
	"database/sql"
	"time"
)

// Profile represents a platform user, including the bot's own service
// identity, which is stored as a regular profile so its messages look like
// messages from any other user.
type Profile struct {
	ID          string         `db:"id"`
	Username    string         `db:"username"`
	DisplayName string         `db:"display_name"`
	Bio         string         `db:"bio"`
	RegionID    sql.NullString `db:"region_id"`
	IsOnline    bool           `db:"is_online"`
	LastSeenAt  sql.NullTime   `db:"last_seen_at"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// Region represents a geographic region users and chatrooms belong to.
type Region struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

// Chatroom represents a public room-scoped message stream.
type Chatroom struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	RegionID  sql.NullString `db:"region_id"`
	CreatedAt time.Time      `db:"created_at"`
}

// Message represents a message posted into a chatroom's stream.
type Message struct {
	ID         string    `db:"id"`
	ChatroomID string    `db:"chatroom_id"`
	SenderID   string    `db:"sender_id"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
}

// DirectMessage represents a one-to-one message between two users.
type DirectMessage struct {
	ID          string    `db:"id"`
	SenderID    string    `db:"sender_id"`
	RecipientID string    `db:"recipient_id"`
	Content     string    `db:"content"`
	CreatedAt   time.Time `db:"created_at"`
}

// Conversation tracks the most recent direct-message activity between two
// participants. Participants are stored in lexicographic order so there is
// at most one row per unordered pair.
type Conversation struct {
	ID            string    `db:"id"`
	ParticipantA  string    `db:"participant_a"`
	ParticipantB  string    `db:"participant_b"`
	LastMessageAt time.Time `db:"last_message_at"`
}

// StatsCounts aggregates the platform-wide counters rendered by /stats.
type StatsCounts struct {
	Profiles int64
	Rooms    int64
	Messages int64
	Online   int64
}
