package database

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by keyed fetches when no row matches.
var ErrNotFound = errors.New("not found")

// ErrBadCredentials is returned when a service account's secret does not
// match the stored one.
var ErrBadCredentials = errors.New("bad service credentials")

// Store defines the interface for database operations. Methods accept
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// AuthenticateService verifies the bot's service identity against the
	// service_accounts table. Returns ErrBadCredentials on mismatch.
	AuthenticateService(ctx context.Context, profileID, secret string) error

	// GetProfileByID retrieves a profile by id. Returns ErrNotFound if absent.
	GetProfileByID(ctx context.Context, id string) (*Profile, error)

	// GetProfileByUsername retrieves a profile by username. Returns
	// ErrNotFound if absent.
	GetProfileByUsername(ctx context.Context, username string) (*Profile, error)

	// CountProfiles returns the total number of profiles.
	CountProfiles(ctx context.Context) (int64, error)

	// CountChatrooms returns the total number of chatrooms.
	CountChatrooms(ctx context.Context) (int64, error)

	// CountMessages returns the total number of room messages.
	CountMessages(ctx context.Context) (int64, error)

	// CountOnlineProfiles returns the number of profiles currently online.
	CountOnlineProfiles(ctx context.Context) (int64, error)

	// CountFollowers returns how many users follow the given user.
	CountFollowers(ctx context.Context, userID string) (int64, error)

	// CountFollowing returns how many users the given user follows.
	CountFollowing(ctx context.Context, userID string) (int64, error)

	// ListRegions retrieves all regions ordered by name.
	ListRegions(ctx context.Context) ([]Region, error)

	// InsertRoomMessage inserts one message into a chatroom's stream,
	// assigning the row id and server timestamp.
	InsertRoomMessage(ctx context.Context, msg *Message) error

	// InsertDirectMessage inserts one direct message, assigning the row id
	// and server timestamp.
	InsertDirectMessage(ctx context.Context, dm *DirectMessage) error

	// FindConversation looks up the conversation between two participants,
	// independent of ordering. Returns nil, nil if none exists.
	FindConversation(ctx context.Context, userA, userB string) (*Conversation, error)

	// TouchConversation updates a conversation's recency marker.
	TouchConversation(ctx context.Context, id string, at time.Time) error

	// InsertConversation creates a conversation for a participant pair. The
	// pair is stored normalized; a concurrent insert for the same pair
	// degrades to a recency update instead of a duplicate row.
	InsertConversation(ctx context.Context, conv *Conversation) error

	// MarkStaleProfilesOffline flips is_online off for profiles whose last
	// activity is older than cutoff. Returns the number of rows changed.
	MarkStaleProfilesOffline(ctx context.Context, cutoff time.Time) (int64, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// NormalizePair orders two participant ids lexicographically so that a
// conversation pair has exactly one canonical representation.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) AuthenticateService(ctx context.Context, profileID, secret string) error {
	if profileID == "" || secret == "" {
		return ErrBadCredentials
	}

	var stored string
	err := s.db.GetContext(ctx, &stored,
		`SELECT secret FROM service_accounts WHERE profile_id = ?`, profileID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.WarnContext(ctx, "No service account found", "profile_id", profileID)
		return ErrBadCredentials

	case err != nil:
		s.logger.ErrorContext(ctx, "Error fetching service account", "profile_id", profileID, "error", err)
		return fmt.Errorf("failed to fetch service account %s: %w", profileID, err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) != 1 {
		s.logger.WarnContext(ctx, "Service credential mismatch", "profile_id", profileID)
		return ErrBadCredentials
	}

	return nil
}

func (s *sqlxStore) GetProfileByID(ctx context.Context, id string) (*Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("profile id cannot be empty")
	}

	var profile Profile
	query := `SELECT id, username, display_name, bio, region_id, is_online, last_seen_at, created_at, updated_at
	          FROM profiles WHERE id = ?`

	err := s.db.GetContext(ctx, &profile, query, id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No profile found", "profile_id", id)
		return nil, ErrNotFound

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting profile by id", "profile_id", id, "error", err)
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}

	return &profile, nil
}

func (s *sqlxStore) GetProfileByUsername(ctx context.Context, username string) (*Profile, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	var profile Profile
	query := `SELECT id, username, display_name, bio, region_id, is_online, last_seen_at, created_at, updated_at
	          FROM profiles WHERE username = ?`

	err := s.db.GetContext(ctx, &profile, query, username)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No profile found", "username", username)
		return nil, ErrNotFound

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting profile by username", "username", username, "error", err)
		return nil, fmt.Errorf("failed to get profile for username %s: %w", username, err)
	}

	return &profile, nil
}

func (s *sqlxStore) count(ctx context.Context, what, query string, args ...any) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error running count query", "what", what, "error", err)
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return n, nil
}

func (s *sqlxStore) CountProfiles(ctx context.Context) (int64, error) {
	return s.count(ctx, "profiles", `SELECT COUNT(*) FROM profiles`)
}

func (s *sqlxStore) CountChatrooms(ctx context.Context) (int64, error) {
	return s.count(ctx, "chatrooms", `SELECT COUNT(*) FROM chatrooms`)
}

func (s *sqlxStore) CountMessages(ctx context.Context) (int64, error) {
	return s.count(ctx, "messages", `SELECT COUNT(*) FROM messages`)
}

func (s *sqlxStore) CountOnlineProfiles(ctx context.Context) (int64, error) {
	return s.count(ctx, "online profiles", `SELECT COUNT(*) FROM profiles WHERE is_online = 1`)
}

func (s *sqlxStore) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return s.count(ctx, "followers", `SELECT COUNT(*) FROM follows WHERE following_id = ?`, userID)
}

func (s *sqlxStore) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return s.count(ctx, "following", `SELECT COUNT(*) FROM follows WHERE follower_id = ?`, userID)
}

func (s *sqlxStore) ListRegions(ctx context.Context) ([]Region, error) {
	var regions []Region
	query := `SELECT id, name, description FROM regions ORDER BY name ASC`

	if err := s.db.SelectContext(ctx, &regions, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing regions", "error", err)
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched regions", "count", len(regions))
	return regions, nil
}

func (s *sqlxStore) InsertRoomMessage(ctx context.Context, msg *Message) error {
	if msg == nil {
		return fmt.Errorf("cannot insert nil message")
	}
	if msg.ChatroomID == "" {
		return fmt.Errorf("message must have a chatroom_id")
	}
	if msg.SenderID == "" {
		return fmt.Errorf("message must have a sender_id")
	}
	if msg.Content == "" {
		return fmt.Errorf("message must have non-empty content")
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = time.Now().UTC()

	query := `INSERT INTO messages (id, chatroom_id, sender_id, content, created_at)
	          VALUES (:id, :chatroom_id, :sender_id, :content, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, query, msg); err != nil {
		s.logger.ErrorContext(ctx, "Error inserting room message",
			"chatroom_id", msg.ChatroomID, "sender_id", msg.SenderID, "error", err)
		return fmt.Errorf("failed to insert message into room %s: %w", msg.ChatroomID, err)
	}

	s.logger.DebugContext(ctx, "Room message inserted",
		"message_id", msg.ID, "chatroom_id", msg.ChatroomID)
	return nil
}

func (s *sqlxStore) InsertDirectMessage(ctx context.Context, dm *DirectMessage) error {
	if dm == nil {
		return fmt.Errorf("cannot insert nil direct message")
	}
	if dm.SenderID == "" {
		return fmt.Errorf("direct message must have a sender_id")
	}
	if dm.RecipientID == "" {
		return fmt.Errorf("direct message must have a recipient_id")
	}
	if dm.Content == "" {
		return fmt.Errorf("direct message must have non-empty content")
	}

	if dm.ID == "" {
		dm.ID = uuid.NewString()
	}
	dm.CreatedAt = time.Now().UTC()

	query := `INSERT INTO direct_messages (id, sender_id, recipient_id, content, created_at)
	          VALUES (:id, :sender_id, :recipient_id, :content, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, query, dm); err != nil {
		s.logger.ErrorContext(ctx, "Error inserting direct message",
			"sender_id", dm.SenderID, "recipient_id", dm.RecipientID, "error", err)
		return fmt.Errorf("failed to insert direct message to %s: %w", dm.RecipientID, err)
	}

	s.logger.DebugContext(ctx, "Direct message inserted",
		"message_id", dm.ID, "recipient_id", dm.RecipientID)
	return nil
}

func (s *sqlxStore) FindConversation(ctx context.Context, userA, userB string) (*Conversation, error) {
	a, b := NormalizePair(userA, userB)

	var conv Conversation
	// The pair is stored normalized, but check both orderings anyway in case
	// of rows written before normalization was introduced.
	query := `SELECT id, participant_a, participant_b, last_message_at FROM conversations
	          WHERE (participant_a = ? AND participant_b = ?)
	             OR (participant_a = ? AND participant_b = ?)`

	err := s.db.GetContext(ctx, &conv, query, a, b, b, a)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Not found is expected on first contact, not an error.
		return nil, nil

	case err != nil:
		s.logger.ErrorContext(ctx, "Error finding conversation",
			"participant_a", a, "participant_b", b, "error", err)
		return nil, fmt.Errorf("failed to find conversation for %s/%s: %w", a, b, err)
	}

	return &conv, nil
}

func (s *sqlxStore) TouchConversation(ctx context.Context, id string, at time.Time) error {
	if id == "" {
		return fmt.Errorf("conversation id cannot be empty")
	}

	query := `UPDATE conversations SET last_message_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, at.UTC(), id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error touching conversation", "conversation_id", id, "error", err)
		return fmt.Errorf("failed to update conversation %s: %w", id, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected rows affected touching conversation",
			"conversation_id", id, "affected", affected)
	}

	return nil
}

func (s *sqlxStore) InsertConversation(ctx context.Context, conv *Conversation) error {
	if conv == nil {
		return fmt.Errorf("cannot insert nil conversation")
	}
	if conv.ParticipantA == "" || conv.ParticipantB == "" {
		return fmt.Errorf("conversation must have both participants")
	}

	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	conv.ParticipantA, conv.ParticipantB = NormalizePair(conv.ParticipantA, conv.ParticipantB)
	if conv.LastMessageAt.IsZero() {
		conv.LastMessageAt = time.Now().UTC()
	}

	// ON CONFLICT makes a lost race on first contact collapse into a recency
	// update instead of a duplicate pair.
	query := `INSERT INTO conversations (id, participant_a, participant_b, last_message_at)
	          VALUES (:id, :participant_a, :participant_b, :last_message_at)
	          ON CONFLICT (participant_a, participant_b)
	          DO UPDATE SET last_message_at = excluded.last_message_at`

	if _, err := s.db.NamedExecContext(ctx, query, conv); err != nil {
		s.logger.ErrorContext(ctx, "Error inserting conversation",
			"participant_a", conv.ParticipantA, "participant_b", conv.ParticipantB, "error", err)
		return fmt.Errorf("failed to insert conversation for %s/%s: %w",
			conv.ParticipantA, conv.ParticipantB, err)
	}

	s.logger.DebugContext(ctx, "Conversation inserted",
		"conversation_id", conv.ID, "participant_a", conv.ParticipantA, "participant_b", conv.ParticipantB)
	return nil
}

func (s *sqlxStore) MarkStaleProfilesOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE profiles SET is_online = 0, updated_at = ?
	          WHERE is_online = 1 AND (last_seen_at IS NULL OR last_seen_at < ?)`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error marking stale profiles offline", "error", err)
		return 0, fmt.Errorf("failed to mark stale profiles offline: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected > 0 {
		s.logger.InfoContext(ctx, "Marked stale profiles offline", "count", affected)
	}
	return affected, nil
}

// RunMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
