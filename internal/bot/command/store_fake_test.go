package command

import (
	"context"
	"time"

	"github.com/wavechat/herald/internal/database"
)

// fakeStore implements database.Store with overridable function fields.
// Unset fields return zero values so each test only stubs what it needs.
type fakeStore struct {
	getProfileByID       func(ctx context.Context, id string) (*database.Profile, error)
	getProfileByUsername func(ctx context.Context, username string) (*database.Profile, error)
	countProfiles        func(ctx context.Context) (int64, error)
	countChatrooms       func(ctx context.Context) (int64, error)
	countMessages        func(ctx context.Context) (int64, error)
	countOnlineProfiles  func(ctx context.Context) (int64, error)
	countFollowers       func(ctx context.Context, userID string) (int64, error)
	countFollowing       func(ctx context.Context, userID string) (int64, error)
	listRegions          func(ctx context.Context) ([]database.Region, error)
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) AuthenticateService(context.Context, string, string) error { return nil }

func (f *fakeStore) GetProfileByID(ctx context.Context, id string) (*database.Profile, error) {
	if f.getProfileByID != nil {
		return f.getProfileByID(ctx, id)
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) GetProfileByUsername(ctx context.Context, username string) (*database.Profile, error) {
	if f.getProfileByUsername != nil {
		return f.getProfileByUsername(ctx, username)
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) CountProfiles(ctx context.Context) (int64, error) {
	if f.countProfiles != nil {
		return f.countProfiles(ctx)
	}
	return 0, nil
}

func (f *fakeStore) CountChatrooms(ctx context.Context) (int64, error) {
	if f.countChatrooms != nil {
		return f.countChatrooms(ctx)
	}
	return 0, nil
}

func (f *fakeStore) CountMessages(ctx context.Context) (int64, error) {
	if f.countMessages != nil {
		return f.countMessages(ctx)
	}
	return 0, nil
}

func (f *fakeStore) CountOnlineProfiles(ctx context.Context) (int64, error) {
	if f.countOnlineProfiles != nil {
		return f.countOnlineProfiles(ctx)
	}
	return 0, nil
}

func (f *fakeStore) CountFollowers(ctx context.Context, userID string) (int64, error) {
	if f.countFollowers != nil {
		return f.countFollowers(ctx, userID)
	}
	return 0, nil
}

func (f *fakeStore) CountFollowing(ctx context.Context, userID string) (int64, error) {
	if f.countFollowing != nil {
		return f.countFollowing(ctx, userID)
	}
	return 0, nil
}

func (f *fakeStore) ListRegions(ctx context.Context) ([]database.Region, error) {
	if f.listRegions != nil {
		return f.listRegions(ctx)
	}
	return nil, nil
}

func (f *fakeStore) InsertRoomMessage(context.Context, *database.Message) error { return nil }

func (f *fakeStore) InsertDirectMessage(context.Context, *database.DirectMessage) error { return nil }

func (f *fakeStore) FindConversation(context.Context, string, string) (*database.Conversation, error) {
	return nil, nil
}

func (f *fakeStore) TouchConversation(context.Context, string, time.Time) error { return nil }

func (f *fakeStore) InsertConversation(context.Context, *database.Conversation) error { return nil }

func (f *fakeStore) MarkStaleProfilesOffline(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeStore) RunMaintenance(context.Context) error { return nil }
