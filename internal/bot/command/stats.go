package command

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wavechat/herald/internal/database"
)

const statsFailure = "Sorry, I couldn't retrieve the platform statistics right now. Please try again later."

// newStatsHandler returns the handler for /stats. The four counters are
// independent reads and run concurrently; any failure degrades the whole
// reply to a single generic failure string.
func newStatsHandler(deps Deps) Handler {
	log := deps.Logger.With("handler", "stats")

	return func(ctx context.Context, req *Request) (string, error) {
		var counts database.StatsCounts

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			n, err := deps.Store.CountProfiles(gCtx)
			counts.Profiles = n
			return err
		})
		g.Go(func() error {
			n, err := deps.Store.CountChatrooms(gCtx)
			counts.Rooms = n
			return err
		})
		g.Go(func() error {
			n, err := deps.Store.CountMessages(gCtx)
			counts.Messages = n
			return err
		})
		g.Go(func() error {
			n, err := deps.Store.CountOnlineProfiles(gCtx)
			counts.Online = n
			return err
		})

		if err := g.Wait(); err != nil {
			log.ErrorContext(ctx, "Failed to gather platform statistics", "error", err)
			return statsFailure, nil
		}

		return fmt.Sprintf(
			"**Platform statistics**\nUsers: %d\nRooms: %d\nMessages: %d\nOnline now: %d",
			counts.Profiles, counts.Rooms, counts.Messages, counts.Online,
		), nil
	}
}
