package command

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wavechat/herald/internal/database"
)

const profileFailure = "Sorry, I couldn't retrieve that profile right now. Please try again later."

// newProfileHandler returns the handler for /profile. Without an argument
// it shows the requester's own profile; with one argument it looks the user
// up by username. The follower/following counts are independent reads that
// run concurrently and individually degrade to 0 on failure; only the
// profile fetch itself is mandatory.
func newProfileHandler(deps Deps) Handler {
	log := deps.Logger.With("handler", "profile")

	return func(ctx context.Context, req *Request) (string, error) {
		var (
			profile *database.Profile
			err     error
		)

		if len(req.Args) == 0 {
			profile, err = deps.Store.GetProfileByID(ctx, req.RequesterID)
		} else {
			profile, err = deps.Store.GetProfileByUsername(ctx, req.Args[0])
			if errors.Is(err, database.ErrNotFound) {
				return fmt.Sprintf("User not found: %s", req.Args[0]), nil
			}
		}
		if err != nil {
			log.ErrorContext(ctx, "Failed to fetch profile",
				"requester_id", req.RequesterID, "error", err)
			return profileFailure, nil
		}

		var followers, following int64
		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			n, err := deps.Store.CountFollowers(gCtx, profile.ID)
			if err != nil {
				log.WarnContext(gCtx, "Failed to count followers, defaulting to 0",
					"profile_id", profile.ID, "error", err)
				return nil
			}
			followers = n
			return nil
		})
		g.Go(func() error {
			n, err := deps.Store.CountFollowing(gCtx, profile.ID)
			if err != nil {
				log.WarnContext(gCtx, "Failed to count following, defaulting to 0",
					"profile_id", profile.ID, "error", err)
				return nil
			}
			following = n
			return nil
		})
		_ = g.Wait() // count failures are absorbed above

		displayName := profile.DisplayName
		if displayName == "" {
			displayName = "Not set"
		}
		bio := profile.Bio
		if bio == "" {
			bio = "No bio available"
		}

		return fmt.Sprintf(
			"**Profile: %s**\nDisplay name: %s\nJoined: %s\nFollowers: %d\nFollowing: %d\nBio: %s",
			profile.Username, displayName, profile.CreatedAt.Format("January 2006"),
			followers, following, bio,
		), nil
	}
}
