package command

import (
	"context"
	"fmt"
	"strings"
)

const regionsFailure = "Sorry, I couldn't retrieve the regions right now. Please try again later."

// newRegionsHandler returns the handler for /regions, listing every region
// ordered by name.
func newRegionsHandler(deps Deps) Handler {
	log := deps.Logger.With("handler", "regions")

	return func(ctx context.Context, req *Request) (string, error) {
		regions, err := deps.Store.ListRegions(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to list regions", "error", err)
			return regionsFailure, nil
		}

		if len(regions) == 0 {
			return "There are no regions yet.", nil
		}

		lines := make([]string, 0, len(regions))
		for _, region := range regions {
			description := region.Description
			if description == "" {
				description = "No description"
			}
			lines = append(lines, fmt.Sprintf("**%s** (%s) - %s", region.Name, region.ID, description))
		}
		return strings.Join(lines, "\n"), nil
	}
}
