package command

import "context"

const infoText = "**Herald** is this platform's resident bot. " +
	"I answer slash commands in rooms and in direct messages: " +
	"platform statistics, user profiles, region listings and a few toys. " +
	"Type /help to see everything I understand."

// newInfoHandler returns the handler for /info. It is a pure handler: no
// store access, and any supplied arguments are ignored.
func newInfoHandler(_ Deps) Handler {
	return func(ctx context.Context, req *Request) (string, error) {
		return infoText, nil
	}
}
