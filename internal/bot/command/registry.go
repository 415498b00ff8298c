package command

import (
	"context"
	"strings"
)

// Handler computes the reply for one command invocation. Handlers convert
// their own failures into user-facing text; a returned error is a contract
// violation the dispatcher still defends against.
type Handler func(ctx context.Context, req *Request) (string, error)

// Descriptor describes one registered command.
type Descriptor struct {
	Name        string // unique, lowercase, no spaces
	Description string
	Usage       string
	Handler     Handler
}

// Registry holds the static, ordered set of command descriptors. It is
// built once at startup and read-only afterwards; registration order
// determines listing order in the generated help text.
type Registry struct {
	ordered []*Descriptor
	byName  map[string]*Descriptor
}

// NewRegistry builds the registry with every command Herald understands.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{byName: make(map[string]*Descriptor)}

	r.register(&Descriptor{
		Name:        "help",
		Description: "Show available commands or details for one command",
		Usage:       "/help [command]",
		Handler:     newHelpHandler(deps, r),
	})
	r.register(&Descriptor{
		Name:        "info",
		Description: "Learn what this bot is and how it works",
		Usage:       "/info",
		Handler:     newInfoHandler(deps),
	})
	r.register(&Descriptor{
		Name:        "weather",
		Description: "Get a (simulated) weather forecast for a location",
		Usage:       "/weather <location>",
		Handler:     newWeatherHandler(deps),
	})
	r.register(&Descriptor{
		Name:        "stats",
		Description: "Show platform-wide statistics",
		Usage:       "/stats",
		Handler:     newStatsHandler(deps),
	})
	r.register(&Descriptor{
		Name:        "profile",
		Description: "Show your profile or another user's profile",
		Usage:       "/profile [username]",
		Handler:     newProfileHandler(deps),
	})
	r.register(&Descriptor{
		Name:        "regions",
		Description: "List all regions on the platform",
		Usage:       "/regions",
		Handler:     newRegionsHandler(deps),
	})
	r.register(&Descriptor{
		Name:        "random",
		Description: "Generate a random number, die roll or coin flip",
		Usage:       "/random <number|dice|coin> [max|sides]",
		Handler:     newRandomHandler(deps),
	})

	return r
}

func (r *Registry) register(d *Descriptor) {
	d.Name = strings.ToLower(d.Name)
	r.ordered = append(r.ordered, d)
	r.byName[d.Name] = d
}

// Find resolves a command by exact lowercase name match.
func (r *Registry) Find(name string) (*Descriptor, bool) {
	d, ok := r.byName[strings.ToLower(name)]
	return d, ok
}

// List returns all descriptors in registration order.
func (r *Registry) List() []*Descriptor {
	return r.ordered
}
