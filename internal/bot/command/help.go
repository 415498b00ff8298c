package command

import (
	"context"
	"fmt"
	"strings"
)

// newHelpHandler returns the handler for /help. With no argument it lists
// every registered command in registration order; with one argument it shows
// that command's description and usage template.
func newHelpHandler(deps Deps, registry *Registry) Handler {
	return func(ctx context.Context, req *Request) (string, error) {
		if len(req.Args) == 0 {
			var b strings.Builder
			b.WriteString("**Available commands:**\n")
			for _, desc := range registry.List() {
				fmt.Fprintf(&b, "/%s - %s\n", desc.Name, desc.Description)
			}
			b.WriteString("Type /help <command> for details on a specific command.")
			return b.String(), nil
		}

		name := strings.ToLower(req.Args[0])
		desc, ok := registry.Find(name)
		if !ok {
			return fmt.Sprintf("Command not found: %s\nType /help to see available commands.", req.Args[0]), nil
		}

		return fmt.Sprintf("%s: %s\nUsage: %s", desc.Name, desc.Description, desc.Usage), nil
	}
}
