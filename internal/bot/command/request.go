package command

import "strings"

// Sigil is the prefix identifying a message as a structured command.
const Sigil = "/"

// Request carries one inbound message through classification and dispatch.
// It is created per inbound call, never mutated afterwards, and discarded
// once the reply has been produced.
type Request struct {
	RequesterID string
	RoomID      string // empty for direct messages
	RawMessage  string

	IsCommand bool
	Name      string   // lowercased command name; empty for a bare sigil
	RawName   string   // command token exactly as typed
	Args      []string // remaining tokens, original order and casing
}

// NewRequest classifies rawMessage and returns the resulting request. A
// message is a command iff its first character is the sigil; the remainder
// is split on runs of whitespace, the first token (lowercased) naming the
// command. Argument validation is left to each handler.
func NewRequest(requesterID, roomID, rawMessage string) *Request {
	req := &Request{
		RequesterID: requesterID,
		RoomID:      roomID,
		RawMessage:  rawMessage,
	}

	if !strings.HasPrefix(rawMessage, Sigil) {
		return req
	}

	req.IsCommand = true
	req.Args = []string{}

	body := strings.TrimPrefix(rawMessage, Sigil)
	tokens := strings.Fields(body)
	if len(tokens) == 0 {
		// A bare sigil classifies as a command with an empty name; the
		// dispatcher treats it as unknown.
		return req
	}

	req.RawName = tokens[0]
	req.Name = strings.ToLower(tokens[0])
	req.Args = tokens[1:]
	return req
}
