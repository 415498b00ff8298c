package command

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	defaultRandomMax = 100
	defaultDiceSides = 6
)

// newRandomHandler returns the handler for /random, a pure handler with
// three subtypes: number, dice and coin.
func newRandomHandler(_ Deps) Handler {
	return func(ctx context.Context, req *Request) (string, error) {
		if len(req.Args) == 0 {
			return "Please choose what to generate. Usage: /random <number|dice|coin> [max|sides]", nil
		}

		switch strings.ToLower(req.Args[0]) {
		case "number":
			max := positiveIntArg(req.Args, 1, defaultRandomMax)
			return fmt.Sprintf("Random number between 1 and %d: %d", max, 1+rand.IntN(max)), nil

		case "dice":
			sides := positiveIntArg(req.Args, 1, defaultDiceSides)
			return fmt.Sprintf("You rolled a %d (d%d)", 1+rand.IntN(sides), sides), nil

		case "coin":
			outcome := "Heads"
			if rand.IntN(2) == 1 {
				outcome = "Tails"
			}
			return fmt.Sprintf("Coin flip: %s", outcome), nil

		default:
			return fmt.Sprintf("Invalid option: %s. Choose one of: number, dice, coin.", req.Args[0]), nil
		}
	}
}

// positiveIntArg parses args[idx] as a positive integer. Anything else, a
// missing argument included, falls back to the subtype's default so that
// inputs like "/random dice 0" or "/random number banana" never fail.
func positiveIntArg(args []string, idx, fallback int) int {
	if idx >= len(args) {
		return fallback
	}
	n, err := strconv.Atoi(args[idx])
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
