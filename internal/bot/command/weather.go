package command

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
)

var weatherConditions = []string{
	"Sunny", "Partly cloudy", "Cloudy", "Rainy", "Stormy", "Snowy", "Windy", "Foggy",
}

const (
	weatherTempMin = -5
	weatherTempMax = 35 // inclusive
	weatherHumMin  = 20
	weatherHumMax  = 90 // inclusive
)

// newWeatherHandler returns the handler for /weather. The forecast is
// synthesized, never persisted, and clearly labeled as simulated.
func newWeatherHandler(_ Deps) Handler {
	return func(ctx context.Context, req *Request) (string, error) {
		if len(req.Args) == 0 {
			return "Please provide a location. Usage: /weather <location>", nil
		}

		location := strings.Join(req.Args, " ")
		condition := weatherConditions[rand.IntN(len(weatherConditions))]
		temperature := weatherTempMin + rand.IntN(weatherTempMax-weatherTempMin+1)
		humidity := weatherHumMin + rand.IntN(weatherHumMax-weatherHumMin+1)

		return fmt.Sprintf(
			"**Weather for %s**\nCondition: %s\nTemperature: %d°C\nHumidity: %d%%\n\nNote: this forecast is simulated and not based on real data.",
			location, condition, temperature, humidity,
		), nil
	}
}
