package weather

import (
	"fmt"
	"strings"
	"time"
)

// forecastTimeOfDay marks the one slot per day kept for the forecast strip.
const forecastTimeOfDay = "12:00:00"

func snapshotFromPayload(cr *CurrentResponse) (Snapshot, error) {
	if len(cr.Weather) == 0 {
		return Snapshot{}, fmt.Errorf("current weather: payload has no conditions")
	}

	return Snapshot{
		CityName:          cr.Name,
		TemperatureC:      cr.Main.Temp,
		HumidityPct:       cr.Main.Humidity,
		WindSpeedMps:      cr.Wind.Speed,
		ConditionID:       cr.Weather[0].ID,
		ConditionLabel:    cr.Weather[0].Main,
		SunriseUnixUTC:    cr.Sys.Sunrise,
		SunsetUnixUTC:     cr.Sys.Sunset,
		TimezoneOffsetSec: cr.Timezone,
	}, nil
}

// SelectForecast keeps the noon slot of every day except today. today is
// compared by its calendar date in its own location, normally the device's
// local time, not the queried city's.
func SelectForecast(points []ForecastPoint, today time.Time) ([]ForecastEntry, error) {
	todayDate := today.Format("2006-01-02")

	entries := make([]ForecastEntry, 0, 5)
	for _, p := range points {
		if !strings.Contains(p.DateText, forecastTimeOfDay) || strings.Contains(p.DateText, todayDate) {
			continue
		}
		if len(p.Weather) == 0 {
			return nil, fmt.Errorf("forecast %s: point has no conditions", p.DateText)
		}
		entries = append(entries, ForecastEntry{
			TimestampLocalText: p.DateText,
			TemperatureC:       p.Main.Temp,
			ConditionID:        p.Weather[0].ID,
		})
	}
	return entries, nil
}

// Icon maps a provider condition code to an icon file name. Bands are
// checked in ascending order, so 800 is the only code left for "clear".
func Icon(id int) string {
	switch {
	case id <= 232:
		return "thunderstorm.svg"
	case id <= 321:
		return "drizzle.svg"
	case id <= 531:
		return "rain.svg"
	case id <= 622:
		return "snow.svg"
	case id <= 781:
		return "atmosphere.svg"
	case id <= 800:
		return "clear.svg"
	default:
		return "clouds.svg"
	}
}
