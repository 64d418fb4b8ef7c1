package weather

import (
	"encoding/json"
	"strings"
)

// Snapshot is the normalized current weather for one city at fetch time.
// Temperatures are always Celsius.
type Snapshot struct {
	CityName          string  `json:"city_name"`
	TemperatureC      float64 `json:"temperature_c"`
	HumidityPct       int     `json:"humidity_pct"`
	WindSpeedMps      float64 `json:"wind_speed_mps"`
	ConditionID       int     `json:"condition_id"`
	ConditionLabel    string  `json:"condition_label"`
	SunriseUnixUTC    int64   `json:"sunrise_unix_utc"`
	SunsetUnixUTC     int64   `json:"sunset_unix_utc"`
	TimezoneOffsetSec int     `json:"timezone_offset_sec"`
}

// ForecastEntry is one day's representative (local noon) forecast point.
type ForecastEntry struct {
	TimestampLocalText string  `json:"timestamp_local_text"` // provider dt_txt, e.g. "2024-01-16 12:00:00"
	TemperatureC       float64 `json:"temperature_c"`
	ConditionID        int     `json:"condition_id"`
}

// statusCode is the provider's body-embedded "cod". The current weather
// endpoint sends a number, the forecast endpoint a string.
type statusCode string

func (c *statusCode) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*c = statusCode(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = statusCode(strings.TrimSpace(s))
	return nil
}

// OK reports whether the provider accepted the request.
func (c statusCode) OK() bool {
	return c == "200"
}

// Condition is one entry of the provider's weather array
type Condition struct {
	ID   int    `json:"id"`
	Main string `json:"main"`
}

// CurrentResponse represents the provider's /weather response
type CurrentResponse struct {
	Cod  statusCode `json:"cod"`
	Name string     `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []Condition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

// ForecastPoint is one 3-hour slot of the /forecast response
type ForecastPoint struct {
	DateText string `json:"dt_txt"`
	Main     struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []Condition `json:"weather"`
}

// ForecastResponse represents the provider's /forecast response
type ForecastResponse struct {
	Cod  statusCode      `json:"cod"`
	List []ForecastPoint `json:"list"`
}
