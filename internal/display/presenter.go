package display

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/swelljoe/wthr-widget/internal/weather"
)

// Unit is the temperature unit preference
type Unit int

const (
	Celsius Unit = iota
	Fahrenheit
)

// Symbol returns the unit letter shown after the degree sign
func (u Unit) Symbol() string {
	if u == Fahrenheit {
		return "F"
	}
	return "C"
}

// Theme is the binary display theme
type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

// String returns the theme name used as the page class
func (t Theme) String() string {
	if t == ThemeLight {
		return "light"
	}
	return "dark"
}

const (
	providerTimeLayout = "2006-01-02 15:04:05"
	forecastDateLayout = "Jan 02"
	currentDateLayout  = "Mon 02 Jan"
	clockLayout        = "15:04"
	clockDateLayout    = "Monday, 02 January"
)

// DefaultIconPath is where the condition icons are served from
const DefaultIconPath = "/static/weather/"

// ToFahrenheit converts Celsius to Fahrenheit
func ToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// roundHalfUp rounds .5 toward positive infinity, as browsers' Math.round does
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// FormatTemperature renders a Celsius value in the given unit, e.g. "15°C"
func FormatTemperature(c float64, u Unit) string {
	v := c
	if u == Fahrenheit {
		v = ToFahrenheit(c)
	}
	return fmt.Sprintf("%d°%s", int(roundHalfUp(v)), u.Symbol())
}

// LocalTime returns now as wall-clock time in a city offsetSec seconds east
// of UTC. now's own location does not matter.
func LocalTime(now time.Time, offsetSec int) time.Time {
	return now.In(time.FixedZone("", offsetSec))
}

// SunTime formats a UTC unix instant as HH:MM in the city's local time
func SunTime(unix int64, offsetSec int) string {
	return LocalTime(time.Unix(unix, 0), offsetSec).Format(clockLayout)
}

// ForecastDate turns the provider's dt_txt into a short "Jan 02" label
func ForecastDate(text string) string {
	t, err := time.Parse(providerTimeLayout, text)
	if err != nil {
		return text
	}
	return t.Format(forecastDateLayout)
}

// Presenter converts weather data into display strings and writes them to
// a Surface.
type Presenter struct {
	surface  Surface
	iconPath string
}

// NewPresenter creates a presenter writing to surface
func NewPresenter(surface Surface, iconPath string) *Presenter {
	if iconPath == "" {
		iconPath = DefaultIconPath
	}
	return &Presenter{surface: surface, iconPath: iconPath}
}

// ShowPanel makes panel the only visible one
func (p *Presenter) ShowPanel(panel Panel) {
	p.surface.ShowPanel(panel)
}

// RenderSnapshot writes every current-weather field
func (p *Presenter) RenderSnapshot(s weather.Snapshot, u Unit, now time.Time) {
	p.surface.SetField(FieldCity, s.CityName)
	p.RenderTemperature(s, u)
	p.surface.SetField(FieldCondition, s.ConditionLabel)
	p.surface.SetField(FieldIcon, p.iconPath+weather.Icon(s.ConditionID))
	p.surface.SetField(FieldHumidity, strconv.Itoa(s.HumidityPct)+"%")
	p.surface.SetField(FieldWind, strconv.FormatFloat(s.WindSpeedMps, 'f', -1, 64)+" M/s")
	p.surface.SetField(FieldDate, LocalTime(now, s.TimezoneOffsetSec).Format(currentDateLayout))
	p.surface.SetField(FieldSunrise, SunTime(s.SunriseUnixUTC, s.TimezoneOffsetSec))
	p.surface.SetField(FieldSunset, SunTime(s.SunsetUnixUTC, s.TimezoneOffsetSec))
}

// RenderTemperature redraws only the current temperature
func (p *Presenter) RenderTemperature(s weather.Snapshot, u Unit) {
	p.surface.SetField(FieldTemperature, FormatTemperature(s.TemperatureC, u))
}

// RenderForecast replaces the forecast strip
func (p *Presenter) RenderForecast(entries []weather.ForecastEntry, u Unit) {
	items := make([]ForecastItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, ForecastItem{
			Date:        ForecastDate(e.TimestampLocalText),
			Icon:        p.iconPath + weather.Icon(e.ConditionID),
			Temperature: FormatTemperature(e.TemperatureC, u),
		})
	}
	p.surface.RenderForecastStrip(items)
}

// RenderClock writes the city's local HH:MM and long date
func (p *Presenter) RenderClock(now time.Time, offsetSec int) {
	local := LocalTime(now, offsetSec)
	p.surface.SetField(FieldClock, local.Format(clockLayout))
	p.surface.SetField(FieldClockDate, local.Format(clockDateLayout))
}

// RenderUnit moves the two-position unit indicator
func (p *Presenter) RenderUnit(u Unit) {
	p.surface.SetField(FieldUnit, u.Symbol())
	if u == Fahrenheit {
		p.surface.SetField(FieldUnitSlider, "translateX(100%)")
	} else {
		p.surface.SetField(FieldUnitSlider, "translateX(0%)")
	}
}

// RenderTheme writes the theme and the glyph offering the other theme
func (p *Presenter) RenderTheme(t Theme) {
	p.surface.SetField(FieldTheme, t.String())
	if t == ThemeLight {
		p.surface.SetField(FieldThemeIcon, "dark_mode")
	} else {
		p.surface.SetField(FieldThemeIcon, "light_mode")
	}
}

// RenderRecent redraws the recent-search list
func (p *Presenter) RenderRecent(names []string) {
	p.surface.RenderRecentList(names)
}
