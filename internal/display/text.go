package display

import (
	"fmt"
	"io"
	"path"
	"strings"
)

// WriteText draws a view for a terminal
func WriteText(w io.Writer, v View) error {
	var b strings.Builder

	switch v.Panel() {
	case PanelLoading:
		b.WriteString("Loading...\n")
	case PanelNotFound:
		b.WriteString("City not found.\n")
	case PanelSearchPrompt:
		b.WriteString("Search a city to see its weather.\n")
	case PanelWeather:
		header := fmt.Sprintf("Weather for %s (%s):", v.Field(FieldCity), v.Field(FieldDate))
		fmt.Fprintf(&b, "%s\n%s\n", header, strings.Repeat("-", len(header)))
		fmt.Fprintf(&b, "Conditions:  %s [%s]\n", v.Field(FieldCondition), strings.TrimSuffix(path.Base(v.Field(FieldIcon)), ".svg"))
		fmt.Fprintf(&b, "Temperature: %s\n", v.Field(FieldTemperature))
		fmt.Fprintf(&b, "Humidity:    %s\n", v.Field(FieldHumidity))
		fmt.Fprintf(&b, "Wind Speed:  %s\n", v.Field(FieldWind))
		fmt.Fprintf(&b, "Sunrise:     %s\n", v.Field(FieldSunrise))
		fmt.Fprintf(&b, "Sunset:      %s\n", v.Field(FieldSunset))

		if len(v.Forecast) > 0 {
			b.WriteString("\nForecast:\n")
			for _, item := range v.Forecast {
				fmt.Fprintf(&b, "  %s  %-13s %s\n", item.Date, strings.TrimSuffix(path.Base(item.Icon), ".svg"), item.Temperature)
			}
		}
	}

	if len(v.Recent) > 0 {
		fmt.Fprintf(&b, "\nRecent: %s\n", strings.Join(v.Recent, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteClock draws the live clock line
func WriteClock(w io.Writer, v View) error {
	if v.Field(FieldClock) == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, "\r%s  %s", v.Field(FieldClock), v.Field(FieldClockDate))
	return err
}
