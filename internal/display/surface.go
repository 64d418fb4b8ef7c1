package display

import "sync"

// Panel is one of the mutually exclusive top-level display states
type Panel int

const (
	PanelSearchPrompt Panel = iota
	PanelLoading
	PanelNotFound
	PanelWeather
)

// Panels lists every panel in display order
var Panels = []Panel{PanelWeather, PanelSearchPrompt, PanelNotFound, PanelLoading}

// String returns the panel element id
func (p Panel) String() string {
	switch p {
	case PanelSearchPrompt:
		return "search-city"
	case PanelLoading:
		return "loading"
	case PanelNotFound:
		return "not-found"
	case PanelWeather:
		return "weather-info"
	}
	return "unknown"
}

// Field names a text region of the rendering surface
type Field string

const (
	FieldCity        Field = "city"
	FieldTemperature Field = "temperature"
	FieldCondition   Field = "condition"
	FieldIcon        Field = "icon"
	FieldHumidity    Field = "humidity"
	FieldWind        Field = "wind"
	FieldDate        Field = "date"
	FieldSunrise     Field = "sunrise"
	FieldSunset      Field = "sunset"
	FieldClock       Field = "clock"
	FieldClockDate   Field = "clock-date"
	FieldUnit        Field = "unit"
	FieldUnitSlider  Field = "unit-slider"
	FieldTheme       Field = "theme"
	FieldThemeIcon   Field = "theme-icon"
)

// ForecastItem is one rendered entry of the forecast strip
type ForecastItem struct {
	Date        string
	Icon        string
	Temperature string
}

// Surface is the capability the pipeline writes its output to
type Surface interface {
	ShowPanel(p Panel)
	SetField(f Field, text string)
	RenderForecastStrip(items []ForecastItem)
	RenderRecentList(names []string)
}

// View is a point-in-time copy of everything written to a MemorySurface
type View struct {
	Visible  map[Panel]bool
	Fields   map[Field]string
	Forecast []ForecastItem
	Recent   []string
}

// Panel returns the single visible panel
func (v View) Panel() Panel {
	for _, p := range Panels {
		if v.Visible[p] {
			return p
		}
	}
	return PanelSearchPrompt
}

// Field returns the text of a field, empty if never set
func (v View) Field(f Field) string {
	return v.Fields[f]
}

// MemorySurface keeps the rendered state in memory so the HTTP layer and
// the terminal client can draw it later.
type MemorySurface struct {
	mu       sync.RWMutex
	visible  map[Panel]bool
	fields   map[Field]string
	forecast []ForecastItem
	recent   []string
}

// NewMemorySurface creates an empty surface with no visible panel
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{
		visible: make(map[Panel]bool, len(Panels)),
		fields:  make(map[Field]string),
	}
}

// ShowPanel hides every panel unconditionally, then shows p
func (s *MemorySurface) ShowPanel(p Panel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range Panels {
		s.visible[other] = false
	}
	s.visible[p] = true
}

// SetField replaces the text of f
func (s *MemorySurface) SetField(f Field, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[f] = text
}

// RenderForecastStrip replaces the forecast strip with a copy of items
func (s *MemorySurface) RenderForecastStrip(items []ForecastItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forecast = append([]ForecastItem(nil), items...)
}

// RenderRecentList replaces the recent list with a copy of names
func (s *MemorySurface) RenderRecentList(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append([]string(nil), names...)
}

// View returns a copy of the current state
func (s *MemorySurface) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		Visible:  make(map[Panel]bool, len(s.visible)),
		Fields:   make(map[Field]string, len(s.fields)),
		Forecast: append([]ForecastItem(nil), s.forecast...),
		Recent:   append([]string(nil), s.recent...),
	}
	for k, on := range s.visible {
		v.Visible[k] = on
	}
	for k, text := range s.fields {
		v.Fields[k] = text
	}
	return v
}

var _ Surface = (*MemorySurface)(nil)
