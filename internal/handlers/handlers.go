package handlers

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/swelljoe/wthr-widget/internal/display"
	"github.com/swelljoe/wthr-widget/internal/session"
	"github.com/swelljoe/wthr-widget/internal/weather"
)

// CookieName holds the session id, which is also the recent list scope
const CookieName = "wthr_session"

//go:embed templates/*.html
var templateFS embed.FS

// Database defines the interface for database operations needed by handlers
type Database interface {
	Ping() error
}

// Handlers holds dependencies for HTTP handlers
type Handlers struct {
	db        Database
	sessions  *Registry
	templates *template.Template
}

// New creates a new Handlers instance. database may be nil.
func New(database Database, sessions *Registry) *Handlers {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		log.Printf("Warning: Failed to parse templates: %v", err)
	}

	return &Handlers{
		db:        database,
		sessions:  sessions,
		templates: tmpl,
	}
}

// Router wires every route. Static files are served from staticDir when
// it is not empty.
func (h *Handlers) Router(staticDir string) *mux.Router {
	r := mux.NewRouter()

	if staticDir != "" {
		fs := http.FileServer(http.Dir(staticDir))
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs))
	}

	r.HandleFunc("/", h.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/search", h.HandleSearch).Methods(http.MethodPost)
	r.HandleFunc("/recent", h.HandleRecent).Methods(http.MethodPost)
	r.HandleFunc("/recent/clear", h.HandleRecentClear).Methods(http.MethodPost)
	r.HandleFunc("/unit", h.HandleUnit).Methods(http.MethodPost)
	r.HandleFunc("/theme", h.HandleTheme).Methods(http.MethodPost)
	r.HandleFunc("/clock", h.HandleClock).Methods(http.MethodGet)
	r.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)
	return r
}

// widget returns the caller's session, issuing a new cookie when the
// request carries none or a malformed one.
func (h *Handlers) widget(w http.ResponseWriter, r *http.Request) *widget {
	id := ""
	if c, err := r.Cookie(CookieName); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed.String()
		}
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		})
	}
	return h.sessions.get(id)
}

// HandleIndex handles the main page
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.renderPage(w, h.widget(w, r), http.StatusOK)
}

// HandleSearch runs a search for the submitted city
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	wg := h.widget(w, r)
	err := wg.session.Search(r.Context(), r.FormValue("city"))
	h.renderPage(w, wg, searchStatus(err))
}

// HandleRecent searches again for a recent entry
func (h *Handlers) HandleRecent(w http.ResponseWriter, r *http.Request) {
	wg := h.widget(w, r)
	err := wg.session.SelectRecent(r.Context(), r.FormValue("city"))
	h.renderPage(w, wg, searchStatus(err))
}

// HandleRecentClear empties the recent list
func (h *Handlers) HandleRecentClear(w http.ResponseWriter, r *http.Request) {
	wg := h.widget(w, r)
	status := http.StatusOK
	if err := wg.session.ClearRecents(); err != nil {
		log.Printf("Clear recent searches error: %v", err)
		status = http.StatusBadGateway
	}
	h.renderPage(w, wg, status)
}

// HandleUnit toggles between Celsius and Fahrenheit
func (h *Handlers) HandleUnit(w http.ResponseWriter, r *http.Request) {
	wg := h.widget(w, r)
	wg.session.ToggleUnit()
	h.renderPage(w, wg, http.StatusOK)
}

// HandleTheme toggles between the dark and light theme
func (h *Handlers) HandleTheme(w http.ResponseWriter, r *http.Request) {
	wg := h.widget(w, r)
	wg.session.ToggleTheme()
	h.renderPage(w, wg, http.StatusOK)
}

// HandleClock redraws the live clock and returns it as a fragment
func (h *Handlers) HandleClock(w http.ResponseWriter, r *http.Request) {
	wg := h.widget(w, r)
	wg.session.Tick(time.Now())
	h.render(w, "clock", newPageData(wg.surface.View()), http.StatusOK)
}

// HandleHealth handles health check endpoint
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ok"
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
		}
	} else {
		status = "no_database"
	}

	w.Write([]byte(`{"status":"` + status + `"}`))
}

// searchStatus maps a search outcome to a response code. A rejected city
// is a normal outcome shown on the page, and a search the client walked
// away from is not a provider fault.
func searchStatus(err error) int {
	switch {
	case err == nil, errors.Is(err, weather.ErrCityNotFound), errors.Is(err, session.ErrSuperseded):
		return http.StatusOK
	case errors.Is(err, context.Canceled):
		log.Printf("Search abandoned by client: %v", err)
		return http.StatusOK
	default:
		log.Printf("Weather error: %v", err)
		return http.StatusBadGateway
	}
}

func (h *Handlers) renderPage(w http.ResponseWriter, wg *widget, status int) {
	h.render(w, "index.html", newPageData(wg.surface.View()), status)
}

func (h *Handlers) render(w http.ResponseWriter, name string, data pageData, status int) {
	if h.templates == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error executing template: %v", err)
	}
}

// pageData flattens a display.View for the templates
type pageData struct {
	Panel       string
	City        string
	Temperature string
	Condition   string
	Icon        string
	Humidity    string
	Wind        string
	Date        string
	Sunrise     string
	Sunset      string
	Clock       string
	ClockDate   string
	Unit        string
	UnitSlider  template.CSS
	Theme       string
	ThemeIcon   string
	Forecast    []display.ForecastItem
	Recent      []string
}

// UnitSlider is set only from the presenter's fixed transforms
func newPageData(v display.View) pageData {
	return pageData{
		Panel:       v.Panel().String(),
		City:        v.Field(display.FieldCity),
		Temperature: v.Field(display.FieldTemperature),
		Condition:   v.Field(display.FieldCondition),
		Icon:        v.Field(display.FieldIcon),
		Humidity:    v.Field(display.FieldHumidity),
		Wind:        v.Field(display.FieldWind),
		Date:        v.Field(display.FieldDate),
		Sunrise:     v.Field(display.FieldSunrise),
		Sunset:      v.Field(display.FieldSunset),
		Clock:       v.Field(display.FieldClock),
		ClockDate:   v.Field(display.FieldClockDate),
		Unit:        v.Field(display.FieldUnit),
		UnitSlider:  template.CSS(v.Field(display.FieldUnitSlider)),
		Theme:       v.Field(display.FieldTheme),
		ThemeIcon:   v.Field(display.FieldThemeIcon),
		Forecast:    v.Forecast,
		Recent:      v.Recent,
	}
}
