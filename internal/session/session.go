package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/swelljoe/wthr-widget/internal/display"
	"github.com/swelljoe/wthr-widget/internal/recent"
	"github.com/swelljoe/wthr-widget/internal/weather"
)

// ErrSuperseded is returned by a search whose results were discarded
// because a newer search started before it finished.
var ErrSuperseded = errors.New("search superseded by a newer one")

// Fetcher retrieves provider data for a city
type Fetcher interface {
	FetchCurrent(ctx context.Context, city string) (weather.Snapshot, error)
	FetchForecast(ctx context.Context, city string) ([]weather.ForecastPoint, error)
}

// Session holds the state of one widget instance and runs the
// fetch/extract/present pipeline against it.
type Session struct {
	mu        sync.Mutex
	fetcher   Fetcher
	presenter *display.Presenter
	recents   *recent.List
	now       func() time.Time

	panel       display.Panel
	unit        display.Unit
	theme       display.Theme
	current     *weather.Snapshot
	forecast    []weather.ForecastEntry
	offset      int
	offsetKnown bool

	gen    uint64
	cancel context.CancelFunc
}

// Option configures a Session
type Option func(*Session)

// WithNow replaces the wall clock, mainly for tests
func WithNow(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session writing to surface
func New(f Fetcher, surface display.Surface, recents *recent.List, opts ...Option) *Session {
	s := &Session{
		fetcher: f,
		recents: recents,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.presenter = display.NewPresenter(surface, display.DefaultIconPath)
	return s
}

// Init shows the search prompt and draws the indicators and recent list
func (s *Session) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.show(display.PanelSearchPrompt)
	s.presenter.RenderUnit(s.unit)
	s.presenter.RenderTheme(s.theme)

	names, err := s.recents.Load()
	if err != nil {
		s.presenter.RenderRecent(nil)
		return err
	}
	s.presenter.RenderRecent(names)
	return nil
}

// Search runs the pipeline for input. Blank input does nothing. The city
// is sent to the provider exactly as typed.
//
// A city the provider rejects shows the not-found panel and returns
// weather.ErrCityNotFound. Transport or decoding faults are returned as-is
// with the loading panel still up. If ctx ends first, the panel
// shown before the search comes back and ctx.Err() is returned.
func (s *Session) Search(ctx context.Context, input string) error {
	name := strings.TrimSpace(input)
	if name == "" {
		return nil
	}

	s.mu.Lock()
	if names, err := s.recents.Push(name); err != nil {
		log.Printf("Failed to record recent search: %v", err)
	} else {
		s.presenter.RenderRecent(names)
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	prev := s.panel
	if prev == display.PanelLoading {
		prev = display.PanelSearchPrompt
	}
	s.show(display.PanelLoading)
	s.mu.Unlock()

	defer s.finish(gen, cancel)

	snap, err := s.fetcher.FetchCurrent(ctx, input)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if ctx.Err() != nil {
		s.show(prev)
		s.mu.Unlock()
		return ctx.Err()
	}
	if errors.Is(err, weather.ErrCityNotFound) {
		s.show(display.PanelNotFound)
		s.mu.Unlock()
		return err
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}

	now := s.now()
	s.current = &snap
	s.offset = snap.TimezoneOffsetSec
	s.offsetKnown = true
	s.presenter.RenderSnapshot(snap, s.unit, now)
	s.presenter.RenderClock(now, s.offset)
	s.mu.Unlock()

	points, err := s.fetcher.FetchForecast(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrSuperseded
	}
	if ctx.Err() != nil {
		s.show(prev)
		return ctx.Err()
	}
	if err != nil {
		return err
	}

	entries, err := weather.SelectForecast(points, s.now())
	if err != nil {
		return fmt.Errorf("failed to extract forecast: %w", err)
	}
	s.forecast = entries
	s.presenter.RenderForecast(entries, s.unit)
	s.show(display.PanelWeather)
	return nil
}

// show records and displays p; callers hold mu
func (s *Session) show(p display.Panel) {
	s.panel = p
	s.presenter.ShowPanel(p)
}

func (s *Session) finish(gen uint64, cancel context.CancelFunc) {
	cancel()
	s.mu.Lock()
	if gen == s.gen {
		s.cancel = nil
	}
	s.mu.Unlock()
}

// SelectRecent searches again for an entry of the recent list
func (s *Session) SelectRecent(ctx context.Context, name string) error {
	return s.Search(ctx, name)
}

// ClearRecents empties the persisted list and redraws it
func (s *Session) ClearRecents() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.recents.Clear(); err != nil {
		return err
	}
	s.presenter.RenderRecent([]string{})
	return nil
}

// ToggleUnit flips the unit and redraws every shown temperature from the
// stored Celsius values.
func (s *Session) ToggleUnit() display.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unit == display.Celsius {
		s.unit = display.Fahrenheit
	} else {
		s.unit = display.Celsius
	}

	s.presenter.RenderUnit(s.unit)
	if s.current != nil {
		s.presenter.RenderTemperature(*s.current, s.unit)
	}
	if s.forecast != nil {
		s.presenter.RenderForecast(s.forecast, s.unit)
	}
	return s.unit
}

// ToggleTheme flips between the dark and light theme
func (s *Session) ToggleTheme() display.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.theme == display.ThemeDark {
		s.theme = display.ThemeLight
	} else {
		s.theme = display.ThemeDark
	}
	s.presenter.RenderTheme(s.theme)
	return s.theme
}

// Tick redraws the live clock for the active city. It reports false while
// no search has succeeded yet.
func (s *Session) Tick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.offsetKnown {
		return false
	}
	s.presenter.RenderClock(now, s.offset)
	return true
}

// RunClock ticks every interval until ctx is done. onTick, if set, runs
// after each redraw.
func (s *Session) RunClock(ctx context.Context, interval time.Duration, onTick func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.Tick(s.now()) && onTick != nil {
				onTick()
			}
		case <-ctx.Done():
			return
		}
	}
}

// Unit returns the active unit preference
func (s *Session) Unit() display.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unit
}

// Current returns the displayed snapshot, if any
func (s *Session) Current() (weather.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return weather.Snapshot{}, false
	}
	return *s.current, true
}
