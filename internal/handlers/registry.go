package handlers

import (
	"log"
	"sync"
	"time"

	"github.com/swelljoe/wthr-widget/internal/display"
	"github.com/swelljoe/wthr-widget/internal/recent"
	"github.com/swelljoe/wthr-widget/internal/session"
)

// touchInterval bounds how often a visit refreshes the stored recent list
const touchInterval = time.Hour

// toucher is implemented by stores whose entries expire unless used
type toucher interface {
	Touch(scope string) error
}

// widget is one browser's session together with the surface it draws on
type widget struct {
	session  *session.Session
	surface  *display.MemorySurface
	lastSeen time.Time
	touched  time.Time
}

// Registry keeps live widget sessions keyed by cookie id. The id doubles
// as the storage scope of the recent list.
type Registry struct {
	mu      sync.Mutex
	widgets map[string]*widget
	fetcher session.Fetcher
	store   recent.Store
	limit   int
	now     func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(fetcher session.Fetcher, store recent.Store, limit int) *Registry {
	return &Registry{
		widgets: make(map[string]*widget),
		fetcher: fetcher,
		store:   store,
		limit:   limit,
		now:     time.Now,
	}
}

// get returns the widget for id, creating and initializing it on first use
func (r *Registry) get(id string) *widget {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.widgets[id]; ok {
		w.lastSeen = r.now()
		r.touch(id, w)
		return w
	}

	surface := display.NewMemorySurface()
	list := recent.New(r.store, id, r.limit)
	sess := session.New(r.fetcher, surface, list)
	if err := sess.Init(); err != nil {
		log.Printf("Failed to load recent searches for session %s: %v", id, err)
	}

	w := &widget{session: sess, surface: surface, lastSeen: r.now()}
	r.touch(id, w)
	r.widgets[id] = w
	return w
}

// touch keeps the stored recent list of a visiting session from being
// pruned, at most once per touchInterval.
func (r *Registry) touch(id string, w *widget) {
	t, ok := r.store.(toucher)
	if !ok || r.now().Sub(w.touched) < touchInterval {
		return
	}
	if err := t.Touch(id); err != nil {
		log.Printf("Failed to refresh recent searches for session %s: %v", id, err)
		return
	}
	w.touched = r.now()
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.widgets)
}

// Prune drops sessions not seen within maxIdle and returns how many went.
// Persisted recent lists are left alone.
func (r *Registry) Prune(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for id, w := range r.widgets {
		if w.lastSeen.Before(cutoff) {
			delete(r.widgets, id)
			removed++
		}
	}
	return removed
}
