package recent

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestPush_CaseInsensitiveDedup(t *testing.T) {
	l := New(NewMemoryStore(), "origin", 0)

	for _, name := range []string{"Paris", "paris", "London"} {
		if _, err := l.Push(name); err != nil {
			t.Fatalf("Push(%q) failed: %v", name, err)
		}
	}

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"London", "paris"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPush_MovesExistingToFront(t *testing.T) {
	l := New(NewMemoryStore(), "origin", 0)
	for _, name := range []string{"Oslo", "Rome", "Lima", "ROME"} {
		l.Push(name)
	}

	got, _ := l.Load()
	want := []string{"ROME", "Lima", "Oslo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPush_FoldsUnicodeCase(t *testing.T) {
	l := New(NewMemoryStore(), "origin", 0)
	l.Push("MÜNCHEN")
	l.Push("münchen")

	got, _ := l.Load()
	if !reflect.DeepEqual(got, []string{"münchen"}) {
		t.Errorf("expected [münchen], got %v", got)
	}
}

func TestPush_TrimsAndIgnoresBlank(t *testing.T) {
	l := New(NewMemoryStore(), "origin", 0)
	l.Push("  Berlin ")
	got, err := l.Push("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Berlin"}) {
		t.Errorf("expected [Berlin], got %v", got)
	}
}

func TestPush_Capped(t *testing.T) {
	l := New(NewMemoryStore(), "origin", 3)
	for i := 0; i < 5; i++ {
		l.Push(fmt.Sprintf("City%d", i))
	}

	got, _ := l.Load()
	want := []string{"City4", "City3", "City2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestClear(t *testing.T) {
	l := New(NewMemoryStore(), "origin", 0)
	l.Push("Paris")

	if err := l.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestScopesAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	a := New(store, "a", 0)
	b := New(store, "b", 0)

	a.Push("Tokyo")
	got, _ := b.Load()
	if len(got) != 0 {
		t.Errorf("expected scope b to be empty, got %v", got)
	}
}

func TestLoad_StoredAsJSON(t *testing.T) {
	store := NewMemoryStore()
	New(store, "origin", 0).Push("Paris")

	raw, ok, _ := store.Get("origin", Key)
	if !ok || raw != `["Paris"]` {
		t.Errorf("expected [\"Paris\"] under %s, got %q (present=%v)", Key, raw, ok)
	}
}

func TestLoad_CorruptValue(t *testing.T) {
	store := NewMemoryStore()
	store.Set("origin", Key, "not json")

	if _, err := New(store, "origin", 0).Load(); err == nil {
		t.Error("expected error for corrupt value")
	}
}

type brokenStore struct{ *MemoryStore }

func (brokenStore) Set(string, string, string) error { return errors.New("disk full") }

func TestPush_StoreError(t *testing.T) {
	s := brokenStore{NewMemoryStore()}
	if _, err := New(s, "origin", 0).Push("Paris"); err == nil {
		t.Error("expected error when the store fails")
	}
}
