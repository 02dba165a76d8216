// Package store provides read access to histograms kept in hierarchical
// containers such as ROOT DQM files.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a path does not address an entry.
var ErrNotFound = errors.New("store: entry not found")

// EventsPath is the DQM histogram holding the number of processed events.
const EventsPath = "DQMData/Run 1/EventInfo/processedEvents"

// Store is an opened container of named histograms.
type Store interface {
	// Keys returns the path of every histogram in the store.
	Keys() ([]string, error)
	// Get returns the entry stored under path.
	Get(path string) (Entry, error)
	Close() error
}

// OpenError is returned when the underlying file cannot be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("store: could not open %q: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// IsMetadata reports whether path is a metadata or versioning marker
// rather than a histogram.
func IsMetadata(path string) bool {
	return strings.Contains(path, "=")
}

func notFound(path string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	return fmt.Errorf("%w: %q: %v", ErrNotFound, path, err)
}

type subStore struct {
	st     Store
	prefix string
}

// Sub returns a view of st rooted at the directory dir. Closing the view
// does not close st.
func Sub(st Store, dir string) Store {
	return &subStore{st: st, prefix: strings.TrimSuffix(dir, "/") + "/"}
}

func (s *subStore) Keys() ([]string, error) {
	keys, err := s.st.Keys()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range keys {
		if strings.HasPrefix(k, s.prefix) {
			out = append(out, strings.TrimPrefix(k, s.prefix))
		}
	}
	return out, nil
}

func (s *subStore) Get(path string) (Entry, error) {
	e, err := s.st.Get(s.prefix + path)
	if err != nil {
		return Entry{}, err
	}
	e.Path = path
	return e, nil
}

func (s *subStore) Close() error { return nil }

// Contains reports whether path is one of the keys of st.
func Contains(st Store, path string) (bool, error) {
	keys, err := st.Keys()
	if err != nil {
		return false, err
	}
	for _, k := range keys {
		if k == path {
			return true, nil
		}
	}
	return false, nil
}

// NumEvents returns the number of processed events recorded in the DQM
// event info. ok is false when the file does not carry it.
func NumEvents(st Store) (n float64, ok bool, err error) {
	found, err := Contains(st, EventsPath)
	if err != nil || !found {
		return 0, false, err
	}
	e, err := st.Get(EventsPath)
	if err != nil {
		return 0, false, err
	}
	if len(e.Values) == 0 {
		return 0, false, nil
	}
	return e.Values[0], true, nil
}

// Memory is an in-memory store.
type Memory struct {
	entries map[string]Entry
}

func NewMemory(entries ...Entry) *Memory {
	m := &Memory{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		m.Put(e)
	}
	return m
}

// Put adds e under e.Path, replacing any previous entry.
func (m *Memory) Put(e Entry) {
	m.entries[e.Path] = e
}

func (m *Memory) Keys() ([]string, error) {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Get(path string) (Entry, error) {
	e, ok := m.entries[path]
	if !ok {
		return Entry{}, notFound(path, nil)
	}
	return e, nil
}

func (m *Memory) Close() error { return nil }
