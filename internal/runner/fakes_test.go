package runner

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/semmy-space/walletrunner/internal/wallet"
)

type fakeEntry struct {
	name     string
	kind     wallet.EntryType
	password string
	fields   map[string]string
}

type fakeFolder struct {
	name    string
	entries []fakeEntry
}

// fakeStore is an ordered in-memory store with failure injection.
type fakeStore struct {
	folders  []fakeFolder
	current  string
	disabled bool
	closed   bool

	brokenFolders map[string]bool
	brokenEntries map[string]bool
	setFolders    []string
}

func (s *fakeStore) IsEnabled() bool { return !s.disabled }
func (s *fakeStore) IsOpen() bool    { return !s.closed }
func (s *fakeStore) Close() error    { s.closed = true; return nil }

func (s *fakeStore) SetFolder(name string) error {
	s.setFolders = append(s.setFolders, name)
	for _, f := range s.folders {
		if f.name == name {
			s.current = name
			return nil
		}
	}
	return wallet.ErrNotFound
}

func (s *fakeStore) FolderList() ([]string, error) {
	names := make([]string, 0, len(s.folders))
	for _, f := range s.folders {
		names = append(names, f.name)
	}
	return names, nil
}

func (s *fakeStore) EntryList() ([]string, error) {
	if s.brokenFolders[s.current] {
		return nil, errors.New("folder unreadable")
	}
	var names []string
	for _, e := range s.folder().entries {
		names = append(names, e.name)
	}
	return names, nil
}

func (s *fakeStore) EntryType(name string) wallet.EntryType {
	e, ok := s.entry(name)
	if !ok {
		return wallet.Unknown
	}
	return e.kind
}

func (s *fakeStore) ReadPassword(name string) (string, error) {
	if s.brokenEntries[name] {
		return "", errors.New("read failed")
	}
	e, ok := s.entry(name)
	if !ok {
		return "", wallet.ErrNotFound
	}
	return e.password, nil
}

func (s *fakeStore) ReadMap(name string) (map[string]string, error) {
	if s.brokenEntries[name] {
		return nil, errors.New("read failed")
	}
	e, ok := s.entry(name)
	if !ok {
		return nil, wallet.ErrNotFound
	}
	out := map[string]string{}
	for k, v := range e.fields {
		out[k] = v
	}
	return out, nil
}

func (s *fakeStore) HasEntry(name string) bool {
	_, ok := s.entry(name)
	return ok
}

func (s *fakeStore) folder() fakeFolder {
	for _, f := range s.folders {
		if f.name == s.current {
			return f
		}
	}
	return fakeFolder{}
}

func (s *fakeStore) entry(name string) (fakeEntry, bool) {
	for _, e := range s.folder().entries {
		if e.name == name {
			return e, true
		}
	}
	return fakeEntry{}, false
}

func newTestStore() *fakeStore {
	return &fakeStore{
		folders: []fakeFolder{
			{name: "", entries: []fakeEntry{
				{name: "github", kind: wallet.Password, password: "sek123"},
				{name: "wifi", kind: wallet.Map, fields: map[string]string{"ssid": "home", "password": "pw1"}},
				{name: "pin", kind: wallet.Map, fields: map[string]string{"code": "1234"}},
				{name: "empty", kind: wallet.Map, fields: map[string]string{}},
				{name: "blob", kind: wallet.Unknown},
			}},
			{name: "Work", entries: []fakeEntry{
				{name: "GitLab", kind: wallet.Password, password: "lab"},
				{name: "vpn", kind: wallet.Password, password: "tunnel"},
			}},
			{name: "Passwords", entries: []fakeEntry{
				{name: "legit-site", kind: wallet.Password, password: "x"},
			}},
		},
	}
}

// fakeSink records every clipboard write.
type fakeSink struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (s *fakeSink) SetText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, text)
	return nil
}

func (s *fakeSink) text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.writes) == 0 {
		return ""
	}
	return s.writes[len(s.writes)-1]
}

func (s *fakeSink) history() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

// fakeClock fires callbacks synchronously from Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and runs due callbacks in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(title, message string) {
	n.messages = append(n.messages, message)
}
