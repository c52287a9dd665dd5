package hxformecho

import (
	"context"
	"sync"

	"github.com/oasisprotocol/hxform"
)

// session is one browser's live form. Fields keep their state between
// requests; background validations and actions run on ctx, which ends when
// the session is evicted.
type session struct {
	id   string
	form *Form

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	changed     map[string]struct{}
	watchers    map[int]chan string
	nextWatcher int
	unsubscribe []func()
}

func newSession(id string, form *Form) *session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:       id,
		form:     form,
		ctx:      ctx,
		cancel:   cancel,
		changed:  make(map[string]struct{}),
		watchers: make(map[int]chan string),
	}
	for _, f := range form.Fields.Flatten() {
		fieldID := f.ID()
		s.unsubscribe = append(s.unsubscribe, f.Subscribe(func() { s.markChanged(fieldID) }))
	}
	return s
}

func (s *session) markChanged(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed[id] = struct{}{}
	for _, ch := range s.watchers {
		select {
		case ch <- id:
		default:
		}
	}
}

// takeChanged returns the fields changed since the last call, except skip,
// in form order.
func (s *session) takeChanged(skip string) []hxform.FieldLike {
	s.mu.Lock()
	changed := s.changed
	s.changed = make(map[string]struct{})
	s.mu.Unlock()

	var fields []hxform.FieldLike
	for _, f := range s.form.Fields.Flatten() {
		if _, ok := changed[f.ID()]; ok && f.ID() != skip {
			fields = append(fields, f)
		}
	}
	return fields
}

// watch streams ids of changed fields until cancel is called. Slow
// watchers miss notifications rather than block the fields.
func (s *session) watch() (<-chan string, func()) {
	ch := make(chan string, 64)
	s.mu.Lock()
	key := s.nextWatcher
	s.nextWatcher++
	s.watchers[key] = ch
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		delete(s.watchers, key)
		s.mu.Unlock()
	}
}

func (s *session) field(id string) (hxform.FieldLike, bool) {
	return hxform.Find(s.form.Fields, id)
}

func (s *session) close() {
	s.cancel()
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	for _, cancel := range unsubscribe {
		cancel()
	}
}
