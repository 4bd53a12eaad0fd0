package event

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Filter keeps events whose title or description contains searchTerm
// (case-insensitive) and whose category matches. category "all" or ""
// matches every event. Source order is preserved and the input is not
// modified.
func Filter(events []Event, searchTerm, category string) []Event {
	needle := strings.ToLower(searchTerm)
	out := make([]Event, 0, len(events))
	for _, e := range events {
		matchesSearch := strings.Contains(strings.ToLower(e.Title), needle) ||
			strings.Contains(strings.ToLower(e.Description), needle)
		matchesCategory := category == "" || category == CategoryAll || string(e.Category) == category
		if matchesSearch && matchesCategory {
			out = append(out, e)
		}
	}
	return out
}

// ToggleRSVP returns a copy of events where the event with eventID has its
// RSVP flipped and its attendee count moved by one in the same direction.
// An unknown eventID yields an unchanged copy.
func ToggleRSVP(events []Event, eventID string) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	for i := range out {
		if out[i].ID != eventID {
			continue
		}
		if out[i].RSVPed {
			out[i].Attendees--
		} else {
			out[i].Attendees++
		}
		out[i].RSVPed = !out[i].RSVPed
	}
	return out
}

type ChangeKind string

const (
	ChangeCreated     ChangeKind = "event.created"
	ChangeRSVPAdded   ChangeKind = "event.rsvp_added"
	ChangeRSVPRemoved ChangeKind = "event.rsvp_removed"
)

// Change describes one mutation of the registry. Event is rendered for
// UserID when the change is an RSVP.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	Event  Event      `json:"event"`
	UserID string     `json:"user_id,omitempty"`
	At     time.Time  `json:"at"`
}

type record struct {
	event Event
	rsvps map[string]struct{}
}

// Registry is the in-memory event store. RSVPs are tracked per viewer so
// each viewer sees their own rsvped flag over a shared attendee counter.
type Registry struct {
	mu              sync.RWMutex
	order           []string
	records         map[string]*record
	enforceCapacity bool
	now             func() time.Time

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

type Option func(*Registry)

// WithCapacityEnforcement makes RSVPs fail with ErrEventFull once
// attendees reach capacity.
func WithCapacityEnforcement(enabled bool) Option {
	return func(r *Registry) { r.enforceCapacity = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(seed []Event, opts ...Option) *Registry {
	r := &Registry{
		records:         make(map[string]*record),
		enforceCapacity: true,
		now:             time.Now,
		subs:            make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, e := range seed {
		e.RSVPed = false
		r.order = append(r.order, e.ID)
		r.records[e.ID] = &record{event: e, rsvps: make(map[string]struct{})}
	}
	return r
}

// Subscribe registers fn for every future change and returns a function
// that removes it. fn runs on the mutating goroutine after the registry
// lock is released.
func (r *Registry) Subscribe(fn func(Change)) func() {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		delete(r.subs, id)
	}
}

func (r *Registry) publish(c Change) {
	r.subMu.Lock()
	ids := make([]int, 0, len(r.subs))
	for id := range r.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, r.subs[id])
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

func (rec *record) viewFor(viewerID string) Event {
	e := rec.event
	_, e.RSVPed = rec.rsvps[viewerID]
	return e
}

// List returns every event in insertion order as seen by viewerID.
func (r *Registry) List(viewerID string) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id].viewFor(viewerID))
	}
	return out
}

func (r *Registry) Search(viewerID, searchTerm, category string) []Event {
	return Filter(r.List(viewerID), searchTerm, category)
}

func (r *Registry) Get(viewerID, id string) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return rec.viewFor(viewerID), nil
}

// Registered lists the events viewerID has RSVP'd to.
func (r *Registry) Registered(viewerID string) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Event
	for _, id := range r.order {
		rec := r.records[id]
		if _, ok := rec.rsvps[viewerID]; ok {
			out = append(out, rec.viewFor(viewerID))
		}
	}
	return out
}

// Attendees returns the IDs of users who RSVP'd to the event, sorted.
func (r *Registry) Attendees(id string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	ids := make([]string, 0, len(rec.rsvps))
	for uid := range rec.rsvps {
		ids = append(ids, uid)
	}
	sort.Strings(ids)
	return ids, nil
}

// Create appends a validated event. The ID must be unique.
func (r *Registry) Create(e Event) (Event, error) {
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	e.RSVPed = false
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now()
	}
	if e.Status == "" {
		e.Status = StatusPublished
	}

	r.mu.Lock()
	if _, exists := r.records[e.ID]; exists || e.ID == "" {
		r.mu.Unlock()
		return Event{}, ErrInvalidEvent
	}
	r.order = append(r.order, e.ID)
	r.records[e.ID] = &record{event: e, rsvps: make(map[string]struct{})}
	r.mu.Unlock()

	r.publish(Change{Kind: ChangeCreated, Event: e, UserID: e.CreatedBy, At: e.CreatedAt})
	return e, nil
}

// ToggleRSVP flips viewerID's RSVP on the event and moves the attendee
// counter with it.
func (r *Registry) ToggleRSVP(viewerID, id string) (Event, error) {
	r.mu.Lock()
	rec, ok := r.records[id]
	if !ok {
		r.mu.Unlock()
		return Event{}, ErrEventNotFound
	}

	kind := ChangeRSVPAdded
	if _, going := rec.rsvps[viewerID]; going {
		delete(rec.rsvps, viewerID)
		if rec.event.Attendees > 0 {
			rec.event.Attendees--
		}
		kind = ChangeRSVPRemoved
	} else {
		if r.enforceCapacity && rec.event.IsFull() {
			r.mu.Unlock()
			return Event{}, ErrEventFull
		}
		rec.rsvps[viewerID] = struct{}{}
		rec.event.Attendees++
	}
	view := rec.viewFor(viewerID)
	r.mu.Unlock()

	r.publish(Change{Kind: kind, Event: view, UserID: viewerID, At: r.now()})
	return view, nil
}

// Stats summarizes the registry. Events dated on or after today count as
// upcoming.
func (r *Registry) Stats(loc *time.Location) StatsResponse {
	if loc == nil {
		loc = time.UTC
	}
	today := r.now().In(loc).Format(DateLayout)

	r.mu.RLock()
	defer r.mu.RUnlock()
	var s StatsResponse
	for _, id := range r.order {
		e := r.records[id].event
		s.TotalEvents++
		s.TotalRSVPs += e.Attendees
		s.TotalCapacity += e.Capacity
		if e.Date >= today {
			s.UpcomingEvents++
		}
		if e.IsFull() {
			s.FullEvents++
		}
	}
	return s
}
