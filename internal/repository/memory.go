package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedbackhub/internal/model"
)

// Memory is a process-local store used when MongoDB is not configured or not
// reachable. All repositories built from one Memory share its data. Values are
// copied on the way in and out so callers never alias stored records.
type Memory struct {
	mu        sync.RWMutex
	users     map[string]*model.User
	forms     map[string]*model.Form
	responses []*model.Response
	events    map[string]*model.Event
	feedback  []*model.EventFeedback
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		users:  make(map[string]*model.User),
		forms:  make(map[string]*model.Form),
		events: make(map[string]*model.Event),
	}
}

func (m *Memory) Forms() FormRepo { return memoryForms{m} }
func (m *Memory) Responses() ResponseRepo { return memoryResponses{m} }
func (m *Memory) Users() UserRepo { return memoryUsers{m} }
func (m *Memory) Events() EventRepo { return memoryEvents{m} }
func (m *Memory) EventFeedback() EventFeedbackRepo { return memoryFeedback{m} }

func newID() string {
	return primitive.NewObjectID().Hex()
}

func cloneForm(f *model.Form) *model.Form {
	c := *f
	c.Questions = make([]model.Question, len(f.Questions))
	for i, q := range f.Questions {
		q.Options = append([]string(nil), q.Options...)
		c.Questions[i] = q
	}
	return &c
}

func cloneResponse(r *model.Response) *model.Response {
	c := *r
	c.Answers = append([]model.Answer(nil), r.Answers...)
	return &c
}

func cloneUser(u *model.User) *model.User {
	c := *u
	return &c
}

func cloneEvent(e *model.Event) *model.Event {
	c := *e
	return &c
}

func cloneFeedback(f *model.EventFeedback) *model.EventFeedback {
	c := *f
	return &c
}

// sortNewestFirst orders by createdAt descending, id breaking ties
func sortNewestFirst[T any](items []T, createdAt func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := createdAt(items[i]), createdAt(items[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return id(items[i]) > id(items[j])
	})
}

type memoryForms struct{ m *Memory }

func (r memoryForms) Create(_ context.Context, form *model.Form) error {
	if form.ID == "" {
		form.ID = newID()
	}
	now := time.Now().UTC()
	form.CreatedAt = now
	form.UpdatedAt = now

	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.forms[form.ID] = cloneForm(form)
	return nil
}

func (r memoryForms) GetByID(_ context.Context, id string) (*model.Form, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	f, ok := r.m.forms[id]
	if !ok {
		return nil, nil
	}
	return cloneForm(f), nil
}

func (r memoryForms) ListByOwner(_ context.Context, ownerID string) ([]*model.Form, error) {
	return r.list(func(f *model.Form) bool { return f.CreatedBy == ownerID }), nil
}

func (r memoryForms) ListPublished(_ context.Context) ([]*model.Form, error) {
	return r.list((*model.Form).Published), nil
}

func (r memoryForms) list(keep func(*model.Form) bool) []*model.Form {
	r.m.mu.RLock()
	out := []*model.Form{}
	for _, f := range r.m.forms {
		if keep(f) {
			out = append(out, cloneForm(f))
		}
	}
	r.m.mu.RUnlock()

	sortNewestFirst(out,
		func(f *model.Form) time.Time { return f.CreatedAt },
		func(f *model.Form) string { return f.ID })
	return out
}

func (r memoryForms) Update(_ context.Context, form *model.Form) error {
	form.UpdatedAt = time.Now().UTC()

	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.forms[form.ID]; ok {
		r.m.forms[form.ID] = cloneForm(form)
	}
	return nil
}

func (r memoryForms) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.forms, id)
	return nil
}

type memoryResponses struct{ m *Memory }

func (r memoryResponses) Create(_ context.Context, response *model.Response) error {
	if response.ID == "" {
		response.ID = newID()
	}
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now().UTC()
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.responses = append(r.m.responses, cloneResponse(response))
	return nil
}

func (r memoryResponses) ListByForm(_ context.Context, formID string) ([]*model.Response, error) {
	r.m.mu.RLock()
	out := []*model.Response{}
	for _, resp := range r.m.responses {
		if resp.FormID == formID {
			out = append(out, cloneResponse(resp))
		}
	}
	r.m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

func (r memoryResponses) CountByForms(_ context.Context, formIDs []string) (map[string]int, error) {
	wanted := make(map[string]bool, len(formIDs))
	for _, id := range formIDs {
		wanted[id] = true
	}

	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	counts := make(map[string]int, len(formIDs))
	for _, resp := range r.m.responses {
		if wanted[resp.FormID] {
			counts[resp.FormID]++
		}
	}
	return counts, nil
}

func (r memoryResponses) DeleteByForm(_ context.Context, formID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	kept := r.m.responses[:0]
	for _, resp := range r.m.responses {
		if resp.FormID != formID {
			kept = append(kept, resp)
		}
	}
	for i := len(kept); i < len(r.m.responses); i++ {
		r.m.responses[i] = nil
	}
	r.m.responses = kept
	return nil
}

type memoryUsers struct{ m *Memory }

// conflict reports whether another user already owns u's email or google id.
// Callers hold the lock.
func (r memoryUsers) conflict(u *model.User) bool {
	for id, existing := range r.m.users {
		if id == u.ID {
			continue
		}
		if existing.Email == u.Email {
			return true
		}
		if u.GoogleID != "" && existing.GoogleID == u.GoogleID {
			return true
		}
	}
	return false
}

func (r memoryUsers) Create(_ context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.conflict(user) {
		return ErrDuplicate
	}
	r.m.users[user.ID] = cloneUser(user)
	return nil
}

func (r memoryUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id }), nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.find(func(u *model.User) bool { return u.Email == email }), nil
}

func (r memoryUsers) GetByGoogleID(_ context.Context, googleID string) (*model.User, error) {
	if googleID == "" {
		return nil, nil
	}
	return r.find(func(u *model.User) bool { return u.GoogleID == googleID }), nil
}

func (r memoryUsers) find(match func(*model.User) bool) *model.User {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, u := range r.m.users {
		if match(u) {
			return cloneUser(u)
		}
	}
	return nil
}

func (r memoryUsers) Update(_ context.Context, user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[user.ID]; !ok {
		return nil
	}
	if r.conflict(user) {
		return ErrDuplicate
	}
	r.m.users[user.ID] = cloneUser(user)
	return nil
}

type memoryEvents struct{ m *Memory }

func (r memoryEvents) Create(_ context.Context, event *model.Event) error {
	if event.ID == "" {
		event.ID = newID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, e := range r.m.events {
		if e.PublicLink == event.PublicLink {
			return ErrDuplicate
		}
	}
	r.m.events[event.ID] = cloneEvent(event)
	return nil
}

func (r memoryEvents) GetByID(_ context.Context, id string) (*model.Event, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	e, ok := r.m.events[id]
	if !ok {
		return nil, nil
	}
	return cloneEvent(e), nil
}

func (r memoryEvents) GetActiveByPublicLink(_ context.Context, link string) (*model.Event, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, e := range r.m.events {
		if e.PublicLink == link && e.IsActive {
			return cloneEvent(e), nil
		}
	}
	return nil, nil
}

func (r memoryEvents) ListByOwner(_ context.Context, ownerID string) ([]*model.Event, error) {
	r.m.mu.RLock()
	out := []*model.Event{}
	for _, e := range r.m.events {
		if e.CreatedBy == ownerID {
			out = append(out, cloneEvent(e))
		}
	}
	r.m.mu.RUnlock()

	sortNewestFirst(out,
		func(e *model.Event) time.Time { return e.CreatedAt },
		func(e *model.Event) string { return e.ID })
	return out, nil
}

type memoryFeedback struct{ m *Memory }

func (r memoryFeedback) Create(_ context.Context, feedback *model.EventFeedback) error {
	if feedback.ID == "" {
		feedback.ID = newID()
	}
	if feedback.SubmittedAt.IsZero() {
		feedback.SubmittedAt = time.Now().UTC()
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.feedback = append(r.m.feedback, cloneFeedback(feedback))
	return nil
}

func (r memoryFeedback) ListByEvent(ctx context.Context, eventID string) ([]*model.EventFeedback, error) {
	grouped, err := r.ListByEvents(ctx, []string{eventID})
	if err != nil {
		return nil, err
	}
	rows := grouped[eventID]
	if rows == nil {
		rows = []*model.EventFeedback{}
	}
	return rows, nil
}

func (r memoryFeedback) ListByEvents(_ context.Context, eventIDs []string) (map[string][]*model.EventFeedback, error) {
	wanted := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}

	r.m.mu.RLock()
	grouped := make(map[string][]*model.EventFeedback, len(eventIDs))
	for _, f := range r.m.feedback {
		if wanted[f.EventID] {
			grouped[f.EventID] = append(grouped[f.EventID], cloneFeedback(f))
		}
	}
	r.m.mu.RUnlock()

	for _, rows := range grouped {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].SubmittedAt.Before(rows[j].SubmittedAt)
		})
	}
	return grouped, nil
}
