package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/repository"
)

type fakeGrievanceRepo struct {
	mu         sync.Mutex
	items      map[string]*domain.Grievance
	seq        int
	dupCreates int
	updateErrs map[string]error
	epoch      time.Time
	// afterGet runs once, after the next GetByID has read its copy.
	afterGet func(id string)
}

func newFakeGrievanceRepo() *fakeGrievanceRepo {
	return &fakeGrievanceRepo{
		items:      map[string]*domain.Grievance{},
		updateErrs: map[string]error{},
		epoch:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeGrievanceRepo) Create(_ context.Context, g *domain.Grievance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dupCreates > 0 {
		r.dupCreates--
		return repository.ErrDuplicateTicketID
	}
	for _, existing := range r.items {
		if existing.TicketID == g.TicketID {
			return repository.ErrDuplicateTicketID
		}
	}
	r.seq++
	g.ID = fmt.Sprintf("g%d", r.seq)
	g.CreatedAt = r.epoch.Add(time.Duration(r.seq) * time.Minute)
	g.UpdatedAt = g.CreatedAt
	stored := *g
	r.items[g.ID] = &stored
	return nil
}

func (r *fakeGrievanceRepo) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Grievance, error) {
	return r.write(id, func(g *domain.Grievance) { g.Status = status })
}

func (r *fakeGrievanceRepo) UpdateAssignee(_ context.Context, id string, assignee *string) (*domain.Grievance, error) {
	return r.write(id, func(g *domain.Grievance) { g.AssignedTo = assignee })
}

func (r *fakeGrievanceRepo) write(id string, apply func(*domain.Grievance)) (*domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErrs[id]; err != nil {
		return nil, err
	}
	existing, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	apply(existing)
	out := *existing
	return &out, nil
}

func (r *fakeGrievanceRepo) GetByID(_ context.Context, id string) (*domain.Grievance, error) {
	r.mu.Lock()
	g, ok := r.items[id]
	var out domain.Grievance
	if ok {
		out = *g
	}
	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if hook != nil {
		hook(id)
	}
	return &out, nil
}

func (r *fakeGrievanceRepo) GetByTicketID(_ context.Context, ticketID string) (*domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.items {
		if g.TicketID == ticketID {
			out := *g
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeGrievanceRepo) List(_ context.Context, filter repository.GrievanceFilter) ([]domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Grievance
	for _, g := range r.items {
		if filter.UserID != nil && g.UserID != *filter.UserID {
			continue
		}
		if filter.AssignedTo != nil && (g.AssignedTo == nil || *g.AssignedTo != *filter.AssignedTo) {
			continue
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeGrievanceRepo) put(g domain.Grievance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if g.CreatedAt.IsZero() {
		g.CreatedAt = r.epoch.Add(time.Duration(r.seq) * time.Minute)
	}
	r.items[g.ID] = &g
}

type fakeProfileRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Profile
	seq   int
}

func newFakeProfileRepo(profiles ...domain.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{items: map[string]*domain.Profile{}}
	for i := range profiles {
		p := profiles[i]
		r.items[p.ID] = &p
	}
	return r
}

func (r *fakeProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if strings.EqualFold(existing.Email, p.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	r.seq++
	p.ID = fmt.Sprintf("p%d", r.seq)
	stored := *p
	r.items[p.ID] = &stored
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *p
	return &out, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if strings.EqualFold(p.Email, email) {
			out := *p
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProfileRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Profile
	for _, id := range ids {
		if p, ok := r.items[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeStaffRepo struct {
	mu       sync.Mutex
	roles    map[string]domain.Role
	profiles *fakeProfileRepo
	listed   int
}

func newFakeStaffRepo(profiles *fakeProfileRepo, roles map[string]domain.Role) *fakeStaffRepo {
	if roles == nil {
		roles = map[string]domain.Role{}
	}
	return &fakeStaffRepo{roles: roles, profiles: profiles}
}

func (r *fakeStaffRepo) GetRole(_ context.Context, userID string) (domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[userID]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return role, nil
}

func (r *fakeStaffRepo) SetRole(_ context.Context, a domain.RoleAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[a.UserID] = a.Role
	return nil
}

func (r *fakeStaffRepo) ListRoster(ctx context.Context) ([]domain.StaffMember, error) {
	r.mu.Lock()
	r.listed++
	ids := make([]string, 0, len(r.roles))
	for id, role := range r.roles {
		if role.IsStaff() {
			ids = append(ids, id)
		}
	}
	roles := make(map[string]domain.Role, len(r.roles))
	for k, v := range r.roles {
		roles[k] = v
	}
	r.mu.Unlock()

	sort.Strings(ids)
	var out []domain.StaffMember
	for _, id := range ids {
		member := domain.StaffMember{ID: id, Role: roles[id]}
		if p, err := r.profiles.GetByID(ctx, id); err == nil {
			member.Email = p.Email
			member.Name = p.Name
		}
		out = append(out, member)
	}
	return out, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.GrievanceHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, h *domain.GrievanceHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h.ID = fmt.Sprintf("h%d", len(r.entries)+1)
	r.entries = append(r.entries, *h)
	return nil
}

func (r *fakeHistoryRepo) ListByGrievance(_ context.Context, grievanceID string) ([]domain.GrievanceHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.GrievanceHistory
	for _, h := range r.entries {
		if h.GrievanceID == grievanceID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	mu    sync.Mutex
	items []domain.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = fmt.Sprintf("c%d", len(r.items)+1)
	c.CreatedAt = time.Date(2024, 1, 1, 0, len(r.items), 0, 0, time.UTC)
	r.items = append(r.items, *c)
	return nil
}

func (r *fakeCommentRepo) ListByGrievance(_ context.Context, grievanceID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, c := range r.items {
		if c.GrievanceID == grievanceID {
			out = append(out, c)
		}
	}
	return out, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
	inner  events.Dispatcher
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{inner: events.NewInMemoryDispatcher(nil)}
}

func (d *recordingDispatcher) Publish(ctx context.Context, e events.Event) error {
	d.mu.Lock()
	d.events = append(d.events, e)
	d.mu.Unlock()
	return d.inner.Publish(ctx, e)
}

func (d *recordingDispatcher) Subscribe(t events.EventType, h events.EventHandler) {
	d.inner.Subscribe(t, h)
}

func (d *recordingDispatcher) ofType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
