package triage

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// CategoryRouting maps a category to the staff ids that handle it. An empty
// entry means the whole roster.
type CategoryRouting map[domain.Category][]string

// DefaultCategoryRouting routes every category to the whole roster.
var DefaultCategoryRouting = CategoryRouting{
	domain.CategoryIT:             {},
	domain.CategoryHR:             {},
	domain.CategoryInfrastructure: {},
	domain.CategoryAcademic:       {},
	domain.CategoryFinance:        {},
	domain.CategoryAdministration: {},
	domain.CategoryOther:          {},
}

// Assigner picks a staff member for a grievance. Each call is independent:
// it keeps no history and may pick the same member repeatedly.
type Assigner struct {
	routing CategoryRouting
	src     *lockedSource
}

// lockedSource serializes draws from a *rand.Rand. Copies made by WithRouting
// share one lockedSource.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// NewAssigner builds an assigner over the given random source and the default routing.
func NewAssigner(rng *rand.Rand) *Assigner {
	return &Assigner{src: &lockedSource{rng: rng}, routing: DefaultCategoryRouting}
}

// NewDefaultAssigner seeds its source from the wall clock.
func NewDefaultAssigner() *Assigner {
	seed := uint64(time.Now().UnixNano())
	return NewAssigner(rand.New(rand.NewPCG(seed, rand.Uint64())))
}

// WithRouting returns a copy of the assigner that uses routing.
func (a *Assigner) WithRouting(routing CategoryRouting) *Assigner {
	return &Assigner{src: a.src, routing: routing}
}

// SelectAssignee returns the chosen staff id, or false when the roster is empty.
// High priority work goes to a random admin when one exists; everything else
// goes to a random member of the candidate pool.
func (a *Assigner) SelectAssignee(category domain.Category, priority domain.Priority, staff []domain.StaffMember) (string, bool) {
	pool := a.candidatesFor(category, staff)
	if len(pool) == 0 {
		return "", false
	}

	if priority == domain.PriorityHigh {
		admins := make([]domain.StaffMember, 0, len(pool))
		for _, member := range pool {
			if member.Role == domain.RoleAdmin {
				admins = append(admins, member)
			}
		}
		if len(admins) > 0 {
			return admins[a.pick(len(admins))].ID, true
		}
	}

	return pool[a.pick(len(pool))].ID, true
}

func (a *Assigner) candidatesFor(category domain.Category, staff []domain.StaffMember) []domain.StaffMember {
	routed := a.routing[category]
	if len(routed) == 0 {
		return staff
	}
	allowed := make(map[string]struct{}, len(routed))
	for _, id := range routed {
		allowed[id] = struct{}{}
	}
	pool := make([]domain.StaffMember, 0, len(routed))
	for _, member := range staff {
		if _, ok := allowed[member.ID]; ok {
			pool = append(pool, member)
		}
	}
	if len(pool) == 0 {
		return staff
	}
	return pool
}

func (a *Assigner) pick(n int) int {
	return a.src.IntN(n)
}
