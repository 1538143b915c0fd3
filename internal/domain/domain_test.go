package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumsValidate(t *testing.T) {
	assert.True(t, CategoryFinance.Valid())
	assert.False(t, Category("finance").Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.False(t, Status("reopened").Valid())
	assert.True(t, PriorityLow.Valid())
	assert.False(t, Priority("urgent").Valid())
	assert.True(t, SentimentHighlyNegative.Valid())
	assert.True(t, RoleEmployee.Valid())
	assert.False(t, Role("").Valid())
}

func TestRoleIsStaff(t *testing.T) {
	assert.False(t, RoleCitizen.IsStaff())
	assert.True(t, RoleEmployee.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
}

func TestActorCanView(t *testing.T) {
	g := Grievance{ID: "g1", UserID: "owner"}

	assert.True(t, Actor{UserID: "owner", Role: RoleCitizen}.CanView(g))
	assert.False(t, Actor{UserID: "stranger", Role: RoleCitizen}.CanView(g))
	assert.True(t, Actor{UserID: "emp", Role: RoleEmployee}.CanView(g))
	assert.True(t, Actor{UserID: "boss", Role: RoleAdmin}.CanView(g))
}

func TestDisplayNameFallsBackToEmail(t *testing.T) {
	name := "Ada"
	empty := ""
	assert.Equal(t, "Ada", Profile{Email: "a@example.com", Name: &name}.DisplayName())
	assert.Equal(t, "a@example.com", Profile{Email: "a@example.com", Name: &empty}.DisplayName())
	assert.Equal(t, "e@example.com", StaffMember{Email: "e@example.com"}.DisplayName())
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]Grievance{
		{Status: StatusPending, Priority: PriorityHigh, Category: CategoryIT, Sentiment: SentimentHighlyNegative},
		{Status: StatusPending, Priority: PriorityMedium, Category: CategoryIT, Sentiment: SentimentNegative},
		{Status: StatusResolved, Priority: PriorityLow, Category: CategoryHR, Sentiment: SentimentPositive},
	})

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[StatusPending])
	assert.Equal(t, 0, stats.ByStatus[StatusClosed])
	assert.Len(t, stats.ByStatus, len(Statuses))
	assert.Equal(t, 1, stats.ByPriority[PriorityHigh])
	assert.Equal(t, 2, stats.ByCategory[CategoryIT])
	assert.Equal(t, 0, stats.ByCategory[CategoryOther])
	assert.Equal(t, 1, stats.BySentiment[SentimentPositive])
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Equal(t, 0, stats.Total)
	assert.Len(t, stats.ByCategory, len(Categories))
	assert.Len(t, stats.BySentiment, len(Sentiments))
}
