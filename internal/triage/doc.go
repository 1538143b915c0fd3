// Package triage derives a grievance's sentiment, priority, ticket id and
// suggested assignee. Everything here is free of I/O; callers own persistence
// and validation of the raw input.
package triage
