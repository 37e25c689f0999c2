package model

import "time"

// GigStatus tracks a gig's lifecycle. Unlike jobs, gigs pass through an
// in-progress phase once a worker's application is accepted.
type GigStatus string

const (
	GigStatusOpen       GigStatus = "open"
	GigStatusInProgress GigStatus = "in-progress"
	GigStatusCompleted  GigStatus = "completed"
	GigStatusClosed     GigStatus = "closed"
)

// Gig is a short-term task posted by an employer with a fixed budget.
// Workers counter with a proposed price when they apply.
type Gig struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Budget       int64     `json:"budget"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	EmployerID   string    `json:"employerId"`
	EmployerName string    `json:"employerName,omitempty"`
	Status       GigStatus `json:"status"`
	Skills       []string  `json:"skills,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
