package model

import "time"

// JobType is the employment arrangement a job offers.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// Valid reports whether the JobType is one of the known arrangements.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// JobStatus tracks a job posting's lifecycle.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusFilled JobStatus = "filled"
	JobStatusClosed JobStatus = "closed"
)

// Job is a long-term position posted by an employer.
//
// EmployerName is denormalized onto the struct for listings (the repository
// joins the employers table) so browsing workers see who posted without a
// second lookup. Salary is in rupees per month — integer, no fractional money.
type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Salary       int64     `json:"salary"`
	Location     string    `json:"location"`
	City         string    `json:"city"`
	Type         JobType   `json:"jobType"`
	EmployerID   string    `json:"employerId"`
	EmployerName string    `json:"employerName,omitempty"`
	Status       JobStatus `json:"status"`
	Skills       []string  `json:"skills,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
