package model

import "time"

// ApplicationStatus is shared by job and gig applications.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// JobApplication is a worker's application to a job: a free-form message to
// the employer. A worker may apply to a given job at most once — the store
// enforces UNIQUE(job_id, worker_id).
//
// WorkerName and WorkerPhone are denormalized for the employer's application
// list, so the dashboard can show who applied and how to reach them without
// extra round-trips.
type JobApplication struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	WorkerID    string            `json:"workerId"`
	WorkerName  string            `json:"workerName,omitempty"`
	WorkerPhone string            `json:"workerPhone,omitempty"`
	Message     string            `json:"message"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// GigApplication is a worker's application to a gig: a proposed price plus
// remarks. Same one-application-per-worker rule as jobs.
type GigApplication struct {
	ID            string            `json:"id"`
	GigID         string            `json:"gigId"`
	WorkerID      string            `json:"workerId"`
	WorkerName    string            `json:"workerName,omitempty"`
	WorkerPhone   string            `json:"workerPhone,omitempty"`
	ProposedPrice int64             `json:"proposedPrice"`
	Remarks       string            `json:"remarks"`
	Status        ApplicationStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}
