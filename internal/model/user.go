// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"fmt"
	"time"
)

// Role identifies which partition of the marketplace a user belongs to.
//
// WHY A NAMED TYPE AND NOT PLAIN STRINGS?
// Branching on raw strings ("worker", "employer", ...) scatters the role set
// across the codebase. A named type with a small set of constants means:
//   - ParseRole is the single place an untrusted string becomes a Role
//   - switch statements over Role are easy to audit for exhaustiveness
//   - adding a role is a visible, compile-checked change, not a grep exercise
type Role string

const (
	RoleWorker   Role = "worker"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// ParseRole converts an untrusted string into a Role.
// Returns an error for anything outside the three known partitions.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleWorker, RoleEmployer, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("model: unknown role %q", s)
	}
}

// Valid reports whether the Role names one of the three known partitions.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Availability is a worker's current working status.
type Availability string

const (
	AvailabilityActive Availability = "active"
	AvailabilityBusy   Availability = "busy"
)

// User is an authenticated identity: profile fields plus the role partition
// it belongs to. One User lives in exactly one partition (workers, employers
// or admins); the same email may exist independently in two partitions.
//
// ID is assigned by the store at creation. The partitions use numeric
// AUTOINCREMENT keys, which the repository coerces to strings — the rest of
// the app never does arithmetic on ids.
//
// PasswordHash carries the bcrypt hash and is never serialized: the `json:"-"`
// tag makes encoding/json skip the field entirely, so no handler can leak it
// by accident.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"` // display string; stored numerically (digits only)
	CNIC         string    `json:"cnic"`  // national identity number; stored numerically
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`

	// Worker-only fields. Zero values for employers and admins.
	Availability Availability `json:"availability,omitempty"`
	HourlyRate   int64        `json:"hourlyRate,omitempty"`
	Skills       []string     `json:"skills,omitempty"`
}
