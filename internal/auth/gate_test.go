package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
)

// The gate is a pure function, so the entire authorization policy fits in
// one table: every (principal, group) combination and its expected verdict.
func TestAuthorize(t *testing.T) {
	worker := &Principal{UserID: "1", Role: model.RoleWorker}
	employer := &Principal{UserID: "2", Role: model.RoleEmployer}
	admin := &Principal{UserID: "3", Role: model.RoleAdmin}

	tests := []struct {
		name         string
		principal    *Principal
		group        Group
		wantAllow    bool
		wantRedirect string
	}{
		// public is reachable by everyone
		{"anonymous to public", nil, GroupPublic, true, ""},
		{"worker to public", worker, GroupPublic, true, ""},
		{"admin to public", admin, GroupPublic, true, ""},

		// matching roles pass
		{"worker to worker", worker, GroupWorker, true, ""},
		{"employer to employer", employer, GroupEmployer, true, ""},
		{"admin to admin", admin, GroupAdmin, true, ""},

		// anonymous callers go to the login page
		{"anonymous to worker", nil, GroupWorker, false, "/login"},
		{"anonymous to employer", nil, GroupEmployer, false, "/login"},
		{"anonymous to admin", nil, GroupAdmin, false, "/login"},

		// wrong role goes to the landing page, never Allow
		{"worker to employer", worker, GroupEmployer, false, "/"},
		{"worker to admin", worker, GroupAdmin, false, "/"},
		{"employer to worker", employer, GroupWorker, false, "/"},
		{"employer to admin", employer, GroupAdmin, false, "/"},
		{"admin to worker", admin, GroupWorker, false, "/"},
		{"admin to employer", admin, GroupEmployer, false, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Authorize(tt.principal, tt.group)
			assert.Equal(t, tt.wantAllow, got.Allow)
			assert.Equal(t, tt.wantRedirect, got.RedirectTo)
		})
	}
}

func TestAuthorize_IsDeterministic(t *testing.T) {
	// Same inputs, same verdict — the gate carries no hidden state.
	p := &Principal{UserID: "1", Role: model.RoleWorker}
	first := Authorize(p, GroupEmployer)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Authorize(p, GroupEmployer))
	}
}
