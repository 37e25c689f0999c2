package auth

import "github.com/haitezaz/workedin-pakistan-connect/internal/model"

// Group names a route group the gate can protect. Three of the groups map
// 1:1 onto role partitions; GroupPublic is reachable by anyone.
type Group string

const (
	GroupPublic   Group = "public"
	GroupWorker   Group = "worker"
	GroupEmployer Group = "employer"
	GroupAdmin    Group = "admin"
)

// Decision is the gate's verdict for one (principal, group) pair: either the
// request may proceed, or the client should be sent to RedirectTo.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Authorize decides whether a principal may enter a route group.
//
// This is a PURE FUNCTION of its two arguments — no clock, no store, no
// partial states. That makes the whole authorization policy testable as a
// table and guarantees the same request always gets the same verdict.
//
// Policy:
//   - GroupPublic is always allowed, session or not
//   - an anonymous caller is redirected to /login
//   - a caller whose role matches the group is allowed
//   - a caller with the WRONG role is redirected to the landing page "/"
//     (not to their own dashboard — one fixed target, applied consistently)
func Authorize(p *Principal, required Group) Decision {
	if required == GroupPublic {
		return Decision{Allow: true}
	}

	if p == nil {
		return Decision{RedirectTo: "/login"}
	}

	switch required {
	case GroupWorker:
		if p.Role == model.RoleWorker {
			return Decision{Allow: true}
		}
	case GroupEmployer:
		if p.Role == model.RoleEmployer {
			return Decision{Allow: true}
		}
	case GroupAdmin:
		if p.Role == model.RoleAdmin {
			return Decision{Allow: true}
		}
	}

	return Decision{RedirectTo: "/"}
}
