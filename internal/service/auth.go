// Package service contains the business logic, sitting between HTTP handlers
// and the repository. Handlers stay thin (parse request, call service, write
// response); repositories stay dumb (SQL in, structs out); everything the
// marketplace actually decides happens here.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/haitezaz/workedin-pakistan-connect/internal/apperror"
	"github.com/haitezaz/workedin-pakistan-connect/internal/auth"
	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
	"github.com/haitezaz/workedin-pakistan-connect/internal/repository"
)

// dummyHash is a valid bcrypt hash of a random string nobody knows. When a
// login email has no record, we verify the submitted password against this
// hash anyway, so the miss takes as long as a mismatch and response timing
// can't be used to probe which emails are registered.
const dummyHash = "$2a$12$K9cIYYEHLoxXBRs5Nwwbv.kJVTsLbHISLdTzXcR10Sc8PKRh2Y9bG"

// AuthService implements registration, login and profile access against the
// role-partitioned identity store.
type AuthService struct {
	users     repository.UserRepository
	skills    repository.SkillRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	skills repository.SkillRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		skills:    skills,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult is what a successful login or registration produces: the account
// record and a signed session token for the cookie.
type AuthResult struct {
	User  *model.User
	Token string
}

// RegisterInput carries everything the registration form collects. Skills and
// the worker-only fields are ignored for employers and admins.
type RegisterInput struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	CNIC     string   `json:"cnic"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
	Skills   []string `json:"skills,omitempty"`
}

// Login authenticates email+password against one role partition.
//
// Every failure path returns the same apperror.InvalidCredentials: an unknown
// role, an email with no record in that partition, and a wrong password are
// deliberately indistinguishable to the caller. The same email may hold a
// worker and an employer account — the submitted role picks which one is
// being claimed.
func (s *AuthService) Login(ctx context.Context, email, password, roleStr string) (*AuthResult, error) {
	role, err := model.ParseRole(roleStr)
	if err != nil {
		return nil, apperror.InvalidCredentials()
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.InvalidCredentials()
	}

	user, err := s.users.GetByEmail(ctx, role, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Burn the same bcrypt work a real comparison would.
			_ = s.passwords.Verify(dummyHash, password)
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.Unavailable("login lookup", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("login rejected", "role", role, "userID", user.ID)
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Unavailable("issuing session token", err)
	}

	s.attachWorkerSkills(ctx, user)
	s.logger.Info("login succeeded", "role", role, "userID", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Register creates an account in the role partition named by the input and
// signs the new user in.
//
// Order matters: the record is committed to the store before any token is
// issued. A registration that fails mid-way leaves no session behind —
// the client either gets both the record and the cookie, or neither.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.CNIC = strings.TrimSpace(in.CNIC)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"email", in.Email},
		{"phone", in.Phone},
		{"cnic", in.CNIC},
		{"password", in.Password},
		{"role", in.Role},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperror.MissingFields(missing...)
	}

	role, err := model.ParseRole(in.Role)
	if err != nil {
		return nil, apperror.ValidationFailed("role must be worker, employer, or admin", "role")
	}

	if !strings.Contains(in.Email, "@") {
		return nil, apperror.ValidationFailed("email address is not valid", "email")
	}
	if len(in.Password) < 6 {
		return nil, apperror.ValidationFailed("password must be at least 6 characters", "password")
	}

	// Friendly pre-check. The store's UNIQUE constraint is the authority —
	// if a concurrent registration slips past this, Create returns the same
	// ErrDuplicateEmail and the caller can't tell the difference.
	if _, err := s.users.GetByEmail(ctx, role, in.Email); err == nil {
		return nil, apperror.DuplicateEmail()
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Unavailable("registration lookup", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, apperror.ValidationFailed("password must be 72 bytes or fewer", "password")
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		CNIC:         in.CNIC,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicateEmail) {
			return nil, apperror.DuplicateEmail()
		}
		return nil, apperror.Unavailable("creating account", err)
	}

	// Skills are a secondary write: the account exists either way, so a
	// failure here degrades the profile rather than failing the registration.
	if role == model.RoleWorker && len(in.Skills) > 0 {
		if err := s.skills.ReplaceForWorker(ctx, user.ID, normalizeSkills(in.Skills)); err != nil {
			s.logger.Warn("storing worker skills failed", "userID", user.ID, "error", err)
		} else {
			user.Skills = normalizeSkills(in.Skills)
		}
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Unavailable("issuing session token", err)
	}

	s.logger.Info("account registered", "role", role, "userID", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// GetUser retrieves one account by partition and id, with worker skills
// attached. This backs both /api/me and admin detail views.
func (s *AuthService) GetUser(ctx context.Context, role model.Role, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, role, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("loading account", err)
	}
	s.attachWorkerSkills(ctx, user)
	return user, nil
}

// ListUsers returns every account in one partition (admin dashboards).
func (s *AuthService) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	users, err := s.users.List(ctx, role)
	if err != nil {
		return nil, apperror.Unavailable("listing accounts", err)
	}
	return users, nil
}

// UpdateWorkerProfileInput carries the worker's editable profile fields.
type UpdateWorkerProfileInput struct {
	Availability string   `json:"availability"`
	HourlyRate   int64    `json:"hourlyRate"`
	Skills       []string `json:"skills"`
}

// UpdateWorkerProfile lets a worker change their availability, rate and
// skill list.
func (s *AuthService) UpdateWorkerProfile(ctx context.Context, workerID string, in UpdateWorkerProfileInput) (*model.User, error) {
	availability := model.Availability(in.Availability)
	switch availability {
	case model.AvailabilityActive, model.AvailabilityBusy:
	default:
		return nil, apperror.ValidationFailed("availability must be active or busy", "availability")
	}
	if in.HourlyRate < 0 {
		return nil, apperror.ValidationFailed("hourly rate cannot be negative", "hourlyRate")
	}

	if err := s.users.UpdateWorkerProfile(ctx, workerID, availability, in.HourlyRate); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("updating profile", err)
	}

	if in.Skills != nil {
		if err := s.skills.ReplaceForWorker(ctx, workerID, normalizeSkills(in.Skills)); err != nil {
			s.logger.Warn("storing worker skills failed", "userID", workerID, "error", err)
		}
	}

	return s.GetUser(ctx, model.RoleWorker, workerID)
}

// attachWorkerSkills fills in the Skills slice for worker accounts. A failed
// lookup logs and leaves the slice empty; skills never block auth.
func (s *AuthService) attachWorkerSkills(ctx context.Context, user *model.User) {
	if user.Role != model.RoleWorker {
		return
	}
	skills, err := s.skills.ListForWorker(ctx, user.ID)
	if err != nil {
		s.logger.Warn("loading worker skills failed", "userID", user.ID, "error", err)
		return
	}
	user.Skills = skills
}

// normalizeSkills trims and lowercases skill names and drops empties, so
// "Wiring " and "wiring" land on the same catalogue row.
func normalizeSkills(names []string) []string {
	out := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
