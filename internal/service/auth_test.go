package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haitezaz/workedin-pakistan-connect/internal/apperror"
	"github.com/haitezaz/workedin-pakistan-connect/internal/auth"
	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
)

func newAuthService(users *fakeUserRepo, skills *fakeSkillRepo) *AuthService {
	return NewAuthService(users, skills, testTokens(),
		auth.NewPasswordServiceForTest(), testLogger())
}

func registerWorker(t *testing.T, svc *AuthService, email, password string) *AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ali Raza",
		Email:    email,
		Phone:    "03001234567",
		CNIC:     "3520212345671",
		Password: password,
		Role:     "worker",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), newFakeSkillRepo())
	ctx := context.Background()

	registered := registerWorker(t, svc, "ali@example.com", "secret123")
	require.NotEmpty(t, registered.User.ID)
	require.NotEmpty(t, registered.Token, "registration signs the user in")
	assert.NotEqual(t, "secret123", registered.User.PasswordHash, "never stored in the clear")

	// Correct credentials and role resolve to the same account.
	res, err := svc.Login(ctx, "ali@example.com", "secret123", "worker")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	// Wrong password: rejected, without saying what was wrong.
	_, err = svc.Login(ctx, "ali@example.com", "wrong-password", "worker")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	// Right credentials, wrong partition: the worker account does not exist
	// in the employer partition, so this is rejected identically.
	_, err = svc.Login(ctx, "ali@example.com", "secret123", "employer")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), newFakeSkillRepo())
	registerWorker(t, svc, "ali@example.com", "secret123")
	ctx := context.Background()

	cases := []struct {
		name                  string
		email, password, role string
	}{
		{"unknown email", "nobody@example.com", "secret123", "worker"},
		{"wrong password", "ali@example.com", "nope", "worker"},
		{"wrong role", "ali@example.com", "secret123", "employer"},
		{"unknown role", "ali@example.com", "secret123", "superuser"},
		{"empty password", "ali@example.com", "", "worker"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.email, tc.password, tc.role)
			require.ErrorIs(t, err, apperror.ErrInvalidCredentials)

			// Same message every time — the caller learns nothing about
			// which part of the credentials missed.
			assert.Equal(t, "invalid email, password, or role", err.Error())
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), newFakeSkillRepo())
	ctx := context.Background()

	t.Run("missing fields listed by name", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Email: "x@example.com", Role: "worker"})
		require.ErrorIs(t, err, apperror.ErrValidation)

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.ElementsMatch(t, []string{"name", "phone", "cnic", "password"}, appErr.Fields)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Name: "X", Email: "x@example.com", Phone: "1", CNIC: "1",
			Password: "secret123", Role: "superuser",
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Name: "X", Email: "x@example.com", Phone: "1", CNIC: "1",
			Password: "abc", Role: "worker",
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("malformed email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Name: "X", Email: "not-an-email", Phone: "1", CNIC: "1",
			Password: "secret123", Role: "worker",
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), newFakeSkillRepo())
	ctx := context.Background()

	registerWorker(t, svc, "ali@example.com", "secret123")

	// Same partition: refused.
	_, err := svc.Register(ctx, RegisterInput{
		Name: "Impostor", Email: "ali@example.com", Phone: "1", CNIC: "1",
		Password: "different", Role: "worker",
	})
	assert.ErrorIs(t, err, apperror.ErrDuplicateEmail)

	// Different partition: same email is a separate namespace.
	_, err = svc.Register(ctx, RegisterInput{
		Name: "Ali the Employer", Email: "ali@example.com", Phone: "1", CNIC: "1",
		Password: "secret123", Role: "employer",
	})
	assert.NoError(t, err)
}

func TestRegisterWorkerStoresSkills(t *testing.T) {
	skills := newFakeSkillRepo()
	svc := newAuthService(newFakeUserRepo(), skills)

	res, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ali", Email: "ali@example.com", Phone: "1", CNIC: "1",
		Password: "secret123", Role: "worker",
		Skills: []string{" Wiring", "plumbing", "wiring"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"wiring", "plumbing"}, skills.workers[res.User.ID],
		"trimmed, lowercased, deduplicated")
}

func TestRegisterSurvivesSkillStoreFailure(t *testing.T) {
	skills := newFakeSkillRepo()
	skills.err = errors.New("disk full")
	svc := newAuthService(newFakeUserRepo(), skills)

	// The account and session are the primary outcome; skills degrade.
	res, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ali", Email: "ali@example.com", Phone: "1", CNIC: "1",
		Password: "secret123", Role: "worker", Skills: []string{"wiring"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestLoginStoreFailureIsUnavailable(t *testing.T) {
	users := newFakeUserRepo()
	users.err = errors.New("database is locked")
	svc := newAuthService(users, newFakeSkillRepo())

	_, err := svc.Login(context.Background(), "ali@example.com", "secret123", "worker")
	require.ErrorIs(t, err, apperror.ErrUnavailable)
	assert.NotContains(t, err.Error(), "database is locked",
		"cause stays out of the client-facing message")
}

func TestLoginTokenRoundTrips(t *testing.T) {
	tokens := testTokens()
	svc := NewAuthService(newFakeUserRepo(), newFakeSkillRepo(), tokens,
		auth.NewPasswordServiceForTest(), testLogger())

	res := registerWorker(t, svc, "ali@example.com", "secret123")

	principal, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, principal.UserID)
	assert.Equal(t, model.RoleWorker, principal.Role)
}

func TestUpdateWorkerProfile(t *testing.T) {
	skills := newFakeSkillRepo()
	svc := newAuthService(newFakeUserRepo(), skills)
	ctx := context.Background()

	res := registerWorker(t, svc, "ali@example.com", "secret123")

	updated, err := svc.UpdateWorkerProfile(ctx, res.User.ID, UpdateWorkerProfileInput{
		Availability: "busy",
		HourlyRate:   1500,
		Skills:       []string{"welding"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.AvailabilityBusy, updated.Availability)
	assert.Equal(t, int64(1500), updated.HourlyRate)
	assert.Equal(t, []string{"welding"}, updated.Skills)

	_, err = svc.UpdateWorkerProfile(ctx, res.User.ID, UpdateWorkerProfileInput{
		Availability: "on vacation",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.UpdateWorkerProfile(ctx, "999", UpdateWorkerProfileInput{Availability: "active"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListUsersByPartition(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), newFakeSkillRepo())
	ctx := context.Background()

	registerWorker(t, svc, "a@example.com", "secret123")
	registerWorker(t, svc, "b@example.com", "secret123")

	workers, err := svc.ListUsers(ctx, model.RoleWorker)
	require.NoError(t, err)
	assert.Len(t, workers, 2)

	employers, err := svc.ListUsers(ctx, model.RoleEmployer)
	require.NoError(t, err)
	assert.Empty(t, employers)
}
