package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

func TestCreateUserAssignsSequentialSerials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.manager.User().Create(ctx, &CreateUserRequest{
		Username: "student-one",
		Email:    "one@students.example.edu",
		FullName: "Student One",
		Password: "correct-horse-battery",
		Role:     models.RoleStudent,
	}, models.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, first.StudentSerial)

	second, err := env.manager.User().Create(ctx, &CreateUserRequest{
		Username: "student-two",
		Email:    "two@students.example.edu",
		FullName: "Student Two",
		Password: "correct-horse-battery",
		Role:     models.RoleStudent,
	}, models.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, second.StudentSerial)

	assert.Equal(t, *first.StudentSerial+1, *second.StudentSerial)
	assert.Nil(t, second.FacultySerial)
}

func TestCreateUserRejectsAdminRole(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.manager.User().Create(context.Background(), &CreateUserRequest{
		Username: "backdoor",
		Email:    "backdoor@example.edu",
		FullName: "Back Door",
		Password: "correct-horse-battery",
		Role:     models.RoleAdmin,
	}, models.RoleAdmin)

	var valErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &valErrs)
}

func TestCreateUserRequiresAdminCaller(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.manager.User().Create(context.Background(), &CreateUserRequest{
		Username: "newbie",
		Email:    "newbie@example.edu",
		FullName: "New Student",
		Password: "correct-horse-battery",
		Role:     models.RoleStudent,
	}, models.RoleFaculty)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := &CreateUserRequest{
		Username: "taken",
		Email:    "taken@example.edu",
		FullName: "First Claim",
		Password: "correct-horse-battery",
		Role:     models.RoleStudent,
	}
	_, err := env.manager.User().Create(ctx, req, models.RoleAdmin)
	require.NoError(t, err)

	req.Email = "other@example.edu"
	_, err = env.manager.User().Create(ctx, req, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrUsernameOrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.manager.User().Create(ctx, &CreateUserRequest{
		Username: "login-test",
		Email:    "login@example.edu",
		FullName: "Login Test",
		Password: "correct-horse-battery",
		Role:     models.RoleStudent,
	}, models.RoleAdmin)
	require.NoError(t, err)

	user, err := env.manager.User().Authenticate(ctx, "login-test", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = env.manager.User().Authenticate(ctx, "login-test", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.manager.User().Authenticate(ctx, "no-such-user", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateDeactivatedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.manager.User().Create(ctx, &CreateUserRequest{
		Username: "gone",
		Email:    "gone@example.edu",
		FullName: "Gone Student",
		Password: "correct-horse-battery",
		Role:     models.RoleStudent,
	}, models.RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, env.manager.User().Deactivate(ctx, created.ID, models.RoleAdmin))

	_, err = env.manager.User().Authenticate(ctx, "gone", "correct-horse-battery")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.manager.User().Create(ctx, &CreateUserRequest{
		Username: "rotate",
		Email:    "rotate@example.edu",
		FullName: "Rotate Keys",
		Password: "old-password-123",
		Role:     models.RoleStudent,
	}, models.RoleAdmin)
	require.NoError(t, err)

	// Wrong current password
	err = env.manager.User().ChangePassword(ctx, created.ID, &ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password-456",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, env.manager.User().ChangePassword(ctx, created.ID, &ChangePasswordRequest{
		CurrentPassword: "old-password-123",
		NewPassword:     "new-password-456",
	}))

	_, err = env.manager.User().Authenticate(ctx, "rotate", "new-password-456")
	assert.NoError(t, err)
}
