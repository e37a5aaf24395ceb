package service

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labworks/tracker/internal/model"
	"github.com/labworks/tracker/internal/validation"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	user := env.register(t, "  Ada  ", " Ada@Lab.Edu ", "Student")
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@lab.edu", user.Email)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.Equal(t, []string{"welcome"}, env.mailer.kinds())
}

func TestRegisterDuplicateEmailIgnoresCase(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ada", "ada@lab.edu", model.RoleStudent)

	_, err := env.auth.Register(RegisterInput{
		Name:     "Other Ada",
		Email:    "ADA@LAB.EDU",
		Role:     model.RoleMentor,
		Password: testPassword,
		Confirm:  testPassword,
		Agree:    true,
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterValidatesBeforeStoring(t *testing.T) {
	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"missing name", RegisterInput{Email: "a@lab.edu", Role: "student", Password: testPassword, Confirm: testPassword, Agree: true}, "name"},
		{"bad email", RegisterInput{Name: "A", Email: "nope", Role: "student", Password: testPassword, Confirm: testPassword, Agree: true}, "email"},
		{"bad role", RegisterInput{Name: "A", Email: "a@lab.edu", Role: "admin", Password: testPassword, Confirm: testPassword, Agree: true}, "role"},
		{"mismatch", RegisterInput{Name: "A", Email: "a@lab.edu", Role: "student", Password: testPassword, Confirm: "something else entirely", Agree: true}, "confirm_password"},
		{"unticked", RegisterInput{Name: "A", Email: "a@lab.edu", Role: "student", Password: testPassword, Confirm: testPassword}, "agree"},
		{"blank password", RegisterInput{Name: "A", Email: "a@lab.edu", Role: "student", Password: "   ", Confirm: "   ", Agree: true}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.auth.Register(tt.in)
			var fields validation.Errors
			require.True(t, errors.As(err, &fields), "got %v", err)
			assert.Contains(t, fields, tt.field)

			stored, err := env.users.ByEmail("a@lab.edu")
			require.NoError(t, err)
			assert.Nil(t, stored)
			assert.Empty(t, env.mailer.kinds())
		})
	}
}

func TestRegisterAcceptsShortPassword(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(RegisterInput{
		Name:     "Ada",
		Email:    "ada@lab.edu",
		Role:     model.RoleStudent,
		Password: "pw",
		Confirm:  "pw",
		Agree:    true,
	})
	require.NoError(t, err)

	loggedIn, err := env.auth.Login("ada@lab.edu", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	registered := env.register(t, "Ada", "ada@lab.edu", model.RoleStudent)

	user, err := env.auth.Login("ADA@lab.edu", testPassword)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = env.auth.Login("ada@lab.edu", "wrong password here")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login("ghost@lab.edu", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestJWTRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "Grace", "grace@lab.edu", model.RoleMentor)

	token, expiry, err := env.auth.GenerateJWT(user)
	require.NoError(t, err)
	assert.False(t, expiry.IsZero())

	resolved, err := env.auth.UserFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.True(t, resolved.IsMentor())

	_, err = env.auth.UserFromToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(env.users, env.mailer, "other-secret", false, 0)
	_, err = other.UserFromToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": user.ID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = env.auth.UserFromToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenForDeletedUserIsInvalid(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "Ada", "ada@lab.edu", model.RoleStudent)

	token, _, err := env.auth.GenerateJWT(user)
	require.NoError(t, err)

	require.NoError(t, env.accounts.DeleteAccount(user.ID, testPassword))

	_, err = env.auth.UserFromToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
