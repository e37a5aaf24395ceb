package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `json:"name" validate:"notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"role"`
	Password string `json:"password" validate:"password"`
	Confirm  string `json:"confirm_password" validate:"eqfield=Password"`
	Agree    bool   `json:"agree" validate:"ticked"`
}

type goalForm struct {
	Status     string `json:"status" validate:"goal_status"`
	Visibility string `json:"visibility" validate:"visibility"`
	Progress   *int   `json:"progress" validate:"omitempty,min=0,max=100"`
}

func TestStructValid(t *testing.T) {
	err := Struct(signup{
		Name:     "Ada",
		Email:    "ada@lab.edu",
		Role:     "student",
		Password: "correct horse battery",
		Confirm:  "correct horse battery",
		Agree:    true,
	})
	assert.NoError(t, err)
}

func TestStructReportsEveryField(t *testing.T) {
	err := Struct(signup{
		Name:     "   ",
		Email:    "not-an-email",
		Role:     "admin",
		Password: "   ",
		Confirm:  "different",
	})
	require.Error(t, err)

	var fields Errors
	require.True(t, errors.As(err, &fields))

	assert.Equal(t, "this field cannot be blank", fields["name"])
	assert.Contains(t, fields["email"], "email")
	assert.Equal(t, "role must be student or mentor", fields["role"])
	assert.Equal(t, "password cannot be blank", fields["password"])
	assert.Equal(t, "passwords do not match", fields["confirm_password"])
	assert.Equal(t, "please confirm the responsibility checkbox", fields["agree"])
	assert.Contains(t, err.Error(), "invalid input: agree:")
}

func TestGoalEnums(t *testing.T) {
	tests := []struct {
		name   string
		form   goalForm
		fields []string
	}{
		{"valid", goalForm{Status: "Stuck", Visibility: "private"}, nil},
		{"bad status", goalForm{Status: "Done", Visibility: "public"}, []string{"status"}},
		{"bad visibility", goalForm{Status: "Completed", Visibility: "team"}, []string{"visibility"}},
		{"progress over 100", goalForm{Status: "Stuck", Visibility: "public", Progress: ptr(101)}, []string{"progress"}},
		{"negative progress", goalForm{Status: "Stuck", Visibility: "public", Progress: ptr(-1)}, []string{"progress"}},
		{"progress bounds", goalForm{Status: "Stuck", Visibility: "public", Progress: ptr(100)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.form)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var fields Errors
			require.True(t, errors.As(err, &fields))
			for _, f := range tt.fields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("plate reader calibration"))
	assert.NoError(t, ValidatePassword("pw"))
	assert.EqualError(t, ValidatePassword(" \t "), "password cannot be blank")
	assert.EqualError(t, ValidatePassword(strings.Repeat("x", 73)), "password must not exceed 72 bytes")
	assert.NoError(t, ValidatePassword(strings.Repeat("x", 72)))
}

func ptr(i int) *int { return &i }
