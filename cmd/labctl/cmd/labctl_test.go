package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labworks/tracker/internal/app"
	"github.com/labworks/tracker/internal/config"
	"github.com/labworks/tracker/internal/model"
	"github.com/labworks/tracker/internal/service"
	"github.com/labworks/tracker/internal/testutil"
)

const password = "incubator shaker 42"

func newApp(t *testing.T) *app.App {
	t.Helper()

	cfg := &config.Config{
		AppName:   "Lab Works",
		AppEnv:    "development",
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	}
	a, err := app.Wire(context.Background(), cfg, testutil.NewDB(t))
	require.NoError(t, err)
	return a
}

func mustAddUser(t *testing.T, a *app.App, name, email, role string) *model.User {
	t.Helper()
	user, err := addUser(a.AuthService, service.RegisterInput{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: password,
		Confirm:  password,
	})
	require.NoError(t, err)
	return user
}

func TestAddUser(t *testing.T) {
	a := newApp(t)

	user := mustAddUser(t, a, "Grace Hopper", "Grace@Lab.Example", model.RoleMentor)
	assert.Equal(t, "grace@lab.example", user.Email)
	assert.Equal(t, model.RoleMentor, user.Role)

	_, err := addUser(a.AuthService, service.RegisterInput{
		Name: "Grace", Email: "grace@lab.example", Role: model.RoleMentor, Password: password, Confirm: password,
	})
	assert.EqualError(t, err, "grace@lab.example is already registered")

	_, err = addUser(a.AuthService, service.RegisterInput{
		Name: "Long", Email: "long@lab.example", Role: model.RoleStudent, Password: strings.Repeat("x", 73), Confirm: strings.Repeat("x", 73),
	})
	assert.Error(t, err)
}

func TestDeleteUser(t *testing.T) {
	a := newApp(t)
	ada := mustAddUser(t, a, "Ada", "ada@lab.example", model.RoleStudent)

	_, err := a.GoalService.Create(ada, service.GoalInput{Title: "Grow crystals"})
	require.NoError(t, err)

	deleted, err := deleteUser(a.UserService, "ADA@lab.example")
	require.NoError(t, err)
	assert.Equal(t, ada.ID, deleted.ID)

	goals, err := a.GoalService.PublicGoals()
	require.NoError(t, err)
	assert.Empty(t, goals)

	_, err = deleteUser(a.UserService, "ada@lab.example")
	assert.EqualError(t, err, "no user with email ada@lab.example")
}

func TestImportGoal(t *testing.T) {
	a := newApp(t)
	ada := mustAddUser(t, a, "Ada", "ada@lab.example", model.RoleStudent)

	path := filepath.Join(t.TempDir(), "goal.md")
	src := "---\ntitle: Validate electrode array\nstatus: In progress\nvisibility: private\ndue: 2025-06-30\n---\n\nMeasure impedance on all **16** channels.\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	goal, err := importGoal(a, path, "ada@lab.example")
	require.NoError(t, err)

	assert.Equal(t, ada.ID, goal.UserID)
	assert.Equal(t, "Validate electrode array", goal.Title)
	assert.Equal(t, model.GoalStatusInProgress, goal.Status)
	assert.Equal(t, model.VisibilityPrivate, goal.Visibility)
	require.NotNil(t, goal.Description)
	assert.Equal(t, "Measure impedance on all **16** channels.", *goal.Description)
	require.NotNil(t, goal.DueDate)
	assert.Equal(t, "2025-06-30", goal.DueDate.Format(time.DateOnly))
}

func TestImportGoalErrors(t *testing.T) {
	a := newApp(t)
	mustAddUser(t, a, "Ada", "ada@lab.example", model.RoleStudent)
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.md")
	require.NoError(t, os.WriteFile(plain, []byte("# no front matter\n"), 0o600))
	_, err := importGoal(a, plain, "ada@lab.example")
	assert.ErrorContains(t, err, "failed to parse")

	badStatus := filepath.Join(dir, "bad.md")
	require.NoError(t, os.WriteFile(badStatus, []byte("---\ntitle: X\nstatus: Done-ish\n---\n"), 0o600))
	_, err = importGoal(a, badStatus, "ada@lab.example")
	assert.ErrorContains(t, err, "status")

	_, err = importGoal(a, plain, "nobody@lab.example")
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	_, err = importGoal(a, filepath.Join(dir, "missing.md"), "ada@lab.example")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPrintFeed(t *testing.T) {
	progress := 40
	items := []*model.FeedItem{
		{
			Activity: model.Activity{
				EntryText: "Ran the gel\nsecond line is hidden",
				Progress:  &progress,
				CreatedAt: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
			},
			GoalTitle: "PCR run",
			UserName:  "Ada",
			UserRole:  model.RoleStudent,
		},
	}

	var out bytes.Buffer
	require.NoError(t, printFeed(&out, items))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "WHEN"))
	assert.Contains(t, lines[1], "2025-03-01 09:30")
	assert.Contains(t, lines[1], "Ada (student)")
	assert.Contains(t, lines[1], "40%")
	assert.Contains(t, lines[1], "Ran the gel")
	assert.NotContains(t, out.String(), "second line")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "short", firstLine("  short  ", 10))
	assert.Equal(t, "abcd…", firstLine("abcdefghij", 5))
	assert.Equal(t, "one", firstLine("one\ntwo", 10))
}

func TestPromptPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret pass phrase"), nil }

	var out bytes.Buffer
	pwd, err := promptPassword(&out, "Password: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret pass phrase", pwd)
	assert.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
	_, err = promptPassword(&out, "Password: ")
	assert.ErrorContains(t, err, "not a terminal")
}

func TestRootCmdRegistersCommands(t *testing.T) {
	root := RootCmd()

	for _, args := range [][]string{{"migrate", "up"}, {"migrate", "status"}, {"adduser"}, {"deluser"}, {"feed"}, {"goal", "import"}} {
		cmd, _, err := root.Find(args)
		require.NoError(t, err, args)
		assert.Equal(t, args[len(args)-1], cmd.Name())
	}
}
