package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/labworks/tracker/internal/assist"
	"github.com/labworks/tracker/internal/model"
	"github.com/labworks/tracker/internal/repository"
	"github.com/labworks/tracker/internal/testutil"
)

const testPassword = "incubator shaker 42"

type sentEmail struct {
	Kind, To, Name, Subject string
}

// fakeMailer records every email instead of sending it.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (m *fakeMailer) record(e sentEmail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
}

func (m *fakeMailer) SendWelcomeEmail(email, name string) error {
	m.record(sentEmail{Kind: "welcome", To: email, Name: name})
	return nil
}

func (m *fakeMailer) SendGoalCompletedEmail(email, name, goalID, goalTitle string) error {
	m.record(sentEmail{Kind: "goal_completed", To: email, Name: name, Subject: goalTitle})
	return nil
}

func (m *fakeMailer) SendAccountDeletedEmail(email, name string) error {
	m.record(sentEmail{Kind: "account_deleted", To: email, Name: name})
	return nil
}

func (m *fakeMailer) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []string{}
	for _, e := range m.sent {
		out = append(out, e.Kind)
	}
	return out
}

type testEnv struct {
	users    repository.UserRepository
	auth     *AuthService
	accounts *UserService
	goals    *GoalService
	mailer   *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := testutil.NewDB(t)
	users := repository.NewUserRepository(database)
	mailer := &fakeMailer{}

	return &testEnv{
		users:    users,
		mailer:   mailer,
		auth:     NewAuthService(users, mailer, "test-secret", false, time.Hour),
		accounts: NewUserService(users, mailer),
		goals: NewGoalService(
			repository.NewGoalRepository(database),
			repository.NewActivityRepository(database),
			users,
			mailer,
			40,
			5,
		),
	}
}

func (e *testEnv) register(t *testing.T, name, email, role string) *model.User {
	t.Helper()
	user, err := e.auth.Register(RegisterInput{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: testPassword,
		Confirm:  testPassword,
		Agree:    true,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) goal(t *testing.T, owner *model.User, title, visibility string) *model.Goal {
	t.Helper()
	goal, err := e.goals.Create(owner, GoalInput{Title: title, Status: model.GoalStatusInProgress, Visibility: visibility})
	require.NoError(t, err)
	return goal
}

// fakeAssistant answers from fixed values and records what it was asked.
type fakeAssistant struct {
	reply     string
	err       error
	available bool

	requests []assist.Request
	polished []string
}

func (f *fakeAssistant) Complete(_ context.Context, req assist.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func (f *fakeAssistant) Polish(_ context.Context, text, intent string) (string, error) {
	f.polished = append(f.polished, intent+"|"+text)
	return f.reply, f.err
}

func (f *fakeAssistant) Available() bool { return f.available }

// memoryStorage keeps saved objects in a map.
type memoryStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStorage) Save(_ context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://archive.test/" + key + "?signed=1", nil
}

func intPtr(i int) *int { return &i }
