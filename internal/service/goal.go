package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/labworks/tracker/internal/model"
	"github.com/labworks/tracker/internal/repository"
	"github.com/labworks/tracker/internal/validation"
)

const (
	DefaultFeedLimit         = 40
	MaxFeedLimit             = 200
	DefaultGoalActivityLimit = 5
)

var (
	// ErrGoalNotFound covers goals that do not exist and goals the viewer may not see.
	ErrGoalNotFound = errors.New("goal not found")
	ErrNotPermitted = errors.New("only the goal owner or a mentor can do that")
)

// GoalInput is the new-goal form. Empty status and visibility take the defaults.
type GoalInput struct {
	Title       string     `json:"title" validate:"notblank,max=200"`
	Description string     `json:"description" validate:"max=4000"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status" validate:"omitempty,goal_status"`
	Visibility  string     `json:"visibility" validate:"omitempty,visibility"`
}

type StatusInput struct {
	Status string `json:"status" validate:"required,goal_status"`
}

// ActivityInput is a progress update on a goal.
type ActivityInput struct {
	EntryText   string `json:"entry_text" validate:"notblank,max=4000"`
	Progress    *int   `json:"progress" validate:"omitempty,min=0,max=100"`
	AIGenerated bool   `json:"ai_generated"`
}

// LoggedActivity reports the stored entry and whether it completed the goal.
type LoggedActivity struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

// CompletionNotifier is told when an update completes someone's goal.
type CompletionNotifier interface {
	SendGoalCompletedEmail(email, name, goalID, goalTitle string) error
}

type GoalService struct {
	goals             repository.GoalRepository
	activities        repository.ActivityRepository
	users             repository.UserRepository
	notifier          CompletionNotifier
	feedLimit         int
	goalActivityLimit int
}

func NewGoalService(
	goals repository.GoalRepository,
	activities repository.ActivityRepository,
	users repository.UserRepository,
	notifier CompletionNotifier,
	feedLimit int,
	goalActivityLimit int,
) *GoalService {
	if feedLimit <= 0 {
		feedLimit = DefaultFeedLimit
	}
	if goalActivityLimit <= 0 {
		goalActivityLimit = DefaultGoalActivityLimit
	}
	return &GoalService{
		goals:             goals,
		activities:        activities,
		users:             users,
		notifier:          notifier,
		feedLimit:         min(feedLimit, MaxFeedLimit),
		goalActivityLimit: goalActivityLimit,
	}
}

func (s *GoalService) Create(owner *model.User, in GoalInput) (*model.Goal, error) {
	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}

	goal := &model.Goal{
		UserID:     owner.ID,
		Title:      in.Title,
		DueDate:    in.DueDate,
		Status:     in.Status,
		Visibility: in.Visibility,
	}
	if strings.TrimSpace(in.Description) != "" {
		goal.Description = &in.Description
	}

	_, err = s.goals.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

// Goal returns the goal if the viewer may read it.
func (s *GoalService) Goal(viewer *model.User, goalID string) (*model.Goal, error) {
	goal, err := s.goals.ByID(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	if goal == nil || !goal.VisibleTo(viewer) {
		return nil, ErrGoalNotFound
	}
	return goal, nil
}

// editable loads a goal the viewer may change: its owner or any mentor.
func (s *GoalService) editable(viewer *model.User, goalID string) (*model.Goal, error) {
	goal, err := s.Goal(viewer, goalID)
	if err != nil {
		return nil, err
	}
	if viewer == nil || (!viewer.IsMentor() && viewer.ID != goal.UserID) {
		return nil, ErrNotPermitted
	}
	return goal, nil
}

// UpdateStatus sets any valid status. A Completed goal can be reopened.
func (s *GoalService) UpdateStatus(viewer *model.User, goalID, status string) error {
	err := validation.Struct(StatusInput{Status: status})
	if err != nil {
		return err
	}

	_, err = s.editable(viewer, goalID)
	if err != nil {
		return err
	}

	err = s.goals.UpdateStatus(goalID, status)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

func (s *GoalService) MyGoals(viewer *model.User) ([]*model.GoalSummary, error) {
	return s.goals.GoalsForUser(viewer.ID)
}

// TeamGoals lists what the viewer may see; anonymous viewers get public goals.
func (s *GoalService) TeamGoals(viewer *model.User) ([]*model.TeamGoal, error) {
	if viewer == nil {
		return s.goals.VisibleGoals("", "")
	}
	return s.goals.VisibleGoals(viewer.Role, viewer.ID)
}

func (s *GoalService) PublicGoals() ([]*model.TeamGoal, error) {
	return s.goals.PublicGoals()
}

func (s *GoalService) CountGoals(viewer *model.User) (int, error) {
	return s.goals.CountUserGoals(viewer.ID)
}

// LogActivity appends an update to a goal the viewer owns (or any goal, for a
// mentor). When the update completes the goal, the owner is emailed.
func (s *GoalService) LogActivity(viewer *model.User, goalID string, in ActivityInput) (*LoggedActivity, error) {
	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}

	goal, err := s.editable(viewer, goalID)
	if err != nil {
		return nil, err
	}

	id, completed, err := s.activities.Log(goalID, viewer.ID, in.EntryText, in.Progress, in.AIGenerated)
	if err != nil {
		return nil, fmt.Errorf("failed to log activity: %w", err)
	}

	if completed {
		s.notifyCompleted(goal)
	}

	return &LoggedActivity{ID: id, Completed: completed}, nil
}

func (s *GoalService) notifyCompleted(goal *model.Goal) {
	owner, err := s.users.ByID(goal.UserID)
	if err != nil || owner == nil {
		slog.Warn("failed to load goal owner for completion email", "goal_id", goal.ID, "error", err)
		return
	}

	err = s.notifier.SendGoalCompletedEmail(owner.Email, owner.Name, goal.ID, goal.Title)
	if err != nil {
		slog.Warn("failed to send goal completed email", "goal_id", goal.ID, "user_id", owner.ID, "error", err)
	}
}

// GoalActivity lists the newest entries on a goal the viewer may read.
// A non-positive limit uses the configured default.
func (s *GoalService) GoalActivity(viewer *model.User, goalID string, limit int) ([]*model.ActivityEntry, error) {
	_, err := s.Goal(viewer, goalID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.goalActivityLimit
	}
	return s.activities.ForGoal(goalID, limit)
}

// Feed returns recent team activity, capped at MaxFeedLimit.
func (s *GoalService) Feed(viewer *model.User, limit int) ([]*model.FeedItem, error) {
	if limit <= 0 {
		limit = s.feedLimit
	}
	limit = min(limit, MaxFeedLimit)

	if viewer == nil {
		return s.activities.Recent(limit, "", "")
	}
	return s.activities.Recent(limit, viewer.ID, viewer.Role)
}
