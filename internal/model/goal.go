package model

import (
	"time"
)

const (
	GoalStatusNotStarted       = "Not started"
	GoalStatusInProgress       = "In progress"
	GoalStatusStuck            = "Stuck"
	GoalStatusWaitingForReview = "Waiting for review"
	GoalStatusCompleted        = "Completed"
)

// GoalStatuses is the application-level status set, in workflow order.
// Storage does not constrain status.
var GoalStatuses = []string{
	GoalStatusNotStarted,
	GoalStatusInProgress,
	GoalStatusStuck,
	GoalStatusWaitingForReview,
	GoalStatusCompleted,
}

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

var Visibilities = []string{VisibilityPublic, VisibilityPrivate}

type Goal struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	Status      string     `db:"status" json:"status"`
	Visibility  string     `db:"visibility" json:"visibility"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	LastUpdated time.Time  `db:"last_updated" json:"last_updated"`
}

// VisibleTo reports whether the viewer may read the goal.
// Owners and mentors always can; everyone else only sees public goals.
func (g *Goal) VisibleTo(viewer *User) bool {
	if g.Visibility == VisibilityPublic {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.IsMentor() || viewer.ID == g.UserID
}

func (g *Goal) IsCompleted() bool {
	return g.Status == GoalStatusCompleted
}

// GoalSummary is a goal owned by the viewer, annotated with activity totals.
type GoalSummary struct {
	Goal
	UpdatesCount int       `db:"updates_count" json:"updates_count"`
	LatestUpdate Timestamp `db:"latest_update" json:"latest_update"`
}

// TeamGoal is a goal as seen on the team views, annotated with its owner.
type TeamGoal struct {
	Goal
	UserName     string    `db:"user_name" json:"user_name"`
	UserRole     string    `db:"user_role" json:"user_role"`
	UpdatesCount int       `db:"updates_count" json:"updates_count"`
	LatestUpdate Timestamp `db:"latest_update" json:"latest_update"`
}

func ValidGoalStatus(status string) bool {
	for _, s := range GoalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func ValidVisibility(visibility string) bool {
	return visibility == VisibilityPublic || visibility == VisibilityPrivate
}
