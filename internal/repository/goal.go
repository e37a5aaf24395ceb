package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labworks/tracker/internal/model"
)

const goalSummaryColumns = `goals.*,
	       COALESCE(activity_counts.total_updates, 0) AS updates_count,
	       COALESCE(activity_counts.latest_update, goals.last_updated) AS latest_update`

const activityCountsJoin = `LEFT JOIN (
	    SELECT goal_id, COUNT(*) AS total_updates, MAX(created_at) AS latest_update
	    FROM activities
	    GROUP BY goal_id
	) AS activity_counts ON activity_counts.goal_id = goals.id`

type GoalRepository interface {
	Create(goal *model.Goal) (string, error)
	ByID(goalID string) (*model.Goal, error)
	UpdateStatus(goalID, status string) error
	GoalsForUser(userID string) ([]*model.GoalSummary, error)
	VisibleGoals(viewerRole, viewerID string) ([]*model.TeamGoal, error)
	PublicGoals() ([]*model.TeamGoal, error)
	CountUserGoals(userID string) (int, error)
}

type goalRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db, now: utcNow}
}

// Create inserts the goal and fills in its generated id and timestamps.
// Title and description are trimmed; a blank description is stored as NULL.
func (r *goalRepository) Create(goal *model.Goal) (string, error) {
	now := r.now()

	goal.ID = uuid.New().String()
	goal.Title = strings.TrimSpace(goal.Title)
	if goal.Description != nil {
		desc := strings.TrimSpace(*goal.Description)
		goal.Description = &desc
		if desc == "" {
			goal.Description = nil
		}
	}
	if goal.Status == "" {
		goal.Status = model.GoalStatusNotStarted
	}
	if goal.Visibility == "" {
		goal.Visibility = model.VisibilityPublic
	}
	goal.CreatedAt = now
	goal.LastUpdated = now

	query := `INSERT INTO goals (id, user_id, title, description, due_date, status, visibility, created_at, last_updated)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.DueDate,
		goal.Status,
		goal.Visibility,
		goal.CreatedAt,
		goal.LastUpdated,
	)
	if err != nil {
		return "", err
	}

	return goal.ID, nil
}

func (r *goalRepository) ByID(goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.db.Get(goal, query, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// UpdateStatus does not check that the goal exists; an unknown id is a no-op.
func (r *goalRepository) UpdateStatus(goalID, status string) error {
	query := `UPDATE goals SET status = $1, last_updated = $2 WHERE id = $3`
	_, err := r.db.Exec(query, status, r.now(), goalID)
	return err
}

func (r *goalRepository) GoalsForUser(userID string) ([]*model.GoalSummary, error) {
	goals := []*model.GoalSummary{}

	query := `SELECT ` + goalSummaryColumns + `
	FROM goals
	` + activityCountsJoin + `
	WHERE goals.user_id = $1
	ORDER BY goals.last_updated DESC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// VisibleGoals lists every goal for mentors, and public plus owned goals for
// everyone else.
func (r *goalRepository) VisibleGoals(viewerRole, viewerID string) ([]*model.TeamGoal, error) {
	where, args := visibilityFilter(viewerRole, viewerID, "goals.user_id", nil)
	return r.teamGoals(where, args)
}

func (r *goalRepository) PublicGoals() ([]*model.TeamGoal, error) {
	return r.teamGoals(` WHERE goals.visibility = 'public'`, nil)
}

func (r *goalRepository) teamGoals(where string, args []any) ([]*model.TeamGoal, error) {
	goals := []*model.TeamGoal{}

	query := `SELECT ` + goalSummaryColumns + `,
	       users.name AS user_name, users.role AS user_role
	FROM goals
	JOIN users ON users.id = goals.user_id
	` + activityCountsJoin + where + `
	ORDER BY goals.last_updated DESC`

	err := r.db.Select(&goals, query, args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) CountUserGoals(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM goals WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
