package repository

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labworks/tracker/internal/model"
)

// CompletionProgress is the reported progress at which a goal completes itself.
const CompletionProgress = 100

type ActivityRepository interface {
	Log(goalID, userID, entryText string, progress *int, aiGenerated bool) (id string, completed bool, err error)
	ForGoal(goalID string, limit int) ([]*model.ActivityEntry, error)
	Recent(limit int, viewerID, viewerRole string) ([]*model.FeedItem, error)
}

type activityRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db, now: utcNow}
}

// Log appends an activity and, in the same transaction, bumps the goal's
// last_updated. Progress at or above 100 marks the goal Completed unless it
// already is; completed reports whether this call made that change.
func (r *activityRepository) Log(goalID, userID, entryText string, progress *int, aiGenerated bool) (string, bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return "", false, err
	}
	defer tx.Rollback()

	id := uuid.New().String()
	now := r.now()

	_, err = tx.Exec(`INSERT INTO activities (id, goal_id, user_id, entry_text, progress, ai_generated, created_at)
	                  VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, goalID, userID, strings.TrimSpace(entryText), progress, aiGenerated, now)
	if err != nil {
		return "", false, err
	}

	_, err = tx.Exec(`UPDATE goals SET last_updated = $1 WHERE id = $2`, now, goalID)
	if err != nil {
		return "", false, err
	}

	completed := false
	if progress != nil && *progress >= CompletionProgress {
		result, err := tx.Exec(`UPDATE goals SET status = $1 WHERE id = $2 AND status != $3`,
			model.GoalStatusCompleted, goalID, model.GoalStatusCompleted)
		if err != nil {
			return "", false, err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return "", false, err
		}
		completed = rows > 0
	}

	err = tx.Commit()
	if err != nil {
		return "", false, err
	}

	return id, completed, nil
}

// ForGoal returns the newest entries first, with the author's name joined in.
func (r *activityRepository) ForGoal(goalID string, limit int) ([]*model.ActivityEntry, error) {
	entries := []*model.ActivityEntry{}

	query := `SELECT activities.*, users.name AS user_name
	FROM activities
	JOIN users ON users.id = activities.user_id
	WHERE activities.goal_id = $1
	ORDER BY activities.created_at DESC
	LIMIT $2`

	err := r.db.Select(&entries, query, goalID, limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Recent is the team feed. Non-mentors see activity on public goals plus
// everything they authored themselves, whoever owns the goal.
func (r *activityRepository) Recent(limit int, viewerID, viewerRole string) ([]*model.FeedItem, error) {
	items := []*model.FeedItem{}

	where, args := visibilityFilter(viewerRole, viewerID, "activities.user_id", nil)
	args = append(args, limit)

	query := `SELECT activities.*, goals.title AS goal_title,
	       users.name AS user_name, users.role AS user_role
	FROM activities
	JOIN goals ON goals.id = activities.goal_id
	JOIN users ON users.id = activities.user_id` + where + `
	ORDER BY activities.created_at DESC
	LIMIT $` + strconv.Itoa(len(args))

	err := r.db.Select(&items, query, args...)
	if err != nil {
		return nil, err
	}

	return items, nil
}
