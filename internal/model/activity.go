package model

import (
	"time"
)

type Activity struct {
	ID          string    `db:"id" json:"id"`
	GoalID      string    `db:"goal_id" json:"goal_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	EntryText   string    `db:"entry_text" json:"entry_text"`
	Progress    *int      `db:"progress" json:"progress,omitempty"`
	AIGenerated bool      `db:"ai_generated" json:"ai_generated"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ActivityEntry is an activity with its author's name, as listed under a goal.
type ActivityEntry struct {
	Activity
	UserName string `db:"user_name" json:"user_name"`
}

// FeedItem is an activity on the team feed.
type FeedItem struct {
	Activity
	GoalTitle string `db:"goal_title" json:"goal_title"`
	UserName  string `db:"user_name" json:"user_name"`
	UserRole  string `db:"user_role" json:"user_role"`
}
