package repository

import (
	"fmt"

	"github.com/labworks/tracker/internal/model"
)

// visibilityFilter builds the WHERE clause restricting goal-backed rows to what
// a viewer may read. Mentors get no clause. Other viewers get public rows plus
// rows where selfColumn equals their id; without an id, public rows only.
//
// Goal listings pass goals.user_id (ownership), the activity feed passes
// activities.user_id (authorship).
func visibilityFilter(viewerRole, viewerID, selfColumn string, args []any) (string, []any) {
	if viewerRole == model.RoleMentor {
		return "", args
	}
	if viewerID == "" {
		return ` WHERE goals.visibility = 'public'`, args
	}

	args = append(args, viewerID)
	return fmt.Sprintf(` WHERE (goals.visibility = 'public' OR %s = $%d)`, selfColumn, len(args)), args
}
