package ui

import (
	"bytes"
	"context"
	"html/template"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labworks/tracker/internal/ctxkeys"
	"github.com/labworks/tracker/internal/model"
)

type boldNotes struct{}

func (boldNotes) HTML(note string) template.HTML {
	return template.HTML("<b>" + template.HTMLEscapeString(note) + "</b>")
}

func TestDashboardRendersSidebarAndFeed(t *testing.T) {
	progress := 60
	data := DashboardData{
		AppName:   "Lab Works",
		User:      &model.User{Name: "Ada <3", Role: model.RoleMentor},
		GoalCount: 3,
		Feed: []*model.FeedItem{{
			Activity: model.Activity{
				EntryText:   "gel ran clean",
				Progress:    &progress,
				AIGenerated: true,
				CreatedAt:   time.Date(2025, 2, 3, 14, 5, 0, 0, time.UTC),
			},
			GoalTitle: "Purify protein",
			UserName:  "Grace",
			UserRole:  model.RoleStudent,
		}},
		Notes: boldNotes{},
	}

	ctx := ctxkeys.WithCSRFToken(templ.WithNonce(context.Background(), "n0nce"), "tok123")

	var buf bytes.Buffer
	require.NoError(t, Dashboard(data).Render(ctx, &buf))
	out := buf.String()

	assert.Contains(t, out, "Ada &lt;3")
	assert.Contains(t, out, "Mentor")
	assert.Contains(t, out, ">3</p>")
	assert.Contains(t, out, "Add GROQ_API_KEY to enable AI polishing.")
	assert.Contains(t, out, "<b>gel ran clean</b>")
	assert.Contains(t, out, "03 Feb 2025 · 14:05")
	assert.Contains(t, out, `value="60"`)
	assert.Contains(t, out, "AI-assisted note")
	assert.Contains(t, out, `nonce="n0nce"`)
	assert.Contains(t, out, `name="csrf_token" value="tok123"`)
}

func TestDashboardEmptyFeedWithAI(t *testing.T) {
	var buf bytes.Buffer
	err := Dashboard(DashboardData{User: &model.User{Name: "A", Role: model.RoleStudent}, AIAvailable: true}).
		Render(context.Background(), &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "No activity logged yet.")
	assert.Contains(t, buf.String(), "No goals yet.")
	assert.NotContains(t, buf.String(), "GROQ_API_KEY")
}

func TestDashboardListsMyGoalsWithStatusBadges(t *testing.T) {
	due := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	data := DashboardData{
		User: &model.User{Name: "Ada", Role: model.RoleStudent},
		MyGoals: []*model.GoalSummary{
			{Goal: model.Goal{Title: "Grow crystals", Status: model.GoalStatusCompleted, Visibility: model.VisibilityPrivate, DueDate: &due}, UpdatesCount: 1},
			{Goal: model.Goal{Title: "Purify <protein>", Status: model.GoalStatusStuck, Visibility: model.VisibilityPublic}, UpdatesCount: 4},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Dashboard(data).Render(context.Background(), &buf))
	out := buf.String()

	assert.Contains(t, out, "My tracked goals")
	assert.Contains(t, out, "(1 update)")
	assert.Contains(t, out, "(4 updates)")
	assert.Contains(t, out, "Due 2025-06-30")
	assert.Contains(t, out, "Private")
	assert.Contains(t, out, "Purify &lt;protein&gt;")
	assert.Contains(t, out, `class="`+StatusBadgeClass(model.GoalStatusCompleted)+`">Completed</span>`)
	assert.Contains(t, out, `class="`+StatusBadgeClass(model.GoalStatusStuck)+`">Stuck</span>`)
	assert.NotContains(t, out, "No goals yet.")
}

func TestStatusBadgeClass(t *testing.T) {
	completed := StatusBadgeClass(model.GoalStatusCompleted)
	assert.Contains(t, completed, "bg-green-100")
	assert.NotContains(t, completed, "bg-slate-100")
	assert.Contains(t, completed, "font-semibold")
	assert.NotContains(t, completed, "font-medium")

	assert.Contains(t, StatusBadgeClass("Unknown"), "bg-slate-100")
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Student", RoleLabel("student"))
	assert.Equal(t, "Mentor", RoleLabel("mentor"))
}
