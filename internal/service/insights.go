package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/labworks/tracker/internal/model"
	"github.com/labworks/tracker/internal/storage"
)

const upcomingDeadlines = 5

var ErrArchiveDisabled = errors.New("export archive is not configured")

var exportHeader = []string{"Goal", "Status", "Visibility", "Target", "Owner", "Updates", "Last update"}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type Deadline struct {
	GoalID  string    `json:"goal_id"`
	Title   string    `json:"title"`
	Owner   string    `json:"owner"`
	DueDate time.Time `json:"due_date"`
}

type Insights struct {
	StatusCounts []StatusCount     `json:"status_counts"`
	Deadlines    []Deadline        `json:"deadlines"`
	Goals        []*model.TeamGoal `json:"goals"`
}

// InsightsService summarizes the goals a viewer can see.
type InsightsService struct {
	goals   *GoalService
	storage storage.Storage
	now     func() time.Time
}

// NewInsightsService builds the service. A nil store disables archiving.
func NewInsightsService(goals *GoalService, store storage.Storage) *InsightsService {
	return &InsightsService{
		goals:   goals,
		storage: store,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *InsightsService) ArchiveEnabled() bool {
	return s.storage != nil
}

// Summary counts goals per status (sorted by status name) and lists the next
// deadlines, earliest first.
func (s *InsightsService) Summary(viewer *model.User) (*Insights, error) {
	goals, err := s.goals.TeamGoals(viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	counts := map[string]int{}
	var deadlines []Deadline
	for _, g := range goals {
		counts[g.Status]++
		if g.DueDate != nil {
			deadlines = append(deadlines, Deadline{GoalID: g.ID, Title: g.Title, Owner: g.UserName, DueDate: *g.DueDate})
		}
	}

	statusCounts := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		statusCounts = append(statusCounts, StatusCount{Status: status, Count: n})
	}
	sort.Slice(statusCounts, func(i, j int) bool { return statusCounts[i].Status < statusCounts[j].Status })

	sort.SliceStable(deadlines, func(i, j int) bool { return deadlines[i].DueDate.Before(deadlines[j].DueDate) })
	if len(deadlines) > upcomingDeadlines {
		deadlines = deadlines[:upcomingDeadlines]
	}

	return &Insights{StatusCounts: statusCounts, Deadlines: deadlines, Goals: goals}, nil
}

// ExportCSV renders the viewer's goal table as CSV.
func (s *InsightsService) ExportCSV(viewer *model.User) ([]byte, error) {
	goals, err := s.goals.TeamGoals(viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	err = w.Write(exportHeader)
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		target := ""
		if g.DueDate != nil {
			target = g.DueDate.Format(time.DateOnly)
		}
		lastUpdate := ""
		if !g.LatestUpdate.IsZero() {
			lastUpdate = g.LatestUpdate.UTC().Format(time.DateTime)
		}

		err = w.Write([]string{
			g.Title,
			g.Status,
			g.Visibility,
			target,
			g.UserName,
			strconv.Itoa(g.UpdatesCount),
			lastUpdate,
		})
		if err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArchiveExport uploads a CSV snapshot and returns a temporary download link.
func (s *InsightsService) ArchiveExport(ctx context.Context, viewer *model.User) (string, error) {
	if s.storage == nil {
		return "", ErrArchiveDisabled
	}

	data, err := s.ExportCSV(viewer)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/%s/lab_goals_export_%s.csv", viewer.ID, s.now().Format("20060102T150405Z"))

	err = s.storage.Save(ctx, key, bytes.NewReader(data), "text/csv")
	if err != nil {
		return "", fmt.Errorf("failed to archive export: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to sign export link: %w", err)
	}

	return url, nil
}
