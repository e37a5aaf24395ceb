package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/labworks/tracker/internal/app"
	"github.com/labworks/tracker/internal/model"
	"github.com/labworks/tracker/internal/service"
)

func GoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Goal tools",
	}
	cmd.AddCommand(goalImportCmd())
	return cmd
}

func goalImportCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "import <file.md>",
		Short: "Create a goal from a markdown file with front matter",
		Long: `Create a goal from a markdown file. The front matter sets the goal fields
and the body becomes the description:

  ---
  title: Validate electrode array
  status: In progress
  visibility: private
  due: 2025-06-30
  ---
  Measure impedance on all 16 channels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			goal, err := importGoal(a, args[0], owner)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created goal %q (%s) for %s\n", goal.Title, goal.ID, owner)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "email of the goal owner")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

type goalDocument struct {
	Title      string    `yaml:"title" toml:"title"`
	Status     string    `yaml:"status" toml:"status"`
	Visibility string    `yaml:"visibility" toml:"visibility"`
	Due        time.Time `yaml:"due" toml:"due"`
}

func importGoal(a *app.App, path, ownerEmail string) (*model.Goal, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	owner, err := a.UserService.ByEmail(ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to find owner %s: %w", ownerEmail, err)
	}

	var meta goalDocument
	doc, err := a.Markdown.ParseDocument(source, &meta)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	in := service.GoalInput{
		Title:       meta.Title,
		Description: doc.Body,
		Status:      meta.Status,
		Visibility:  meta.Visibility,
	}
	if !meta.Due.IsZero() {
		due := meta.Due.UTC()
		in.DueDate = &due
	}

	return a.GoalService.Create(owner, in)
}
