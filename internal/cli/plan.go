package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vietddude/codementor/internal/client"
	"github.com/vietddude/codementor/internal/core/domain"
)

var (
	goal   string
	weeks  int
	hours  int
	planID string
	undo   bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Work with your learning plan",
	RunE:  runPlanShow,
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and save a new learning plan",
	RunE:  runPlanGenerate,
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your current learning plan",
	RunE:  runPlanShow,
}

var planProgressCmd = &cobra.Command{
	Use:   "progress <week>",
	Short: "Mark a week completed (or not, with --undo)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanProgress,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE:  runStats,
}

func init() {
	planGenerateCmd.Flags().StringVar(&goal, "goal", "", "what you want to learn")
	planGenerateCmd.Flags().StringVar(&level, "level", "", "experience level (defaults to your profile)")
	planGenerateCmd.Flags().IntVar(&weeks, "weeks", 8, "weeks available")
	planGenerateCmd.Flags().IntVar(&hours, "hours", 0, "hours per week (defaults to your profile)")

	planProgressCmd.Flags().StringVar(&planID, "plan", "", "plan id (defaults to the current plan)")
	planProgressCmd.Flags().BoolVar(&undo, "undo", false, "mark the week not completed")

	planCmd.AddCommand(planGenerateCmd, planShowCmd, planProgressCmd)
	rootCmd.AddCommand(planCmd, statsCmd)
}

func runPlanGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, err := newClient(ctx)
	if err != nil {
		return err
	}
	res := c.GeneratePlan(ctx, client.PlanRequest{
		Goal:            goal,
		ExperienceLevel: string(levelOrDefault(level, c.Session())),
		WeeksAvailable:  weeks,
		HoursPerWeek:    hours,
	})

	v := client.Resolve(client.Begin(client.View[*domain.Plan]{}), res)
	if v.Status == client.StatusLoaded {
		v = client.WithNotice(v, client.NoticeSuccess, "Learning plan saved")
	}
	return render(cmd.OutOrStdout(), v, printPlan)
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, err := newClient(ctx)
	if err != nil {
		return err
	}
	return show(cmd.OutOrStdout(), c.FetchPlan(ctx), printPlan)
}

func runPlanProgress(cmd *cobra.Command, args []string) error {
	week, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid week number %q", args[0])
	}

	ctx := cmd.Context()
	c, err := newClient(ctx)
	if err != nil {
		return err
	}

	id := planID
	if id == "" {
		if cached := c.CachedPlan(ctx); cached != nil {
			id = cached.ID
		}
	}
	if id == "" {
		res := c.FetchPlan(ctx)
		if res.Err == nil && res.Data != nil {
			id = res.Data.ID
		}
	}
	if id == "" {
		return errors.New("no plan found, pass --plan or run `codementor plan generate`")
	}

	return show(cmd.OutOrStdout(), c.UpdateProgress(ctx, id, week, !undo), printPlan)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, err := newClient(ctx)
	if err != nil {
		return err
	}
	return show(cmd.OutOrStdout(), c.FetchStats(ctx), printStats)
}
