package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/codementor/internal/control"
	"github.com/vietddude/codementor/internal/core/domain"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the most recently updated learning plans",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 20, "number of plans to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if appCfg.Database.URL == "" {
		return errors.New("status needs database.url")
	}

	ctx := context.Background()
	store, err := control.OpenStorage(ctx, appCfg.Database, false)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	plans, err := store.Plans.ListRecent(ctx, statusLimit)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}
	printPlanTable(cmd.OutOrStdout(), plans)
	return nil
}

func printPlanTable(out io.Writer, plans []*domain.Plan) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "PLAN\tUSER\tGOAL\tWEEKS\tPROGRESS\tUPDATED")
	for _, p := range plans {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d%%\t%s\n",
			p.ID, p.UserID, truncate(p.Goal, 40), p.CompletedWeeks(), len(p.Weeks), p.Progress,
			p.UpdatedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
