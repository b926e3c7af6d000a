package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/vietddude/codementor/internal/client"
	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/resilience/orchestrator"
)

var errRequestFailed = errors.New("request failed")

// show resolves a result into a view and prints it. Failed views print
// their notice and field errors and return errRequestFailed.
func show[T any](w io.Writer, res orchestrator.Result[T], body func(io.Writer, T)) error {
	v := client.Resolve(client.Begin(client.View[T]{}), res)
	return render(w, v, body)
}

func render[T any](w io.Writer, v client.View[T], body func(io.Writer, T)) error {
	if v.Notice != nil {
		_, _ = fmt.Fprintf(w, "[%s] %s\n", v.Notice.Kind, v.Notice.Message)
	}
	for _, field := range slices.Sorted(maps.Keys(v.FieldErrors)) {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", field, v.FieldErrors[field])
	}
	if v.Status == client.StatusFailed {
		return errRequestFailed
	}
	if body != nil {
		body(w, v.Data)
	}
	return nil
}

func printText(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, strings.TrimSpace(s))
}

func printUser(w io.Writer, u *domain.User) {
	if u == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "%s <%s>\n", u.Name, u.Email)
	_, _ = fmt.Fprintf(w, "level: %s, %d h/week\n", u.ExperienceLevel, u.StudyTimePerWeek)
	if len(u.KnownLanguages) > 0 {
		_, _ = fmt.Fprintf(w, "languages: %s\n", strings.Join(u.KnownLanguages, ", "))
	}
}

func printPlan(w io.Writer, p *domain.Plan) {
	if p == nil {
		_, _ = fmt.Fprintln(w, "No learning plan yet. Run `codementor plan generate`.")
		return
	}
	_, _ = fmt.Fprintf(w, "%s\n", p.Goal)
	_, _ = fmt.Fprintf(w, "progress: %d%% (%d/%d weeks)\n\n", p.Progress, p.CompletedWeeks(), len(p.Weeks))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "WEEK\tDONE\tHOURS\tTOPICS")
	for _, wk := range p.Weeks {
		done := " "
		if wk.Completed {
			done = "x"
		}
		_, _ = fmt.Fprintf(tw, "%d\t[%s]\t%d\t%s\n", wk.WeekNumber, done, wk.EstimatedHours, strings.Join(wk.Topics, ", "))
	}
	_ = tw.Flush()
}

func printStats(w io.Writer, s domain.Stats) {
	_, _ = fmt.Fprintf(w, "total hours:      %d\n", s.TotalHours)
	_, _ = fmt.Fprintf(w, "topics completed: %d\n", s.TopicsCompleted)
	_, _ = fmt.Fprintf(w, "current streak:   %d\n", s.CurrentStreak)
}
