package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/app"
)

// TaskIDCompleter returns a ShellCompleteFunc that suggests the signed-in
// user's task ids, annotated with their text, as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func TaskIDCompleter(a *app.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if a.Tasks == nil {
			return
		}

		tasks, err := a.LoadTasks(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, t := range tasks {
			_, _ = fmt.Fprintf(w, "%s:%s\n", t.ID, t.Text)
		}
	}
}
