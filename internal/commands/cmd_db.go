package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/app"
	"github.com/colonyops/taskboard/internal/core/logging"
	"github.com/colonyops/taskboard/internal/data/db"
	"github.com/colonyops/taskboard/internal/printer"
)

// DBCmd implements the taskboard db command group.
type DBCmd struct {
	flags *Flags
	app   *app.App

	steps int
}

// NewDBCmd creates a new db command.
func NewDBCmd(flags *Flags, app *app.App) *DBCmd {
	return &DBCmd{flags: flags, app: app}
}

// Register adds the db command to the application.
func (cmd *DBCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "db",
		Usage: "Database maintenance commands",
		Commands: []*cli.Command{
			{
				Name:      "rollback",
				Usage:     "Revert the most recent schema migrations",
				UsageText: "taskboard db rollback [--steps <n>]",
				Description: `Reverts applied migrations, newest first, and drops the data they hold.

Migrations are re-applied the next time any other command opens the database.`,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "steps",
						Usage:       "number of migrations to revert",
						Value:       1,
						Destination: &cmd.steps,
					},
				},
				Action: cmd.runRollback,
			},
		},
	})

	return app
}

func (cmd *DBCmd) runRollback(ctx context.Context, _ *cli.Command) error {
	if err := db.MigrateDown(ctx, cmd.app.DB, cmd.steps, logging.Component("db")); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("reverted %d migration(s)", cmd.steps)
	return nil
}
