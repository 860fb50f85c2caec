package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/app"
	"github.com/colonyops/taskboard/internal/core/profile"
	"github.com/colonyops/taskboard/internal/printer"
	"github.com/colonyops/taskboard/pkg/iojson"
)

// ProfileCmd implements the taskboard profile command group.
type ProfileCmd struct {
	flags *Flags
	app   *app.App

	json  bool
	name  string
	phone string
	age      int
	clearAge bool
}

// NewProfileCmd creates a new profile command.
func NewProfileCmd(flags *Flags, app *app.App) *ProfileCmd {
	return &ProfileCmd{flags: flags, app: app}
}

// Register adds the profile command to the application.
func (cmd *ProfileCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "profile",
		Usage: "View and edit your profile",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the signed-in user's profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.json,
					},
				},
				Action: cmd.runShow,
			},
			{
				Name:      "set",
				Usage:     "Update profile fields",
				UsageText: "taskboard profile set [--name <name>] [--phone <digits>] [--age <n> | --clear-age]",
				Description: `Updates the given fields and leaves the others unchanged.

Phone numbers may contain digits only. Age must not be negative.
--clear-age removes a saved age.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "name",
						Usage:       "display name",
						Destination: &cmd.name,
					},
					&cli.StringFlag{
						Name:        "phone",
						Usage:       "phone number (digits only)",
						Destination: &cmd.phone,
					},
					&cli.IntFlag{
						Name:        "age",
						Usage:       "age in years",
						Destination: &cmd.age,
					},
					&cli.BoolFlag{
						Name:        "clear-age",
						Usage:       "remove the saved age",
						Destination: &cmd.clearAge,
					},
				},
				Action: cmd.runSet,
			},
		},
	})

	return app
}

func (cmd *ProfileCmd) runShow(ctx context.Context, c *cli.Command) error {
	p, err := cmd.app.Profiles.Get(ctx)
	if err != nil {
		return err
	}

	if cmd.json {
		return iojson.WriteLine(c.Root().Writer, p)
	}

	writeProfile(c, p)
	return nil
}

func (cmd *ProfileCmd) runSet(ctx context.Context, c *cli.Command) error {
	var u profile.Update
	if c.IsSet("name") {
		u.DisplayName = &cmd.name
	}
	if c.IsSet("phone") {
		u.Phone = &cmd.phone
	}
	if c.IsSet("age") {
		u.Age = &cmd.age
	}
	u.ClearAge = cmd.clearAge

	if u.Age != nil && u.ClearAge {
		return fmt.Errorf("--age and --clear-age cannot be combined")
	}
	if u.IsEmpty() {
		return fmt.Errorf("nothing to change: pass --name, --phone, --age or --clear-age")
	}

	p, err := cmd.app.Profiles.Update(ctx, u)
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("profile updated")
	writeProfile(c, p)
	return nil
}

func writeProfile(c *cli.Command, p profile.Profile) {
	w := c.Root().Writer

	age := "-"
	if p.Age != nil {
		age = fmt.Sprint(*p.Age)
	}

	_, _ = fmt.Fprintf(w, "user:  %s\n", p.UserID)
	_, _ = fmt.Fprintf(w, "name:  %s\n", orDash(p.DisplayName))
	_, _ = fmt.Fprintf(w, "phone: %s\n", orDash(p.Phone))
	_, _ = fmt.Fprintf(w, "age:   %s\n", age)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
