package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/identity"
	"github.com/colonyops/taskboard/internal/printer"
)

type ConfigCmd struct {
	flags  *Flags
	format string

	tokenUser string
	tokenTTL  time.Duration
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "taskboard config validate [options]",
				Description: "Validates the configuration file, checking enum values, the database settings, and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.runValidate,
			},
			{
				Name:      "token",
				Usage:     "Issue a sign-in token",
				UsageText: "taskboard config token --user <id> [--ttl <duration>]",
				Description: `Issues an HS256 token signed with auth.secret whose subject is the user id.

Store the output in auth.token or pass it with --token.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "user",
						Usage:       "user id to sign in as",
						Required:    true,
						Destination: &cmd.tokenUser,
					},
					&cli.DurationFlag{
						Name:        "ttl",
						Usage:       "token lifetime (0 for no expiry)",
						Value:       30 * 24 * time.Hour,
						Destination: &cmd.tokenTTL,
					},
				},
				Action: cmd.runToken,
			},
		},
	})

	return app
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	errs := fieldErrors(cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath))
	warnings := cmd.flags.Config.Warnings()

	if cmd.format == "json" {
		out := struct {
			Valid    bool                       `json:"valid"`
			Errors   []validationError          `json:"errors,omitempty"`
			Warnings []config.ValidationWarning `json:"warnings,omitempty"`
		}{
			Valid:    len(errs) == 0,
			Errors:   errs,
			Warnings: warnings,
		}

		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, warn := range warnings {
		p.Infof("%s: %s", warn.Category, warn.Message)
		if warn.Item != "" {
			p.Printf("  Item: %s", warn.Item)
		}
	}

	for _, e := range errs {
		p.Errorf("%s: %s", e.Field, e.Message)
	}

	p.Printf("")
	if len(errs) == 0 {
		p.Successf("Configuration is valid")
		return nil
	}

	p.Errorf("%d error(s) found", len(errs))
	return cli.Exit("", 1)
}

// fieldErrors flattens a criterio validation error into one entry per field.
func fieldErrors(err error) []validationError {
	if err == nil {
		return nil
	}

	var fe criterio.FieldErrors
	if !errors.As(err, &fe) {
		return []validationError{{Field: "config", Message: err.Error()}}
	}

	out := make([]validationError, 0, len(fe))
	for _, e := range fe {
		out = append(out, validationError{Field: e.Field, Message: e.Err.Error()})
	}
	return out
}

func (cmd *ConfigCmd) runToken(_ context.Context, c *cli.Command) error {
	secret := cmd.flags.Config.Auth.Secret
	if secret == "" {
		return fmt.Errorf("auth.secret is not set in %s", cmd.flags.ConfigPath)
	}

	token, err := identity.IssueToken([]byte(secret), cmd.tokenUser, cmd.tokenTTL)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.Root().Writer, token)
	return err
}
