package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/taskboard/internal/core/styles"
	"github.com/colonyops/taskboard/internal/core/task"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, notEmpty),
		c.validateDatabase(),
		c.validateTasks(),
		c.validateAuth(),
		criterio.Run("theme", c.Theme, validTheme),
	)
}

// ValidateDeep runs Validate and then checks the config file and data
// directory on disk. An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.UserID == "" && c.Auth.Token == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Auth",
			Message:  "no user_id or auth.token set; pass --user or TASKBOARD_USER",
		})
	}
	if c.UserID != "" && c.Auth.Token != "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Auth",
			Item:     "user_id",
			Message:  "ignored because auth.token is set",
		})
	}
	if c.Database.Driver == DriverSQLite && c.Database.DSN != "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Database",
			Item:     "database.dsn",
			Message:  "ignored by the sqlite driver",
		})
	}

	return warnings
}

func (c *Config) validateDatabase() error {
	var errs criterio.FieldErrorsBuilder

	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.DSN == "" {
			errs = errs.Append("database.dsn", fmt.Errorf("required for driver %q", DriverPostgres))
		}
	default:
		errs = errs.Append("database.driver", fmt.Errorf("unsupported driver %q (want %s or %s)", c.Database.Driver, DriverSQLite, DriverPostgres))
	}

	if c.Database.MaxOpenConns < 1 {
		errs = errs.Append("database.max_open_conns", fmt.Errorf("must be at least 1"))
	}
	if c.Database.MaxIdleConns < 0 {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("cannot be negative"))
	}
	if c.Database.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("cannot be negative"))
	}

	return errs.ToError()
}

func (c *Config) validateTasks() error {
	return criterio.ValidateStruct(
		criterio.Run("tasks.default_filter", c.Tasks.DefaultFilter, func(s string) error {
			_, err := task.ParseFilter(s)
			return err
		}),
		criterio.Run("tasks.default_priority", c.Tasks.DefaultPriority, func(s string) error {
			_, err := task.ParsePriority(s)
			return err
		}),
	)
}

func (c *Config) validateAuth() error {
	if c.Auth.Token != "" && c.Auth.Secret == "" {
		return criterio.NewFieldErrors("auth.secret", fmt.Errorf("required when auth.token is set"))
	}
	return nil
}

// DefaultFilter returns the configured initial filter.
func (c *Config) DefaultFilter() task.Filter {
	f, err := task.ParseFilter(c.Tasks.DefaultFilter)
	if err != nil {
		return task.FilterAll
	}
	return f
}

// DefaultPriority returns the configured priority for new tasks.
func (c *Config) DefaultPriority() task.Priority {
	p, err := task.ParsePriority(c.Tasks.DefaultPriority)
	if err != nil {
		return task.PriorityMedium
	}
	return p
}

func validTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
