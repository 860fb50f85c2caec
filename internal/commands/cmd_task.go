package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/app"
	"github.com/colonyops/taskboard/internal/core/styles"
	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/validate"
	"github.com/colonyops/taskboard/internal/printer"
	"github.com/colonyops/taskboard/pkg/iojson"
)

// TaskCmd implements the taskboard task command group.
type TaskCmd struct {
	flags *Flags
	app   *app.App

	// list flags
	listFilter string
	listMatch  string
	listJSON   bool

	// add/edit flags
	text     string
	priority string
	dueDate  string
	dueTime  string

	// delete flags
	yes bool

	importReader iojson.FileReader[[]task.Input]
}

// NewTaskCmd creates a new task command.
func NewTaskCmd(flags *Flags, app *app.App) *TaskCmd {
	return &TaskCmd{flags: flags, app: app}
}

// Register adds the task command to the application.
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:    "task",
		Aliases: []string{"t"},
		Usage:   "Manage tasks",
		Description: `Task commands operate on the signed-in user's task list.

Examples:
  taskboard task list --filter pending
  taskboard task add "Buy milk" --priority high --due 2025-03-14 --at 18:00
  taskboard task toggle <id>
  taskboard task delete <id>`,
		Commands: []*cli.Command{
			cmd.listCmd(),
			cmd.addCmd(),
			cmd.editCmd(),
			cmd.toggleCmd(),
			cmd.showCmd(),
			cmd.deleteCmd(),
			cmd.importCmd(),
		},
	})

	return app
}

func (cmd *TaskCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks",
		UsageText: "taskboard task list [--filter <filter>] [--match <glob>] [--json]",
		Description: `Lists tasks sorted by priority, High first.

--filter defaults to tasks.default_filter from the config.
--match keeps tasks whose text matches a case-insensitive glob.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "filter",
				Usage:       "filter tasks (all, completed, pending)",
				Destination: &cmd.listFilter,
			},
			&cli.StringFlag{
				Name:        "match",
				Aliases:     []string{"m"},
				Usage:       "glob pattern matched against task text",
				Destination: &cmd.listMatch,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.listJSON,
			},
		},
		Action: cmd.runList,
	}
}

func (cmd *TaskCmd) runList(ctx context.Context, c *cli.Command) error {
	filter := cmd.app.Config.DefaultFilter()
	if cmd.listFilter != "" {
		f, err := task.ParseFilter(cmd.listFilter)
		if err != nil {
			return err
		}
		filter = f
	}

	pattern := strings.ToLower(cmd.listMatch)
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid --match pattern %q", cmd.listMatch)
	}

	if _, err := cmd.app.LoadTasks(ctx); err != nil {
		return err
	}

	tasks := cmd.app.Tasks.View(filter)
	if pattern != "" {
		tasks = matchText(tasks, pattern)
	}

	w := c.Root().Writer
	if cmd.listJSON {
		for _, t := range tasks {
			if err := iojson.WriteLine(w, t); err != nil {
				return err
			}
		}
		return nil
	}

	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, emptyMessage(cmd.app.Tasks.Len(), filter))
		return nil
	}

	now := time.Now()
	for _, t := range tasks {
		writeTaskLine(w, t, now)
	}
	return nil
}

// matchText keeps tasks whose lowercased text matches a lowercased glob.
func matchText(tasks []task.Task, pattern string) []task.Task {
	out := tasks[:0:0]
	for _, t := range tasks {
		if ok, _ := doublestar.Match(pattern, strings.ToLower(t.Text)); ok {
			out = append(out, t)
		}
	}
	return out
}

func emptyMessage(total int, filter task.Filter) string {
	if total == 0 {
		return "No tasks yet. Add one with: taskboard task add"
	}
	return fmt.Sprintf("No %s tasks.", strings.ToLower(string(filter)))
}

func writeTaskLine(w io.Writer, t task.Task, now time.Time) {
	check := "[ ]"
	text := styles.TaskTextStyle.Render(t.Text)
	switch {
	case t.Completed:
		check = "[x]"
		text = styles.TaskDoneStyle.Render(t.Text)
	case t.Overdue(now):
		text = styles.TaskOverdueStyle.Render(t.Text)
	}

	priority := styles.PriorityStyle(t.Priority).Render(fmt.Sprintf("%-6s", t.Priority))
	due := styles.MutedStyle.Render(t.DueDate + " " + t.DueTime)

	_, _ = fmt.Fprintf(w, "%s %s  %s  %s  %s\n", check, shortID(t.ID), priority, text, due)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveID accepts a full task id or a unique prefix of one.
func (cmd *TaskCmd) resolveID(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("task id is required")
	}
	if _, err := cmd.app.Tasks.Get(id); err == nil {
		return id, nil
	}

	var match string
	for _, t := range cmd.app.Tasks.View(task.FilterAll) {
		if strings.HasPrefix(t.ID, id) {
			if match != "" {
				return "", fmt.Errorf("task id prefix %q is ambiguous", id)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}
	return match, nil
}

func (cmd *TaskCmd) taskFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "priority",
			Aliases:     []string{"p"},
			Usage:       "priority (high, medium, low)",
			Destination: &cmd.priority,
		},
		&cli.StringFlag{
			Name:        "due",
			Aliases:     []string{"d"},
			Usage:       "due date (YYYY-MM-DD)",
			Destination: &cmd.dueDate,
		},
		&cli.StringFlag{
			Name:        "at",
			Usage:       "due time (HH:MM)",
			Destination: &cmd.dueTime,
		},
	}
}

func (cmd *TaskCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Aliases:   []string{"a"},
		Usage:     "Add a task",
		UsageText: "taskboard task add [text] [--priority <p>] [--due <date>] [--at <time>]",
		Description: `Adds a task for the signed-in user.

When text is omitted and stdin is a terminal, an interactive form is shown.
--priority defaults to tasks.default_priority from the config.`,
		Flags:  cmd.taskFlags(),
		Action: cmd.runAdd,
	}
}

func (cmd *TaskCmd) runAdd(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	in := task.Input{
		Text:     strings.Join(c.Args().Slice(), " "),
		Priority: cmd.app.Config.DefaultPriority(),
		DueDate:  cmd.dueDate,
		DueTime:  cmd.dueTime,
	}
	if cmd.priority != "" {
		pr, err := task.ParsePriority(cmd.priority)
		if err != nil {
			return err
		}
		in.Priority = pr
	}

	if in.Text == "" {
		if !stdinIsTerminal() {
			return fmt.Errorf("task text is required")
		}
		if in.DueDate == "" {
			in.DueDate = time.Now().Format(task.DateLayout)
		}
		if err := taskForm("New task", &in).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	if _, err := cmd.app.LoadTasks(ctx); err != nil {
		return err
	}

	created, err := cmd.app.Tasks.Create(ctx, in)
	if err != nil {
		return err
	}

	p.Successf("added %s", shortID(created.ID))
	return iojson.WriteLine(c.Root().Writer, created)
}

// taskForm builds the interactive add/edit form. Values are written back
// into in when the form completes.
func taskForm(title string, in *task.Input) *huh.Form {
	if in.Priority == "" {
		in.Priority = task.PriorityMedium
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Value(&in.Text).
				Validate(validate.TaskText),
			huh.NewSelect[task.Priority]().
				Title("Priority").
				Options(
					huh.NewOption(string(task.PriorityHigh), task.PriorityHigh),
					huh.NewOption(string(task.PriorityMedium), task.PriorityMedium),
					huh.NewOption(string(task.PriorityLow), task.PriorityLow),
				).
				Value(&in.Priority),
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD").
				Value(&in.DueDate).
				Validate(validate.DueDate),
			huh.NewInput().
				Title("Due time").
				Placeholder("HH:MM").
				Value(&in.DueTime).
				Validate(validate.DueTime),
		).Title(title),
	)
}

func (cmd *TaskCmd) editCmd() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Aliases:   []string{"e"},
		Usage:     "Edit a task",
		UsageText: "taskboard task edit <id> [--text <text>] [--priority <p>] [--due <date>] [--at <time>]",
		Description: `Changes the text, priority or due date and time of a task.

Only the flags given are changed. With no flags and a terminal on stdin, an
interactive form prefilled with the current values is shown.`,
		Flags: append(cmd.taskFlags(), &cli.StringFlag{
			Name:        "text",
			Usage:       "task text",
			Destination: &cmd.text,
		}),
		ShellComplete: TaskIDCompleter(cmd.app),
		Action:        cmd.runEdit,
	}
}

func (cmd *TaskCmd) runEdit(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if _, err := cmd.app.LoadTasks(ctx); err != nil {
		return err
	}
	id, err := cmd.resolveID(c.Args().First())
	if err != nil {
		return err
	}
	current, err := cmd.app.Tasks.Get(id)
	if err != nil {
		return err
	}

	in := task.Input{
		Text:     current.Text,
		Priority: current.Priority,
		DueDate:  current.DueDate,
		DueTime:  current.DueTime,
	}

	changed := false
	if c.IsSet("text") {
		in.Text, changed = cmd.text, true
	}
	if c.IsSet("priority") {
		pr, err := task.ParsePriority(cmd.priority)
		if err != nil {
			return err
		}
		in.Priority, changed = pr, true
	}
	if c.IsSet("due") {
		in.DueDate, changed = cmd.dueDate, true
	}
	if c.IsSet("at") {
		in.DueTime, changed = cmd.dueTime, true
	}

	if !changed {
		if !stdinIsTerminal() {
			return fmt.Errorf("nothing to change: pass --text, --priority, --due or --at")
		}
		if err := taskForm("Edit task", &in).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	updated, err := cmd.app.Tasks.Edit(ctx, id, in)
	if err != nil {
		return err
	}

	p.Successf("updated %s", shortID(updated.ID))
	return iojson.WriteLine(c.Root().Writer, updated)
}

func (cmd *TaskCmd) toggleCmd() *cli.Command {
	return &cli.Command{
		Name:          "toggle",
		Aliases:       []string{"done"},
		Usage:         "Toggle a task between completed and pending",
		UsageText:     "taskboard task toggle <id>",
		ShellComplete: TaskIDCompleter(cmd.app),
		Action:        cmd.runToggle,
	}
}

func (cmd *TaskCmd) runToggle(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if _, err := cmd.app.LoadTasks(ctx); err != nil {
		return err
	}
	id, err := cmd.resolveID(c.Args().First())
	if err != nil {
		return err
	}

	updated, err := cmd.app.Tasks.ToggleComplete(ctx, id)
	if err != nil {
		return err
	}

	if updated.Completed {
		p.Successf("completed %s", shortID(id))
	} else {
		p.Infof("reopened %s", shortID(id))
	}
	return iojson.WriteLine(c.Root().Writer, updated)
}

func (cmd *TaskCmd) showCmd() *cli.Command {
	return &cli.Command{
		Name:          "show",
		Usage:         "Show a task",
		UsageText:     "taskboard task show <id>",
		ShellComplete: TaskIDCompleter(cmd.app),
		Action:        cmd.runShow,
	}
}

func (cmd *TaskCmd) runShow(ctx context.Context, c *cli.Command) error {
	if _, err := cmd.app.LoadTasks(ctx); err != nil {
		return err
	}
	id, err := cmd.resolveID(c.Args().First())
	if err != nil {
		return err
	}
	t, err := cmd.app.Tasks.Get(id)
	if err != nil {
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(taskMarkdown(t, time.Now()))
	if err != nil {
		return fmt.Errorf("render task: %w", err)
	}

	_, err = fmt.Fprint(c.Root().Writer, out)
	return err
}

func taskMarkdown(t task.Task, now time.Time) string {
	var b strings.Builder

	status := "pending"
	switch {
	case t.Completed:
		status = "completed"
	case t.Overdue(now):
		status = "**overdue**"
	}

	fmt.Fprintf(&b, "# %s\n\n", t.Text)
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| ID | `%s` |\n", t.ID)
	fmt.Fprintf(&b, "| Status | %s |\n", status)
	fmt.Fprintf(&b, "| Priority | %s |\n", t.Priority)
	fmt.Fprintf(&b, "| Due | %s %s |\n", t.DueDate, t.DueTime)
	fmt.Fprintf(&b, "| Created | %s |\n", t.CreatedAt.Local().Format(time.DateTime))
	return b.String()
}

func (cmd *TaskCmd) deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a task",
		UsageText: "taskboard task delete <id> [--yes]",
		Description: `Deletes a task after confirmation.

Confirmation is skipped with --yes, when tasks.confirm_delete is false, or
when stdin is not a terminal.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip confirmation",
				Destination: &cmd.yes,
			},
		},
		ShellComplete: TaskIDCompleter(cmd.app),
		Action:        cmd.runDelete,
	}
}

func (cmd *TaskCmd) runDelete(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if _, err := cmd.app.LoadTasks(ctx); err != nil {
		return err
	}
	id, err := cmd.resolveID(c.Args().First())
	if err != nil {
		return err
	}
	t, err := cmd.app.Tasks.Get(id)
	if err != nil {
		return err
	}

	if err := cmd.app.Tasks.RequestDelete(id); err != nil {
		return err
	}

	confirmed := cmd.yes || !cmd.app.Config.Tasks.ConfirmDelete || !stdinIsTerminal()
	if !confirmed {
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q?", t.Text)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			_ = cmd.app.Tasks.CancelDelete(id)
			return err
		}
	}

	if !confirmed {
		p.Infof("kept %s", shortID(id))
		return cmd.app.Tasks.CancelDelete(id)
	}

	if err := cmd.app.Tasks.ConfirmDelete(ctx, id); err != nil {
		return err
	}

	p.Successf("deleted %s", shortID(id))
	return nil
}

func (cmd *TaskCmd) importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Create tasks from a JSON array",
		UsageText: "taskboard task import [-f <file>]",
		Description: `Creates one task per element of a JSON array read from a file or stdin.

Each element has the fields text, priority, due_date and due_time. Import
stops at the first invalid task; tasks created before it are kept.

Example:
  echo '[{"text":"Buy milk","priority":"High","due_date":"2025-03-14","due_time":"18:00"}]' | taskboard task import`,
		Flags:  []cli.Flag{cmd.importReader.Flag()},
		Action: cmd.runImport,
	}
}

func (cmd *TaskCmd) runImport(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	inputs, err := cmd.importReader.Read()
	if err != nil {
		return err
	}

	if _, err := cmd.app.LoadTasks(ctx); err != nil {
		return err
	}

	w := c.Root().Writer
	for i, in := range inputs {
		created, err := cmd.app.Tasks.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("task %d: %w", i, err)
		}
		if err := iojson.WriteLine(w, created); err != nil {
			return err
		}
	}

	p.Successf("imported %d task(s)", len(inputs))
	return nil
}
