package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dori/tasknote/internal/app"
	"github.com/dori/tasknote/internal/model"
	"github.com/dori/tasknote/internal/quickadd"
	"github.com/spf13/cobra"
)

func (e *env) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [task description]",
		Short: "Add a new task",
		Long: `Add a new task. Markers in the description are picked up:

  !priority   - Category (low, medium, high, urgent or l/m/h/u)
  due:when    - Deadline (today, tomorrow, fri, 3d, 2h, 17:30, 2026-01-15)

Without a deadline the task is due at the end of today.`,
		Example: `  tasknote add "Buy milk !high due:tomorrow" --item "2% milk" --item "oat milk"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			now := e.now()
			parsed := quickadd.Parse(strings.Join(args, " "), now)
			if parsed.Title == "" {
				return errors.New("task title is empty")
			}

			if dueFlag, _ := cmd.Flags().GetString("due"); dueFlag != "" {
				due, ok := quickadd.ParseDue(dueFlag, now)
				if !ok {
					return fmt.Errorf("cannot parse due date %q", dueFlag)
				}
				parsed.Due, parsed.HasDue = due, true
			}
			if !parsed.HasDue {
				parsed.Due = quickadd.EndOfDay(now)
			}

			subtitle, _ := cmd.Flags().GetString("subtitle")
			link, _ := cmd.Flags().GetString("link")
			itemTexts, _ := cmd.Flags().GetStringArray("item")

			task := &model.Task{
				Timestamp:   parsed.Due.UnixMilli(),
				Title:       parsed.Title,
				Subtitle:    subtitle,
				Category:    parsed.Category,
				MeetingLink: link,
			}
			for _, text := range itemTexts {
				task.Items = append(task.Items, model.TaskItem{Text: text})
			}

			if err := a.SaveTask(cmd.Context(), task); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created: %s\n", task.Title)
			fmt.Fprintf(out, "Due: %s\n", model.FormatDue(task.Due(), now))
			if task.Category != model.CategoryMedium {
				fmt.Fprintf(out, "Priority: %s\n", task.Category)
			}
			fmt.Fprintf(out, "ID: %d\n", task.Timestamp)
			return nil
		}),
	}

	cmd.Flags().StringArrayP("item", "i", nil, "Checklist item (repeatable)")
	cmd.Flags().StringP("subtitle", "s", "", "Subtitle")
	cmd.Flags().StringP("link", "l", "", "Meeting link")
	cmd.Flags().StringP("due", "d", "", "Deadline, same forms as due:")

	return cmd
}

func (e *env) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			now := e.now()
			today, _ := cmd.Flags().GetBool("today")
			dateFlag, _ := cmd.Flags().GetString("date")

			var (
				tasks []model.Task
				err   error
			)
			switch {
			case dateFlag != "":
				day, ok := quickadd.ParseDue(dateFlag, now)
				if !ok {
					return fmt.Errorf("cannot parse date %q", dateFlag)
				}
				start, end := model.DayBounds(day)
				tasks, err = a.DB.GetTasksForDate(cmd.Context(), start, end)
			case today:
				start, end := model.DayBounds(now)
				tasks, err = a.DB.GetTasksForDate(cmd.Context(), start, end)
			default:
				tasks, err = a.DB.GetAllTasks(cmd.Context())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}
			for _, t := range tasks {
				writeTaskLine(out, t, now)
			}
			return nil
		}),
	}

	cmd.Flags().Bool("today", false, "Only tasks due today")
	cmd.Flags().String("date", "", "Only tasks due on this day (e.g. 2026-01-15, tomorrow)")

	return cmd
}

func (e *env) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show a task with its checklist",
		Args:  cobra.ExactArgs(1),
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			ts, err := parseTimestamp(args[0])
			if err != nil {
				return err
			}

			task, err := a.DB.GetTaskByTimestamp(cmd.Context(), ts)
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("task %d not found", ts)
			}

			writeTask(cmd.OutOrStdout(), *task, e.now())
			return nil
		}),
	}
}

func (e *env) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [task-id]",
		Short: "Change a task's title, subtitle, deadline, link or priority",
		Long: `Change fields of an existing task. Only the flags given are changed.
A new deadline gives the task a new ID, which is printed.`,
		Example: `  tasknote edit 1772495999000 --title "Call plumber" --due fri`,
		Args:    cobra.ExactArgs(1),
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			ts, err := parseTimestamp(args[0])
			if err != nil {
				return err
			}

			task, err := a.DB.GetTaskByTimestamp(cmd.Context(), ts)
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("task %d not found", ts)
			}

			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("subtitle") && !flags.Changed("due") &&
				!flags.Changed("link") && !flags.Changed("priority") {
				return errors.New("nothing to change, pass --title, --subtitle, --due, --link or --priority")
			}

			now := e.now()
			if flags.Changed("title") {
				task.Title, _ = flags.GetString("title")
			}
			if flags.Changed("subtitle") {
				task.Subtitle, _ = flags.GetString("subtitle")
			}
			if flags.Changed("link") {
				task.MeetingLink, _ = flags.GetString("link")
			}
			if flags.Changed("priority") {
				name, _ := flags.GetString("priority")
				category, ok := model.ParseCategory(name)
				if !ok {
					return fmt.Errorf("unknown priority %q", name)
				}
				task.Category = category
			}
			if flags.Changed("due") {
				dueFlag, _ := flags.GetString("due")
				due, ok := quickadd.ParseDue(dueFlag, now)
				if !ok {
					return fmt.Errorf("cannot parse due date %q", dueFlag)
				}
				task.Timestamp = due.UnixMilli()
			}

			if err := a.EditTask(cmd.Context(), ts, task); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Updated: %s\n", task.Title)
			fmt.Fprintf(out, "Due: %s\n", model.FormatDue(task.Due(), now))
			fmt.Fprintf(out, "ID: %d\n", task.Timestamp)
			return nil
		}),
	}

	cmd.Flags().StringP("title", "t", "", "New title")
	cmd.Flags().StringP("subtitle", "s", "", "New subtitle")
	cmd.Flags().StringP("due", "d", "", "New deadline, same forms as due:")
	cmd.Flags().StringP("link", "l", "", "New meeting link")
	cmd.Flags().StringP("priority", "p", "", "New priority (low, medium, high, urgent)")

	return cmd
}

func (e *env) doneCmd(done bool) *cobra.Command {
	use, short, verb := "done [task-id]", "Mark a task as done", "done"
	if !done {
		use, short, verb = "undone [task-id]", "Mark a done task as not done", "not done"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			ts, err := parseTimestamp(args[0])
			if err != nil {
				return err
			}
			if err := a.SetDone(cmd.Context(), ts, done); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked task %d as %s\n", ts, verb)
			return nil
		}),
	}
}

func (e *env) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [task-id] [item-id]",
		Short: "Check off a checklist item",
		Args:  cobra.ExactArgs(2),
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			ts, err := parseTimestamp(args[0])
			if err != nil {
				return err
			}
			undo, _ := cmd.Flags().GetBool("undo")

			task, err := a.ToggleItem(cmd.Context(), ts, args[1], !undo)
			if err != nil {
				return err
			}

			done, total := task.Progress()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d (%d%%)\n", task.Title, done, total, task.ProgressPercent())
			return nil
		}),
	}

	cmd.Flags().Bool("undo", false, "Uncheck the item instead")
	return cmd
}

func (e *env) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [task-id]",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its checklist",
		Args:    cobra.ExactArgs(1),
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			ts, err := parseTimestamp(args[0])
			if err != nil {
				return err
			}
			if err := a.RemoveTask(cmd.Context(), ts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", ts)
			return nil
		}),
	}
}

func writeTaskLine(w io.Writer, t model.Task, now time.Time) {
	mark := " "
	if t.IsDone {
		mark = "x"
	}

	line := fmt.Sprintf("[%s] %d  %s", mark, t.Timestamp, t.Title)
	if len(t.Items) > 0 {
		done, total := t.Progress()
		line += fmt.Sprintf(" (%d/%d)", done, total)
	}
	line += fmt.Sprintf("  %s  %s", model.FormatDue(t.Due(), now), t.Status(now))
	fmt.Fprintln(w, line)
}

func writeTask(w io.Writer, t model.Task, now time.Time) {
	fmt.Fprintf(w, "%s\n", t.Title)
	if t.Subtitle != "" {
		fmt.Fprintf(w, "  %s\n", t.Subtitle)
	}
	fmt.Fprintf(w, "ID:       %d\n", t.Timestamp)
	fmt.Fprintf(w, "Due:      %s\n", model.FormatDue(t.Due(), now))
	fmt.Fprintf(w, "Status:   %s\n", t.Status(now))
	fmt.Fprintf(w, "Priority: %s\n", t.Category)
	if t.MeetingLink != "" {
		fmt.Fprintf(w, "Link:     %s\n", t.MeetingLink)
	}
	if len(t.Items) > 0 {
		done, total := t.Progress()
		fmt.Fprintf(w, "Progress: %d/%d (%d%%)\n", done, total, t.ProgressPercent())
		for _, item := range t.Items {
			mark := " "
			if item.Completed {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s] %s  %s\n", mark, item.Text, item.ID)
		}
	}
}
