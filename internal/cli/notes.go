package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dori/tasknote/internal/app"
	"github.com/dori/tasknote/internal/model"
	"github.com/spf13/cobra"
)

func (e *env) noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes",
	}

	add := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			content, _ := cmd.Flags().GetString("content")
			note := &model.Note{
				Timestamp: e.now().UnixMilli(),
				Title:     strings.Join(args, " "),
				Content:   content,
			}
			if err := a.DB.InsertNote(cmd.Context(), note); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note: %s\nID: %d\n", note.Title, note.Timestamp)
			return nil
		}),
	}
	add.Flags().StringP("content", "c", "", "Note body")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, newest first",
		Args:    cobra.NoArgs,
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			notes, err := a.DB.GetAllNotes(cmd.Context())
			if err != nil {
				return err
			}
			writeNotes(cmd.OutOrStdout(), notes)
			return nil
		}),
	}

	search := &cobra.Command{
		Use:   "search [text]",
		Short: "Find notes by title or content",
		Args:  cobra.MinimumNArgs(1),
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			notes, err := a.DB.SearchNotes(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			writeNotes(cmd.OutOrStdout(), notes)
			return nil
		}),
	}

	show := &cobra.Command{
		Use:   "show [note-id]",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			ts, err := parseTimestamp(args[0])
			if err != nil {
				return err
			}
			note, err := a.DB.GetNoteByTimestamp(cmd.Context(), ts)
			if err != nil {
				return err
			}
			if note == nil {
				return fmt.Errorf("note %d not found", ts)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", note.Title)
			fmt.Fprintf(out, "Created: %s\n\n", note.Created().Format("Jan 2, 2006 15:04"))
			if note.Content != "" {
				fmt.Fprintln(out, note.Content)
			}
			return nil
		}),
	}

	edit := &cobra.Command{
		Use:   "edit [note-id]",
		Short: "Change a note's title or body",
		Args:  cobra.ExactArgs(1),
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			ts, err := parseTimestamp(args[0])
			if err != nil {
				return err
			}
			note, err := a.DB.GetNoteByTimestamp(cmd.Context(), ts)
			if err != nil {
				return err
			}
			if note == nil {
				return fmt.Errorf("note %d not found", ts)
			}

			if cmd.Flags().Changed("title") {
				note.Title, _ = cmd.Flags().GetString("title")
			}
			if cmd.Flags().Changed("content") {
				note.Content, _ = cmd.Flags().GetString("content")
			}
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("content") {
				return errors.New("nothing to change, pass --title or --content")
			}

			if err := a.DB.UpdateNote(cmd.Context(), note); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note %d\n", ts)
			return nil
		}),
	}
	edit.Flags().StringP("title", "t", "", "New title")
	edit.Flags().StringP("content", "c", "", "New body")

	rm := &cobra.Command{
		Use:     "rm [note-id]",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			ts, err := parseTimestamp(args[0])
			if err != nil {
				return err
			}
			if err := a.DB.DeleteNote(cmd.Context(), ts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", ts)
			return nil
		}),
	}

	cmd.AddCommand(add, list, search, show, edit, rm)
	return cmd
}

func writeNotes(w io.Writer, notes []model.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes found.")
		return
	}
	for _, n := range notes {
		fmt.Fprintf(w, "%d  %s  %s\n", n.Timestamp, n.Created().Format("Jan 2 15:04"), n.Title)
	}
}
