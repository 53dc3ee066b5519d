package cli

import (
	"fmt"

	"github.com/dori/tasknote/internal/app"
	"github.com/dori/tasknote/internal/model"
	"github.com/spf13/cobra"
)

func (e *env) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark), string(model.ThemeSystem)},
		RunE: e.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				mode, err := a.Prefs.Theme(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Theme: %s\n", mode)
				return nil
			}

			mode, err := model.ParseThemeMode(args[0])
			if err != nil {
				return err
			}
			if err := a.Prefs.SetTheme(cmd.Context(), mode); err != nil {
				return err
			}
			fmt.Fprintf(out, "Theme set to %s\n", mode)
			return nil
		}),
	}
}
