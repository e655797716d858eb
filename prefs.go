package main

import (
	"fintrack/config"
	"fintrack/models"
	"fintrack/preferences"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var prefKeys = []string{
	models.PrefTheme,
	models.PrefLanguage,
	models.PrefFontScale,
	models.PrefCurrency,
	models.PrefSelectedCategories,
}

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read or change stored preferences",
		Long: `Edit the preference file without starting the server.

Keys: ` + strings.Join(prefKeys, ", ") + `
List values are comma separated.`,
	}

	cmd.AddCommand(prefsGetCmd())
	cmd.AddCommand(prefsSetCmd())
	cmd.AddCommand(prefsResetCmd())

	return cmd
}

func openPrefs() (*preferences.Store, error) {
	// No server is listening, so nobody needs change notifications
	return preferences.Open(config.AppConfig.PrefsPath, nil)
}

func prefsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print one preference, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPrefs()
			if err != nil {
				return err
			}

			keys := prefKeys
			if len(args) == 1 {
				keys = args
			}
			for _, key := range keys {
				value, err := store.Get(key)
				if err != nil {
					return err
				}
				if len(args) == 1 {
					fmt.Fprintln(cmd.OutOrStdout(), value)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, value)
				}
			}
			return nil
		},
	}
}

func prefsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPrefs()
			if err != nil {
				return err
			}
			if err := store.Set(args[0], args[1]); err != nil {
				return err
			}
			value, _ := store.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", args[0], value)
			return nil
		},
	}
}

func prefsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore every preference to its default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openPrefs()
			if err != nil {
				return err
			}
			if err := store.Reset(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "preferences reset (%s)\n", store.Path())
			return nil
		},
	}
}
