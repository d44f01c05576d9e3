package main

import (
	"fmt"
	"io"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/pws-advisor-service/internal/adapter/settings"
	"github.com/couchcryptid/pws-advisor-service/internal/plan"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or seed the advisor service settings database",
}

var settingsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Store every field of a YAML profile as service settings",
	Long:  "Loads the profile from --input over the built-in defaults and writes each field under its settings key, so the service renders documents from it.",
	Args:  cobra.NoArgs,
	RunE:  runSettingsImport,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every stored setting",
	Args:  cobra.NoArgs,
	RunE:  runSettingsList,
}

var (
	settingsDB    string
	settingsInput string
)

func init() {
	settingsCmd.PersistentFlags().StringVar(&settingsDB, "db", sharedcfg.EnvOrDefault("SETTINGS_DB_PATH", "pws-settings.db"), "Path to the settings database")
	settingsImportCmd.Flags().StringVarP(&settingsInput, "input", "i", "", "Path to the YAML planning profile (required)")

	if err := settingsImportCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	settingsCmd.AddCommand(settingsImportCmd, settingsListCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsImport(cmd *cobra.Command, _ []string) error {
	p, err := plan.LoadFile(settingsInput)
	if err != nil {
		return err
	}

	store, err := settings.Open(settingsDB, newLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	plan.Save(cmd.Context(), store, p)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s\n", settingsInput, settingsDB)
	return nil
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	store, err := settings.Open(settingsDB, newLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	all, err := store.All(cmd.Context())
	if err != nil {
		return err
	}
	writeSettings(cmd.OutOrStdout(), all)
	return nil
}

func writeSettings(w io.Writer, all []settings.Entry) {
	for _, e := range all {
		fmt.Fprintf(w, "%s = %s\n", e.Key, e.Value)
	}
}
