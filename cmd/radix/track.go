package main

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qfs/radix/tracker"
	"github.com/qfs/radix/tracker/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(trackCmd)
}

var trackCmd = &cobra.Command{
	Use:   "track [song]",
	Short: "Edits a song in the terminal",
	Long: `Opens the terminal editor. Without a song, the session is recovered from
the last run, if it ended with unsaved changes. A song that does not exist yet
is created when saved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recoveryFile := ""
		configDir, err := os.UserConfigDir()
		if err == nil {
			recoveryFile = filepath.Join(configDir, "radix", "recovery.yml")
		}
		log := logger
		if verbose && configDir != "" {
			// the terminal belongs to the editor, so the log goes to a file
			if log, err = fileLogger(filepath.Join(configDir, "radix", "radix.log")); err != nil {
				return err
			}
			defer log.Sync()
		}
		prefs := tui.MakePreferences()
		keys, err := tui.LoadKeyMap()
		if err != nil {
			log.Warn("could not load custom key bindings", zap.Error(err))
		}
		broker := tracker.NewBroker()
		model := tracker.NewModel(broker, log, recoveryFile)
		if len(args) > 0 {
			if err := openSong(model, prefs, args[0]); err != nil {
				return err
			}
		} else if model.FilePath() == "" && !model.ChangedSinceSave() {
			model.SetOpus(prefs.NewOpus())
		}
		_, err = tea.NewProgram(tui.NewModel(model, keys, prefs, log), tea.WithAltScreen()).Run()
		return err
	},
}

func openSong(model *tracker.Model, prefs tui.Preferences, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		model.SetOpus(prefs.NewOpus())
		model.SetFilePath(path)
		return nil
	}
	return model.LoadFile(path)
}

func fileLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	return config.Build()
}
