package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/qfs/radix"
	"github.com/qfs/radix/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOut  string
	exportPPQN int
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output file. Defaults to the song path with a .mid extension")
	exportCmd.Flags().IntVar(&exportPPQN, "ppqn", radix.DefaultPPQN, "Pulses per quarter note")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <song>",
	Short: "Exports a song as a standard MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := exportOut
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".mid"
		}
		return exportSong(args[0], out, exportPPQN)
	},
}

// loadOpus reads a YAML song or a folder of channel files.
func loadOpus(path string) (*radix.Opus, error) {
	m := tracker.NewModel(nil, logger, "")
	if err := m.LoadFile(path); err != nil {
		return nil, err
	}
	return m.Opus(), nil
}

func exportSong(songPath, out string, ppqn int) error {
	o, err := loadOpus(songPath)
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return fault.Wrap(err, fmsg.With(fmt.Sprintf("could not create %s", out)))
	}
	if err := radix.WriteSMF(f, o, ppqn); err != nil {
		f.Close()
		return fault.Wrap(err, fmsg.With("could not export MIDI"))
	}
	if err := f.Close(); err != nil {
		return fault.Wrap(err, fmsg.With(fmt.Sprintf("could not write %s", out)))
	}
	logger.Info("exported", zap.String("song", songPath), zap.String("output", out))
	return nil
}
