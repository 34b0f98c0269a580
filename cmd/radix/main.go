package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "radix",
	Short: "Tree-based rhythmic notation editor",
	Long: `radix edits songs written in a bracket notation where every beat is a
tree: a beat holds notes or is split into equally long groupings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages to standard error")
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	cobra.CheckErr(err)
}
