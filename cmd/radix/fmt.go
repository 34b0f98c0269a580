package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/qfs/radix"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fmtRadix int

func init() {
	fmtCmd.Flags().IntVarP(&fmtRadix, "radix", "r", radix.DefaultRadix, "Radix of the notation")
	rootCmd.AddCommand(fmtCmd)
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [file...]",
	Short: "Prints notation in canonical form",
	Long: `Parses every non-empty line of the files, or of standard input if no
files are given, as a line of beats and prints it in canonical form. Parse
errors are printed with an excerpt showing where the error is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return formatNotation(cmd.InOrStdin(), cmd.OutOrStdout(), fmtRadix)
		}
		for _, name := range args {
			f, err := os.Open(name)
			if err != nil {
				return fault.Wrap(err, fmsg.With(fmt.Sprintf("could not open %s", name)))
			}
			err = formatNotation(f, cmd.OutOrStdout(), fmtRadix)
			f.Close()
			if err != nil {
				return fault.Wrap(err, fmsg.With(name))
			}
		}
		return nil
	},
}

// formatNotation rewrites each line of r in canonical form. It stops at the
// first line that cannot be parsed; a parse error is followed by its excerpt.
func formatNotation(r io.Reader, w io.Writer, radixValue int) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		beats, err := radix.ParseBeats(text, radixValue)
		if err != nil {
			var perr *radix.ParseError
			if errors.As(err, &perr) {
				return fmt.Errorf("line %d: %w\n%s", lineNumber, err, perr.Excerpt())
			}
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}
		out, err := radix.FormatBeats(beats, radixValue)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}
		logger.Debug("formatted", zap.Int("line", lineNumber), zap.Int("beats", len(beats)))
		fmt.Fprintln(w, out)
	}
	return scanner.Err()
}
