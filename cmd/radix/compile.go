package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/qfs/radix"
	"github.com/qfs/radix/compiler"
	"github.com/spf13/cobra"
)

var (
	compileTemplate string
	compileTmplDir  string
	compileOut      string
	compilePPQN     int
	compileList     bool
)

func init() {
	compileCmd.Flags().StringVarP(&compileTemplate, "template", "t", "lines.txt", "Template to execute")
	compileCmd.Flags().StringVar(&compileTmplDir, "templates", "", "Use the templates in this directory instead of the built-in templates")
	compileCmd.Flags().StringVarP(&compileOut, "output", "o", "", "Output file. Defaults to standard output")
	compileCmd.Flags().IntVar(&compilePPQN, "ppqn", radix.DefaultPPQN, "Pulses per quarter note of the instructions given to the templates")
	compileCmd.Flags().BoolVarP(&compileList, "list", "l", false, "List the available templates")
	rootCmd.AddCommand(compileCmd)
}

var compileCmd = &cobra.Command{
	Use:   "compile <song>",
	Short: "Renders a song through a text template",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var comp *compiler.Compiler
		var err error
		if compileTmplDir != "" {
			comp, err = compiler.NewFromTemplates(compilePPQN, compileTmplDir)
		} else {
			comp, err = compiler.New(compilePPQN)
		}
		if err != nil {
			return fault.Wrap(err, fmsg.With("error creating compiler"))
		}
		if compileList {
			for _, name := range comp.TemplateNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("compile needs a song")
		}
		o, err := loadOpus(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if compileOut != "" {
			f, err := os.Create(compileOut)
			if err != nil {
				return fault.Wrap(err, fmsg.With(fmt.Sprintf("could not create %s", compileOut)))
			}
			defer f.Close()
			out = f
		}
		return compileSong(comp, o, compileTemplate, out)
	},
}

func compileSong(comp *compiler.Compiler, o *radix.Opus, templateName string, w io.Writer) error {
	s, err := comp.Compile(o, templateName)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}
