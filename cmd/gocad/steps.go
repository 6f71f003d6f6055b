package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/spf13/cobra"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List the feature history of a workbench",
	Args:  cobra.NoArgs,
	Run:   runSteps,
}

func init() {
	rootCmd.AddCommand(stepsCmd)
}

func runSteps(cmd *cobra.Command, args []string) {
	a := mustOpenApp()
	steps, err := a.History().Steps()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading history: %v\n", err)
		os.Exit(1)
	}
	printSteps(os.Stdout, a.History().Workbench(), steps)
}

func printSteps(w io.Writer, workbench string, steps []kernel.Step) {
	fmt.Fprintf(w, "Workbench: %s\n", workbench)
	for i, step := range steps {
		fmt.Fprintf(w, "%3d  %-8s %-12s %s\n", i, step.Kind(), step.Name(), describeStep(step))
	}
}

func describeStep(step kernel.Step) string {
	var parts []string
	for _, p := range kernel.Parameters(step) {
		parts = append(parts, fmt.Sprintf("%s=%g", p.Name, p.Value))
	}
	switch s := step.(type) {
	case *kernel.SketchStep:
		parts = append(parts, fmt.Sprintf("plane=%s", s.Plane), fmt.Sprintf("segments=%d", len(s.Segments)))
	case *kernel.ExtrudeStep:
		parts = append(parts, fmt.Sprintf("sketch=%s", s.Sketch), fmt.Sprintf("faces=%v", s.Faces))
	}
	return strings.Join(parts, " ")
}
