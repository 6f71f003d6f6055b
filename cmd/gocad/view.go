package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/philipparndt/gocad/internal/history"
	"github.com/philipparndt/gocad/pkg/analysis"
	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/spf13/cobra"
)

var upto int

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Evaluate the history and print the resulting view",
	Long: `Evaluate the first --upto steps of the workbench and print its points,
planes, sketches, solids and the steps that failed to evaluate.`,
	Args: cobra.NoArgs,
	Run:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().IntVar(&upto, "upto", history.All, "number of steps to evaluate (-1 for all)")
}

func runView(cmd *cobra.Command, args []string) {
	a := mustOpenApp()
	view, err := a.History().Scrub(upto)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating view: %v\n", err)
		os.Exit(1)
	}
	printView(os.Stdout, view)
}

func printView(w io.Writer, view *kernel.View) {
	if len(view.Points) > 0 {
		fmt.Fprintln(w, "Points:")
		for _, name := range sortedKeys(view.Points) {
			fmt.Fprintf(w, "  %s %s\n", name, analysis.FormatVector(view.Points[name]))
		}
	}

	if len(view.Planes) > 0 {
		fmt.Fprintln(w, "Planes:")
		for _, name := range sortedKeys(view.Planes) {
			p := view.Planes[name]
			fmt.Fprintf(w, "  %s normal %s\n", name, analysis.FormatVector(p.Frame.Normal))
		}
	}

	if len(view.Sketches) > 0 {
		fmt.Fprintln(w, "Sketches:")
		for _, name := range view.SketchNames() {
			s := view.Sketches[name]
			fmt.Fprintf(w, "  %s on %s: %d segments, %d faces\n", name, s.Plane, len(s.Segments), len(s.Faces))
			for i, face := range s.Faces {
				fmt.Fprintf(w, "    Face %d: area %.6f, %d holes\n", i, face.Area(), len(face.Interiors))
			}
		}
	}

	if len(view.Solids) > 0 {
		fmt.Fprintln(w, "Solids:")
		for _, r := range analysis.AnalyzeView(view) {
			fmt.Fprintf(w, "  %s: %d triangles, volume %.6f\n", r.Name, r.TriangleCount, r.Volume)
		}
	}

	if len(view.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, name := range sortedKeys(view.Errors) {
			fmt.Fprintf(w, "  %s: %s\n", name, view.Errors[name])
		}
	}
}

func sortedKeys[T any](m map[string]T) []string {
	return slices.Sorted(maps.Keys(m))
}
