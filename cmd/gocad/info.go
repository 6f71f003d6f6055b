package main

import (
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/gocad/pkg/analysis"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display measurements of every solid",
	Long:  "Show dimensions, triangle count, surface area, volume and edge statistics for each solid of the workbench.",
	Args:  cobra.NoArgs,
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	reports := analysis.AnalyzeView(mustOpenApp().View())
	if len(reports) == 0 {
		fmt.Println("No solids.")
		return
	}
	for _, r := range reports {
		printReport(os.Stdout, r)
	}
}

func printReport(w io.Writer, r *analysis.Report) {
	fmt.Fprintf(w, "Solid: %s\n", r.Name)
	fmt.Fprintln(w, "====================")

	fmt.Fprintln(w, "Model Statistics:")
	fmt.Fprintf(w, "  Triangles: %d\n", r.TriangleCount)
	fmt.Fprintf(w, "  Edges: %d\n", r.EdgeCount)
	fmt.Fprintf(w, "  Closed: %t\n", r.Closed())
	fmt.Fprintf(w, "  Surface Area: %.6f square units\n", r.SurfaceArea)
	fmt.Fprintf(w, "  Volume: %.6f cubic units\n\n", r.Volume)

	fmt.Fprintln(w, "Bounding Box:")
	fmt.Fprintf(w, "  Min: %s\n", analysis.FormatVector(r.BoundingBox.Min))
	fmt.Fprintf(w, "  Max: %s\n", analysis.FormatVector(r.BoundingBox.Max))
	fmt.Fprintf(w, "  Center: %s\n\n", analysis.FormatVector(r.BoundingBox.Center()))

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Width (X): %s\n", analysis.FormatMeasurement(r.Dimensions.X, ""))
	fmt.Fprintf(w, "  Depth (Y): %s\n", analysis.FormatMeasurement(r.Dimensions.Y, ""))
	fmt.Fprintf(w, "  Height (Z): %s\n", analysis.FormatMeasurement(r.Dimensions.Z, ""))
	fmt.Fprintf(w, "  Diagonal: %s\n\n", analysis.FormatMeasurement(r.BoundingBox.Diagonal(), ""))

	fmt.Fprintln(w, "Edge Lengths:")
	fmt.Fprintf(w, "  Minimum: %.6f units\n", r.MinEdgeLength)
	fmt.Fprintf(w, "  Maximum: %.6f units\n", r.MaxEdgeLength)
	fmt.Fprintf(w, "  Average: %.6f units\n", r.AvgEdgeLength)
	for i, e := range analysis.FindLongestEdges(r, 3) {
		fmt.Fprintf(w, "  #%d %s -> %s (%.6f)\n", i+1, analysis.FormatVector(e.Start), analysis.FormatVector(e.End), e.Length)
	}
	fmt.Fprintln(w)
}
