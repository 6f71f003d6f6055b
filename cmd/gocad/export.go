package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/philipparndt/gocad/pkg/stl"
	"github.com/spf13/cobra"
)

var (
	exportSolid  string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a solid as OBJ, STEP or STL",
	Long: `Export one solid of the fully evaluated workbench. Supported formats are
obj, step, stl (ASCII) and stl-binary. Without --out the document is written
to stdout.`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportSolid, "solid", "", "solid to export (default: the only solid)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "obj", "output format: obj, step, stl, stl-binary")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file")
}

func runExport(cmd *cobra.Command, args []string) {
	view := mustOpenApp().View()

	solid, err := pickSolid(view, exportSolid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := io.Writer(os.Stdout)
	if exportOut != "" {
		file, err := os.Create(exportOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}

	if err := writeSolid(out, solid, exportFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", exportFormat, err)
		os.Exit(1)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s to %s\n", solid.Name, exportOut)
	}
}

// pickSolid resolves a solid by name. Without a name the view must hold
// exactly one solid.
func pickSolid(view *kernel.View, name string) (*kernel.Solid, error) {
	if name != "" {
		solid, ok := view.Solids[name]
		if !ok {
			return nil, fmt.Errorf("%w: solid %q, available: %v", kernel.ErrNotFound, name, view.SolidNames())
		}
		return solid, nil
	}
	switch len(view.Solids) {
	case 0:
		return nil, fmt.Errorf("%w: the workbench has no solids", kernel.ErrNotFound)
	case 1:
		return view.Solids[view.SolidNames()[0]], nil
	}
	return nil, fmt.Errorf("%w: several solids, choose one with --solid: %v", kernel.ErrInvalidArgument, view.SolidNames())
}

func writeSolid(w io.Writer, solid *kernel.Solid, format string) error {
	switch format {
	case "obj", "step":
		text := solid.ObjText()
		if format == "step" {
			text = solid.StepText()
		}
		bw := bufio.NewWriter(w)
		if _, err := bw.WriteString(text); err != nil {
			return err
		}
		return bw.Flush()
	case "stl":
		return stl.WriteASCII(w, stl.FromSolid(solid))
	case "stl-binary":
		return stl.WriteBinary(w, stl.FromSolid(solid))
	}
	return fmt.Errorf("%w: unknown format %q", kernel.ErrInvalidArgument, format)
}
