package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/meshlens/pkg/analysis"
	"github.com/chazu/meshlens/pkg/mesh"
	"github.com/chazu/meshlens/pkg/topology"
)

func newInspectCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Display statistics and watertightness of an STL or OBJ file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.load(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeReportJSON(cmd.OutOrStdout(), r)
			}
			writeReport(cmd.OutOrStdout(), r)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func (c *cli) load(path string) (*analysis.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.analyzer().Analyze(path, data)
}

// reportJSON is the --json shape of a report.
type reportJSON struct {
	File         string          `json:"file"`
	Format       string          `json:"format"`
	DroppedFaces int             `json:"droppedFaces"`
	Stats        mesh.Stats      `json:"stats"`
	Validation   topology.Result `json:"validation"`
}

func writeReportJSON(w io.Writer, r *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reportJSON{
		File:         r.Name,
		Format:       r.Format.String(),
		DroppedFaces: r.Mesh.DroppedFaces,
		Stats:        r.Stats,
		Validation:   r.Validation,
	})
}

func writeReport(w io.Writer, r *analysis.Report) {
	s, v := r.Stats, r.Validation
	size := s.Bounds.Size()

	fmt.Fprintf(w, "File: %s (%s)\n\n", r.Name, r.Format)

	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "  File size:     %.2f KB\n", s.FileSizeKB)
	fmt.Fprintf(w, "  Vertices:      %d\n", s.VertexCount)
	fmt.Fprintf(w, "  Faces:         %d\n", s.FaceCount)
	if r.Mesh.DroppedFaces > 0 {
		fmt.Fprintf(w, "  Dropped faces: %d (degenerate)\n", r.Mesh.DroppedFaces)
	}
	fmt.Fprintf(w, "  Bounds:        %s .. %s\n", formatPoint(s.Bounds.Min), formatPoint(s.Bounds.Max))
	fmt.Fprintf(w, "  Size:          %g x %g x %g\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "  Surface area:  %.4f\n\n", s.SurfaceArea)

	fmt.Fprintln(w, "Validation:")
	fmt.Fprintf(w, "  %s\n", v.Message)
	fmt.Fprintf(w, "  Edges:                %d (boundary %d, non-manifold %d)\n", v.Edges, v.BoundaryEdges, v.NonManifoldEdges)
	fmt.Fprintf(w, "  Consistent winding:   %s\n", yesNo(v.ConsistentWinding))
	fmt.Fprintf(w, "  Euler characteristic: %d\n", v.EulerCharacteristic)
}

func formatPoint(p mesh.Point) string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
