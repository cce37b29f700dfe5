package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/meshlens/pkg/kernel"
	"github.com/chazu/meshlens/pkg/kernel/sdfx"
	"github.com/chazu/meshlens/pkg/mesh"
	"github.com/chazu/meshlens/pkg/meshio"
	"github.com/chazu/meshlens/pkg/tessellate"
)

func newSampleCmd(c *cli) *cobra.Command {
	var (
		out   string
		ascii bool
		cells int
	)
	cmd := &cobra.Command{
		Use:       "sample [" + strings.Join(kernel.SampleNames(), "|") + "]",
		Short:     "Write a reference solid as STL or OBJ",
		Long:      "Build a reference solid with the SDF kernel, tessellate it with marching cubes, and write it to the output file. The format follows the output extension.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: kernel.SampleNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := meshio.FormatFromFilename(out)
			if err != nil {
				return err
			}
			part, err := tessellate.Sample(sdfx.New(cells), args[0])
			if err != nil {
				return err
			}
			if err := writeMesh(out, format, ascii, part.Mesh, part.Name); err != nil {
				return err
			}
			c.logger.Info("sample written",
				"sample", part.Name,
				"file", out,
				"vertices", part.Mesh.VertexCount(),
				"faces", part.Mesh.FaceCount(),
				"dropped", part.Mesh.DroppedFaces,
				"watertight", part.Validation.Watertight,
			)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "output", "o", "", "output file (.stl or .obj)")
	f.BoolVar(&ascii, "ascii", false, "write ASCII STL instead of binary")
	f.IntVar(&cells, "cells", sdfx.DefaultMeshCells, "marching cubes cells along the longest axis")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func writeMesh(path string, format meshio.Format, ascii bool, m *mesh.Mesh, name string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	switch {
	case format == meshio.FormatOBJ:
		err = meshio.WriteOBJ(w, m)
	case ascii:
		err = meshio.WriteASCIISTL(w, m, name)
	default:
		err = meshio.WriteBinarySTL(w, m, "meshlens sample "+name)
	}
	if err != nil {
		return err
	}
	return w.Flush()
}
