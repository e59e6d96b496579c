package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chazu/trazo/pkg/kernel"
	"github.com/chazu/trazo/pkg/kernel/sdfx"
	"github.com/chazu/trazo/pkg/tessellate"
)

func newExtrudeCmd(c *cli) *cobra.Command {
	var (
		height float64
		cells  int
		merge  bool
	)

	cmd := &cobra.Command{
		Use:   "extrude SCRIPT",
		Short: "Extrude every face of a script's sketch and print mesh statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.runScript(args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if height <= 0 {
				height = c.cfg.Extrude.Height
			}
			if cells <= 0 {
				cells = c.cfg.Extrude.Cells
			}
			k := sdfx.NewWithCells(cells)

			var meshes []*kernel.Mesh
			if merge {
				m, err := tessellate.Merge(s, k, height)
				if err != nil {
					return err
				}
				if m != nil {
					meshes = append(meshes, m)
				}
			} else {
				meshes, err = tessellate.Tessellate(s, k, height)
				if err != nil {
					return err
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MESH\tVERTICES\tTRIANGLES\tMIN\tMAX")
			for _, m := range meshes {
				min, max := m.Bounds()
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
					m.Name, m.VertexCount(), m.TriangleCount(), vec3(min), vec3(max))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&height, "height", 0, "extrusion height (default extrude.height)")
	cmd.Flags().IntVar(&cells, "cells", 0, "meshing resolution (default extrude.cells)")
	cmd.Flags().BoolVar(&merge, "merge", false, "union all faces into one mesh")
	return cmd
}

func vec3(v [3]float64) string {
	return fmt.Sprintf("(%.1f,%.1f,%.1f)", v[0], v[1], v[2])
}
