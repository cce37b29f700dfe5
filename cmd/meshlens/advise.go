package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/meshlens/pkg/advisor"
)

func newAdviseCmd(c *cli) *cobra.Command {
	var req advisor.Request
	cmd := &cobra.Command{
		Use:   "advise [file]",
		Short: "Stream manufacturing guidance for a mesh",
		Long: "Analyze the file, then ask the configured model for manufacturing guidance and print the answer as it arrives. " +
			"Materials: " + strings.Join(advisor.Materials, ", ") + ". " +
			"Methods: " + strings.Join(advisor.Methods, ", ") + ". " +
			"Goals: " + strings.Join(advisor.Goals, ", ") + ".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.load(args[0])
			if err != nil {
				return err
			}
			req.VertexCount = r.Stats.VertexCount
			req.FaceCount = r.Stats.FaceCount

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			var last advisor.Event
			for ev := range c.advisor().Stream(ctx, req) {
				fmt.Fprint(out, ev.Chunk)
				last = ev
			}
			fmt.Fprintln(out)
			return last.Err
		},
	}
	f := cmd.Flags()
	f.StringVarP(&req.Description, "description", "d", "", "free-text description of the part")
	f.StringVarP(&req.Material, "material", "m", "", "preferred material")
	f.StringSliceVar(&req.Methods, "method", nil, "manufacturing method to consider (repeatable)")
	f.StringVarP(&req.Goal, "goal", "g", advisor.DefaultGoal, "analysis goal")
	return cmd
}

func (c *cli) advisor() *advisor.Advisor {
	b := c.backend
	if b == nil {
		a := c.cfg.Advisor
		b = advisor.NewOpenAIBackend(a.BaseURL, a.APIKey(), a.Model)
	}
	return advisor.New(b, c.cfg.Advisor.Timeout(), c.logger)
}
