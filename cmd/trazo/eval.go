package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// evalOutput is the document printed by eval.
type evalOutput struct {
	Points int         `yaml:"points"`
	Edges  int         `yaml:"edges"`
	Faces  int         `yaml:"faces"`
	Sketch interface{} `yaml:"sketch"`
}

func newEvalCmd(c *cli) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "eval SCRIPT",
		Short: "Evaluate a script and print the sketch as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.runScript(args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := evalOutput{Points: len(s.Points), Edges: len(s.Edges), Faces: len(s.Faces)}
			if !summary {
				out.Sketch = s
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "print counts only")
	return cmd
}
