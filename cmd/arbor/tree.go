package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/adapters/yamltree"
	"github.com/spf13/cobra"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Print the parsed markup tree",
	Long:  `Parses a document (or stdin) and prints its element tree as an outline, a Mermaid diagram, JSON or YAML.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		colorMode, _ := cmd.Flags().GetString("color")

		data, path, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		format, err := markupFormat(cmd, path)
		if err != nil {
			return err
		}
		root, err := parserFor(format).Parse(data)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch output {
		case "outline":
			color, err := useColor(colorMode, out)
			if err != nil {
				return err
			}
			return tui.Outline(out, root, color)
		case "mermaid":
			fmt.Fprint(out, graph.GenerateMermaid(root, nil))
			return nil
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(root)
		case "yaml":
			b, err := yamltree.Marshal(root)
			if err != nil {
				return err
			}
			_, err = out.Write(b)
			return err
		}
		return fmt.Errorf("unknown output %q (want outline, mermaid, json or yaml)", output)
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().StringP("output", "o", "outline", "Output format (outline, mermaid, json, yaml)")
	treeCmd.Flags().String("color", "auto", "Colorize the outline (auto, always, never)")
}
