package main

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/adapters/xmltree"
	"github.com/aretw0/arbor/pkg/adapters/yamltree"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a document between XML and its YAML form",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")

		data, path, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		format, err := markupFormat(cmd, path)
		if err != nil {
			return err
		}
		if to == "" {
			to = "yaml"
			if format == "yaml" {
				to = "xml"
			}
		}

		root, err := parserFor(format).Parse(data)
		if err != nil {
			return err
		}

		var out []byte
		switch to {
		case "xml":
			out, err = xmltree.Marshal(root)
		case "yaml":
			out, err = yamltree.Marshal(root)
		default:
			return fmt.Errorf("unknown target format %q (want xml or yaml)", to)
		}
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("to", "", "Target format (xml, yaml); defaults to the other one")
}
