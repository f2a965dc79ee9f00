package main

import (
	"fmt"

	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/vocab"
	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab <file>",
	Short: "Describe a vocabulary",
	Long:  `Validates a vocabulary file and prints its tags as a Markdown table, rendered for the terminal unless --raw is set.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		v, err := vocab.LoadFile(args[0])
		if err != nil {
			return err
		}
		if _, err := vocab.Compile(v); err != nil {
			return err
		}

		md := vocab.Describe(v)
		color, _ := useColor("auto", cmd.OutOrStdout())
		if raw || !color {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		render, err := tui.NewRenderer(0)
		if err != nil {
			return err
		}
		rendered, err := render(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
	vocabCmd.Flags().Bool("raw", false, "Print plain Markdown")
}
