package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/aretw0/arbor/pkg/vocab"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Build a document against a vocabulary",
	Long: `Compiles the vocabulary given with --vocab into a registry, builds the document
(or stdin) with it and prints the resulting element tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		data, path, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		b, err := newBuilder(cmd, path)
		if err != nil {
			return err
		}

		root, err := b.FromBytes(data)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch output {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(root)
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(root)
		case "dump":
			cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
			cfg.Fdump(out, root)
			return nil
		}
		return fmt.Errorf("unknown output %q (want json, yaml or dump)", output)
	},
}

// newBuilder compiles --vocab and configures a Builder from the shared flags.
// path is the document path, used to detect the markup format.
func newBuilder(cmd *cobra.Command, path string, extra ...arbor.Option) (*arbor.Builder, error) {
	vocabPath, _ := cmd.Flags().GetString("vocab")
	lenient, _ := cmd.Flags().GetBool("lenient")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")

	if vocabPath == "" {
		return nil, fmt.Errorf("--vocab is required")
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	format, err := markupFormat(cmd, path)
	if err != nil {
		return nil, err
	}

	v, err := vocab.LoadFile(vocabPath)
	if err != nil {
		return nil, err
	}
	reg, err := vocab.Compile(v)
	if err != nil {
		return nil, err
	}

	opts := []arbor.Option{
		arbor.WithLogger(logger),
		arbor.WithParser(parserFor(format)),
	}
	if lenient {
		opts = append(opts, arbor.WithAttributePolicy(registry.AttributesLenient))
	}
	if cmd.Flags().Changed("max-depth") {
		opts = append(opts, arbor.WithMaxDepth(maxDepth))
	}
	return arbor.New(reg, append(opts, extra...)...)
}

func addBuilderFlags(cmd *cobra.Command) {
	cmd.Flags().String("vocab", "", "Vocabulary file (YAML)")
	cmd.Flags().Bool("lenient", false, "Drop undeclared attributes instead of failing")
	cmd.Flags().Int("max-depth", 0, "Maximum element nesting (0 = unlimited; default 1024 when unset)")
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addBuilderFlags(buildCmd)
	buildCmd.Flags().StringP("output", "o", "json", "Output format (json, yaml, dump)")
}
