package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/adapters/xmltree"
	"github.com/aretw0/arbor/pkg/adapters/yamltree"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor turns markup documents into object trees",
	Long: `Arbor parses XML (or its YAML form) and dispatches every element to a transform
registered for its tag. The CLI drives registries declared as YAML vocabularies.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().String("format", "", "Markup format (xml, yaml); detected from the file extension when empty")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelStr, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	level, err := logging.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format, cmd.ErrOrStderr()), nil
}

// markupFormat resolves the --format flag, falling back to the extension of path.
func markupFormat(cmd *cobra.Command, path string) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "xml"
		}
	}
	switch format {
	case "xml", "yaml":
		return format, nil
	}
	return "", fmt.Errorf("unknown markup format %q (want xml or yaml)", format)
}

func parserFor(format string) ports.TreeParser {
	if format == "yaml" {
		return yamltree.New()
	}
	return xmltree.New()
}

// readInput reads the document named by args[0], or stdin when it is absent or "-".
func readInput(cmd *cobra.Command, args []string) (data []byte, path string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		return data, "", err
	}
	data, err = os.ReadFile(args[0])
	return data, args[0], err
}

// useColor resolves a --color flag value against the output stream.
func useColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	}
	return false, fmt.Errorf("invalid --color value %q (want auto, always or never)", mode)
}
