package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tordrt/sqlshape/internal/config"
	"github.com/tordrt/sqlshape/internal/formatter"
)

var (
	describeDesign    string
	describeFormat    string
	describeOutput    string
	describeOutputDir string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe a design as text or markdown",
	Args:  cobra.NoArgs,
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().StringVar(&describeDesign, "design", config.Default().DesignPath, "Design snapshot to read")
	describeCmd.Flags().StringVarP(&describeFormat, "format", "f", formatter.FormatText, "Output format: text or markdown")
	describeCmd.Flags().StringVarP(&describeOutput, "output", "o", "", "Output file (default: stdout)")
	describeCmd.Flags().StringVarP(&describeOutputDir, "output-dir", "d", "", "Output directory for one file per table")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{config.KeyDesignPath: "design"})
	if err != nil {
		return err
	}

	// Validate flag combinations
	if describeOutputDir != "" && describeOutput != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	if describeFormat != formatter.FormatText && describeFormat != formatter.FormatMarkdown {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", describeFormat)
	}

	d, err := loadDesignFile(cfg.DesignPath)
	if err != nil {
		return err
	}

	// Multi-file output
	if describeOutputDir != "" {
		if err := formatter.NewMultiFileFormatter(describeOutputDir, describeFormat).Format(d); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	}

	// Single-file output
	writer, done, err := openOutput(cmd, describeOutput)
	if err != nil {
		return err
	}
	defer done()

	switch describeFormat {
	case formatter.FormatMarkdown:
		err = formatter.NewMarkdownFormatter(writer).Format(d)
	default:
		err = formatter.NewTextFormatter(writer).Format(d)
	}
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}
