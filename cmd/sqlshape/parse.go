package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/sqlshape/internal/config"
	"github.com/tordrt/sqlshape/internal/schema"
	"github.com/tordrt/sqlshape/internal/sqlparse"
)

var (
	parseSchemaPath   string
	parseOutput       string
	parseTitle        string
	parseUnknownAsTxt bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a SQL schema file into a design snapshot",
	Long: `Parse reads every CREATE TABLE statement of a schema file and writes the resulting
design as JSON (or YAML when the output ends in .yaml or .yml). Use --out - for stdout.`,
	Args: cobra.NoArgs,
	RunE: runParse,
}

func init() {
	def := config.Default()
	parseCmd.Flags().StringVar(&parseSchemaPath, "schema", def.SchemaPath, "SQL schema file")
	parseCmd.Flags().StringVarP(&parseOutput, "out", "o", def.DesignPath, "Design snapshot to write")
	parseCmd.Flags().StringVar(&parseTitle, "title", "", "Design title (default: Database)")
	parseCmd.Flags().BoolVar(&parseUnknownAsTxt, "unknown-as-text", false, "Treat unknown column types as text")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		config.KeySchemaPath:    "schema",
		config.KeyDesignPath:    "out",
		config.KeyUnknownAsText: "unknown-as-text",
	})
	if err != nil {
		return err
	}

	d, err := sqlparse.ParseFile(cfg.SchemaPath, sqlparse.Options{
		Title:         parseTitle,
		UnknownAsText: cfg.UnknownAsText,
	})
	if err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}

	if cfg.DesignPath == "-" {
		return schema.Encode(cmd.OutOrStdout(), d, schema.FormatJSON)
	}
	if err := schema.Save(cfg.DesignPath, d); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d tables to %s\n", len(d.Tables), cfg.DesignPath)
	return nil
}
