package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/sqlshape"
	"github.com/tordrt/sqlshape/internal/config"
)

var (
	initSchemaPath    string
	initDesignPath    string
	initTypesPath     string
	initReloadSchema  bool
	initUnknownAsText bool
	initDatabaseURL   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Build the design snapshot and TypeScript types from config",
	Long: `Init loads the design snapshot, or builds it from the schema file (or database_url)
when reload_schema is set or the snapshot is missing. It then saves the snapshot and
writes the TypeScript declarations. Settings come from flags, SQLSHAPE_* environment
variables, a .env file and the --config file, in that order of precedence.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	def := config.Default()
	initCmd.Flags().StringVar(&initSchemaPath, "schema", def.SchemaPath, "SQL schema file")
	initCmd.Flags().StringVar(&initDesignPath, "design", def.DesignPath, "Design snapshot")
	initCmd.Flags().StringVar(&initTypesPath, "types", def.TypesPath, "TypeScript output (.ts file or directory)")
	initCmd.Flags().BoolVar(&initReloadSchema, "reload-schema", false, "Rebuild the design even when a snapshot exists")
	initCmd.Flags().BoolVar(&initUnknownAsText, "unknown-as-text", false, "Treat unknown column types as text")
	initCmd.Flags().StringVar(&initDatabaseURL, "db-url", "", "Build the design from this database instead of the schema file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		config.KeySchemaPath:    "schema",
		config.KeyDesignPath:    "design",
		config.KeyTypesPath:     "types",
		config.KeyReloadSchema:  "reload-schema",
		config.KeyUnknownAsText: "unknown-as-text",
		config.KeyDatabaseURL:   "db-url",
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	design, err := sqlshape.Init(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "design %s: %d tables, snapshot %s, types %s\n",
		design.Schema().Title, len(design.TableNames()), cfg.DesignPath, cfg.TypesPath)
	return nil
}
