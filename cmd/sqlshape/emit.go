package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/sqlshape"
	"github.com/tordrt/sqlshape/internal/config"
)

var (
	emitDesign string
	emitOutput string
)

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Generate TypeScript declarations from a design",
	Long: `Emit writes one TypeScript interface per table. When --out ends in .ts every interface
goes into that file; otherwise --out is a directory receiving <table>.ts files and an
index.ts. Use --out - for stdout.`,
	Args: cobra.NoArgs,
	RunE: runEmit,
}

func init() {
	def := config.Default()
	emitCmd.Flags().StringVar(&emitDesign, "design", def.DesignPath, "Design snapshot to read")
	emitCmd.Flags().StringVarP(&emitOutput, "out", "o", def.TypesPath, "Output .ts file or directory")
}

func runEmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		config.KeyDesignPath: "design",
		config.KeyTypesPath:  "out",
	})
	if err != nil {
		return err
	}

	d, err := loadDesignFile(cfg.DesignPath)
	if err != nil {
		return err
	}

	if cfg.TypesPath == "-" {
		return sqlshape.EmitTypes(d, &sqlshape.OutputOptions{Writer: cmd.OutOrStdout()})
	}
	if err := sqlshape.EmitTypesToPath(d, cfg.TypesPath); err != nil {
		return fmt.Errorf("failed to emit types: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote types for %d tables to %s\n", len(d.Tables), cfg.TypesPath)
	return nil
}
