package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/sqlshape"
	"github.com/tordrt/sqlshape/internal/config"
	"github.com/tordrt/sqlshape/internal/extract"
)

var (
	checkDesign string
	checkTable  string
	checkMode   string
)

var checkCmd = &cobra.Command{
	Use:   "check [input.json]",
	Short: "Validate a JSON object against a table",
	Long: `Check extracts a table from a JSON object (read from the file argument or stdin).
On success the extracted record is printed as JSON. On rejection the field errors are
printed as JSON and the command exits with status 1.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	def := config.Default()
	checkCmd.Flags().StringVar(&checkDesign, "design", def.DesignPath, "Design snapshot to read")
	checkCmd.Flags().StringVarP(&checkTable, "table", "t", "", "Table to extract (required)")
	checkCmd.Flags().StringVar(&checkMode, "mode", def.ExtractMode, "Failure reporting: fail-fast or aggregate")
	_ = checkCmd.MarkFlagRequired("table")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		config.KeyDesignPath:  "design",
		config.KeyExtractMode: "mode",
	})
	if err != nil {
		return err
	}

	d, err := loadDesignFile(cfg.DesignPath)
	if err != nil {
		return err
	}
	design, err := sqlshape.NewDesign(d, cfg.Mode())
	if err != nil {
		return err
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	record, err := design.Extract(checkTable, input)
	if err != nil {
		var tableErr *extract.TableError
		if errors.As(err, &tableErr) {
			if encErr := enc.Encode(tableErr); encErr != nil {
				return encErr
			}
			return errRejected
		}
		return err
	}
	return enc.Encode(record)
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
