package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tordrt/sqlshape"
	"github.com/tordrt/sqlshape/internal/config"
	"github.com/tordrt/sqlshape/internal/sample"
)

var (
	sampleDesign string
	sampleTable  string
	sampleCount  int
	sampleSeed   int64
	sampleOutput string
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate JSON input that a table accepts",
	Long: `Sample prints generated JSON objects that pass extraction for a table. A single
object is printed for --count 1, otherwise an array. Equal seeds print equal output;
seed 0 picks a random seed.`,
	Args: cobra.NoArgs,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().StringVar(&sampleDesign, "design", config.Default().DesignPath, "Design snapshot to read")
	sampleCmd.Flags().StringVarP(&sampleTable, "table", "t", "", "Table to generate rows for (required)")
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "n", 1, "Number of rows")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 0, "Random seed")
	sampleCmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "Output file (default: stdout)")
	_ = sampleCmd.MarkFlagRequired("table")
}

func runSample(cmd *cobra.Command, args []string) error {
	if sampleCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	cfg, err := loadConfig(cmd, map[string]string{config.KeyDesignPath: "design"})
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

	rows, err := sample.New(design.Engine(), sampleSeed).Rows(sampleTable, sampleCount)
	if err != nil {
		return err
	}

	writer, done, err := openOutput(cmd, sampleOutput)
	if err != nil {
		return err
	}
	defer done()

	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if sampleCount == 1 {
		return enc.Encode(rows[0])
	}
	return enc.Encode(rows)
}
