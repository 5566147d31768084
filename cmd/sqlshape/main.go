package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/sqlshape/internal/config"
	"github.com/tordrt/sqlshape/internal/schema"
)

// errRejected makes the process exit 1 without printing an error; the
// command has already written the rejection
var errRejected = errors.New("input rejected")

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "sqlshape",
	Short: "Derive input validation and TypeScript types from SQL schemas",
	Long: `sqlshape reads SQL CREATE TABLE statements (or a live PostgreSQL, MySQL or SQLite
database) into a design of tables and fields, validates JSON input against that design,
and generates TypeScript declarations for front-end code.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before the environment")

	rootCmd.AddCommand(parseCmd, emitCmd, describeCmd, checkCmd, introspectCmd, sampleCmd, initCmd)
}

// loadConfig reads configuration with the given flags bound to config keys
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	l := config.NewLoader(envFile)
	for key, flag := range bindings {
		if err := l.BindFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, err
		}
	}
	return l.Load(cfgFile)
}

// parseTableList splits a comma-separated table list
func parseTableList(tables string) []string {
	if tables == "" {
		return nil
	}
	tableList := strings.Split(tables, ",")
	for i, t := range tableList {
		tableList[i] = strings.TrimSpace(t)
	}
	return tableList
}

// openOutput returns the command's stdout for an empty path, else a created file
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
		}
	}, nil
}

// loadDesignFile reads a design snapshot, or "-" from stdin as JSON
func loadDesignFile(path string) (*schema.DatabaseDesign, error) {
	if path == "-" {
		return schema.Decode(os.Stdin, schema.FormatJSON)
	}
	return schema.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
