package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/output"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/sheet"
)

type sheetOptions struct {
	output string
	pretty bool
}

func newSheetCmd() *cobra.Command {
	opts := &sheetOptions{}

	cmd := &cobra.Command{
		Use:   "sheet [meta.json|meta.yaml|meta.xlsx]",
		Short: "Convert post-process metadata to or from a workbook",
		Long: `Convert post-process metadata to or from a workbook.

JSON and YAML metadata is exported to an xlsx workbook with Nodes and Edges
sheets (default output: <name>.xlsx). A workbook is read back and printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheet(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "pretty-print JSON output")

	return cmd
}

func runSheet(cmd *cobra.Command, o *sheetOptions, path string) error {
	if err := checkInput(path); err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())

	meta, err := slidelink.LoadMeta(path)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		data, err := output.MetaToJSON(meta, o.pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		return writeOutput(cmd, o.output, data)
	}

	out := o.output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
	}
	if err := sheet.WriteFile(meta, out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	logger.Info("wrote workbook", "output", out, "nodes", len(meta.Nodes), "edges", len(meta.Edges))
	return nil
}
