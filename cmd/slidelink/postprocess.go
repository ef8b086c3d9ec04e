package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/output"
)

type postProcessOptions struct {
	output   string
	meta     string
	mode     string
	slides   []int
	parallel int
	report   bool
	pretty   bool
}

func newPostProcessCmd(ro *rootOptions) *cobra.Command {
	opts := &postProcessOptions{}

	cmd := &cobra.Command{
		Use:     "postprocess [input.pptx...]",
		Aliases: []string{"pp"},
		Short:   "Rebuild connectors in one or more packages",
		Long: `Rebuild connectors in one or more packages.

Each input is written to --output, or next to the input as <name>.linked.pptx.
A package that cannot be rewritten safely is written out unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPostProcess(cmd, ro, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path (single input only)")
	cmd.Flags().StringVar(&opts.meta, "meta", "", "post-process metadata (.json, .yaml or .xlsx)")
	cmd.Flags().StringVar(&opts.mode, "mode", "auto", "connector mode: auto, replace, rebuild")
	cmd.Flags().IntSliceVar(&opts.slides, "slide", nil, "slide numbers to process (default: all)")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1, "packages processed concurrently")
	cmd.Flags().BoolVar(&opts.report, "report", false, "write <output>.report.json for each package")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "pretty-print JSON reports")

	return cmd
}

func runPostProcess(cmd *cobra.Command, ro *rootOptions, o *postProcessOptions, args []string) error {
	logger := loggerFromContext(cmd.Context())
	if o.output != "" && len(args) > 1 {
		return errors.New("--output requires a single input")
	}

	cfg := ro.cfg
	if cmd.Flags().Changed("mode") || cfg.Mode == "" {
		cfg.Mode = o.mode
	}
	if cmd.Flags().Changed("slide") {
		cfg.Slides = o.slides
	}
	if cmd.Flags().Changed("parallel") || cfg.Parallel == 0 {
		cfg.Parallel = o.parallel
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts.Logger = logger

	var meta *models.PostProcessMeta
	if o.meta != "" {
		meta, err = slidelink.LoadMeta(o.meta)
		if err != nil {
			return err
		}
		logger.Debug("loaded metadata", "nodes", len(meta.Nodes), "edges", len(meta.Edges))
	}

	jobs := make([]slidelink.Job, len(args))
	for i, in := range args {
		if err := checkInput(in); err != nil {
			return err
		}
		out := o.output
		if out == "" {
			out = defaultOutputPath(in)
		}
		jobs[i] = slidelink.Job{InPath: in, OutPath: out, Meta: meta}
	}

	prog := newProgress(logger)
	results, err := slidelink.ProcessBatch(cmd.Context(), jobs, opts, cfg.Parallel)
	if err != nil {
		return err
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("post-process failed", "input", r.Job.InPath, "err", r.Err)
			continue
		}
		replaced, skipped := r.Report.Totals()
		logger.Info("wrote package", "output", r.Job.OutPath,
			"replaced", replaced, "skipped", skipped, "fallback", r.Report.Fallback)

		if o.report {
			data, err := output.ToJSON(r.Report, o.pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			if err := writeOutput(cmd, r.Job.OutPath+".report.json", data); err != nil {
				return err
			}
		}
	}
	prog.done(fmt.Sprintf("Processed %d packages", len(results)))

	if failed > 0 {
		return fmt.Errorf("%d of %d packages failed", failed, len(results))
	}
	return nil
}

// defaultOutputPath places the result next to the input: deck.pptx -> deck.linked.pptx.
func defaultOutputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + ".linked" + ext
}
