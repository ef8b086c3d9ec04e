package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/output"
)

type inspectOptions struct {
	output string
	slide  int
	pretty bool
}

func newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [input.pptx]",
		Short: "List shapes and markers found on each slide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path (default: stdout)")
	cmd.Flags().IntVar(&opts.slide, "slide", 0, "only show this slide number")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "pretty-print JSON output")

	return cmd
}

func runInspect(cmd *cobra.Command, o *inspectOptions, path string) error {
	if err := checkInput(path); err != nil {
		return err
	}

	insp, err := slidelink.InspectFile(path)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}
	loggerFromContext(cmd.Context()).Debug("inspected package", "slides", len(insp.Slides))

	var data []byte
	if o.slide > 0 {
		want := slidelink.SlidePaths([]int{o.slide})[0]
		found := false
		for i := range insp.Slides {
			if insp.Slides[i].Part == want {
				data, err = output.SlideToJSON(&insp.Slides[i], o.pretty)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("slide %d not found", o.slide)
		}
	} else {
		data, err = output.InspectionToJSON(insp, o.pretty)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return writeOutput(cmd, o.output, data)
}
