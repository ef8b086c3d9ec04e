package slidelink

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/connector"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/packager"
	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/parser"
)

// rebuildSlide is swapped in tests to inject failures.
var rebuildSlide = connector.Rebuild

// PostProcess rewrites the connectors of every target slide in a package.
//
// Only a package that cannot be opened is an error. A slide whose rebuild
// fails, panics or yields implausibly short markup keeps its original bytes.
// Any later failure returns input unchanged with Report.Fallback set.
func PostProcess(input []byte, meta *models.PostProcessMeta, opts Options) (out []byte, report *models.Report, err error) {
	report = &models.Report{ExportID: uuid.NewString()}
	logger := opts.logger().With("export", report.ExportID)

	zr, err := zip.NewReader(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrOpenPackage, err)
	}

	if verr := meta.Validate(); verr != nil {
		logger.Warn("metadata has problems", "err", verr)
		report.AddNote(verr.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = fallback(input, report, logger, NewPostProcessError("", "package", fmt.Errorf("panic: %v", r)))
		}
	}()

	out, perr := rewrite(zr, meta, opts, report, logger)
	if perr != nil {
		out, err = fallback(input, report, logger, perr)
		return out, report, err
	}

	replaced, skipped := report.Totals()
	logger.Info("post-processed package", "slides", len(report.Slides), "replaced", replaced, "skipped", skipped)
	return out, report, nil
}

func fallback(input []byte, report *models.Report, logger *log.Logger, err error) ([]byte, error) {
	logger.Warn("returning original package", "err", err)
	report.Fallback = true
	report.AddNote(err.Error())
	return input, nil
}

func rewrite(zr *zip.Reader, meta *models.PostProcessMeta, opts Options, report *models.Report, logger *log.Logger) ([]byte, error) {
	targets := opts.targets(parser.SlideParts(zr))
	if len(targets) == 0 {
		report.AddNote(ErrNoSlides.Error())
	}

	rewritten := make(map[string][]byte, len(targets))
	for _, part := range targets {
		data, err := parser.ReadZipFile(zr, part)
		if err != nil {
			return nil, NewPostProcessError(part, "read", err)
		}
		markup, sr := processSlide(part, data, meta, opts, logger)
		rewritten[part] = markup
		report.Slides = append(report.Slides, sr)
	}

	pk := packager.New()
	for _, f := range zr.File {
		if data, ok := rewritten[f.Name]; ok {
			pk.AddFile(f.Name, data)
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, NewPostProcessError(f.Name, "read", err)
		}
		pk.AddFile(f.Name, data)
	}
	return pk.Build()
}

// processSlide rebuilds one slide. It never fails: on any problem the
// original markup is returned and the report is marked reverted.
func processSlide(part string, data []byte, meta *models.PostProcessMeta, opts Options, logger *log.Logger) (out []byte, sr models.SlideReport) {
	sr = models.SlideReport{Part: part}
	revert := func(err *PostProcessError) {
		out = data
		sr.Reverted = true
		sr.Replaced, sr.Skipped = 0, 0
		sr.Notes = append(sr.Notes, err.Error())
		logger.Warn("slide reverted", "part", part, "stage", err.Stage, "err", err.Err)
	}

	defer func() {
		if r := recover(); r != nil {
			revert(NewPostProcessError(part, "rebuild", fmt.Errorf("panic: %v", r)))
		}
	}()

	res, err := rebuildSlide(data, meta, connector.Options{Mode: opts.Mode})
	if err != nil {
		revert(NewPostProcessError(part, "rebuild", err))
		return out, sr
	}

	sr.Mode = string(res.Mode)
	sr.Replaced = res.Replaced
	sr.Skipped = res.Skipped
	sr.Notes = res.Notes
	if n := len(res.Markup); n < opts.minMarkupLength() {
		revert(NewPostProcessError(part, "plausibility", fmt.Errorf("rebuilt markup is %d bytes", n)))
		return out, sr
	}

	logger.Debug("slide rebuilt", "part", part, "mode", res.Mode, "replaced", res.Replaced, "skipped", res.Skipped)
	return res.Markup, sr
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ProcessFile post-processes the package at inPath and writes it to outPath.
func ProcessFile(inPath, outPath string, meta *models.PostProcessMeta, opts Options) (*models.Report, error) {
	input, err := os.ReadFile(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	out, report, err := PostProcess(input, meta, opts)
	if err != nil {
		return report, fmt.Errorf("%s: %w", inPath, err)
	}

	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return report, fmt.Errorf("failed to write output: %w", err)
	}
	return report, nil
}
