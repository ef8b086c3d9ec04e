// Package slidelink post-processes generated presentation packages so that
// diagram edges become native connectors attached to their nodes.
package slidelink

import (
	"github.com/charmbracelet/log"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/connector"
)

// DefaultMinMarkupLength is the shortest rebuilt slide accepted as plausible.
const DefaultMinMarkupLength = 100

// Options configures post-processing behavior.
type Options struct {
	// Mode selects the connector mode (auto, replace, rebuild).
	Mode connector.Mode
	// Slides restricts processing to these part paths
	// (e.g., ppt/slides/slide2.xml). Empty means every slide.
	Slides []string
	// MinMarkupLength is the plausibility floor for rebuilt slide markup.
	// Shorter results are reverted. Zero selects DefaultMinMarkupLength.
	MinMarkupLength int
	// Logger receives progress and fallback messages.
	// If nil, log.Default() is used.
	Logger *log.Logger
}

// DefaultOptions returns default post-processing options.
func DefaultOptions() Options {
	return Options{
		Mode:            connector.ModeAuto,
		MinMarkupLength: DefaultMinMarkupLength,
	}
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

func (o Options) minMarkupLength() int {
	if o.MinMarkupLength > 0 {
		return o.MinMarkupLength
	}
	return DefaultMinMarkupLength
}

func (o Options) targets(all []string) []string {
	if len(o.Slides) == 0 {
		return all
	}
	want := make(map[string]bool, len(o.Slides))
	for _, s := range o.Slides {
		want[s] = true
	}
	var out []string
	for _, p := range all {
		if want[p] {
			out = append(out, p)
		}
	}
	return out
}
