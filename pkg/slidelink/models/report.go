package models

// SlideReport summarizes the connector rebuild of one slide part.
type SlideReport struct {
	// Part is the package path of the slide (e.g., ppt/slides/slide1.xml).
	Part string `json:"part"`
	// Mode is the rebuild mode used: "replace" or "rebuild".
	Mode string `json:"mode"`
	// Replaced is the number of connectors emitted.
	Replaced int `json:"replaced"`
	// Skipped is the number of edges or placeholders left unresolved.
	Skipped int `json:"skipped"`
	// Reverted is true when the original markup was written back.
	Reverted bool `json:"reverted,omitempty"`
	// Notes are developer-facing diagnostics.
	Notes []string `json:"notes,omitempty"`
}

// Report summarizes one post-processing export.
type Report struct {
	// ExportID correlates log lines of one export.
	ExportID string `json:"export_id"`
	// Slides holds one entry per processed slide part.
	Slides []SlideReport `json:"slides,omitempty"`
	// Fallback is true when the original input bytes were returned unchanged.
	Fallback bool `json:"fallback,omitempty"`
	// Notes are package-level diagnostics.
	Notes []string `json:"notes,omitempty"`
}

// Totals returns replaced and skipped counts summed over all slides.
func (r *Report) Totals() (replaced, skipped int) {
	if r == nil {
		return 0, 0
	}
	for _, s := range r.Slides {
		replaced += s.Replaced
		skipped += s.Skipped
	}
	return replaced, skipped
}

// AddNote appends a package-level note.
func (r *Report) AddNote(note string) {
	r.Notes = append(r.Notes, note)
}
