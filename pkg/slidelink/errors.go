package slidelink

import (
	"errors"
	"fmt"
)

// ErrOpenPackage indicates the input is not a readable ZIP container.
var ErrOpenPackage = errors.New("cannot open package")

// ErrNoSlides indicates the package contains no slide parts to process.
var ErrNoSlides = errors.New("package has no slides")

// ErrInvalidMeta indicates the metadata file failed validation.
var ErrInvalidMeta = errors.New("invalid post-process metadata")

// PostProcessError represents a recovered failure while rewriting a package.
type PostProcessError struct {
	Part  string // empty for package-level failures
	Stage string // "read", "rebuild", "plausibility", "package"
	Err   error
}

func (e *PostProcessError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("post-process error (%s): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("post-process error in %s (%s): %v", e.Part, e.Stage, e.Err)
}

func (e *PostProcessError) Unwrap() error {
	return e.Err
}

// NewPostProcessError creates a new PostProcessError.
func NewPostProcessError(part, stage string, err error) *PostProcessError {
	return &PostProcessError{
		Part:  part,
		Stage: stage,
		Err:   err,
	}
}
