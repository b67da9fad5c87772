package renderer

import (
	"fmt"
	"io"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to a diagnostic stream
type DefaultLogger struct {
	out io.Writer
}

// Printf implements core.Logger. Write errors are ignored; logging never fails a render.
func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(dl.out, format, args...)
}

// NewDefaultLogger creates a logger writing to out, usually os.Stderr
func NewDefaultLogger(out io.Writer) core.Logger {
	return &DefaultLogger{out: out}
}

type nopLogger struct{}

func (nopLogger) Printf(format string, args ...interface{}) {}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() core.Logger {
	return nopLogger{}
}
