package shell

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// BarProgressMeter draws a terminal progress bar per download. Downloads of
// unknown size are not drawn.
type BarProgressMeter struct {
	output io.Writer
}

func NewBarProgressMeter(output io.Writer) *BarProgressMeter {
	return &BarProgressMeter{output: output}
}

func (this *BarProgressMeter) Track(name string, total int64) io.WriteCloser {
	if total <= 0 {
		return discard{}
	}
	return &progressWriter{bar: progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWriter(this.output),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
	)}
}

type progressWriter struct {
	bar *progressbar.ProgressBar
}

func (this *progressWriter) Write(p []byte) (int, error) {
	return this.bar.Write(p)
}

func (this *progressWriter) Close() error {
	return this.bar.Finish()
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
func (discard) Close() error                { return nil }
