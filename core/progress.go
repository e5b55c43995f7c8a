package core

import (
	"io"
	"math"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/smartystreets/logging"
)

var (
	suffixes = [5]string{"B", "KB", "MB", "GB", "TB"}
)

func round(val float64, roundOn float64, places int) (newVal float64) {
	var round float64
	pow := math.Pow(10, float64(places))
	digit := pow * val
	_, div := math.Modf(digit)
	if div >= roundOn {
		round = math.Ceil(digit)
	} else {
		round = math.Floor(digit)
	}
	newVal = round / pow
	return
}

func humanFileSize(size float64) string {
	if size < 1 {
		return "0 B"
	}
	base := math.Log(size) / math.Log(1024)
	index := int(math.Floor(base))
	if index >= len(suffixes) {
		index = len(suffixes) - 1
	}
	getSize := round(size/math.Pow(1024, float64(index)), .5, 2)
	return strconv.FormatFloat(getSize, 'f', -1, 64) + " " + suffixes[index]
}

// LogProgressMeter writes a progress line for each download every interval
// and once more when the download completes.
type LogProgressMeter struct {
	interval time.Duration
	logger   *logging.Logger
}

func NewLogProgressMeter(interval time.Duration) *LogProgressMeter {
	return &LogProgressMeter{interval: interval}
}

func (this *LogProgressMeter) Track(name string, total int64) io.WriteCloser {
	counter := &progressCounter{name: name, total: "unknown size", logger: this.logger}
	if total >= 0 {
		counter.total = humanFileSize(float64(total))
	}
	if this.interval <= 0 {
		return counter
	}
	counter.ticker = time.NewTicker(this.interval)
	counter.done = make(chan struct{})
	go counter.report()
	return counter
}

type progressCounter struct {
	name   string
	total  string
	ticker *time.Ticker
	done   chan struct{}
	logger *logging.Logger

	count int64
}

func (this *progressCounter) Write(p []byte) (n int, e error) {
	n = len(p)
	atomic.AddInt64(&this.count, int64(n))
	return n, nil
}

func (this *progressCounter) report() {
	for {
		select {
		case <-this.ticker.C:
			this.print()
		case <-this.done:
			return
		}
	}
}

func (this *progressCounter) Close() error {
	if this.ticker != nil {
		this.ticker.Stop()
		close(this.done)
	}
	this.print()
	return nil
}

func (this *progressCounter) print() {
	this.logger.Printf("[INFO] Downloaded %s of %s for %s.", humanFileSize(float64(atomic.LoadInt64(&this.count))), this.total, this.name)
}

// SilentProgressMeter discards progress.
type SilentProgressMeter struct{}

func (SilentProgressMeter) Track(string, int64) io.WriteCloser { return nopWriteCloser{} }

type nopWriteCloser struct{}

func (nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriteCloser) Close() error                { return nil }
