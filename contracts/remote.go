package contracts

import (
	"io"
	"net/http"
)

type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// ProgressMeter receives a copy of every downloaded byte. Track is called once
// per download with the expected size (-1 when unknown); the returned writer
// is closed when the download ends.
type ProgressMeter interface {
	Track(name string, total int64) io.WriteCloser
}
