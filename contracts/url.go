package contracts

import (
	"net/url"
	"strings"
)

// URL is a url.URL that reads and writes itself as a plain string in JSON
// and YAML documents.
type URL url.URL

func (this URL) MarshalText() ([]byte, error) {
	return []byte(this.Value().String()), nil
}

func (this *URL) UnmarshalText(p []byte) error {
	raw := strings.TrimSpace(string(p))
	if raw == "" || raw == "null" {
		return nil
	}
	address, err := url.Parse(raw)
	if err == nil {
		*this = URL(*address)
	}
	return err
}

func (this URL) Value() *url.URL {
	standard := url.URL(this)
	return &standard
}
