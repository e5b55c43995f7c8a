package core

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/smartystreets/logging"

	"github.com/smarty/dcspkg/contracts"
)

func get(ctx context.Context, client contracts.HTTPClient, address *url.URL, logger *logging.Logger) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, address.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contracts.ErrURL, err)
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: request to %s failed: %w", contracts.ErrNetwork, address, err)
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		_ = response.Body.Close()
		logger.Printf("[WARN] Unexpected status code from %s: %s", address, response.Status)
		return nil, fmt.Errorf("%w: unexpected status code from %s: %s", contracts.ErrNetwork, address, response.Status)
	}
	return response, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
