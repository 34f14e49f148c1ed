package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/lingomap/lingomap/internal/logging"
)

// Fetch issues the one-shot boundary download performed when the map
// starts. Failures are logged and reported; callers do not retry.
func Fetch(ctx context.Context, client *http.Client, url string, log logging.Logger) ([]Country, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Error(ctx, "fetch country boundaries", "url", url, "err", err)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		log.Error(ctx, "fetch country boundaries", "url", url, "err", err)
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(ctx, "read country boundaries", "url", url, "err", err)
		return nil, err
	}
	fc, err := ParseCollection(body)
	if err != nil {
		log.Error(ctx, "parse country boundaries", "url", url, "err", err)
		return nil, err
	}
	return fc.Countries(), nil
}
