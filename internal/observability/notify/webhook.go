package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const retryBackoffStep = 200 * time.Millisecond

// PostJSON delivers a JSON document to a webhook endpoint. retryLimit counts
// extra attempts beyond the first; retries back off linearly and stop as soon
// as the context is done. label names the destination in error messages.
func PostJSON(ctx context.Context, client *http.Client, url, label string, body []byte, retryLimit int) error {
	attempts := max(retryLimit, 0) + 1

	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			timer := time.NewTimer(time.Duration(attempt) * retryBackoffStep)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return ctx.Err()
			case <-timer.C:
			}
		}

		if lastErr = postOnce(ctx, client, url, label, body); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func postOnce(ctx context.Context, client *http.Client, url, label string, body []byte) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", label, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", label, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close %s response body: %w", label, closeErr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("read %s error response: %w", label, readErr)
		}
		return fmt.Errorf("%s returned %s: %s", label, resp.Status, strings.TrimSpace(string(detail)))
	}

	if _, drainErr := io.Copy(io.Discard, resp.Body); drainErr != nil {
		return fmt.Errorf("drain %s response body: %w", label, drainErr)
	}
	return nil
}
