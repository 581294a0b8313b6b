package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/svce-events/attendance-report/internal/domain/analytics"
)

const maxPayloadBytes = 16 << 20

// AnalyticsClient reads datasets from the events platform's analytics API.
type AnalyticsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAnalyticsClient(baseURL string, timeout time.Duration) analytics.DatasetSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AnalyticsClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetDataset calls GET {base}/api/v1/analytics/{eventID}. Every failure,
// whether transport, status or decoding, is analytics.ErrDataUnavailable.
func (c *AnalyticsClient) GetDataset(ctx context.Context, eventID string) (*analytics.AttendanceDataset, error) {
	endpoint := c.baseURL + "/api/v1/analytics/" + url.PathEscape(eventID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", analytics.ErrDataUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analytics.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: upstream status %d", analytics.ErrDataUnavailable, resp.StatusCode)
	}

	var payload analytics.EventAnalyticsPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", analytics.ErrDataUnavailable, err)
	}

	return payload.ToDataset(eventID), nil
}
