package featureapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/02loveslollipop/building-feature-engineering/services/featurize/internal/models"
)

var transformPaths = map[string]string{
	"diff":   "/diff",
	"minmax": "/normalize/minmax",
	"mean":   "/normalize/mean",
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status  string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %s", e.Status)
	}
	return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Message)
}

// Transform posts payload to the API and returns the encoded buildings.
func Transform(ctx context.Context, client *http.Client, baseURL, transform, payload string) (string, error) {
	path, ok := transformPaths[transform]
	if !ok {
		return "", fmt.Errorf("unknown transform %q", transform)
	}

	body, err := json.Marshal(models.TransformRequest{Payload: payload})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(baseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", transform, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return "", &StatusError{Status: resp.Status, Code: resp.StatusCode, Message: apiErr.Error}
	}

	var encoded string
	if err := json.NewDecoder(resp.Body).Decode(&encoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return encoded, nil
}
