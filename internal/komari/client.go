package komari

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrPrivateMode is returned when the instance answers 401: the operator
// has private mode enabled and the public API is locked down.
var ErrPrivateMode = errors.New("the instance has private mode enabled")

// httpClient is the process-wide client for all REST calls. Every
// request is bounded by the 5 second timeout; there are no retries.
var httpClient = &http.Client{Timeout: 5 * time.Second}

// envelope is the wrapper every Komari REST endpoint returns. Status
// must be the literal "success" or the payload is not trustworthy.
type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

// FetchNodes returns the node inventory from GET {base}/api/nodes.
func FetchNodes(baseURL string) ([]Node, error) {
	return fetch[[]Node](baseURL + "/api/nodes")
}

// FetchPublic returns site metadata from GET {base}/api/public.
func FetchPublic(baseURL string) (PublicInfo, error) {
	return fetch[PublicInfo](baseURL + "/api/public")
}

// FetchVersion returns the instance version from GET {base}/api/version.
func FetchVersion(baseURL string) (VersionInfo, error) {
	return fetch[VersionInfo](baseURL + "/api/version")
}

func fetch[T any](url string) (T, error) {
	var zero T

	resp, err := httpClient.Get(url)
	if err != nil {
		return zero, fmt.Errorf("cannot reach the instance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return zero, ErrPrivateMode
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, fmt.Errorf("the instance returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("reading response: %w", err)
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("decoding response: %w", err)
	}
	if env.Status != "success" {
		return zero, fmt.Errorf("the instance returned status %q", env.Status)
	}
	return env.Data, nil
}
