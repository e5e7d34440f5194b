package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxSeedLen bounds how much of a response body may be treated as a seed.
const maxSeedLen = 256

// RandomSeed fetches one alphanumeric string from the randomness service
// to seed the airdrop shuffle. The seed is published alongside the drop
// so the ordering stays auditable.
func RandomSeed(ctx context.Context, endpoint string, opts Options) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := newHTTPClient(opts).Do(req)
	if err != nil {
		return "", fmt.Errorf("randomness service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("randomness service returned %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSeedLen))
	if err != nil {
		return "", fmt.Errorf("randomness service: %w", err)
	}
	seed := strings.TrimSpace(string(body))
	seed = strings.Trim(seed, `"`)
	if seed == "" {
		return "", fmt.Errorf("randomness service returned an empty seed")
	}
	for _, c := range seed {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			continue
		}
		return "", fmt.Errorf("randomness service returned a non-alphanumeric seed")
	}
	return seed, nil
}
