// Package catalog discovers the set of mission IDs a run should attempt.
// The source is a non-contractual frontend asset, so extraction is
// best-effort: an empty result is a valid "no work" outcome, while an
// unreachable asset is an error.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
)

// Provider yields the ordered, de-duplicated ascending target set.
type Provider interface {
	Targets(ctx context.Context) ([]int, error)
}

// maxAssetBytes caps how much of the untrusted asset is read.
const maxAssetBytes = 8 << 20

var missionIDPattern = regexp.MustCompile(`mission_?[iI]d["']?\s*[:=]\s*["']?(\d+)`)

// AssetProvider extracts mission IDs out of a remote bundle.
type AssetProvider struct {
	client *http.Client
	url    string
}

func NewAssetProvider(client *http.Client, url string) *AssetProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &AssetProvider{client: client, url: url}
}

func (p *AssetProvider) Targets(ctx context.Context) ([]int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog asset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog asset status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, fmt.Errorf("read catalog asset: %w", err)
	}
	return Extract(string(body)), nil
}

// Extract pulls mission IDs from asset text, de-duplicated and ascending.
// Unparseable matches are skipped; no match yields an empty set.
func Extract(body string) []int {
	seen := map[int]struct{}{}
	for _, match := range missionIDPattern.FindAllStringSubmatch(body, -1) {
		id, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		seen[id] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Static is a fixed provider, mainly for tests and manual runs.
type Static []int

func (s Static) Targets(context.Context) ([]int, error) {
	seen := map[int]struct{}{}
	for _, id := range s {
		seen[id] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}
