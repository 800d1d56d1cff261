package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// QdrantIndex is a minimal REST client for Qdrant.
type QdrantIndex struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

func NewQdrantIndex(cfg QdrantConfig) *QdrantIndex {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}
	return &QdrantIndex{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection unless it already exists.
func (q *QdrantIndex) EnsureCollection(ctx context.Context, dimension int, distance string) error {
	if dimension <= 0 {
		return ErrInvalidDimension
	}
	if distance == "" {
		distance = DistanceCosine
	}

	status, err := q.do(ctx, http.MethodGet, q.collectionURL(""), nil, nil)
	if err == nil && status == http.StatusOK {
		return nil
	}
	if status != http.StatusNotFound && err != nil {
		return err
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": distance,
		},
	}
	_, err = q.do(ctx, http.MethodPut, q.collectionURL(""), body, nil)
	return err
}

func (q *QdrantIndex) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	wire := make([]map[string]any, len(points))
	for i, p := range points {
		wire[i] = map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		}
	}
	_, err := q.do(ctx, http.MethodPut, q.collectionURL("/points?wait=true"), map[string]any{"points": wire}, nil)
	return err
}

type qdrantSearchResponse struct {
	Result []struct {
		ID      uint64  `json:"id"`
		Score   float64 `json:"score"`
		Payload Payload `json:"payload"`
	} `json:"result"`
}

func (q *QdrantIndex) Search(ctx context.Context, vector []float32, limit int, filter Filter) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	if filter.Role != "" {
		req["filter"] = map[string]any{
			"must": []map[string]any{
				{"key": "role", "match": map[string]any{"value": filter.Role}},
			},
		}
	}

	var resp qdrantSearchResponse
	if _, err := q.do(ctx, http.MethodPost, q.collectionURL("/points/search"), req, &resp); err != nil {
		return nil, err
	}

	hits := make([]Hit, len(resp.Result))
	for i, r := range resp.Result {
		hits[i] = Hit{ID: r.ID, Score: r.Score, Payload: r.Payload}
	}
	return hits, nil
}

func (q *QdrantIndex) Delete(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := q.do(ctx, http.MethodPost, q.collectionURL("/points/delete?wait=true"), map[string]any{"points": ids}, nil)
	return err
}

func (q *QdrantIndex) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", q.url, q.collection, suffix)
}

// do sends body as JSON and decodes the response into out when non-nil.
// The status code is returned even when the request fails.
func (q *QdrantIndex) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("qdrant %s %s failed: %s: %s", method, url, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("qdrant decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
