package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
)

type Query struct {
	Text string
	// UserID restricts hits to one owner when non-zero.
	UserID uint
	From   int
	Size   int
}

func Search(ctx context.Context, es *elasticsearch.Client, index string, q Query) (int64, []Document, error) {
	must := []any{
		map[string]any{
			"multi_match": map[string]any{
				"query":  q.Text,
				"fields": []string{"order_number^2", "status", "last_event"},
			},
		},
	}
	boolQuery := map[string]any{"must": must}
	if q.UserID != 0 {
		boolQuery["filter"] = []any{map[string]any{"term": map[string]any{"user_id": q.UserID}}}
	}

	body := map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"from":  q.From,
		"size":  q.Size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search encode: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search decode: %w", err)
	}

	docs := make([]Document, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
