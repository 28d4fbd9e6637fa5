// Package search mirrors orders into Elasticsearch from order events and
// queries that mirror.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/shop_orders/services/order/internal/events"
)

const DefaultIndex = "orders"

type Document struct {
	OrderID          uint   `json:"order_id"`
	OrderNumber      string `json:"order_number"`
	UserID           uint   `json:"user_id"`
	Status           string `json:"status"`
	TotalAmount      string `json:"total_amount"`
	LastRefundAmount string `json:"last_refund_amount,omitempty"`
	LastEvent        string `json:"last_event"`
	UpdatedAt        string `json:"updated_at"`
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return client, nil
}

// Indexer is an event sink that upserts one document per order.
type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func (i *Indexer) Name() string { return "search" }

func (i *Indexer) index() string {
	if i.Index == "" {
		return DefaultIndex
	}
	return i.Index
}

// fields holds only what ev knows, so a partial update never blanks a field
// set by an earlier event.
func fields(ev events.Event) map[string]any {
	doc := map[string]any{
		"order_id":   ev.OrderID,
		"user_id":    ev.UserID,
		"last_event": string(ev.Type),
		"updated_at": ev.OccurredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if ev.OrderNumber != "" {
		doc["order_number"] = ev.OrderNumber
	}
	if ev.Status != "" {
		doc["status"] = ev.Status
	}
	if ev.Type == events.OrderRefunded {
		doc["last_refund_amount"] = ev.Amount.StringFixed(2)
	} else {
		doc["total_amount"] = ev.Amount.StringFixed(2)
	}
	return doc
}

func (i *Indexer) Handle(ctx context.Context, ev events.Event) error {
	var buf bytes.Buffer
	body := map[string]any{"doc": fields(ev), "doc_as_upsert": true}
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return fmt.Errorf("encode order document: %w", err)
	}

	res, err := i.ES.Update(i.index(), strconv.FormatUint(uint64(ev.OrderID), 10), &buf,
		i.ES.Update.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index order %d: %w", ev.OrderID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index order %d: %s: %s", ev.OrderID, res.Status(), msg)
	}
	return nil
}
