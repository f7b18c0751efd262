package search

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

const auditMapping = `{
	"mappings": {
		"properties": {
			"eventId": { "type": "keyword" },
			"type": { "type": "keyword" },
			"storeId": { "type": "long" },
			"productId": { "type": "long" },
			"quantity": { "type": "long" },
			"quantityChange": { "type": "long" },
			"referenceId": { "type": "keyword" },
			"transactionId": { "type": "keyword" },
			"resultingQuantity": { "type": "long" },
			"version": { "type": "long" },
			"timestamp": { "type": "date" }
		}
	}
}`

// AuditIndexer mirrors movements into a search index. Documents are keyed by
// event id, so redelivery overwrites instead of duplicating.
type AuditIndexer struct {
	client *Client
	index  string
}

func NewAuditIndexer(client *Client, index string) *AuditIndexer {
	return &AuditIndexer{client: client, index: index}
}

func (a *AuditIndexer) EnsureIndex(ctx context.Context) error {
	return a.client.CreateIndex(ctx, a.index, auditMapping)
}

func (a *AuditIndexer) Name() string {
	return "search-audit-indexer"
}

func (a *AuditIndexer) Handle(ctx context.Context, ev model.InventoryEvent) error {
	return a.client.Index(ctx, a.index, ev.EventID, ev)
}
