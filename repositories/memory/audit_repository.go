// Package memory provides an in-process AuditRecordRepository for local
// development and tests. Records are lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/upb/claims-audit/models"
	"github.com/upb/claims-audit/repositories"
)

const databaseName = "memory"

// AuditRepository stores documents per customer partition
type AuditRepository struct {
	mu         sync.RWMutex
	partitions map[string]map[string]models.AuditDocument
}

// NewAuditRepository creates an empty repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{
		partitions: make(map[string]map[string]models.AuditDocument),
	}
}

func (r *AuditRepository) Create(ctx context.Context, record *models.AuditRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := record.ToDocument()

	r.mu.Lock()
	defer r.mu.Unlock()

	partition, ok := r.partitions[doc.CustomerID]
	if !ok {
		partition = make(map[string]models.AuditDocument)
		r.partitions[doc.CustomerID] = partition
	}
	if _, exists := partition[doc.ID]; exists {
		return fmt.Errorf("audit record %s: %w", doc.ID, repositories.ErrAlreadyExists)
	}
	partition[doc.ID] = doc
	return nil
}

func (r *AuditRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.AuditRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	docs := make([]models.AuditDocument, 0, len(r.partitions[customerID]))
	for _, doc := range r.partitions[customerID] {
		if doc.Type == models.RecordTypeAudit {
			docs = append(docs, doc)
		}
	}
	r.mu.RUnlock()

	// map iteration is random, id breaks timestamp ties
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Timestamp != docs[j].Timestamp {
			return docs[i].Timestamp < docs[j].Timestamp
		}
		return docs[i].ID < docs[j].ID
	})

	records := make([]*models.AuditRecord, len(docs))
	for i, doc := range docs {
		records[i] = models.FromDocument(doc, time.Now())
	}
	return records, nil
}

func (r *AuditRepository) Ping(ctx context.Context) (repositories.ConnectionInfo, error) {
	if err := ctx.Err(); err != nil {
		return repositories.ConnectionInfo{}, err
	}
	return repositories.ConnectionInfo{DatabaseName: databaseName}, nil
}

func (r *AuditRepository) Close() error {
	return nil
}

// Put stores a raw document without conflict checks; it lets tests seed
// documents of other kinds or with arbitrary timestamps.
func (r *AuditRepository) Put(doc models.AuditDocument) {
	r.mu.Lock()
	defer r.mu.Unlock()

	partition, ok := r.partitions[doc.CustomerID]
	if !ok {
		partition = make(map[string]models.AuditDocument)
		r.partitions[doc.CustomerID] = partition
	}
	partition[doc.ID] = doc
}
