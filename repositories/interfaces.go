package repositories

import (
	"context"
	"errors"

	"github.com/upb/claims-audit/models"
)

// ErrAlreadyExists is returned by Create when a document with the same id
// already exists in the partition
var ErrAlreadyExists = errors.New("document already exists")

// ConnectionInfo describes the outcome of a connectivity probe
type ConnectionInfo struct {
	DatabaseName string
}

// AuditRecordRepository handles audit record storage operations.
// Implementations partition documents by customer id.
type AuditRecordRepository interface {
	// Create stores a new record using its own document id.
	// Returns ErrAlreadyExists (wrapped) on a duplicate id.
	Create(ctx context.Context, record *models.AuditRecord) error

	// ListByCustomer returns every audit record in the customer's partition
	// ordered by timestamp ascending
	ListByCustomer(ctx context.Context, customerID string) ([]*models.AuditRecord, error)

	// Ping checks connectivity to the database
	Ping(ctx context.Context) (ConnectionInfo, error)

	// Close releases the underlying client
	Close() error
}

// IsAlreadyExists reports whether err signals a duplicate document id
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
