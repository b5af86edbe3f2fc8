package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/upb/claims-audit/models"
	"github.com/upb/claims-audit/repositories"
	"go.uber.org/zap"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate key
const uniqueViolation = "23505"

// AuditRepository implements repositories.AuditRecordRepository on a JSONB
// document table. customer_id plays the role of the partition key.
type AuditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new audit document
func (r *AuditRepository) Create(ctx context.Context, record *models.AuditRecord) error {
	doc := record.ToDocument()
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode audit record: %w", err)
	}

	query := `
		INSERT INTO audit_records (id, customer_id, record_type, timestamp, document)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.ExecContext(ctx, query, doc.ID, doc.CustomerID, doc.Type, doc.Timestamp, string(body))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("audit record %s: %w", doc.ID, repositories.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert audit record: %w", err)
	}

	r.logger.Debug("audit record inserted", zap.String("id", doc.ID))
	return nil
}

// ListByCustomer retrieves a customer's audit records ordered by timestamp
func (r *AuditRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.AuditRecord, error) {
	query := `
		SELECT document
		FROM audit_records
		WHERE customer_id = $1 AND record_type = $2
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, customerID, models.RecordTypeAudit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	records := make([]*models.AuditRecord, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		var doc models.AuditDocument
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode audit record: %w", err)
		}
		records = append(records, models.FromDocument(doc, now))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit records: %w", err)
	}

	return records, nil
}

// Ping checks connectivity and reports the current database name
func (r *AuditRepository) Ping(ctx context.Context) (repositories.ConnectionInfo, error) {
	if err := r.db.PingContext(ctx); err != nil {
		return repositories.ConnectionInfo{}, fmt.Errorf("database ping failed: %w", err)
	}

	var name string
	if err := r.db.QueryRowContext(ctx, "SELECT current_database()").Scan(&name); err != nil {
		return repositories.ConnectionInfo{}, fmt.Errorf("database query check failed: %w", err)
	}

	return repositories.ConnectionInfo{DatabaseName: name}, nil
}

// Close closes the underlying pool
func (r *AuditRepository) Close() error {
	return r.db.Close()
}
