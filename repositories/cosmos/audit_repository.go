package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/upb/claims-audit/models"
	"github.com/upb/claims-audit/repositories"
	"go.uber.org/zap"
)

const listByCustomerQuery = "SELECT * FROM c WHERE c.customerId = @customer_id AND c.type = @type ORDER BY c.timestamp ASC"

// itemContainer is the subset of *azcosmos.ContainerClient used by the repository
type itemContainer interface {
	CreateItem(ctx context.Context, partitionKey azcosmos.PartitionKey, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	NewQueryItemsPager(query string, partitionKey azcosmos.PartitionKey, o *azcosmos.QueryOptions) *runtime.Pager[azcosmos.QueryItemsResponse]
}

// databaseReader is the subset of *azcosmos.DatabaseClient used for health probes
type databaseReader interface {
	Read(ctx context.Context, o *azcosmos.ReadDatabaseOptions) (azcosmos.DatabaseResponse, error)
}

// AuditRepository implements repositories.AuditRecordRepository on a Cosmos container
type AuditRepository struct {
	container itemContainer
	database  databaseReader
	logger    *zap.Logger
}

// NewAuditRepository creates a repository over the given container
func NewAuditRepository(container itemContainer, database databaseReader, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{
		container: container,
		database:  database,
		logger:    logger,
	}
}

// Create writes the document under its own id; Cosmos never assigns ids itself
func (r *AuditRepository) Create(ctx context.Context, record *models.AuditRecord) error {
	doc := record.ToDocument()
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode audit record: %w", err)
	}

	_, err = r.container.CreateItem(ctx, azcosmos.NewPartitionKeyString(doc.CustomerID), body, nil)
	if err != nil {
		if statusCode(err) == http.StatusConflict {
			return fmt.Errorf("audit record %s: %w", doc.ID, repositories.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create audit record: %w", err)
	}

	r.logger.Debug("audit record created", zap.String("id", doc.ID))
	return nil
}

// ListByCustomer queries a single partition and drains the result pages
func (r *AuditRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.AuditRecord, error) {
	pager := r.container.NewQueryItemsPager(listByCustomerQuery, azcosmos.NewPartitionKeyString(customerID), &azcosmos.QueryOptions{
		QueryParameters: []azcosmos.QueryParameter{
			{Name: "@customer_id", Value: customerID},
			{Name: "@type", Value: models.RecordTypeAudit},
		},
	})

	now := time.Now()
	records := make([]*models.AuditRecord, 0)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query audit records: %w", err)
		}
		for _, item := range page.Items {
			var doc models.AuditDocument
			if err := json.Unmarshal(item, &doc); err != nil {
				return nil, fmt.Errorf("failed to decode audit record: %w", err)
			}
			records = append(records, models.FromDocument(doc, now))
		}
	}

	return records, nil
}

// Ping reads the database properties
func (r *AuditRepository) Ping(ctx context.Context) (repositories.ConnectionInfo, error) {
	resp, err := r.database.Read(ctx, nil)
	if err != nil {
		return repositories.ConnectionInfo{}, fmt.Errorf("failed to read database: %w", err)
	}

	info := repositories.ConnectionInfo{}
	if resp.DatabaseProperties != nil {
		info.DatabaseName = resp.DatabaseProperties.ID
	}
	return info, nil
}

// Close is a no-op; the SDK client holds no closable resources
func (r *AuditRepository) Close() error {
	return nil
}
