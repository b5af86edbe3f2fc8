// Package cosmos implements the audit record store on Azure Cosmos DB.
// Audit documents live in a single container partitioned by /customerId, so
// every read is served from one logical partition.
package cosmos

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/upb/claims-audit/config"
	"go.uber.org/zap"
)

// PartitionKeyPath is the document field the container is partitioned on
const PartitionKeyPath = "/customerId"

// Client holds the process-wide Cosmos DB clients
type Client struct {
	client    *azcosmos.Client
	database  *azcosmos.DatabaseClient
	container *azcosmos.ContainerClient
	cfg       config.CosmosConfig
	logger    *zap.Logger
}

// NewClient creates a Cosmos DB client authenticated with the account key
func NewClient(cfg config.CosmosConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" || cfg.Key == "" || cfg.DatabaseName == "" {
		return nil, fmt.Errorf("cosmos endpoint, key and database name are required")
	}

	credential, err := azcosmos.NewKeyCredential(cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cosmos DB credential: %w", err)
	}

	client, err := azcosmos.NewClientWithKey(cfg.Endpoint, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cosmos DB client: %w", err)
	}

	database, err := client.NewDatabase(cfg.DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %w", err)
	}

	container, err := database.NewContainer(cfg.ContainerName)
	if err != nil {
		return nil, fmt.Errorf("failed to create container client: %w", err)
	}

	return &Client{
		client:    client,
		database:  database,
		container: container,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// EnsureResources creates the database and the audit container when they are absent
func (c *Client) EnsureResources(ctx context.Context) error {
	_, err := c.client.CreateDatabase(ctx, azcosmos.DatabaseProperties{ID: c.cfg.DatabaseName}, nil)
	if err != nil && statusCode(err) != http.StatusConflict {
		return fmt.Errorf("failed to create database %s: %w", c.cfg.DatabaseName, err)
	}

	_, err = c.database.CreateContainer(ctx, azcosmos.ContainerProperties{
		ID: c.cfg.ContainerName,
		PartitionKeyDefinition: azcosmos.PartitionKeyDefinition{
			Paths: []string{PartitionKeyPath},
		},
	}, nil)
	if err != nil && statusCode(err) != http.StatusConflict {
		return fmt.Errorf("failed to create container %s: %w", c.cfg.ContainerName, err)
	}

	c.logger.Info("cosmos db setup completed",
		zap.String("database", c.cfg.DatabaseName),
		zap.String("container", c.cfg.ContainerName))
	return nil
}

// AuditRepository returns the audit record store backed by this client
func (c *Client) AuditRepository() *AuditRepository {
	return NewAuditRepository(c.container, c.database, c.logger)
}

// statusCode extracts the HTTP status of an Azure response error, or 0
func statusCode(err error) int {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}
