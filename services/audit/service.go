// Package audit implements the claim audit operations behind the HTTP API:
// recording an audit event, listing a customer's events and probing storage health.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/claims-audit/models"
	"github.com/upb/claims-audit/repositories"
	"github.com/upb/claims-audit/services"
	"go.uber.org/zap"
)

// Health and database states reported by Health
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
	DatabaseError        = "error"
)

// Metrics receives service-level counters
type Metrics interface {
	IncrementRecordsCreated()
	RecordStorageError(operation, kind string)
}

// HealthReport is the outcome of a health probe
type HealthReport struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	Database     string `json:"database"`
	DatabaseName string `json:"database_name,omitempty"`
	Environment  string `json:"environment"`
	Error        string `json:"error,omitempty"`
}

// Service handles audit record operations
type Service struct {
	repo        repositories.AuditRecordRepository
	metrics     Metrics
	logger      *zap.Logger
	environment string
	now         func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the wall clock used to stamp records
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMetrics attaches a metrics recorder
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a new audit Service
func NewService(repo repositories.AuditRecordRepository, environment string, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		logger:      logger,
		environment: environment,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit builds an audit record from a validated request and persists it
func (s *Service) Submit(ctx context.Context, req models.AuditRecordRequest) (*models.AuditRecord, error) {
	record := models.NewAuditRecord(req, s.now())

	if err := s.repo.Create(ctx, record); err != nil {
		if repositories.IsAlreadyExists(err) {
			s.recordStorageError("create", "conflict")
			s.logger.Warn("duplicate audit record",
				zap.String("document_id", record.DocumentID),
				zap.Error(err))
			return nil, services.NewDomainError(services.ErrorTypeConflict, "Audit record already exists", err)
		}
		s.recordStorageError("create", "fault")
		s.logger.Error("failed to create audit record",
			zap.String("customer_id", record.CustomerID),
			zap.Error(err))
		return nil, services.WrapInternal(fmt.Sprintf("Database error: %v", err), err)
	}

	if s.metrics != nil {
		s.metrics.IncrementRecordsCreated()
	}
	s.logger.Info("created audit record",
		zap.String("audit_id", record.AuditID),
		zap.String("customer_id", record.CustomerID))

	return record, nil
}

// ListByCustomer returns the customer's records ordered by timestamp.
// Zero records is reported as not found.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]*models.AuditRecord, error) {
	records, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.recordStorageError("list", "fault")
		s.logger.Error("failed to retrieve audit records",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return nil, services.WrapInternal(fmt.Sprintf("Database error: %v", err), err)
	}

	if len(records) == 0 {
		return nil, services.NewDomainError(services.ErrorTypeNotFound,
			fmt.Sprintf("No audit records found for customer: %s", customerID), nil)
	}

	s.logger.Info("retrieved audit records",
		zap.Int("count", len(records)),
		zap.String("customer_id", customerID))

	return records, nil
}

// Health probes the storage connection. It never fails: probe errors and
// panics are reported in the returned report.
func (s *Service) Health(ctx context.Context) (report HealthReport) {
	report = HealthReport{
		Status:      StatusUnhealthy,
		Timestamp:   models.FormatTimestamp(s.now()),
		Database:    DatabaseDisconnected,
		Environment: s.environment,
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("health check failed", zap.Any("panic", r))
			report.Status = StatusUnhealthy
			report.Database = DatabaseError
			report.DatabaseName = ""
			report.Error = fmt.Sprint(r)
		}
	}()

	info, err := s.repo.Ping(ctx)
	if err != nil {
		s.logger.Warn("database health check failed", zap.Error(err))
		report.Error = err.Error()
		return report
	}

	report.Status = StatusHealthy
	report.Database = DatabaseConnected
	report.DatabaseName = info.DatabaseName
	return report
}

func (s *Service) recordStorageError(operation, kind string) {
	if s.metrics != nil {
		s.metrics.RecordStorageError(operation, kind)
	}
}
