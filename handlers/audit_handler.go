package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/upb/claims-audit/middleware"
	"github.com/upb/claims-audit/models"
	"github.com/upb/claims-audit/utils"
	"go.uber.org/zap"
)

// maxRequestBodyBytes bounds the POST /audit body
const maxRequestBodyBytes = 1 << 20

// AuditService defines the audit operations the handler depends on
type AuditService interface {
	// Submit records a new audit event
	Submit(ctx context.Context, req models.AuditRecordRequest) (*models.AuditRecord, error)

	// ListByCustomer returns a customer's audit events ordered by timestamp
	ListByCustomer(ctx context.Context, customerID string) ([]*models.AuditRecord, error)
}

// CreateAuditResponse is the body of a successful POST /audit
type CreateAuditResponse struct {
	Message string                     `json:"message"`
	Record  models.AuditRecordResponse `json:"record"`
}

// ListAuditResponse is the body of a successful GET /audit/{customer_id}
type ListAuditResponse struct {
	Records []models.AuditRecordResponse `json:"records"`
}

// AuditHandler handles audit record HTTP requests
type AuditHandler struct {
	service AuditService
	logger  *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate handles POST /audit
func (h *AuditHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req models.AuditRecordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			HandleValidationError(w, &utils.ValidationError{
				Message: "Validation failed",
				Fields:  map[string]string{typeErr.Field: fmt.Sprintf("%s must be a string", typeErr.Field)},
			}, h.logger)
			return
		}
		var sizeErr *http.MaxBytesError
		if errors.As(err, &sizeErr) {
			_ = utils.WriteRequestEntityTooLarge(w,
				fmt.Sprintf("Request body exceeds %d bytes", sizeErr.Limit))
			return
		}
		h.logger.Debug("invalid request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	record, err := h.service.Submit(ctx, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, CreateAuditResponse{
		Message: "Audit record created successfully",
		Record:  record.ToResponse(),
	}); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// HandleListByCustomer handles GET /audit/{customer_id}
func (h *AuditHandler) HandleListByCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	customerID := chi.URLParam(r, "customer_id")
	// chi routes on RawPath when it is set, leaving the parameter escaped
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(customerID)
		if err != nil {
			_ = utils.WriteBadRequest(w, "Invalid customer id", nil)
			return
		}
		customerID = unescaped
	}

	records, err := h.service.ListByCustomer(ctx, customerID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	response := ListAuditResponse{Records: make([]models.AuditRecordResponse, 0, len(records))}
	for _, record := range records {
		response.Records = append(response.Records, record.ToResponse())
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", middleware.GetRequestIDFromContext(ctx)),
			zap.Error(err))
	}
}

// decodeJSON decodes a single JSON value from the request body
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
