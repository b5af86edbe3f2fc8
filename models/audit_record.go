package models

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProcessStatus represents the state of the claim process step being audited
type ProcessStatus string

const (
	ProcessStatusPending    ProcessStatus = "pending"
	ProcessStatusInProgress ProcessStatus = "in_progress"
	ProcessStatusCompleted  ProcessStatus = "completed"
	ProcessStatusFailed     ProcessStatus = "failed"
	ProcessStatusCancelled  ProcessStatus = "cancelled"
)

// ProcessStatuses lists the accepted process statuses
var ProcessStatuses = []ProcessStatus{
	ProcessStatusPending,
	ProcessStatusInProgress,
	ProcessStatusCompleted,
	ProcessStatusFailed,
	ProcessStatusCancelled,
}

// Valid reports whether s is one of the known process statuses
func (s ProcessStatus) Valid() bool {
	return slices.Contains(ProcessStatuses, s)
}

const (
	// RecordTypeAudit discriminates audit records from other document kinds in the collection
	RecordTypeAudit = "audit_record"

	auditIDPrefix        = "AUD"
	auditIDLayout        = "20060102150405"
	timestampLayout      = "2006-01-02T15:04:05.000000Z"
	shortClaimPrefix     = "CUST_"
	customerIDPrefixSize = 6
)

// AuditRecord is one immutable audit entry describing a process step taken on a claim
type AuditRecord struct {
	DocumentID     string
	AuditID        string
	ClaimID        string
	CustomerID     string
	CustomerName   string
	ProcessName    string
	ProcessStatus  ProcessStatus
	ProcessDetails string
	AgentName      string
	Timestamp      string
	CreatedAt      string
	UpdatedAt      string
	RecordType     string
}

// AuditDocument is the flat document persisted by the storage layer.
// customerId is the partition key and id the primary key.
type AuditDocument struct {
	ID             string `json:"id"`
	AuditID        string `json:"audit_id"`
	ClaimID        string `json:"claim_id"`
	CustomerID     string `json:"customerId"`
	CustomerName   string `json:"customer_name"`
	ProcessName    string `json:"process_name"`
	ProcessStatus  string `json:"process_status"`
	ProcessDetails string `json:"process_details"`
	AgentName      string `json:"agent_name"`
	Timestamp      string `json:"timestamp,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
	Type           string `json:"type"`
}

// AuditRecordRequest is the body of POST /audit.
// Fields are pointers so that a missing field can be told apart from an empty one.
type AuditRecordRequest struct {
	ClaimID        *string `json:"claim_id" validate:"required"`
	CustomerName   *string `json:"customer_name" validate:"required"`
	ProcessName    *string `json:"process_name" validate:"required"`
	ProcessStatus  *string `json:"process_status" validate:"required,process_status"`
	ProcessDetails *string `json:"process_details" validate:"required"`
	AgentName      *string `json:"agent_name" validate:"required"`
}

// AuditRecordResponse is the wire projection of an AuditRecord
type AuditRecordResponse struct {
	AuditID        string `json:"audit_id"`
	ClaimID        string `json:"claim_id"`
	CustomerID     string `json:"customer_id"`
	CustomerName   string `json:"customer_name"`
	ProcessName    string `json:"process_name"`
	ProcessStatus  string `json:"process_status"`
	ProcessDetails string `json:"process_details"`
	AgentName      string `json:"agent_name"`
	Timestamp      string `json:"timestamp"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// ExtractCustomerID derives the customer identifier from a claim identifier.
//
// The prefix before the first underscore wins; otherwise the first six
// characters upper-cased with full case mapping (ß becomes SS); otherwise the claim id prefixed with "CUST_".
func ExtractCustomerID(claimID string) string {
	if prefix, _, found := strings.Cut(claimID, "_"); found {
		return prefix
	}
	if utf8.RuneCountInString(claimID) >= customerIDPrefixSize {
		return cases.Upper(language.Und).String(string([]rune(claimID)[:customerIDPrefixSize]))
	}
	return shortClaimPrefix + claimID
}

// AuditID returns the audit identifier for an instant (one-second granularity)
func AuditID(t time.Time) string {
	return auditIDPrefix + t.UTC().Format(auditIDLayout)
}

// DocumentID composes the storage primary key
func DocumentID(customerID, auditID string) string {
	return customerID + "_" + auditID
}

// FormatTimestamp renders t as fixed-width ISO-8601 UTC with a trailing Z
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// NewAuditRecord builds a fully populated record from a validated request
func NewAuditRecord(req AuditRecordRequest, now time.Time) *AuditRecord {
	claimID := deref(req.ClaimID)
	customerID := ExtractCustomerID(claimID)
	auditID := AuditID(now)
	ts := FormatTimestamp(now)

	return &AuditRecord{
		DocumentID:     DocumentID(customerID, auditID),
		AuditID:        auditID,
		ClaimID:        claimID,
		CustomerID:     customerID,
		CustomerName:   deref(req.CustomerName),
		ProcessName:    deref(req.ProcessName),
		ProcessStatus:  ProcessStatus(deref(req.ProcessStatus)),
		ProcessDetails: deref(req.ProcessDetails),
		AgentName:      deref(req.AgentName),
		Timestamp:      ts,
		CreatedAt:      ts,
		UpdatedAt:      ts,
		RecordType:     RecordTypeAudit,
	}
}

// ToDocument maps the record to its storage representation
func (r *AuditRecord) ToDocument() AuditDocument {
	return AuditDocument{
		ID:             r.DocumentID,
		AuditID:        r.AuditID,
		ClaimID:        r.ClaimID,
		CustomerID:     r.CustomerID,
		CustomerName:   r.CustomerName,
		ProcessName:    r.ProcessName,
		ProcessStatus:  string(r.ProcessStatus),
		ProcessDetails: r.ProcessDetails,
		AgentName:      r.AgentName,
		Timestamp:      r.Timestamp,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Type:           r.RecordType,
	}
}

// FromDocument rebuilds a record from storage. Missing timestamps fall back to now.
func FromDocument(doc AuditDocument, now time.Time) *AuditRecord {
	fallback := FormatTimestamp(now)

	r := &AuditRecord{
		DocumentID:     doc.ID,
		AuditID:        doc.AuditID,
		ClaimID:        doc.ClaimID,
		CustomerID:     doc.CustomerID,
		CustomerName:   doc.CustomerName,
		ProcessName:    doc.ProcessName,
		ProcessStatus:  ProcessStatus(doc.ProcessStatus),
		ProcessDetails: doc.ProcessDetails,
		AgentName:      doc.AgentName,
		Timestamp:      orDefault(doc.Timestamp, fallback),
		CreatedAt:      orDefault(doc.CreatedAt, fallback),
		UpdatedAt:      orDefault(doc.UpdatedAt, fallback),
		RecordType:     orDefault(doc.Type, RecordTypeAudit),
	}
	if r.DocumentID == "" {
		r.DocumentID = DocumentID(r.CustomerID, r.AuditID)
	}
	return r
}

// ToResponse returns the wire projection of the record
func (r *AuditRecord) ToResponse() AuditRecordResponse {
	return AuditRecordResponse{
		AuditID:        r.AuditID,
		ClaimID:        r.ClaimID,
		CustomerID:     r.CustomerID,
		CustomerName:   r.CustomerName,
		ProcessName:    r.ProcessName,
		ProcessStatus:  string(r.ProcessStatus),
		ProcessDetails: r.ProcessDetails,
		AgentName:      r.AgentName,
		Timestamp:      r.Timestamp,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
