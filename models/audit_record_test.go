package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testRequest(claimID string) AuditRecordRequest {
	return AuditRecordRequest{
		ClaimID:        strPtr(claimID),
		CustomerName:   strPtr("Jane Doe"),
		ProcessName:    strPtr("document_review"),
		ProcessStatus:  strPtr("in_progress"),
		ProcessDetails: strPtr("Reviewing submitted receipts"),
		AgentName:      strPtr("agent-7"),
	}
}

func TestExtractCustomerID(t *testing.T) {
	tests := []struct {
		name    string
		claimID string
		want    string
	}{
		{"prefix before underscore", "ABC123_XYZ", "ABC123"},
		{"only first underscore counts", "a_b_c", "a"},
		{"leading underscore gives empty prefix", "_CLAIM", ""},
		{"underscore wins over length rule", "abcdefgh_1", "abcdefgh"},
		{"long claim is truncated and upper-cased", "CL4567890", "CL4567"},
		{"lower-case long claim", "claim99", "CLAIM9"},
		{"exactly six characters", "abc123", "ABC123"},
		{"short claim gets prefix", "A1", "CUST_A1"},
		{"five characters", "abcde", "CUST_abcde"},
		{"empty claim", "", "CUST_"},
		{"multi-byte characters counted as runes", "ñandú-claim", "ÑANDÚ-"},
		{"full case mapping expands sharp s", "straße1", "STRASSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCustomerID(tt.claimID))
		})
	}
}

func TestAuditIDAndDocumentID(t *testing.T) {
	now := time.Date(2025, 3, 9, 14, 5, 7, 123000000, time.UTC)

	t.Run("audit id has second granularity", func(t *testing.T) {
		assert.Equal(t, "AUD20250309140507", AuditID(now))
		assert.Equal(t, AuditID(now), AuditID(now.Add(500*time.Millisecond)))
	})

	t.Run("audit id uses UTC", func(t *testing.T) {
		loc := time.FixedZone("UTC-3", -3*60*60)
		assert.Equal(t, "AUD20250309140507", AuditID(now.In(loc)))
	})

	t.Run("document id is deterministic", func(t *testing.T) {
		a := NewAuditRecord(testRequest("CUST1_001"), now)
		b := NewAuditRecord(testRequest("CUST1_002"), now)

		assert.Equal(t, "CUST1_AUD20250309140507", a.DocumentID)
		assert.Equal(t, a.DocumentID, b.DocumentID)
		assert.Equal(t, a.CustomerID+"_"+a.AuditID, a.DocumentID)
	})
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "2025-03-09T14:05:07.000000Z", FormatTimestamp(time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)))
	assert.Equal(t, "2025-03-09T14:05:07.123456Z", FormatTimestamp(time.Date(2025, 3, 9, 14, 5, 7, 123456789, time.UTC)))
}

func TestNewAuditRecord(t *testing.T) {
	now := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)
	record := NewAuditRecord(testRequest("CUST1_001"), now)

	assert.Equal(t, "CUST1", record.CustomerID)
	assert.Equal(t, "CUST1_001", record.ClaimID)
	assert.Equal(t, "Jane Doe", record.CustomerName)
	assert.Equal(t, "document_review", record.ProcessName)
	assert.Equal(t, ProcessStatusInProgress, record.ProcessStatus)
	assert.Equal(t, "Reviewing submitted receipts", record.ProcessDetails)
	assert.Equal(t, "agent-7", record.AgentName)
	assert.Equal(t, RecordTypeAudit, record.RecordType)

	assert.Equal(t, "2025-03-09T14:05:07.000000Z", record.Timestamp)
	assert.Equal(t, record.Timestamp, record.CreatedAt)
	assert.Equal(t, record.Timestamp, record.UpdatedAt)
}

func TestAuditRecord_DocumentRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 9, 14, 5, 7, 42000, time.UTC)
	original := NewAuditRecord(testRequest("ABC123_XYZ"), now)

	t.Run("in memory", func(t *testing.T) {
		restored := FromDocument(original.ToDocument(), now.Add(time.Hour))
		assert.Equal(t, original, restored)
	})

	t.Run("through JSON", func(t *testing.T) {
		data, err := json.Marshal(original.ToDocument())
		require.NoError(t, err)

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, original.CustomerID, raw["customerId"])
		assert.Equal(t, original.DocumentID, raw["id"])
		assert.Equal(t, RecordTypeAudit, raw["type"])
		assert.NotContains(t, raw, "customer_id")

		var doc AuditDocument
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, original, FromDocument(doc, now.Add(time.Hour)))
	})
}

func TestFromDocument_Defaults(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := AuditDocument{
		AuditID:       "AUD20250101000000",
		ClaimID:       "CUST9_1",
		CustomerID:    "CUST9",
		ProcessStatus: "escalated",
		Timestamp:     "2025-01-01T00:00:00.000000Z",
	}

	record := FromDocument(doc, now)

	assert.Equal(t, "2025-01-01T00:00:00.000000Z", record.Timestamp)
	assert.Equal(t, "2025-01-02T03:04:05.000000Z", record.CreatedAt)
	assert.Equal(t, "2025-01-02T03:04:05.000000Z", record.UpdatedAt)
	assert.Equal(t, "CUST9_AUD20250101000000", record.DocumentID)
	assert.Equal(t, RecordTypeAudit, record.RecordType)
	assert.Equal(t, ProcessStatus("escalated"), record.ProcessStatus)
}

func TestAuditRecord_ToResponse(t *testing.T) {
	record := NewAuditRecord(testRequest("CL4567890"), time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC))
	resp := record.ToResponse()

	assert.Equal(t, AuditRecordResponse{
		AuditID:        "AUD20250309140507",
		ClaimID:        "CL4567890",
		CustomerID:     "CL4567",
		CustomerName:   "Jane Doe",
		ProcessName:    "document_review",
		ProcessStatus:  "in_progress",
		ProcessDetails: "Reviewing submitted receipts",
		AgentName:      "agent-7",
		Timestamp:      "2025-03-09T14:05:07.000000Z",
		CreatedAt:      "2025-03-09T14:05:07.000000Z",
		UpdatedAt:      "2025-03-09T14:05:07.000000Z",
	}, resp)
}

func TestProcessStatus_Valid(t *testing.T) {
	for _, s := range []ProcessStatus{"pending", "in_progress", "completed", "failed", "cancelled"} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ProcessStatus("").Valid())
	assert.False(t, ProcessStatus("PENDING").Valid())
}
