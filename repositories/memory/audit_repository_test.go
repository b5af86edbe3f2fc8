package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/claims-audit/models"
	"github.com/upb/claims-audit/repositories"
)

func newRecord(claimID string, at time.Time) *models.AuditRecord {
	s := func(v string) *string { return &v }
	return models.NewAuditRecord(models.AuditRecordRequest{
		ClaimID:        s(claimID),
		CustomerName:   s("Jane Doe"),
		ProcessName:    s("intake"),
		ProcessStatus:  s("pending"),
		ProcessDetails: s("received"),
		AgentName:      s("agent-1"),
	}, at)
}

func TestAuditRepository_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("stores record", func(t *testing.T) {
		repo := NewAuditRepository()
		require.NoError(t, repo.Create(ctx, newRecord("CUST1_001", at)))

		records, err := repo.ListByCustomer(ctx, "CUST1")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "CUST1_001", records[0].ClaimID)
	})

	t.Run("duplicate id is a conflict", func(t *testing.T) {
		repo := NewAuditRepository()
		require.NoError(t, repo.Create(ctx, newRecord("CUST1_001", at)))

		err := repo.Create(ctx, newRecord("CUST1_002", at))
		require.Error(t, err)
		assert.True(t, repositories.IsAlreadyExists(err))

		records, err := repo.ListByCustomer(ctx, "CUST1")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "CUST1_001", records[0].ClaimID, "first write must not be overwritten")
	})

	t.Run("same audit id in another partition is fine", func(t *testing.T) {
		repo := NewAuditRepository()
		require.NoError(t, repo.Create(ctx, newRecord("CUST1_001", at)))
		assert.NoError(t, repo.Create(ctx, newRecord("CUST2_001", at)))
	})

	t.Run("cancelled context", func(t *testing.T) {
		repo := NewAuditRepository()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, repo.Create(cctx, newRecord("CUST1_001", at)), context.Canceled)
	})
}

func TestAuditRepository_ListByCustomer(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("orders by timestamp regardless of insertion order", func(t *testing.T) {
		repo := NewAuditRepository()
		for _, offset := range []time.Duration{2 * time.Minute, 0, time.Minute} {
			require.NoError(t, repo.Create(ctx, newRecord("CUST1_x", base.Add(offset))))
		}

		records, err := repo.ListByCustomer(ctx, "CUST1")
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "AUD20250501100000", records[0].AuditID)
		assert.Equal(t, "AUD20250501100100", records[1].AuditID)
		assert.Equal(t, "AUD20250501100200", records[2].AuditID)
	})

	t.Run("skips other document kinds", func(t *testing.T) {
		repo := NewAuditRepository()
		require.NoError(t, repo.Create(ctx, newRecord("CUST1_x", base)))
		repo.Put(models.AuditDocument{ID: "CUST1_note", CustomerID: "CUST1", Type: "note"})

		records, err := repo.ListByCustomer(ctx, "CUST1")
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("unknown customer yields empty slice", func(t *testing.T) {
		repo := NewAuditRepository()
		records, err := repo.ListByCustomer(ctx, "NOBODY")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestAuditRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Create(ctx, newRecord("CUST1_x", base.Add(time.Duration(i)*time.Second)))
		}(i)
	}
	wg.Wait()

	records, err := repo.ListByCustomer(ctx, "CUST1")
	require.NoError(t, err)
	assert.Len(t, records, 50)
}

func TestAuditRepository_Ping(t *testing.T) {
	info, err := NewAuditRepository().Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "memory", info.DatabaseName)
}
