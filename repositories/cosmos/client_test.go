package cosmos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/claims-audit/config"
	"go.uber.org/zap"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.CosmosConfig
		wantErr string
	}{
		{
			name:    "missing endpoint",
			cfg:     config.CosmosConfig{Key: "dGVzdGtleQ==", DatabaseName: "claims", ContainerName: "audit"},
			wantErr: "cosmos endpoint, key and database name are required",
		},
		{
			name:    "key is not base64",
			cfg:     config.CosmosConfig{Endpoint: "https://localhost:8081/", Key: "not base64!", DatabaseName: "claims", ContainerName: "audit"},
			wantErr: "failed to create Cosmos DB credential",
		},
		{
			name: "valid configuration",
			cfg:  config.CosmosConfig{Endpoint: "https://localhost:8081/", Key: "dGVzdGtleQ==", DatabaseName: "claims", ContainerName: "audit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg, zap.NewNop())

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, client)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, client)
			assert.NotNil(t, client.AuditRepository())
		})
	}
}
