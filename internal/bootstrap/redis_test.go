package bootstrap

import (
	"context"
	"testing"

	"github.com/gpse/sesam-client/config"
	"github.com/gpse/sesam-client/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_Selection(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.RedisConfig
		wantDesc string
		wantErr  bool
	}{
		{name: "direct", cfg: config.RedisConfig{URI: "localhost:6379"}, wantDesc: "localhost:6379"},
		{name: "direct url", cfg: config.RedisConfig{URI: "redis://localhost:6380/2"}, wantDesc: "redis://localhost:6380/2"},
		{name: "direct missing uri", cfg: config.RedisConfig{URI: "  "}, wantErr: true},
		{name: "bad url", cfg: config.RedisConfig{URI: "redis://[::1"}, wantErr: true},
		{
			name:     "sentinel",
			cfg:      config.RedisConfig{UseSentinel: true, SentinelNodes: []string{" s1:26379 ", ""}, SentinelMasterName: "mymaster"},
			wantDesc: "sentinel:mymaster",
		},
		{name: "sentinel without nodes", cfg: config.RedisConfig{UseSentinel: true, SentinelNodes: []string{""}}, wantErr: true},
		{
			name:     "cluster",
			cfg:      config.RedisConfig{UseCluster: true, ClusterNodes: []string{"n1:7000", "n2:7000"}},
			wantDesc: "cluster:n1:7000,n2:7000",
		},
		{
			name:     "cluster falls back to uri",
			cfg:      config.RedisConfig{UseCluster: true, URI: "redis://user:pw@n3:7000"},
			wantDesc: "cluster:n3:7000",
		},
		{name: "cluster without address", cfg: config.RedisConfig{UseCluster: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, desc, err := newRedisClient(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = client.Close() })
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestRedactAddr(t *testing.T) {
	redacted := redactAddr("redis://user:pw@host:6379/0")
	assert.NotContains(t, redacted, "pw")
	assert.Contains(t, redacted, "host:6379")
	assert.Equal(t, "host:6379", redactAddr("pw@host:6379"))
	assert.Equal(t, "sentinel:mymaster", redactAddr("sentinel:mymaster"))
}

func TestConnectRedis(t *testing.T) {
	reserved := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = reserved.Close() })

	client, err := ConnectRedis(context.Background(), RedisOptions{
		Config: config.RedisConfig{URI: reserved.Options().Addr, DB: reserved.Options().DB},
	})
	require.NoError(t, err)
	require.NoError(t, client.Close())
}
