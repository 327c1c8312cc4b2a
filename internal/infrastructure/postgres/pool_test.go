package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriassist/agriassist-api/config"
)

func TestPoolConfig(t *testing.T) {
	cfg := &config.Config{
		AppName: "agriassist-api", DBUser: "u", DBPassword: "p", DBHost: "localhost", DBPort: "5432",
		DBName: "agri", DBSSLMode: "disable", DBMaxConns: 8, DBMinConns: 2, DBMaxConnLife: 10 * time.Minute,
	}
	pc, err := PoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, 10*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "agriassist-api", pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "agri", pc.ConnConfig.Database)
}

func TestPoolConfig_IgnoresMinAboveMax(t *testing.T) {
	cfg := &config.Config{DBUser: "u", DBHost: "localhost", DBPort: "5432", DBName: "agri", DBSSLMode: "disable", DBMaxConns: 2, DBMinConns: 5}
	pc, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(2), pc.MaxConns)
	assert.Zero(t, pc.MinConns)
}
