package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig()
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 10*time.Minute, cfg.ConnMaxIdleTime)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		assert.Equal(t, DefaultPoolConfig(), LoadConfigFromEnv())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "40")
		t.Setenv("DB_MAX_IDLE_CONNS", "10")
		t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
		t.Setenv("DB_CONN_MAX_IDLE_TIME", "90s")

		cfg := LoadConfigFromEnv()
		assert.Equal(t, 40, cfg.MaxOpenConns)
		assert.Equal(t, 10, cfg.MaxIdleConns)
		assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
		assert.Equal(t, 90*time.Second, cfg.ConnMaxIdleTime)
	})

	t.Run("malformed values fall back", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "many")
		t.Setenv("DB_CONN_MAX_LIFETIME", "forever")

		cfg := LoadConfigFromEnv()
		assert.Equal(t, 25, cfg.MaxOpenConns)
		assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Config{MaxOpenConns: 10, MaxIdleConns: 5}},
		{name: "idle equals open", cfg: Config{MaxOpenConns: 5, MaxIdleConns: 5}},
		{name: "no idle connections", cfg: Config{MaxOpenConns: 5}},
		{name: "zero open", cfg: Config{}, wantErr: "MaxOpenConns must be greater than 0"},
		{name: "negative open", cfg: Config{MaxOpenConns: -1}, wantErr: "MaxOpenConns must be greater than 0"},
		{name: "negative idle", cfg: Config{MaxOpenConns: 5, MaxIdleConns: -1}, wantErr: "MaxIdleConns must be non-negative"},
		{
			name:    "idle above open",
			cfg:     Config{MaxOpenConns: 5, MaxIdleConns: 10},
			wantErr: "MaxIdleConns (10) cannot be greater than MaxOpenConns (5)",
		},
		{
			name:    "negative lifetime",
			cfg:     Config{MaxOpenConns: 5, ConnMaxLifetime: -time.Second},
			wantErr: "connection lifetimes must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestSetupConnectionPool(t *testing.T) {
	t.Run("applies limits", func(t *testing.T) {
		db := openDB(t)

		require.NoError(t, SetupConnectionPool(db, Config{MaxOpenConns: 7, MaxIdleConns: 2}))

		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.Equal(t, 7, sqlDB.Stats().MaxOpenConnections)
		assert.NoError(t, sqlDB.Ping())
	})

	t.Run("rejects invalid config before touching the pool", func(t *testing.T) {
		db := openDB(t)

		err := SetupConnectionPool(db, Config{MaxOpenConns: 2, MaxIdleConns: 3})
		require.Error(t, err)

		sqlDB, dbErr := db.DB()
		require.NoError(t, dbErr)
		assert.Equal(t, 0, sqlDB.Stats().MaxOpenConnections)
	})
}
