package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionConfigFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want ConnectionConfig
	}{
		{
			name: "defaults",
			want: DefaultConnectionConfig(),
		},
		{
			name: "overrides",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "20",
				"DB_MAX_IDLE_CONNS":     "4",
				"DB_CONN_MAX_LIFETIME":  "10m",
				"DB_CONN_MAX_IDLE_TIME": "1m",
			},
			want: ConnectionConfig{MaxOpenConns: 20, MaxIdleConns: 4, ConnMaxLifetime: 10 * time.Minute, ConnMaxIdleTime: time.Minute},
		},
		{
			name: "idle capped by open",
			env:  map[string]string{"DB_MAX_OPEN_CONNS": "3", "DB_MAX_IDLE_CONNS": "8"},
			want: ConnectionConfig{MaxOpenConns: 3, MaxIdleConns: 3, ConnMaxLifetime: time.Hour, ConnMaxIdleTime: 15 * time.Minute},
		},
		{
			name: "invalid values fall back",
			env:  map[string]string{"DB_MAX_OPEN_CONNS": "-1", "DB_CONN_MAX_LIFETIME": "soon"},
			want: DefaultConnectionConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
				t.Setenv(k, tt.env[k])
			}
			assert.Equal(t, tt.want, ConnectionConfigFromEnv())
		})
	}
}

func TestConfigure(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	configure(db, ConnectionConfig{MaxOpenConns: 7, MaxIdleConns: 2, ConnMaxLifetime: time.Minute, ConnMaxIdleTime: time.Second})
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "", DefaultConnectionConfig())
	assert.Error(t, err)
}
