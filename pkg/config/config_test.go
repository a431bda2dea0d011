package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Multitienda-api/pkg/config"
)

func TestLoad_DriverNoSoportado(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("SESSION_BACKEND", "memory")

	cfg, err := config.Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/tiendas.db")
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_EXPIRATION_MINUTES", "abc")
	t.Setenv("ADMIN_EMAIL", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.DB.Driver, "el driver se normaliza a minúsculas")
	assert.Equal(t, "/tmp/tiendas.db", cfg.DB.Path)
	assert.Equal(t, config.SessionMemory, cfg.Session.Backend)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 60, cfg.JWT.Expiration, "un entero inválido conserva el valor por defecto")
}

func TestLoad_AdminConPasswordCorto(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("ADMIN_EMAIL", "admin@sabordavila.com")
	t.Setenv("ADMIN_PASSWORD", "123")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss", DBName: "lojas", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss@db:5432/lojas?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
