package configs

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	viper.Reset()

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres:postgres@localhost:5432/postgres", cfg.DatabaseURI)
	assert.Equal(t, int32(10), cfg.MaxDbCons)
	assert.Equal(t, int32(2), cfg.MinDbCons)
}

func TestLoadFromEnv(t *testing.T) {
	gin.SetMode(gin.TestMode)
	viper.Reset()
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_DATABASE_URI", "svc:secret@db:5432/accounts")

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "svc:secret@db:5432/accounts", cfg.DatabaseURI)
}
