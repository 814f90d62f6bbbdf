package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("TRANSFER_NEGATIVE_STOCK", "reject")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.NegativeStockReject, cfg.Transfer.NegativeStock)
	assert.Equal(t, 5, cfg.Transfer.MinJustificationSize)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_PoliticaStockNegativoPermitida(t *testing.T) {
	t.Setenv("TRANSFER_NEGATIVE_STOCK", "ALLOW")
	t.Setenv("TRANSFER_MIN_JUSTIFICATION", "10")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.NegativeStockAllow, cfg.Transfer.NegativeStock)
	assert.Equal(t, 10, cfg.Transfer.MinJustificationSize)
}

func TestLoad_PoliticaInvalida(t *testing.T) {
	t.Setenv("TRANSFER_NEGATIVE_STOCK", "clamp")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "suc", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/suc?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
