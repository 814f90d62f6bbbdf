package memory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/domain/clearing"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/memory"
)

func TestSeedDemo_DejaDatosOperables(t *testing.T) {
	store := memory.NewStore()
	memory.SeedDemo(store)
	ctx := context.Background()

	branches, err := store.Branches().List(ctx)
	require.NoError(t, err)
	assert.Len(t, branches, 2)

	assert.True(t, decimal.NewFromInt(40).Equal(store.StockOf("prod-aceite", memory.DemoBranchCentro)))

	sales, err := store.Sales().ListCrossBranch(ctx, memory.DemoBranchCentro)
	require.NoError(t, err)
	require.Len(t, sales, 1)

	balances := clearing.ComputeBalances(clearing.Input{HomeBranchID: memory.DemoBranchCentro, Sales: sales})
	require.Len(t, balances, 1)
	assert.Equal(t, memory.DemoBranchNorte, balances[0].CounterpartyBranchID)
	assert.True(t, decimal.RequireFromString("19.80").Equal(balances[0].RawDebt))
}
