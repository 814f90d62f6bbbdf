package pdf_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/application/transfer"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/pdf"
)

func TestGenerateTransferVoucher_Completado(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	received := decimal.NewFromInt(9)
	tr := &entity.StockTransfer{
		ID:             "tr-1",
		Number:         42,
		SourceBranchID: "branch-a",
		TargetBranchID: "branch-b",
		Status:         entity.TransferCompleted,
		Note:           "reposición semanal",
		CreatedBy:      "ana",
		ShippedBy:      "ana",
		ReceivedBy:     "luis",
		CreatedAt:      now,
		ShippedAt:      &now,
		ReceivedAt:     &now,
		Items: []entity.StockTransferItem{{
			ID:                     "it-1",
			ProductID:              "p-1",
			QuantityRequested:      decimal.NewFromInt(10),
			QuantitySent:           decimal.NewFromInt(10),
			QuantityReceived:       &received,
			ReceptionJustification: "dañado en transporte",
		}},
	}

	data, err := pdf.NewMarotoVoucherGenerator().GenerateTransferVoucher(transfer.VoucherData{
		Transfer:     tr,
		SourceBranch: &entity.Branch{ID: "branch-a", Name: "Centro"},
		TargetBranch: &entity.Branch{ID: "branch-b", Name: "Norte"},
		Products:     map[string]*entity.Product{"p-1": {ID: "p-1", SKU: "ARZ-1", Name: "Arroz"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGenerateTransferVoucher_SinTraslado(t *testing.T) {
	_, err := pdf.NewMarotoVoucherGenerator().GenerateTransferVoucher(transfer.VoucherData{})
	assert.Error(t, err)
}
