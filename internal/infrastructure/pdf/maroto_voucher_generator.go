// Package pdf implementa el vale imprimible de traslado entre sucursales.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: VALE DE TRASLADO  │  N° Vale + Estado + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN: sucursal + despachó  │  DESTINO: sucursal + recibió │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Solicitado | Enviado | Recibido | Obs.    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Despacha / Transporta / Recibe + QR del vale        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/sucursales-api/internal/application/transfer"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ transfer.VoucherPDFGenerator = (*MarotoVoucherGenerator)(nil)

// MarotoVoucherGenerator implementa transfer.VoucherPDFGenerator usando Maroto v2.
type MarotoVoucherGenerator struct{}

// NewMarotoVoucherGenerator construye el generador.
func NewMarotoVoucherGenerator() *MarotoVoucherGenerator { return &MarotoVoucherGenerator{} }

// GenerateTransferVoucher genera el PDF del vale y devuelve sus bytes.
func (g *MarotoVoucherGenerator) GenerateTransferVoucher(data transfer.VoucherData) ([]byte, error) {
	t := data.Transfer
	if t == nil {
		return nil, fmt.Errorf("pdf: vale vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Vale de traslado %s", voucherNumber(t)), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(t, data.SourceBranch, data.TargetBranch))
	if t.Note != "" {
		m.AddRows(noteRow("Nota", t.Note, colorGray))
	}
	if t.Status == entity.TransferCancelled {
		m.AddRows(noteRow("Motivo de cancelación", t.CancelReason, colorAlert))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(t.Items, data.Products)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(line.NewRow(6))
	m.AddRows(signatureRow(t))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar vale: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(t *entity.StockTransfer) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("VALE DE TRASLADO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Traslado de mercadería entre sucursales", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(voucherNumber(t), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+statusLabel(t.Status), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorPrimary,
			}),
			text.New("Emitido: "+formatDate(&t.CreatedAt), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// partiesRow: origen (izq) y destino (der) con quién y cuándo actuó cada uno.
func partiesRow(t *entity.StockTransfer, source, target *entity.Branch) core.Row {
	return row.New(20).Add(
		col.New(6).Add(
			text.New("ORIGEN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(branchName(source, t.SourceBranchID), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Creó: %s   |   Despachó: %s (%s)",
				nonEmpty(t.CreatedBy, "—"),
				nonEmpty(t.ShippedBy, "—"),
				formatDate(t.ShippedAt),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("DESTINO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(branchName(target, t.TargetBranchID), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Recibió: %s (%s)",
				nonEmpty(t.ReceivedBy, "—"),
				formatDate(t.ReceivedAt),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func noteRow(label, value string, color *props.Color) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(label+": "+nonEmpty(value, "—"), props.Text{Size: 8, Top: 2, Color: color}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Solicitado", 2, align.Right),
		h("Enviado", 2, align.Right),
		h("Recibido", 2, align.Right),
		h("Obs.", 2, align.Left),
	)
}

// tableDetailRows: una fila por línea; las diferencias van con su justificación debajo.
func tableDetailRows(items []entity.StockTransferItem, products map[string]*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i := range items {
		it := &items[i]
		received := "—"
		if it.QuantityReceived != nil {
			received = it.QuantityReceived.String()
		}
		obs := ""
		obsColor := colorGray
		if it.HasDiscrepancy() {
			obs = "Diferencia"
			obsColor = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(productLabel(products, it.ProductID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.QuantityRequested.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(it.QuantitySent.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(received, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(obs, props.Text{Size: 8, Top: 1, Left: 1, Color: obsColor})),
		))
		if it.ShipmentJustification != "" {
			result = append(result, justificationRow("Despacho", it.ShipmentJustification))
		}
		if it.ReceptionJustification != "" {
			result = append(result, justificationRow("Recepción", it.ReceptionJustification))
		}
	}
	return result
}

func justificationRow(stage, msg string) core.Row {
	return row.New(5).Add(
		col.New(1),
		col.New(11).Add(text.New(stage+": "+msg, props.Text{Size: 7, Color: colorGray, Left: 1})),
	)
}

// signatureRow: líneas de firma física + QR con el ID del vale para ubicarlo en el sistema.
func signatureRow(t *entity.StockTransfer) core.Row {
	sign := func(label string) core.Col {
		return col.New(3).Add(
			text.New("______________________", props.Text{Size: 8, Align: align.Center, Top: 14}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 19, Color: colorGray}),
		)
	}
	return row.New(32).Add(
		sign("Despacha"),
		sign("Transporta"),
		sign("Recibe"),
		col.New(3).Add(code.NewQr(t.ID, props.Rect{Percent: 90, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func voucherNumber(t *entity.StockTransfer) string {
	return fmt.Sprintf("N° %06d", t.Number)
}

func statusLabel(status string) string {
	switch status {
	case entity.TransferPending:
		return "Pendiente"
	case entity.TransferInTransit:
		return "En tránsito"
	case entity.TransferCompleted:
		return "Completado"
	case entity.TransferCancelled:
		return "Cancelado"
	}
	return status
}

func branchName(b *entity.Branch, fallback string) string {
	if b != nil && b.Name != "" {
		return b.Name
	}
	return fallback
}

func productLabel(products map[string]*entity.Product, id string) string {
	p, ok := products[id]
	if !ok || p == nil {
		return id
	}
	if p.SKU != "" {
		return p.SKU + " · " + p.Name
	}
	return p.Name
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006 15:04")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
