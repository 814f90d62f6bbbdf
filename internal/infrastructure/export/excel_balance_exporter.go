// Package export genera la planilla XLSX del balance de clearing.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	appclearing "github.com/jhoicas/sucursales-api/internal/application/clearing"
	"github.com/jhoicas/sucursales-api/internal/domain/clearing"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
)

const (
	SheetBalance   = "Balance"
	SheetBreakdown = "Por medio de pago"
)

var balanceHeaders = []string{
	"Sucursal", "Deuda bruta", "Pagado confirmado", "Pagado pendiente", "Deuda restante",
	"Por cobrar bruto", "Recibido confirmado", "Recibido pendiente", "Por cobrar restante", "Saldo neto",
}

var balanceColWidths = []float64{28, 16, 18, 18, 16, 16, 20, 20, 20, 16}

var _ appclearing.BalanceExporter = (*ExcelBalanceExporter)(nil)

// ExcelBalanceExporter implementa clearing.BalanceExporter con excelize.
type ExcelBalanceExporter struct {
	now func() time.Time
}

// NewExcelBalanceExporter construye el exportador.
func NewExcelBalanceExporter() *ExcelBalanceExporter {
	return &ExcelBalanceExporter{now: time.Now}
}

// ExportBalances escribe una fila por contraparte más la fila de totales, y una segunda hoja
// con el desglose de deuda y cuenta por cobrar por medio de pago.
func (e *ExcelBalanceExporter) ExportBalances(branch *entity.Branch, balances []clearing.Balance, totals clearing.Balance) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetBalance); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f}

	// Encabezado del reporte
	title := "Clearing entre sucursales"
	if branch != nil {
		title += " · " + branch.Name
	}
	w.value(SheetBalance, "A1", title)
	w.style(SheetBalance, "A1", st.title)
	w.value(SheetBalance, "A2", "Generado: "+e.now().Format("02/01/2006 15:04"))

	const headerRow = 4
	for i, h := range balanceHeaders {
		cell := w.cell(i+1, headerRow)
		w.value(SheetBalance, cell, h)
		w.style(SheetBalance, cell, st.header)
		w.width(SheetBalance, i+1, balanceColWidths[i])
	}

	r := headerRow + 1
	for _, b := range balances {
		writeBalanceRow(w, SheetBalance, r, b.CounterpartyName, b, st.money)
		r++
	}
	writeBalanceRow(w, SheetBalance, r, "TOTAL", totals, st.totalMoney)
	w.style(SheetBalance, w.cell(1, r), st.total)
	if w.err != nil {
		return nil, w.err
	}

	if err := writeBreakdownSheet(w, balances, st); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writeBalanceRow(w *sheetWriter, sheet string, r int, name string, b clearing.Balance, style int) {
	if name == "" {
		name = b.CounterpartyBranchID
	}
	values := []decimal.Decimal{
		b.RawDebt, b.PaidConfirmed, b.PaidPending, b.RemainingDebt,
		b.RawReceivable, b.ReceivedConfirmed, b.ReceivedPending, b.RemainingReceivable,
		b.NetBalance,
	}
	w.value(sheet, w.cell(1, r), name)
	for i, v := range values {
		cell := w.cell(i+2, r)
		w.value(sheet, cell, v.InexactFloat64())
		w.style(sheet, cell, style)
	}
}

// writeBreakdownSheet: filas Sucursal | Tipo | medio1 | medio2 ... con los medios presentes.
func writeBreakdownSheet(w *sheetWriter, balances []clearing.Balance, st styles) error {
	if _, err := w.f.NewSheet(SheetBreakdown); err != nil {
		return fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	methods := paymentMethods(balances)
	headers := append([]string{"Sucursal", "Tipo"}, methods...)
	for i, h := range headers {
		cell := w.cell(i+1, 1)
		w.value(SheetBreakdown, cell, h)
		w.style(SheetBreakdown, cell, st.header)
		w.width(SheetBreakdown, i+1, 16)
	}
	w.width(SheetBreakdown, 1, 28)

	r := 2
	write := func(name, kind string, bd clearing.Breakdown) {
		w.value(SheetBreakdown, w.cell(1, r), name)
		w.value(SheetBreakdown, w.cell(2, r), kind)
		for i, m := range methods {
			cell := w.cell(i+3, r)
			w.value(SheetBreakdown, cell, bd[m].InexactFloat64())
			w.style(SheetBreakdown, cell, st.money)
		}
		r++
	}
	for _, b := range balances {
		if len(b.DebtBreakdown) > 0 {
			write(b.CounterpartyName, "Deuda", b.DebtBreakdown)
		}
		if len(b.ReceivableBreakdown) > 0 {
			write(b.CounterpartyName, "Por cobrar", b.ReceivableBreakdown)
		}
	}
	return w.err
}

// sheetWriter guarda el primer error de excelize; tras él las escrituras no hacen nada.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// cell nombre A1 de la columna col (desde 1) y la fila row.
func (w *sheetWriter) cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.fail(fmt.Errorf("xlsx: coordenadas %d,%d: %w", col, row, err))
	}
	return name
}

func (w *sheetWriter) value(sheet, cell string, v any) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(sheet, cell, v); err != nil {
		w.fail(fmt.Errorf("xlsx: valor %s!%s: %w", sheet, cell, err))
	}
}

func (w *sheetWriter) style(sheet, cell string, style int) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellStyle(sheet, cell, cell, style); err != nil {
		w.fail(fmt.Errorf("xlsx: estilo %s!%s: %w", sheet, cell, err))
	}
}

func (w *sheetWriter) width(sheet string, col int, width float64) {
	if w.err != nil {
		return
	}
	name, err := excelize.ColumnNumberToName(col)
	if err == nil {
		err = w.f.SetColWidth(sheet, name, name, width)
	}
	if err != nil {
		w.fail(fmt.Errorf("xlsx: ancho %s col %d: %w", sheet, col, err))
	}
}

// paymentMethods medios presentes en algún desglose, en orden alfabético.
func paymentMethods(balances []clearing.Balance) []string {
	seen := map[string]bool{}
	for _, b := range balances {
		for m := range b.DebtBreakdown {
			seen[m] = true
		}
		for m := range b.ReceivableBreakdown {
			seen[m] = true
		}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

type styles struct {
	title, header, total, money, totalMoney int
}

func newStyles(f *excelize.File) (styles, error) {
	var (
		st  styles
		err error
	)
	moneyFmt := "#,##0.00"
	if st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return st, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	}); err != nil {
		return st, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if st.total, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return st, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if st.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt}); err != nil {
		return st, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if st.totalMoney, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &moneyFmt}); err != nil {
		return st, fmt.Errorf("xlsx: estilo: %w", err)
	}
	return st, nil
}
