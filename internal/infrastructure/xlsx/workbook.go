package xlsx

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/warenwelt-api/internal/application/report"
)

// WorkbookRenderer genera libros XLSX con excelize. Implementa report.WorkbookRenderer.
type WorkbookRenderer struct{}

// NewWorkbookRenderer crea el renderer.
func NewWorkbookRenderer() *WorkbookRenderer { return &WorkbookRenderer{} }

// RenderWorkbook escribe una hoja por tabla: encabezado en negrita en la fila 1 y datos desde la fila 2.
func (r *WorkbookRenderer) RenderWorkbook(ctx context.Context, sheets []report.Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: sin hojas")
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, sh := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return nil, fmt.Errorf("xlsx: hoja %s: %w", sh.Name, err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, fmt.Errorf("xlsx: hoja %s: %w", sh.Name, err)
		}
		if err := writeTable(f, sh.Name, sh.Table, bold); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, t report.Table, headerStyle int) error {
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: encabezado %s: %w", sheet, err)
	}
	if len(t.Header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("xlsx: estilo %s: %w", sheet, err)
		}
	}

	for i, row := range t.Rows {
		values := make([]any, len(t.Header))
		for j, h := range t.Header {
			values[j] = cellValue(row[h])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx: fila %d de %s: %w", i+2, sheet, err)
		}
	}
	return nil
}

// cellValue convierte importes a número para que la hoja permita sumar; fechas quedan como fecha.
func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return x.InexactFloat64()
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x.UTC()
	default:
		return v
	}
}
