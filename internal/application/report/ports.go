package report

import "context"

// Table datos tabulares listos para exportar: encabezados y filas indexadas por encabezado.
// Los valores conservan su tipo (time.Time, decimal.Decimal, *decimal.Decimal, int, string o nil);
// el formato final lo decide cada renderer.
type Table struct {
	Header []string
	Rows   []map[string]any
}

// Sheet hoja con nombre para libros de cálculo.
type Sheet struct {
	Name  string
	Table Table
}

// CSVRenderer puerto de salida hacia el formateador CSV (delimitador ';', coma decimal, DD.MM.YYYY).
type CSVRenderer interface {
	RenderCSV(t Table, charset Charset) ([]byte, error)
}

// WorkbookRenderer puerto de salida hacia el generador de libros XLSX.
type WorkbookRenderer interface {
	RenderWorkbook(ctx context.Context, sheets []Sheet) ([]byte, error)
}
