package csvexport

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/warenwelt-api/internal/application/report"
)

const (
	delimiter = ';'
	dateFmt   = "02.01.2006"
)

// Renderer genera CSV para herramientas contables alemanas: ';' como separador,
// todos los campos entre comillas, coma decimal, fechas DD.MM.YYYY y vacío para nulos.
// Implementa report.CSVRenderer.
type Renderer struct{}

// NewRenderer crea el renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// RenderCSV escribe encabezado y filas en el orden del encabezado.
func (r *Renderer) RenderCSV(t report.Table, charset report.Charset) ([]byte, error) {
	var buf bytes.Buffer
	var out io.Writer = &buf
	var tw *transform.Writer
	if charset == report.CharsetLatin1 {
		tw = transform.NewWriter(&buf, encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()))
		out = tw
	}

	w := bufio.NewWriter(out)
	writeRecord(w, t.Header)
	record := make([]string, len(t.Header))
	for _, row := range t.Rows {
		for i, h := range t.Header {
			record[i] = FormatValue(row[h])
		}
		writeRecord(w, record)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return nil, fmt.Errorf("csv latin1: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func writeRecord(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(delimiter)
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteString("\r\n")
}

// FormatValue convierte un valor de celda a su texto CSV.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(dateFmt)
	case *time.Time:
		if x == nil {
			return ""
		}
		return FormatValue(*x)
	case decimal.Decimal:
		return formatDecimal(x)
	case *decimal.Decimal:
		if x == nil {
			return ""
		}
		return formatDecimal(*x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// formatDecimal usa al menos dos decimales y coma como separador (12.5 → "12,50").
func formatDecimal(d decimal.Decimal) string {
	places := int32(2)
	if -d.Exponent() > places {
		places = -d.Exponent()
	}
	return strings.Replace(d.StringFixed(places), ".", ",", 1)
}
