package csvexport_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warenwelt-api/internal/application/report"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/csvexport"
)

func TestFormatValue(t *testing.T) {
	rate := decimal.RequireFromString("7.00")
	var nilRate *decimal.Decimal

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"decimal con coma", decimal.RequireFromString("1234.5"), "1234,50"},
		{"decimal entero", decimal.NewFromInt(10), "10,00"},
		{"decimal con más precisión", decimal.RequireFromString("0.125"), "0,125"},
		{"puntero a decimal", &rate, "7,00"},
		{"puntero nulo", nilRate, ""},
		{"fecha", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "05.03.2024"},
		{"fecha y hora", time.Date(2024, 12, 31, 18, 45, 0, 0, time.UTC), "31.12.2024"},
		{"entero", 3, "3"},
		{"texto", "CASH", "CASH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, csvexport.FormatValue(tt.in))
		})
	}
}

func TestRenderCSV_QuotesAllFieldsWithSemicolon(t *testing.T) {
	r := csvexport.NewRenderer()
	out, err := r.RenderCSV(report.Table{
		Header: []string{"Datum", "Betrag", "Text"},
		Rows: []map[string]any{
			{"Datum": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "Betrag": decimal.RequireFromString("19.9"), "Text": `Tasse "blau"`},
			{"Datum": nil, "Betrag": decimal.Zero},
		},
	}, report.CharsetUTF8)
	require.NoError(t, err)

	want := "\"Datum\";\"Betrag\";\"Text\"\r\n" +
		"\"02.01.2024\";\"19,90\";\"Tasse \"\"blau\"\"\"\r\n" +
		"\"\";\"0,00\";\"\"\r\n"
	assert.Equal(t, want, string(out))
}

func TestRenderCSV_Latin1(t *testing.T) {
	r := csvexport.NewRenderer()
	table := report.Table{
		Header: []string{"Gesamt Kommissionen an Lieferanten"},
		Rows:   []map[string]any{{"Gesamt Kommissionen an Lieferanten": "Grüße"}},
	}

	utf8Out, err := r.RenderCSV(table, report.CharsetUTF8)
	require.NoError(t, err)
	latin1Out, err := r.RenderCSV(table, report.CharsetLatin1)
	require.NoError(t, err)

	assert.Contains(t, string(utf8Out), "Grüße")
	// ü y ß ocupan un byte cada uno en ISO-8859-1.
	assert.Equal(t, len(utf8Out)-2, len(latin1Out))
	assert.Contains(t, string(latin1Out), "Gr\xfc\xdfe")
}
