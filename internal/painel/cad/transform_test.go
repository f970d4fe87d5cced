package cad

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"
)

// TestNormalize_Idempotente verifies that normalizing the same raw input
// twice yields identical tables, i.e. normalization keeps no hidden state.
func TestNormalize_Idempotente(t *testing.T) {
	raw := []RawOcorrencia{
		{Natureza: "Incêndio", Prioridade: "1", COB: "1COB", Unidade: "1ª Cia", Municipio: "Belo Horizonte", Data: "15/01/2024", RecursosEmpenhados: "ABT-01 / UR-02"},
		{COB: "9COB", Data: "banana"},
	}

	primeira := Normalize(raw)
	segunda := Normalize(raw)

	if !reflect.DeepEqual(primeira, segunda) {
		t.Errorf("expected identical tables, got %+v vs %+v", primeira, segunda)
	}
}

// TestSplitRecursos_Distintos verifies that duplicate vehicle tokens inside
// one record collapse: "A / A / B" commits 2 vehicles, not 3.
func TestSplitRecursos_Distintos(t *testing.T) {
	cases := []struct {
		entrada string
		want    int
	}{
		{"A / A / B", 2},
		{"V1 / V1", 1},
		{"ABT-01", 1},
		{"", 0},
		{"   ", 0},
	}

	for _, c := range cases {
		got := SplitRecursos(c.entrada)
		if len(got) != c.want {
			t.Errorf("SplitRecursos(%q) = %v, want %d tokens", c.entrada, got, c.want)
		}
	}
}

// TestNormalize_FallbackCompleto verifies that COBNome and PrioridadeNome
// are always populated after normalization: unknown codes and absent fields
// both map to "Desconhecido".
func TestNormalize_FallbackCompleto(t *testing.T) {
	raw := []RawOcorrencia{
		{COB: "9COB", Prioridade: "7"},
		{},
		{COB: "2COB", Prioridade: "2"},
	}

	tabela := Normalize(raw)

	for i, o := range tabela {
		if o.COBNome == "" || o.PrioridadeNome == "" {
			t.Fatalf("row %d: empty display label after normalization: %+v", i, o)
		}
	}

	if tabela[0].COBNome != Desconhecido {
		t.Errorf("unknown code 9COB: got %q, want %q", tabela[0].COBNome, Desconhecido)
	}
	if tabela[0].PrioridadeNome != Desconhecido {
		t.Errorf("unknown priority 7: got %q, want %q", tabela[0].PrioridadeNome, Desconhecido)
	}
	if tabela[1].COB != Desconhecido || tabela[1].Municipio != Desconhecido {
		t.Errorf("absent categorical fields should fall back: %+v", tabela[1])
	}
	if tabela[2].COBNome != "2ºCOB - Uberlândia" {
		t.Errorf("known code 2COB: got %q", tabela[2].COBNome)
	}
	if tabela[2].PrioridadeNome != "Prioridade 2 - Média" {
		t.Errorf("known priority 2: got %q", tabela[2].PrioridadeNome)
	}
}

// TestNormalize_Datas verifies DD/MM/YYYY parsing and the zero-time
// sentinel for unparseable dates.
func TestNormalize_Datas(t *testing.T) {
	tabela := Normalize([]RawOcorrencia{
		{Data: "31/12/2023"},
		{Data: "2023-12-31"},
		{Data: ""},
	})

	want := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	if !tabela[0].Data.Equal(want) {
		t.Errorf("parsed date = %v, want %v", tabela[0].Data, want)
	}
	if !tabela[1].Data.IsZero() {
		t.Errorf("wrong-format date should become zero time, got %v", tabela[1].Data)
	}
	if !tabela[2].Data.IsZero() {
		t.Errorf("absent date should become zero time, got %v", tabela[2].Data)
	}
}

// TestRawOcorrencia_DecodeFlexivel verifies the upstream quirks the decoder
// must tolerate: priority as number, coordinates as strings or garbage.
func TestRawOcorrencia_DecodeFlexivel(t *testing.T) {
	body := `[
		{"Prioridade": 1, "latitude": "-19.92", "longitude": -43.94},
		{"Prioridade": "2", "latitude": "sem gps", "longitude": null}
	]`

	var raw []RawOcorrencia
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if string(raw[0].Prioridade) != "1" {
		t.Errorf("numeric priority: got %q, want \"1\"", raw[0].Prioridade)
	}
	if float64(raw[0].Latitude) != -19.92 {
		t.Errorf("string latitude: got %v", raw[0].Latitude)
	}
	if string(raw[1].Prioridade) != "2" {
		t.Errorf("string priority: got %q", raw[1].Prioridade)
	}
	if !math.IsNaN(float64(raw[1].Latitude)) {
		t.Errorf("garbage latitude should be NaN, got %v", raw[1].Latitude)
	}
	if !math.IsNaN(float64(raw[1].Longitude)) {
		t.Errorf("null longitude should be NaN, got %v", raw[1].Longitude)
	}
}

// TestRawOcorrencia_DecodeLixo verifies that field-level garbage (booleans,
// objects) degrades to the per-field sentinel instead of failing the whole
// array decode: the record survives and normalizes to "Desconhecido".
func TestRawOcorrencia_DecodeLixo(t *testing.T) {
	body := `[
		{"Prioridade": true, "COB": "1COB"},
		{"Prioridade": {"codigo": 1}, "latitude": [1, 2]}
	]`

	var raw []RawOcorrencia
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("garbage field should not fail the decode: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 records, got %d", len(raw))
	}
	if string(raw[0].Prioridade) != "" || string(raw[1].Prioridade) != "" {
		t.Errorf("garbage priorities should decode empty, got %q and %q", raw[0].Prioridade, raw[1].Prioridade)
	}
	if !math.IsNaN(float64(raw[1].Latitude)) {
		t.Errorf("array latitude should be NaN, got %v", raw[1].Latitude)
	}

	tabela := Normalize(raw)
	if tabela[0].PrioridadeNome != Desconhecido || tabela[1].PrioridadeNome != Desconhecido {
		t.Errorf("garbage priorities should normalize to %q: %+v", Desconhecido, tabela)
	}
	if tabela[0].COBNome != "1ºCOB - RMBH/Divinóplis" {
		t.Errorf("sibling fields should still normalize, got %q", tabela[0].COBNome)
	}
}

// TestNormalize_TotalVTR verifies the derived distinct-vehicle count,
// including the degraded zero when the field is absent.
func TestNormalize_TotalVTR(t *testing.T) {
	tabela := Normalize([]RawOcorrencia{
		{RecursosEmpenhados: "ABT-01 / UR-02 / ABT-01"},
		{},
	})

	if tabela[0].TotalVTR != 2 {
		t.Errorf("TotalVTR = %d, want 2", tabela[0].TotalVTR)
	}
	if tabela[1].TotalVTR != 0 {
		t.Errorf("absent recursos_empenhados: TotalVTR = %d, want 0", tabela[1].TotalVTR)
	}
}
