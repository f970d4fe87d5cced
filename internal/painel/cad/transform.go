package cad

import (
	"strings"
	"time"
)

// Desconhecido is the fallback label for any categorical field that is
// absent or carries a code outside the fixed legends.
const Desconhecido = "Desconhecido"

// DateLayout is the fixed date format of the upstream "data" field.
const DateLayout = "02/01/2006"

// SeparadorRecursos joins the vehicle identifiers inside
// "recursos_empenhados".
const SeparadorRecursos = " / "

// COBLegend maps the six regional command codes to their display labels.
var COBLegend = map[string]string{
	"1COB": "1ºCOB - RMBH/Divinóplis",
	"2COB": "2ºCOB - Uberlândia",
	"3COB": "3ºCOB - Juiz de Fora",
	"4COB": "4ºCOB - Montes Claros",
	"5COB": "5ºCOB - Governador Valadares",
	"6COB": "6ºCOB - Varginha",
}

// PrioridadeLegend maps the priority codes to their display labels.
var PrioridadeLegend = map[string]string{
	"1": "Prioridade 1 - Alta",
	"2": "Prioridade 2 - Média",
	"3": "Prioridade 3 - Baixa",
}

// Normalize derives the normalized table from raw upstream records. It is
// pure: the same input always yields the same table, no record is ever
// dropped, and malformed fields degrade to sentinels instead of errors.
func Normalize(raw []RawOcorrencia) Tabela {
	tabela := make(Tabela, 0, len(raw))
	for _, r := range raw {
		tabela = append(tabela, normalizeOne(r))
	}
	return tabela
}

func normalizeOne(r RawOcorrencia) Ocorrencia {
	o := Ocorrencia{
		Natureza:          fallback(r.Natureza),
		Prioridade:        fallback(string(r.Prioridade)),
		TipoClassificacao: fallback(r.TipoClassificacao),
		COB:               fallback(r.COB),
		Unidade:           fallback(r.Unidade),
		Municipio:         fallback(r.Municipio),
		Latitude:          float64(r.Latitude),
		Longitude:         float64(r.Longitude),
		LocalFato:         r.LocalFato,
	}

	o.COBNome = legendOr(COBLegend, r.COB)
	o.PrioridadeNome = legendOr(PrioridadeLegend, string(r.Prioridade))

	// Unparseable dates become the zero time; an active date filter
	// never matches them.
	if t, err := time.Parse(DateLayout, strings.TrimSpace(r.Data)); err == nil {
		o.Data = t
	}

	o.Recursos = SplitRecursos(r.RecursosEmpenhados)
	o.TotalVTR = len(o.Recursos)

	return o
}

// SplitRecursos splits a "recursos_empenhados" value into its distinct
// vehicle identifiers, preserving first-appearance order. Duplicate tokens
// inside one record collapse, so "V1 / V1" counts a single vehicle.
func SplitRecursos(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tokens []string
	seen := make(map[string]struct{})
	for _, tok := range strings.Split(s, SeparadorRecursos) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

func fallback(s string) string {
	if strings.TrimSpace(s) == "" {
		return Desconhecido
	}
	return s
}

func legendOr(legend map[string]string, code string) string {
	if nome, ok := legend[code]; ok {
		return nome
	}
	return Desconhecido
}
