package cad

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// FlexString decodes a JSON value that the upstream CAD export sometimes
// serializes as a string and sometimes as a number (e.g. "Prioridade").
// Anything else (booleans, objects) degrades to the empty string, never an
// error, so one bad field cannot fail the whole array decode.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			*f = ""
			return nil
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*f = ""
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// FlexFloat decodes a JSON number that may arrive as a number, a numeric
// string, or null/garbage. Unparseable values become NaN, never an error,
// so a bad coordinate cannot drop the record.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = FlexFloat(math.NaN())
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			*f = FlexFloat(math.NaN())
			return nil
		}
		s = strings.TrimSpace(v)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = FlexFloat(math.NaN())
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// RawOcorrencia is one incident record exactly as the upstream CAD API
// returns it.
type RawOcorrencia struct {
	Natureza           string     `json:"Natureza"`
	Prioridade         FlexString `json:"Prioridade"`
	TipoClassificacao  string     `json:"tipo_classificacao"`
	COB                string     `json:"COB"`
	Unidade            string     `json:"UNIDADE"`
	Municipio          string     `json:"municipio"`
	Latitude           FlexFloat  `json:"latitude"`
	Longitude          FlexFloat  `json:"longitude"`
	Data               string     `json:"data"`
	RecursosEmpenhados string     `json:"recursos_empenhados"`
	LocalFato          string     `json:"local_fato"`
}

// Ocorrencia is the normalized form of a RawOcorrencia. Categorical fields
// are never empty after normalization (unknown/absent values become
// Desconhecido) and Data uses the zero time as the "unparseable date"
// sentinel.
type Ocorrencia struct {
	Natureza          string
	Prioridade        string
	TipoClassificacao string
	COB               string
	COBNome           string
	Unidade           string
	Municipio         string
	PrioridadeNome    string
	Latitude          float64
	Longitude         float64
	Data              time.Time
	Recursos          []string
	TotalVTR          int
	LocalFato         string
}

// Tabela is the normalized in-memory table the aggregation engine consumes.
type Tabela []Ocorrencia
