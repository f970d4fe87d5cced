package painel

import "time"

// Figure kinds understood by the presentation layer.
const (
	TipoIndicador = "indicador"
	TipoBarras    = "barras"
	TipoPizza     = "pizza"
)

// LiderVazio is the leader shown when an indicator has no groups to rank.
const LiderVazio = "—"

// MensagemSemDados labels every placeholder figure produced when the
// filtered table is empty or the upstream export could not be loaded.
const MensagemSemDados = "Sem dados disponíveis"

// Indicador is the numeric payload of a leader+mean widget. Media and
// Delta are absent on plain totals (indicators 7 and 8).
type Indicador struct {
	Lider  string   `json:"lider,omitempty"`
	Valor  float64  `json:"valor"`
	Sufixo string   `json:"sufixo"`
	Media  *float64 `json:"media,omitempty"`
	Delta  string   `json:"delta,omitempty"`
}

// Contagem is one grouped-count point of a breakdown chart. Subgrupo is the
// stacking dimension and stays empty on single-dimension charts.
type Contagem struct {
	Grupo      string `json:"grupo"`
	Subgrupo   string `json:"subgrupo,omitempty"`
	Quantidade int    `json:"quantidade"`
}

// Figura is one renderable payload. The dashboard always emits exactly 11
// of them, in fixed order, so the presentation layer never receives a
// mismatched set.
type Figura struct {
	ID        string     `json:"id"`
	Tipo      string     `json:"tipo"`
	Titulo    string     `json:"titulo"`
	Subtitulo string     `json:"subtitulo,omitempty"`
	Erro      string     `json:"erro,omitempty"`
	Indicador *Indicador `json:"indicador,omitempty"`
	Dados     []Contagem `json:"dados,omitempty"`
}

// PainelOut is the response body of GET /painel.
type PainelOut struct {
	Figuras      []Figura  `json:"figuras"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

// FiltrosOut is the response body of GET /painel/filtros.
type FiltrosOut struct {
	COBs    []string `json:"cobs"`
	DataMin string   `json:"data_min,omitempty"`
	DataMax string   `json:"data_max,omitempty"`
}

// SaudeOut is the response body of GET /painel/saude.
type SaudeOut struct {
	Status  string `json:"status"`
	Detalhe string `json:"detalhe,omitempty"`
}

// AtualizacaoOut is the response body of GET /painel/atualizacao.
type AtualizacaoOut struct {
	AtualizadoEm   time.Time `json:"atualizado_em"`
	TotalRegistros int       `json:"total_registros"`
}
