package painel

import (
	"fmt"

	"github.com/cbmmg/painel-cad/internal/painel/cad"
)

// Widget suffixes, matching the labels the dashboard renders after each
// number.
const (
	sufixoOcorrencias = " ocorrências"
	sufixoRecursos    = " recursos"
	sufixoViaturas    = " viaturas"
)

// grupoValor is one group with its accumulated metric, in first-appearance
// order of the underlying rows.
type grupoValor struct {
	chave string
	valor float64
}

// agrupar accumulates valor per chave over linhas, preserving the order in
// which each group was first seen. That order is the tie-break contract for
// the leader selection.
func agrupar(linhas cad.Tabela, chave func(cad.Ocorrencia) string, valor func(cad.Ocorrencia) float64) []grupoValor {
	indice := make(map[string]int, 16)
	var grupos []grupoValor
	for _, o := range linhas {
		k := chave(o)
		i, ok := indice[k]
		if !ok {
			i = len(grupos)
			indice[k] = i
			grupos = append(grupos, grupoValor{chave: k})
		}
		grupos[i].valor += valor(o)
	}
	return grupos
}

// liderEMedia picks the group with the maximum value (first-encountered
// wins on ties) and the arithmetic mean across all groups. An empty group
// set yields the sentinel leader with zero value and zero mean, never a
// failure.
func liderEMedia(grupos []grupoValor) (lider string, valor float64, media float64) {
	if len(grupos) == 0 {
		return LiderVazio, 0, 0
	}
	lider, valor = grupos[0].chave, grupos[0].valor
	soma := 0.0
	for _, g := range grupos {
		soma += g.valor
		if g.valor > valor {
			lider, valor = g.chave, g.valor
		}
	}
	return lider, valor, soma / float64(len(grupos))
}

// formatarDelta renders (valor-media)/media as a one-decimal percentage.
// A zero mean yields an empty delta instead of a division fault.
func formatarDelta(valor, media float64) string {
	if media == 0 {
		return ""
	}
	return fmt.Sprintf("%+.1f%%", (valor-media)/media*100)
}

func contarLinha(cad.Ocorrencia) float64 { return 1 }

func somenteAlta(linhas cad.Tabela) cad.Tabela {
	alta := make(cad.Tabela, 0, len(linhas))
	for _, o := range linhas {
		if o.Prioridade == "1" {
			alta = append(alta, o)
		}
	}
	return alta
}

// contagemPorPar counts rows per (grupo, subgrupo) pair, in first-appearance
// order.
func contagemPorPar(linhas cad.Tabela, grupo, subgrupo func(cad.Ocorrencia) string) []Contagem {
	type par struct{ g, s string }
	indice := make(map[par]int, 16)
	var dados []Contagem
	for _, o := range linhas {
		p := par{g: grupo(o), s: subgrupo(o)}
		i, ok := indice[p]
		if !ok {
			i = len(dados)
			indice[p] = i
			dados = append(dados, Contagem{Grupo: p.g, Subgrupo: p.s})
		}
		dados[i].Quantidade++
	}
	return dados
}

func figuraLiderMedia(id, rotulo, subtitulo, sufixo string, grupos []grupoValor) Figura {
	lider, valor, media := liderEMedia(grupos)
	m := media
	return Figura{
		ID:        id,
		Tipo:      TipoIndicador,
		Titulo:    fmt.Sprintf("%s - %s", lider, rotulo),
		Subtitulo: subtitulo,
		Indicador: &Indicador{
			Lider:  lider,
			Valor:  valor,
			Sufixo: sufixo,
			Media:  &m,
			Delta:  formatarDelta(valor, media),
		},
	}
}

func figuraTotal(id, titulo, sufixo string, valor float64) Figura {
	return Figura{
		ID:     id,
		Tipo:   TipoIndicador,
		Titulo: titulo,
		Indicador: &Indicador{
			Valor:  valor,
			Sufixo: sufixo,
		},
	}
}

// esqueletoFiguras declares the fixed set of 11 figures, in render order.
var esqueletoFiguras = []struct {
	id     string
	tipo   string
	titulo string
}{
	{"indc_1", TipoIndicador, "Top COB - Maior Prioridade 1 - Alta"},
	{"indc_2", TipoIndicador, "Top Município - Mais frequente"},
	{"indc_3", TipoIndicador, "Top Unidade - Mais Ocorrências"},
	{"indc_4", TipoIndicador, "Top Unidade - Maior Prioridade 1 - Alta"},
	{"indc_5", TipoIndicador, "Top Unidade - Mais Recursos Empenhados"},
	{"indc_6", TipoIndicador, "Top Natureza - Natureza mais comum"},
	{"indc_7", TipoIndicador, "Total de Ocorrências Existentes"},
	{"indc_8", TipoIndicador, "Total de Recursos Existentes"},
	{"cob_pri", TipoBarras, "Quantidade de Chamadas por Prioridade em cada COB"},
	{"pri_pie", TipoPizza, "Proporção de Registros por Prioridade"},
	{"cob_nat", TipoBarras, "Quantidade de Chamadas por Natureza em cada COB"},
}

// FigurasVazias returns the full 11-figure set as labeled placeholders, so
// the presentation layer keeps its declared arity even when there is no
// data to show.
func FigurasVazias() []Figura {
	figuras := make([]Figura, 0, len(esqueletoFiguras))
	for _, e := range esqueletoFiguras {
		figuras = append(figuras, Figura{
			ID:     e.id,
			Tipo:   e.tipo,
			Titulo: e.titulo,
			Erro:   MensagemSemDados,
		})
	}
	return figuras
}

// MontarPainel applies the filter state to the normalized table and computes
// the full dashboard: six leader+mean indicators, two totals and three
// grouped-count breakdowns, always 11 figures in fixed order. Each figure is
// computed independently; an empty group set degrades that one widget to its
// sentinel without touching the others.
func MontarPainel(tabela cad.Tabela, filtros Filtros) []Figura {
	filtrada := filtros.Aplicar(tabela)
	if len(filtrada) == 0 {
		return FigurasVazias()
	}

	porCOB := func(o cad.Ocorrencia) string { return o.COBNome }
	porMunicipio := func(o cad.Ocorrencia) string { return o.Municipio }
	porUnidade := func(o cad.Ocorrencia) string { return o.Unidade }
	porNatureza := func(o cad.Ocorrencia) string { return o.Natureza }
	porPrioridade := func(o cad.Ocorrencia) string { return o.PrioridadeNome }

	alta := somenteAlta(filtrada)

	// Union of every distinct vehicle across the filtered rows.
	viaturas := make(map[string]struct{})
	for _, o := range filtrada {
		for _, v := range o.Recursos {
			viaturas[v] = struct{}{}
		}
	}

	figuras := make([]Figura, 0, len(esqueletoFiguras))

	figuras = append(figuras,
		figuraLiderMedia("indc_1", "Top COB", "Maior Prioridade 1 - Alta", sufixoOcorrencias,
			agrupar(alta, porCOB, contarLinha)),
		figuraLiderMedia("indc_2", "Top Município", "Mais frequente", sufixoOcorrencias,
			agrupar(filtrada, porMunicipio, contarLinha)),
		figuraLiderMedia("indc_3", "Top Unidade", "Mais Ocorrências", sufixoOcorrencias,
			agrupar(filtrada, porUnidade, contarLinha)),
		figuraLiderMedia("indc_4", "Top Unidade", "Maior Prioridade 1 - Alta", sufixoOcorrencias,
			agrupar(alta, porUnidade, contarLinha)),
		figuraLiderMedia("indc_5", "Top Unidade", "Mais Recursos Empenhados", sufixoRecursos,
			agrupar(filtrada, porUnidade, func(o cad.Ocorrencia) float64 { return float64(o.TotalVTR) })),
		figuraLiderMedia("indc_6", "Top Natureza", "Natureza mais comum", sufixoOcorrencias,
			agrupar(filtrada, porNatureza, contarLinha)),
		figuraTotal("indc_7", "Total de Ocorrências Existentes", sufixoOcorrencias, float64(len(filtrada))),
		figuraTotal("indc_8", "Total de Recursos Existentes", sufixoViaturas, float64(len(viaturas))),
	)

	figuras = append(figuras,
		Figura{
			ID:     "cob_pri",
			Tipo:   TipoBarras,
			Titulo: "Quantidade de Chamadas por Prioridade em cada COB",
			Dados:  contagemPorPar(filtrada, porCOB, porPrioridade),
		},
		Figura{
			ID:     "pri_pie",
			Tipo:   TipoPizza,
			Titulo: "Proporção de Registros por Prioridade",
			Dados:  contagemPorPar(filtrada, porPrioridade, func(cad.Ocorrencia) string { return "" }),
		},
		Figura{
			ID:     "cob_nat",
			Tipo:   TipoBarras,
			Titulo: "Quantidade de Chamadas por Natureza em cada COB",
			Dados:  contagemPorPar(filtrada, porNatureza, porCOB),
		},
	)

	return figuras
}
