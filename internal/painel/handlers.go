package painel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cbmmg/painel-cad/internal/painel/cad"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Verificador checks the upstream export is reachable.
type Verificador interface {
	HealthCheck(ctx context.Context) error
}

// Handler serves the dashboard endpoints over the snapshot state.
type Handler struct {
	estado      *Estado
	verificador Verificador
}

// NewHandler creates a Handler over the snapshot owner and the upstream
// health check.
func NewHandler(estado *Estado, verificador Verificador) *Handler {
	return &Handler{estado: estado, verificador: verificador}
}

// dateLayouts accepted on the inicio/fim query params.
var dateLayouts = []string{"2006-01-02", cad.DateLayout}

func parseDataParam(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", v)
}

// parseFiltros reads the filter state from the query string. The date range
// only becomes active when both bounds parse; the COB selection accepts the
// param repeated and/or comma-separated.
func parseFiltros(r *http.Request) (Filtros, error) {
	var filtros Filtros
	q := r.URL.Query()

	inicio := strings.TrimSpace(q.Get("inicio"))
	fim := strings.TrimSpace(q.Get("fim"))
	if inicio != "" && fim != "" {
		ini, err := parseDataParam(inicio)
		if err != nil {
			return filtros, err
		}
		f, err := parseDataParam(fim)
		if err != nil {
			return filtros, err
		}
		filtros.Inicio, filtros.Fim = &ini, &f
	}

	for _, v := range q["cobs"] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				filtros.COBs = append(filtros.COBs, c)
			}
		}
	}

	return filtros, nil
}

// GetPainel recomputes the whole dashboard: it reloads the upstream export,
// applies the requested filters and returns the 11 figures in render order.
func (h *Handler) GetPainel(w http.ResponseWriter, r *http.Request) {
	filtros, err := parseFiltros(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tabela := h.estado.Recarregar(r.Context())
	_, atualizadoEm := h.estado.Snapshot()

	writeJSON(w, PainelOut{
		Figuras:      MontarPainel(tabela, filtros),
		AtualizadoEm: atualizadoEm,
	})
}

// GetFiltros returns the options for the filter controls: the distinct COB
// labels present in the snapshot (pt-BR collation order) and the date range
// the data covers.
func (h *Handler) GetFiltros(w http.ResponseWriter, r *http.Request) {
	tabela, _ := h.estado.Snapshot()

	vistos := make(map[string]struct{})
	cobs := make([]string, 0, len(cad.COBLegend)+1)
	var dataMin, dataMax time.Time
	for _, o := range tabela {
		if _, ok := vistos[o.COBNome]; !ok {
			vistos[o.COBNome] = struct{}{}
			cobs = append(cobs, o.COBNome)
		}
		if o.Data.IsZero() {
			continue
		}
		if dataMin.IsZero() || o.Data.Before(dataMin) {
			dataMin = o.Data
		}
		if dataMax.IsZero() || o.Data.After(dataMax) {
			dataMax = o.Data
		}
	}

	collate.New(language.BrazilianPortuguese).SortStrings(cobs)

	out := FiltrosOut{COBs: cobs}
	if !dataMin.IsZero() {
		out.DataMin = dataMin.Format("2006-01-02")
		out.DataMax = dataMax.Format("2006-01-02")
	}
	writeJSON(w, out)
}

// GetSaude checks the upstream export endpoint. A reachable upstream is
// 200; anything else is 503 with the failure detail, so an operator can
// tell "upstream down" apart from "no data in the selected window".
func (h *Handler) GetSaude(w http.ResponseWriter, r *http.Request) {
	if err := h.verificador.HealthCheck(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(SaudeOut{Status: "indisponivel", Detalhe: err.Error()})
		return
	}
	writeJSON(w, SaudeOut{Status: "ok"})
}

// GetAtualizacao reports when the snapshot was last refreshed and how many
// records it holds.
func (h *Handler) GetAtualizacao(w http.ResponseWriter, r *http.Request) {
	tabela, atualizadoEm := h.estado.Snapshot()
	writeJSON(w, AtualizacaoOut{
		AtualizadoEm:   atualizadoEm,
		TotalRegistros: len(tabela),
	})
}
