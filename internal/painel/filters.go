package painel

import (
	"strings"
	"time"

	"github.com/cbmmg/painel-cad/internal/painel/cad"
)

// Filtros is the user-selected filter state. Nil date bounds mean no date
// filtering; an empty COB selection means no region filtering.
type Filtros struct {
	Inicio *time.Time
	Fim    *time.Time
	COBs   []string
}

// Aplicar returns the rows of tabela matching the filter state, as a fresh
// slice. The input table is never mutated; both bounds are inclusive and
// rows with an unknown date (zero time) never match an active date range.
func (f Filtros) Aplicar(tabela cad.Tabela) cad.Tabela {
	selecionados := make(map[string]struct{}, len(f.COBs))
	for _, c := range f.COBs {
		if c = strings.TrimSpace(c); c != "" {
			selecionados[c] = struct{}{}
		}
	}

	filtrada := make(cad.Tabela, 0, len(tabela))
	for _, o := range tabela {
		if f.Inicio != nil && f.Fim != nil {
			if o.Data.IsZero() || o.Data.Before(*f.Inicio) || o.Data.After(*f.Fim) {
				continue
			}
		}
		if len(selecionados) > 0 {
			if _, ok := selecionados[o.COBNome]; !ok {
				continue
			}
		}
		filtrada = append(filtrada, o)
	}
	return filtrada
}
