package painel

import (
	"context"
	"sync"
	"time"

	"github.com/cbmmg/painel-cad/internal/painel/cad"
	"github.com/cbmmg/painel-cad/internal/painel/provider"
)

// Carregador is the load step of the refresh pipeline. Implementations fail
// soft: they return an empty table instead of an error.
type Carregador interface {
	Load(ctx context.Context) cad.Tabela
}

// Estado owns the current normalized snapshot. It is the only holder of the
// table: handlers and the background refresher go through it, and readers
// always get a copy, so no filter pass can mutate shared rows.
type Estado struct {
	mu           sync.RWMutex
	tabela       cad.Tabela
	atualizadoEm time.Time
	carregador   Carregador
}

// NovoEstado creates the snapshot owner over a loader.
func NovoEstado(carregador Carregador) *Estado {
	return &Estado{carregador: carregador}
}

// Recarregar runs the full load pipeline (fetch, normalize), swaps the
// snapshot and returns the fresh table. Both the background ticker and the
// dashboard handler go through this same synchronous path.
func (e *Estado) Recarregar(ctx context.Context) cad.Tabela {
	start := time.Now()
	tabela := e.carregador.Load(ctx)

	e.mu.Lock()
	e.tabela = tabela
	e.atualizadoEm = time.Now()
	e.mu.Unlock()

	provider.LogRefresh("painel", len(tabela), time.Since(start))
	return tabela
}

// Snapshot returns a copy of the current table and the time it was loaded.
func (e *Estado) Snapshot() (cad.Tabela, time.Time) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	copia := make(cad.Tabela, len(e.tabela))
	copy(copia, e.tabela)
	return copia, e.atualizadoEm
}

// IniciarAtualizacao refreshes the snapshot now and then on every tick of
// intervalo until ctx is cancelled.
func (e *Estado) IniciarAtualizacao(ctx context.Context, intervalo time.Duration) {
	e.Recarregar(ctx)

	ticker := time.NewTicker(intervalo)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.Recarregar(ctx)
			}
		}
	}()
}
