package painel

import (
	"github.com/cbmmg/painel-cad/internal/painel/cad"
	"github.com/cbmmg/painel-cad/internal/painel/provider"
)

// Setup wires the CAD client, loader and snapshot state from configuration.
// The returned Estado is handed to main so it owns the refresh lifecycle;
// nothing here is package-level mutable state.
func Setup(cfg provider.Config) (*Handler, *Estado) {
	client := cad.NewClient(cfg.URLAPI, cfg.FetchTimeout)
	estado := NovoEstado(cad.NewLoader(client))
	return NewHandler(estado, client), estado
}
