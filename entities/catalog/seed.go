package catalog

import (
	"context"
	"net/http"
	"strings"
	"younv/database"
	"younv/records"
	"younv/schemas"
	"younv/utils"
)

// SeedEspecialidades creates the default especialidades the clinic does not
// have yet, matched by name.
func SeedEspecialidades(ctx context.Context, store records.Store) ([]records.Record, error) {
	existing, err := store.GetAll(ctx, database.COLLECTION_ESPECIALIDADES)
	if err != nil {
		return nil, err
	}

	names := map[string]bool{}
	for _, item := range existing {
		names[strings.ToLower(item.String("nome"))] = true
	}

	created := []records.Record{}
	for _, esp := range schemas.DefaultEspecialidades {
		if names[strings.ToLower(esp.Nome)] {
			continue
		}
		rec, err := store.Create(ctx, database.COLLECTION_ESPECIALIDADES, records.Record{
			"nome":      esp.Nome,
			"descricao": esp.Descricao,
			"ativo":     true,
		})
		if err != nil {
			return created, err
		}
		created = append(created, rec)
	}
	return created, nil
}

func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	created, err := SeedEspecialidades(r.Context(), h.store)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_CREATE_RECORD)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "Especialidades padrão criadas", created, 0)
}
