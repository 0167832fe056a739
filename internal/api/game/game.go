package game

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"slot_backend/internal/converter"
	"slot_backend/internal/model"
	"slot_backend/internal/service"
	"slot_backend/pkg/resp"
)

type HandlerDeps struct {
	Catalog service.CatalogService
}

type Handler struct {
	catalog service.CatalogService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{catalog: deps.Catalog}
}

// List - id и названия всех игр каталога
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToGameSummaries(h.catalog.List()))
}

// Get - раскладка игры: барабаны, линии и таблица выплат
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.catalog.Resolve(chi.URLParam(r, "gameID"))
	if err != nil {
		if errors.Is(err, model.ErrUnknownGame) {
			resp.WriteError(w, http.StatusNotFound, "unknown game")
			return
		}
		resp.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToGameDescriptor(cfg))
}
