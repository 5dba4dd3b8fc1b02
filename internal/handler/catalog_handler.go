package handler

import (
	"encoding/json"
	"net/http"

	"cinerec/internal/catalog"
)

type CatalogHandler struct {
	cat *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: c}
}

// @Summary Listar títulos del catálogo
// @Description Devuelve todos los títulos para el dropdown del home
// @Tags movies
// @Produce json
// @Success 200 {array} string
// @Router /movies [get]
func (h *CatalogHandler) ListTitles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.cat.Titles())
}
