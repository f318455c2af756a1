package handlers

import (
	"net/http"

	"github.com/trimstudio/booking/internal/catalog"
)

// CatalogResponse lists what the booking form offers.
type CatalogResponse struct {
	Services []catalog.Service `json:"services"`
	Barbers  []catalog.Barber  `json:"barbers"`
	Slots    []string          `json:"slots"`
}

// CatalogHandler serves GET /api/catalog.
type CatalogHandler struct {
	slots catalog.SlotWindow
}

func NewCatalogHandler(slots catalog.SlotWindow) *CatalogHandler {
	return &CatalogHandler{slots: slots}
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, CatalogResponse{
		Services: catalog.Services(),
		Barbers:  catalog.Barbers(),
		Slots:    h.slots.Slots(),
	})
}
