package handler

import (
	"net/http"

	"github.com/citadelschools/school-portal/internal/response"
	"github.com/citadelschools/school-portal/internal/service"
)

type DashboardHandler struct {
	svc service.DashboardService
}

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats returns the landing-page counters
// @Summary      Dashboard statistics
// @Description  Student and teacher headcounts per section, pending result count, PIN sales for the active term and today's collections
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /dashboard [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to compute dashboard statistics")
		return
	}
	response.Success(w, "Dashboard statistics", stats)
}
