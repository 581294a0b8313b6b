package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/svce-events/attendance-report/internal/domain/analytics"
	"github.com/svce-events/attendance-report/internal/handler/http/response"
)

type AnalyticsHandler interface {
	GetReport(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{
		analyticsService: analyticsService,
	}
}

// GetReport returns stats, chart series and the roster, filtered by ?q=.
func (h *analyticsHandlerImpl) GetReport(w http.ResponseWriter, r *http.Request) {
	req := analytics.ViewRequest{
		EventID: chi.URLParam(r, "eventID"),
		Query:   r.URL.Query().Get("q"),
	}

	view, err := h.analyticsService.GetView(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}
