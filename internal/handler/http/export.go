package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/svce-events/attendance-report/internal/domain/report"
	"github.com/svce-events/attendance-report/internal/handler/http/response"
	"github.com/svce-events/attendance-report/internal/pkg/jwt"
	"github.com/svce-events/attendance-report/internal/pkg/sse"
)

const progressEvent = "export_progress"

type ExportHandler interface {
	Export(w http.ResponseWriter, r *http.Request)
	ListExports(w http.ResponseWriter, r *http.Request)

	// SSE
	GetStreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type exportHandlerImpl struct {
	exportService report.ExportService
	jwtService    jwt.Service
	hub           *sse.Hub
}

func NewExportHandler(exportService report.ExportService, jwtService jwt.Service, hub *sse.Hub) ExportHandler {
	return &exportHandlerImpl{
		exportService: exportService,
		jwtService:    jwtService,
		hub:           hub,
	}
}

type streamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// Export renders the full roster of an event and sends it as an attachment.
// Stage changes are published to the caller's progress stream.
func (h *exportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{
		EventID: chi.URLParam(r, "eventID"),
		Format:  report.Format(r.URL.Query().Get("format")),
	}

	userID := getUserIDFromContext(r)
	progress := func(p report.Progress) {
		h.hub.Publish(userID, sse.Event{Event: progressEvent, Data: p})
	}

	artifact, err := h.exportService.Export(r.Context(), req, progress)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Content)))
	w.Header().Set("X-Page-Count", strconv.Itoa(artifact.PageCount))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Content); err != nil {
		slog.Warn("Failed to write report", "event_id", req.EventID, "error", err)
	}
}

func (h *exportHandlerImpl) ListExports(w http.ResponseWriter, r *http.Request) {
	logs, err := h.exportService.ListExports(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, logs)
}

// GetStreamToken generates a short-lived token for SSE connections
func (h *exportHandlerImpl) GetStreamToken(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, streamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream sends export progress for the token's user as server-sent events
func (h *exportHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
