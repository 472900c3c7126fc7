package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/workspace-booking/internal/transport"
)

type ExporterAPI interface {
	WriteCSV(ctx context.Context, w io.Writer, dateFrom, dateTo string) (int, error)
}

type Handler struct {
	*transport.BaseHandler
	Exporter ExporterAPI
}

func NewHandler(exp ExporterAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Exporter:    exp,
	}
}

// ExportBookings handles GET /bookings/export?from=&to=
func (h *Handler) ExportBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var buf bytes.Buffer
	if _, err := h.Exporter.WriteCSV(r.Context(), &buf, q.Get("from"), q.Get("to")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("failed to write export", "error", err)
	}
}
