// Package api declares HTTP contracts and route registration helpers
// for the rotation service.
package api

import (
	"errors"
	"net/http"

	"github.com/openplayhq/rally/internal/adapters/export"
)

// exportContentTypes maps formats to their download media type.
var exportContentTypes = map[export.Format]string{
	export.FormatExcel: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	export.FormatCSV:   "text/csv; charset=utf-8",
}

// ExportHandler serves history downloads.
type ExportHandler struct {
	deps Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExport handles GET /export?format=xlsx|csv requests. The
// default format is the Excel workbook.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	format := export.FormatExcel
	switch r.URL.Query().Get("format") {
	case "", string(export.FormatExcel):
	case string(export.FormatCSV):
		format = export.FormatCSV
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	filename, data, err := h.deps.Export(r.Context(), format)
	if err != nil {
		if errors.Is(err, export.ErrNoHistory) {
			writeError(w, http.StatusNotFound, "no_history", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	w.Header().Set("Content-Type", exportContentTypes[format])
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
