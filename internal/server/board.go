package server

import (
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/taskboard/internal/lib/logger/sl"
)

// PageRenderer serialises the board page.
type PageRenderer interface {
	HTML() (string, error)
}

// BoardHandler serves the board page in its current state.
type BoardHandler struct {
	page PageRenderer
	log  *slog.Logger
}

func NewBoardHandler(page PageRenderer, log *slog.Logger) *BoardHandler {
	return &BoardHandler{page: page, log: log}
}

func (b *BoardHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		writer.Header().Set("Allow", "GET, HEAD")
		http.Error(writer, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	out, err := b.page.HTML()
	if err != nil {
		b.log.ErrorContext(req.Context(), "Failed to render board page", sl.Err(err))
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	if req.Method == http.MethodHead {
		return
	}
	if _, err = writer.Write([]byte(out)); err != nil {
		b.log.WarnContext(req.Context(), "Failed to write board page", sl.Err(err))
	}
}
