package httpserver

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pixfeed/imgsource/interfaces"
	"github.com/pixfeed/imgsource/media"
	"github.com/pixfeed/imgsource/source"
)

// Handler serves image resolution requests. Each request builds a fresh
// Source, so a failed resolution never poisons later requests.
type Handler struct {
	sources *source.Factory
	log     *slog.Logger
}

// NewHandler creates an HTTP handler over the given source factory.
func NewHandler(sources *source.Factory, log *slog.Logger) *Handler {
	return &Handler{sources: sources, log: log}
}

// HandleImage streams the object backing an identifier.
//
// URL format: GET /images/{identifier}
// The identifier is URL-encoded; encoded slashes are preserved.
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identifierFrom(w, r)
	if !ok {
		return
	}

	src, err := h.sources.SourceFor(id, requestContext(r))
	if err != nil {
		h.writeError(w, id, err)
		return
	}

	cs, err := src.OpenStream(r.Context())
	if err != nil {
		h.writeError(w, id, err)
		return
	}
	defer cs.Close()

	w.Header().Set("Content-Type", contentTypeFor(cs.MediaType(), id))
	if cs.Size() >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(cs.Size(), 10))
	}

	if _, err := io.Copy(w, cs.Open()); err != nil {
		// Headers are gone; all we can do is log the broken transfer.
		h.log.Error("Image transfer aborted", "err", err, slog.String("identifier", id.String()))
	}
}

// HandleImageInfo answers HEAD requests with the object's format and
// existence without transferring the body.
//
// URL format: HEAD /images/{identifier}
func (h *Handler) HandleImageInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identifierFrom(w, r)
	if !ok {
		return
	}

	src, err := h.sources.SourceFor(id, requestContext(r))
	if err != nil {
		h.writeError(w, id, err)
		return
	}

	format, err := src.Format(r.Context())
	if err != nil {
		h.writeError(w, id, err)
		return
	}

	if format != media.Unknown {
		w.Header().Set("Content-Type", format.MediaType())
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) identifierFrom(w http.ResponseWriter, r *http.Request) (interfaces.Identifier, bool) {
	raw := r.PathValue("identifier")
	if raw == "" {
		http.Error(w, "Missing identifier in URL", http.StatusBadRequest)
		return "", false
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		http.Error(w, "Malformed identifier encoding", http.StatusBadRequest)
		return "", false
	}
	return interfaces.Identifier(decoded), true
}

func (h *Handler) writeError(w http.ResponseWriter, id interfaces.Identifier, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("Resolution failed", "err", err, slog.String("identifier", id.String()))
	} else {
		h.log.Info("Resolution rejected", "err", err, slog.String("identifier", id.String()))
	}
	http.Error(w, err.Error(), status)
}

// statusFor maps the resolution error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, interfaces.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, interfaces.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, interfaces.ErrStorageIO),
		errors.Is(err, interfaces.ErrDelegateUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// contentTypeFor picks the response content type: storage metadata first,
// then identifier inference, then a generic binary fallback.
func contentTypeFor(reported string, id interfaces.Identifier) string {
	if reported != "" {
		return reported
	}
	if format := media.Infer(id.String()); format != media.Unknown {
		return format.MediaType()
	}
	return "application/octet-stream"
}

// requestContext gathers the ambient request attributes passed through to the
// delegate.
func requestContext(r *http.Request) map[string]string {
	return map[string]string{
		"client_ip":   r.RemoteAddr,
		"request_uri": r.RequestURI,
	}
}
