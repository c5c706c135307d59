// Package handler exposes postal-code resolution over HTTP.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"brasilsearch/internal/cep"
	dErrors "brasilsearch/pkg/domain-errors"
	"brasilsearch/pkg/platform/httputil"
	"brasilsearch/pkg/requestcontext"
)

// retryAfterSeconds is advertised when every provider is unreachable or failing.
const retryAfterSeconds = 30

// Resolver resolves a raw postal code.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (*cep.Record, error)
}

// Handler serves the lookup endpoints.
type Handler struct {
	resolver         Resolver
	logger           *slog.Logger
	batchConcurrency int
}

// New creates a Handler. batchConcurrency bounds parallel lookups within one
// batch request; values below 1 mean sequential.
func New(resolver Resolver, logger *slog.Logger, batchConcurrency int) *Handler {
	return &Handler{
		resolver:         resolver,
		logger:           logger,
		batchConcurrency: max(batchConcurrency, 1),
	}
}

// Register registers the lookup routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/cep/{cep}", h.handleLookup)
	r.Post("/api/cep/batch", h.handleBatch)
}

func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	raw := chi.URLParam(r, "cep")

	rec, err := h.resolver.Resolve(ctx, raw)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			h.logger.InfoContext(ctx, "client went away during lookup",
				"request_id", requestID,
				"cep", raw,
			)
			return
		}
		derr := h.translate(ctx, requestID, raw, err)
		if dErrors.HasCode(derr, dErrors.CodeConnectivity) || dErrors.HasCode(derr, dErrors.CodeUnavailable) {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		}
		httputil.WriteError(w, derr)
		return
	}

	status := http.StatusOK
	if !rec.Found() {
		status = http.StatusNotFound
	}
	httputil.WriteJSON(w, status, toRecordResponse(rec))
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	results := make([]BatchItem, len(req.CEPs))
	var g errgroup.Group
	g.SetLimit(h.batchConcurrency)
	for i, raw := range req.CEPs {
		g.Go(func() error {
			results[i] = h.resolveItem(ctx, requestID, raw)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		h.logger.InfoContext(ctx, "client went away during batch lookup",
			"request_id", requestID,
			"size", len(req.CEPs),
		)
		return
	}

	h.logger.InfoContext(ctx, "batch lookup completed",
		"request_id", requestID,
		"size", len(req.CEPs),
	)
	httputil.WriteJSON(w, http.StatusOK, &BatchResponse{Results: results})
}

func (h *Handler) resolveItem(ctx context.Context, requestID, raw string) BatchItem {
	item := BatchItem{Input: raw}

	rec, err := h.resolver.Resolve(ctx, raw)
	if err != nil {
		derr := h.translate(ctx, requestID, raw, err)
		code := dErrors.CodeOf(derr)
		item.Status = dErrors.ToHTTPStatus(code)
		item.Error = &ErrorItem{Error: string(code), Description: cep.UserMessage(err)}
		if code == dErrors.CodeInternal {
			item.Error.Description = ""
		}
		return item
	}

	item.Status = http.StatusOK
	if !rec.Found() {
		item.Status = http.StatusNotFound
	}
	item.Record = toRecordResponse(rec)
	return item
}

// translate maps resolver errors onto domain errors and logs them at a
// level matching their cause.
func (h *Handler) translate(ctx context.Context, requestID, raw string, err error) error {
	msg := cep.UserMessage(err)
	switch {
	case errors.Is(err, cep.ErrInvalidInput):
		h.logger.InfoContext(ctx, "invalid cep",
			"request_id", requestID,
			"cep", raw,
			"error", msg,
		)
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, msg)
	case errors.Is(err, cep.ErrConnectivity):
		h.logger.WarnContext(ctx, "cep providers unreachable",
			"request_id", requestID,
			"cep", raw,
		)
		return dErrors.Wrap(err, dErrors.CodeConnectivity, msg)
	case errors.Is(err, cep.ErrServiceUnavailable):
		h.logger.WarnContext(ctx, "cep providers unavailable",
			"request_id", requestID,
			"cep", raw,
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.WarnContext(ctx, "cep lookup timed out",
			"request_id", requestID,
			"cep", raw,
		)
		return dErrors.Wrap(err, dErrors.CodeTimeout, "tempo esgotado ao consultar o CEP")
	default:
		h.logger.ErrorContext(ctx, "cep lookup failed",
			"request_id", requestID,
			"cep", raw,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve cep")
	}
}
