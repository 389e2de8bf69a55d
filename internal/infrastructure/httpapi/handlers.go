package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/doeshing/foodscan/internal/application/review"
	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/ports"
)

const maxBodyBytes = 64 << 10

type handlers struct {
	deps Dependencies
}

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	Items []domain.ScanRecord `json:"items"`
	Count int                 `json:"count"`
}

type healthResponse struct {
	Status          string `json:"status"`
	HistoryItems    int    `json:"history_items"`
	HistoryCapacity int    `json:"history_capacity"`
}

type reviewRequest struct {
	Content   *string `json:"content"`
	StarCount *int    `json:"star_count"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	size, capacity := h.deps.Scans.HistoryUsage()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:          "ok",
		HistoryItems:    size,
		HistoryCapacity: capacity,
	})
}

func (h *handlers) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.deps.Scans.Verify(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *handlers) getHistory(w http.ResponseWriter, r *http.Request) {
	items := h.deps.Scans.History()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be an integer"})
			return
		}
		items = h.deps.Scans.Recent(limit)
	}
	writeJSON(w, http.StatusOK, historyResponse{Items: items, Count: len(items)})
}

func (h *handlers) clearHistory(w http.ResponseWriter, _ *http.Request) {
	h.deps.Scans.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) removeHistory(w http.ResponseWriter, r *http.Request) {
	h.deps.Scans.Forget(mux.Vars(r)["code"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) getProductReviews(w http.ResponseWriter, r *http.Request) {
	overview, err := h.reviews(r).Overview(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.Content == nil || req.StarCount == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "content and star_count are required"})
		return
	}
	saved, err := h.reviews(r).Submit(r.Context(), domain.ReviewInput{
		Barcode:   mux.Vars(r)["code"],
		Content:   *req.Content,
		StarCount: *req.StarCount,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *handlers) myReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews(r).AllMine(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	updated, err := h.reviews(r).Update(r.Context(), mux.Vars(r)["id"], domain.ReviewUpdate{
		Content:   req.Content,
		StarCount: req.StarCount,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews(r).Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reviews returns the review service scoped to the caller's device header.
func (h *handlers) reviews(r *http.Request) *review.Service {
	id := strings.TrimSpace(r.Header.Get(DeviceHeader))
	if id == "" {
		return h.deps.Reviews
	}
	scoped := *h.deps.Reviews
	scoped.Devices = headerDevice(id)
	return &scoped
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && h.deps.Logger != nil {
		h.deps.Logger.Error("request failed", err, nil)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if h.deps.Logger != nil {
			h.deps.Logger.Debug("http request", map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start).String(),
			})
		}
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidBarcode),
		errors.Is(err, domain.ErrInvalidStarCount),
		errors.Is(err, domain.ErrReviewEmpty),
		errors.Is(err, domain.ErrReviewTooShort),
		errors.Is(err, domain.ErrReviewTooLong),
		errors.Is(err, review.ErrNothingToUpdate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrReviewExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLookupFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type headerDevice string

func (d headerDevice) DeviceID(context.Context) (string, error) { return string(d), nil }

var _ ports.DeviceIDProvider = headerDevice("")
