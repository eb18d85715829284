package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rl1809/source-deduction/internal/core/domain"
	"github.com/rl1809/source-deduction/internal/core/service"
)

type HTTPHandler struct {
	deductionService *service.DeductionService
}

type DeductHTTPItem struct {
	Sku string  `json:"sku"`
	Qty float64 `json:"qty"`
}

type DeductHTTPRequest struct {
	SourceCode  string           `json:"source_code"`
	ChannelType string           `json:"channel_type"`
	ChannelCode string           `json:"channel_code"`
	EventType   string           `json:"event_type"`
	EventObject string           `json:"event_object,omitempty"`
	Items       []DeductHTTPItem `json:"items"`
}

type DeductHTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewHTTPHandler(deductionService *service.DeductionService) *HTTPHandler {
	return &HTTPHandler{deductionService: deductionService}
}

func (h *HTTPHandler) Deduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req DeductHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, DeductHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	if req.SourceCode == "" || req.ChannelCode == "" || req.EventType == "" || len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, DeductHTTPResponse{
			Success: false,
			Message: "missing required fields",
		})
		return
	}
	for _, item := range req.Items {
		if item.Sku == "" || item.Qty <= 0 {
			writeJSON(w, http.StatusBadRequest, DeductHTTPResponse{
				Success: false,
				Message: "items need a sku and a positive qty",
			})
			return
		}
	}

	deduction := domain.DeductionRequest{
		SourceCode:   req.SourceCode,
		SalesChannel: domain.SalesChannel{Type: req.ChannelType, Code: req.ChannelCode},
		SalesEvent:   domain.SalesEvent{Type: domain.SalesEventType(req.EventType), ObjectID: req.EventObject},
	}
	for _, item := range req.Items {
		deduction.Items = append(deduction.Items, domain.LineItem{SKU: item.Sku, Qty: item.Qty})
	}

	err := h.deductionService.Execute(r.Context(), deduction)
	if err != nil {
		status := http.StatusInternalServerError
		message := "internal error"

		switch {
		case errors.Is(err, service.ErrInsufficientStock):
			status = http.StatusConflict
			message = "not all products are available in the requested quantity"
		case errors.Is(err, domain.ErrStockMappingNotFound):
			status = http.StatusUnprocessableEntity
			message = "sales channel has no mapped stock"
		case errors.Is(err, domain.ErrConfigurationNotFound), errors.Is(err, domain.ErrSourceItemNotFound):
			status = http.StatusNotFound
			message = "unknown sku for this source or stock"
		}

		writeJSON(w, status, DeductHTTPResponse{
			Success: false,
			Message: message,
		})
		return
	}

	writeJSON(w, http.StatusOK, DeductHTTPResponse{
		Success: true,
		Message: "deduction applied",
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
