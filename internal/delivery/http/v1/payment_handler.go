package v1

import (
	"errors"
	"net/http"

	"checkout-backend/internal/delivery/http/middleware"
	"checkout-backend/internal/domain"
	"checkout-backend/internal/usecase"
	"checkout-backend/pkg/logger"
	"checkout-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type PaymentHandler struct {
	paymentUC *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{paymentUC: uc}
}

type createOrderReq struct {
	Amount          float64                `json:"amount"`
	CustomerDetails domain.CustomerDetails `json:"customerDetails"`
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "No checkout session")
		return
	}

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	order, err := h.paymentUC.CreateOrder(r.Context(), sessionID, req.Amount, req.CustomerDetails)
	if err != nil {
		h.writeGatewayError(w, r, err, "CreateOrder failed")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

func (h *PaymentHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req domain.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	session, err := h.paymentUC.CreateSession(r.Context(), req)
	if err != nil {
		h.writeGatewayError(w, r, err, "CreateSession failed")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"session": session,
	})
}

// PaymentResult resolves the gateway outcome after redirect-back and reports
// the display status. A missing order id or unknown vendor status is an
// explicit ERROR state, distinct from FAILED.
func (h *PaymentHandler) PaymentResult(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "No checkout session")
		return
	}

	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"status":  usecase.ResultError,
			"error":   "No order ID provided",
		})
		return
	}

	result, err := h.paymentUC.ResolveResult(r.Context(), sessionID, orderID)
	if err != nil {
		h.writeGatewayError(w, r, err, "ResolveResult failed")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     result.Status != usecase.ResultError,
		"status":      result.Status,
		"orderStatus": result.OrderStatus,
	})
}

// writeGatewayError surfaces vendor error payloads verbatim; everything else
// becomes a generic 500.
func (h *PaymentHandler) writeGatewayError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger.WithContext(r.Context()).Error().Err(err).Msg(msg)

	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		var payload interface{} = string(gwErr.Body)
		if json.Valid(gwErr.Body) {
			payload = json.RawMessage(gwErr.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(gwErr.StatusCode)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   payload,
		})
		return
	}
	utils.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}
