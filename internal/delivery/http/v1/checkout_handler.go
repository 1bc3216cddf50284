package v1

import (
	"net/http"

	"checkout-backend/internal/delivery/http/middleware"
	"checkout-backend/internal/domain"
	"checkout-backend/internal/usecase"
	"checkout-backend/pkg/logger"
	"checkout-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type CheckoutHandler struct {
	checkoutUC      *usecase.CheckoutUsecase
	maxCartQuantity int
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase, maxCartQuantity int) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUC:      uc,
		maxCartQuantity: maxCartQuantity,
	}
}

// --- Cart Handlers ---

func (h *CheckoutHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "No checkout session")
		return
	}

	cart, err := h.checkoutUC.LoadCart(r.Context(), sessionID)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("LoadCart failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, cart)
}

type updateQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *CheckoutHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "No checkout session")
		return
	}

	itemID := utils.ParseInt64(r.PathValue("id"), 0)
	if itemID == 0 {
		utils.WriteError(w, http.StatusBadRequest, "Item ID required")
		return
	}

	var req updateQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Quantity > h.maxCartQuantity {
		utils.WriteError(w, http.StatusBadRequest, "Quantity exceeds maximum limit")
		return
	}

	session, err := h.checkoutUC.UpdateQuantity(r.Context(), sessionID, itemID, req.Quantity)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Int64("item_id", itemID).Msg("UpdateQuantity failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, session.Cart)
}

func (h *CheckoutHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "No checkout session")
		return
	}

	itemID := utils.ParseInt64(r.PathValue("id"), 0)
	if itemID == 0 {
		utils.WriteError(w, http.StatusBadRequest, "Item ID required")
		return
	}

	session, err := h.checkoutUC.RemoveLineItem(r.Context(), sessionID, itemID)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Int64("item_id", itemID).Msg("RemoveLineItem failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, session.Cart)
}

// --- Session Handlers ---

func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "No checkout session")
		return
	}

	session, err := h.checkoutUC.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	utils.WriteJSON(w, http.StatusOK, session)
}

func (h *CheckoutHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "No checkout session")
		return
	}

	var address domain.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if !address.Complete() {
		utils.WriteError(w, http.StatusBadRequest, "All address fields except apartment are required")
		return
	}

	session, err := h.checkoutUC.SubmitAddress(r.Context(), sessionID, address)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("SubmitAddress failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to save address")
		return
	}
	utils.WriteJSON(w, http.StatusOK, session)
}

type paymentMethodReq struct {
	Method domain.PaymentMethod `json:"paymentMethod"`
}

func (h *CheckoutHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "No checkout session")
		return
	}

	var req paymentMethodReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if !req.Method.Valid() {
		utils.WriteError(w, http.StatusBadRequest, "Unknown payment method")
		return
	}

	session, err := h.checkoutUC.ChoosePaymentMethod(r.Context(), sessionID, req.Method)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("ChoosePaymentMethod failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to save payment method")
		return
	}
	utils.WriteJSON(w, http.StatusOK, session)
}

type stepVerdictResp struct {
	Step    int  `json:"step"`
	Allowed bool `json:"allowed"`
	MaxStep int  `json:"maxStep"`
}

// StepGate answers whether the client may navigate to a step. A denied
// navigation is a verdict, not an error: the step circle simply does nothing.
func (h *CheckoutHandler) StepGate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "No checkout session")
		return
	}

	target := utils.ParseInt(r.PathValue("step"), 0)
	if target < domain.StepCart || target > domain.StepConfirmation {
		utils.WriteError(w, http.StatusBadRequest, "Unknown step")
		return
	}
	current := utils.ParseInt(r.URL.Query().Get("current"), domain.StepCart)

	allowed, maxStep, err := h.checkoutUC.StepVerdict(r.Context(), sessionID, current, target)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to evaluate step")
		return
	}
	utils.WriteJSON(w, http.StatusOK, stepVerdictResp{Step: target, Allowed: allowed, MaxStep: maxStep})
}

// Reset clears the session for "continue shopping".
func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "No checkout session")
		return
	}

	session, err := h.checkoutUC.Reset(r.Context(), sessionID)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("Reset failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to reset session")
		return
	}
	utils.WriteJSON(w, http.StatusOK, session)
}
