package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collinsmw/boutique/internal/server/http/dto"
)

// SignatureHeader carries the processor's hex HMAC-SHA512 digest of the
// request body.
const SignatureHeader = "X-Signature"

// PaymentHandler manages payment initialization and the processor webhook.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Init handles POST /api/orders/:id/payment-init.
func (h *PaymentHandler) Init(c *gin.Context) {
	userID := CurrentUserID(c)

	init, err := h.facade.InitializePayment(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaymentInitResponse{
		AuthorizationURL: init.AuthorizationURL,
		Reference:        init.Reference,
	})
}

// Webhook handles POST /api/orders/payment-webhook. The body must reach the
// authenticator as the exact transport bytes: any re-parse or re-serialize
// step before signature verification breaks legitimate signatures.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil || len(rawBody) == 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.ProcessWebhook(c.Request.Context(), rawBody, c.GetHeader(SignatureHeader)); err != nil {
		// Only a literally non-parseable payload surfaces as an error;
		// everything else is acknowledged to stop the retry loop.
		c.Status(http.StatusBadRequest)
		return
	}

	c.Status(http.StatusOK)
}
