// Gateway webhook handler.
//
//   - POST /webhooks/upi   (signed settlement callback)
//
// The raw body is authenticated with X-Webhook-Signature, a hex HMAC-SHA256
// under the shared secret, before it is decoded.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recharge-backend/internal/domain"
	"github.com/tbourn/go-recharge-backend/internal/http/middleware"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Webhook-Signature"

// maxWebhookBody caps callback payloads.
const maxWebhookBody = 64 << 10

// SettlementCallback is the gateway payload.
type SettlementCallback struct {
	TransactionID string `json:"transactionId" example:"TXN8K2M4Q7Z1B"`
	Status        string `json:"status" enums:"success,failed" example:"success"`
}

// UPIWebhook godoc
// @ID          upiWebhook
// @Summary     Gateway settlement callback
// @Description Applies a success or failed outcome reported by the payment gateway.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
//
// @Param       X-Webhook-Signature  header  string                         true  "hex HMAC-SHA256 of the body"
// @Param       body                 body    handlers.SettlementCallback  true  "Settlement outcome"
//
// @Success     200  {object} domain.Payment
// @Failure     400  {object} handlers.ErrorResponse "Malformed callback or invalid status"
// @Failure     401  {object} handlers.ErrorResponse "Invalid signature"
// @Failure     404  {object} handlers.ErrorResponse "Payment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /webhooks/upi [post]
func (h *Handlers) UPIWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	body, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable body")
		return
	}
	if err := h.payments.VerifySignature(body, c.GetHeader(SignatureHeader)); err != nil {
		h.failPayment(c, err)
		return
	}

	var cb SettlementCallback
	if err := json.Unmarshal(body, &cb); err != nil || strings.TrimSpace(cb.TransactionID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "malformed callback")
		return
	}

	p, err := h.payments.Settle(c.Request.Context(), cb.TransactionID, domain.PaymentStatus(cb.Status))
	if err != nil {
		h.failPayment(c, err)
		return
	}
	middleware.LoggerFrom(c).Info().
		Str("transaction_id", p.TransactionID).
		Str("status", string(p.Status)).
		Msg("payment settled by gateway")
	ok(c, http.StatusOK, p)
}
