package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/http/middlewares"
	"github.com/gallerie/storefront/internal/payments"
)

type PaymentGateway interface {
	Initialize(ctx context.Context, in payments.InitializeInput) (payments.InitializeResult, error)
	Verify(ctx context.Context, reference string) (payments.VerifyResult, error)
}

type PaymentsHandler struct {
	gateway PaymentGateway
}

func NewPaymentsHandler(gateway PaymentGateway) *PaymentsHandler {
	return &PaymentsHandler{gateway: gateway}
}

type InitializePaymentBody struct {
	Email       string `json:"email" binding:"omitempty,email"`
	AmountMinor int64  `json:"amountMinor" binding:"required,gt=0"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
}

// Initialize starts a gateway transaction for the caller. The email
// defaults to the signed-in user's; phone-only accounts must supply
// one, the gateway requires it.
func (h *PaymentsHandler) Initialize(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	var body InitializePaymentBody

	if !BindJSON(ctx, &body) {
		return
	}

	email := body.Email
	if email == "" {
		email = u.Email
	}
	if email == "" {
		RespondAppError(ctx, apperr.Validation("an email is required to initialize payment"))
		return
	}

	res, err := h.gateway.Initialize(ctx.Request.Context(), payments.InitializeInput{
		Email:       email,
		AmountMinor: body.AmountMinor,
		Currency:    body.Currency,
		Reference:   body.Reference,
	})
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondOK(ctx, gin.H{"payment": res})
}

func (h *PaymentsHandler) Verify(ctx *gin.Context) {
	res, err := h.gateway.Verify(ctx.Request.Context(), ctx.Param("reference"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondOK(ctx, gin.H{"transaction": res})
}
