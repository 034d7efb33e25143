package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gallerie/storefront/internal/domain/receipt"
	"github.com/gallerie/storefront/internal/http/middlewares"
)

type ReceiptStore interface {
	Create(ctx context.Context, rec receipt.Receipt) error
	ListByOwner(ctx context.Context, userID string) ([]receipt.Receipt, error)
	GetByOrderID(ctx context.Context, orderID string) (receipt.Receipt, error)
}

type ReceiptsHandler struct {
	store ReceiptStore
}

func NewReceiptsHandler(store ReceiptStore) *ReceiptsHandler {
	return &ReceiptsHandler{store: store}
}

type CreateReceiptRequest struct {
	OrderID     string         `json:"orderId"`
	Items       []receipt.Item `json:"items" binding:"omitempty,dive"`
	AmountMinor int64          `json:"amountMinor" binding:"gte=0"`
	Currency    string         `json:"currency"`
	PaymentRef  string         `json:"paymentRef"`
	Timestamp   *time.Time     `json:"timestamp"`
}

// Create persists a receipt owned by the caller. Order id and
// timestamp are assigned when the client omits them.
func (h *ReceiptsHandler) Create(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	var req CreateReceiptRequest

	if !BindJSON(ctx, &req) {
		return
	}

	rec := receipt.Receipt{
		OrderID:     req.OrderID,
		UserID:      u.ID,
		SharedWith:  []string{},
		Items:       req.Items,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		PaymentRef:  req.PaymentRef,
		CreatedAt:   time.Now().UTC(),
	}

	if rec.OrderID == "" {
		rec.OrderID = receipt.NewOrderID()
	}
	if req.Timestamp != nil {
		rec.CreatedAt = req.Timestamp.UTC()
	}

	if err := h.store.Create(ctx.Request.Context(), rec); err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondCreated(ctx, gin.H{"receipt": rec})
}

// List returns only receipts the caller owns; shared receipts are
// reachable by direct fetch, never through the list.
func (h *ReceiptsHandler) List(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	receipts, err := h.store.ListByOwner(ctx.Request.Context(), u.ID)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondOK(ctx, gin.H{
		"items": receipts,
		"count": len(receipts),
	})
}

func (h *ReceiptsHandler) Get(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	orderID := ctx.Param("orderId")

	rec, err := h.store.GetByOrderID(ctx.Request.Context(), orderID)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	if !receipt.CanView(rec, u.ID, middlewares.IsAdmin(ctx)) {
		RespondError(ctx, http.StatusForbidden, "You do not have access to this receipt", nil)
		return
	}

	RespondOK(ctx, gin.H{"receipt": rec})
}
