package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/gallerie/storefront/internal/domain/accessreq"
	"github.com/gallerie/storefront/internal/http/middlewares"
	"github.com/gallerie/storefront/internal/workflow"
)

type AccessWorkflow interface {
	File(ctx context.Context, requesterID, orderID, message string) (accessreq.Request, error)
	List(ctx context.Context) ([]accessreq.Request, error)
	Resolve(ctx context.Context, adminID, requestID string, status accessreq.Status, note string) (workflow.ResolveResult, error)
}

type AccessRequestsHandler struct {
	wf AccessWorkflow
}

func NewAccessRequestsHandler(wf AccessWorkflow) *AccessRequestsHandler {
	return &AccessRequestsHandler{wf: wf}
}

type FileRequestBody struct {
	OrderID string `json:"orderId" binding:"required"`
	Message string `json:"message"`
}

type ResolveRequestBody struct {
	Status string `json:"status" binding:"required,oneof=approved denied"`
	Note   string `json:"note"`
}

func (h *AccessRequestsHandler) File(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	var body FileRequestBody

	if !BindJSON(ctx, &body) {
		return
	}

	req, err := h.wf.File(ctx.Request.Context(), u.ID, body.OrderID, body.Message)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondCreated(ctx, gin.H{"request": req})
}

func (h *AccessRequestsHandler) List(ctx *gin.Context) {
	requests, err := h.wf.List(ctx.Request.Context())
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondOK(ctx, gin.H{
		"items": requests,
		"count": len(requests),
	})
}

func (h *AccessRequestsHandler) Resolve(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	var body ResolveRequestBody

	if !BindJSON(ctx, &body) {
		return
	}

	res, err := h.wf.Resolve(
		ctx.Request.Context(),
		u.ID,
		ctx.Param("id"),
		accessreq.Status(body.Status),
		body.Note,
	)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondOK(ctx, gin.H{
		"request":       res.Request,
		"accessGranted": res.AccessGranted,
		"emailResult":   res.Email,
	})
}
