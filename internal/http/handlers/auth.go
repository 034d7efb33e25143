package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/gallerie/storefront/internal/auth"
	"github.com/gallerie/storefront/internal/domain/user"
	"github.com/gallerie/storefront/internal/http/middlewares"
)

type AuthService interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (user.User, string, error)
	SignIn(ctx context.Context, identifier, password string) (user.User, string, error)
	SignOut(ctx context.Context, token string) error
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

type SignInRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, token, err := h.svc.SignUp(ctx.Request.Context(), auth.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})

	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondCreated(ctx, gin.H{
		"user":  u,
		"token": token,
	})
}

func (h *AuthHandler) SignIn(ctx *gin.Context) {
	var req SignInRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, token, err := h.svc.SignIn(ctx.Request.Context(), req.Identifier, req.Password)

	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondOK(ctx, gin.H{
		"user":  u,
		"token": token,
	})
}

func (h *AuthHandler) Profile(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	RespondOK(ctx, gin.H{"user": u})
}

// SignOut invalidates the presented token. Idempotent: an already
// invalid token could not have reached this handler, and deleting an
// absent one is a no-op at the store.
func (h *AuthHandler) SignOut(ctx *gin.Context) {
	token := middlewares.BearerToken(ctx)

	if err := h.svc.SignOut(ctx.Request.Context(), token); err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondOK(ctx, gin.H{"message": "signed out"})
}
