package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/accessreq"
	"github.com/gallerie/storefront/internal/domain/notification"
	"github.com/gallerie/storefront/internal/domain/receipt"
	"github.com/gallerie/storefront/internal/domain/user"
	"github.com/gallerie/storefront/internal/mail"
)

type RequestStore interface {
	Create(ctx context.Context, req accessreq.Request) error
	List(ctx context.Context) ([]accessreq.Request, error)
	GetByID(ctx context.Context, id string) (accessreq.Request, error)
	Update(ctx context.Context, req accessreq.Request) error
}

type ReceiptStore interface {
	GetByOrderID(ctx context.Context, orderID string) (receipt.Receipt, error)
	Update(ctx context.Context, rec receipt.Receipt) error
}

type NotificationStore interface {
	Create(ctx context.Context, n notification.Notification) error
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Service orchestrates the receipt-sharing workflow: a non-owner files
// a request, an admin resolves it, an approval propagates onto the
// receipt's sharing list, and the requester is notified in-app and by
// email.
type Service struct {
	requests RequestStore
	receipts ReceiptStore
	notes    NotificationStore
	users    UserStore
	mailer   mail.Mailer
	log      *slog.Logger
}

func NewService(requests RequestStore, receipts ReceiptStore, notes NotificationStore, users UserStore, mailer mail.Mailer, log *slog.Logger) *Service {
	return &Service{
		requests: requests,
		receipts: receipts,
		notes:    notes,
		users:    users,
		mailer:   mailer,
		log:      log,
	}
}

// EmailResult records the outcome of the best-effort email side
// channel on an otherwise successful resolution.
type EmailResult struct {
	Attempted bool   `json:"attempted"`
	Sent      bool   `json:"sent"`
	Error     string `json:"error,omitempty"`
}

type ResolveResult struct {
	Request       accessreq.Request `json:"request"`
	AccessGranted bool              `json:"accessGranted"`
	Email         EmailResult       `json:"emailResult"`
}

// File records a new open request. The receipt's existence and the
// requester's current access are deliberately not checked here; this
// is a lightweight ask, validated at resolution time.
func (s *Service) File(ctx context.Context, requesterID, orderID, message string) (accessreq.Request, error) {
	if orderID == "" {
		return accessreq.Request{}, apperr.Validation("orderId is required")
	}

	req := accessreq.Request{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		RequesterID: requesterID,
		Message:     message,
		Status:      accessreq.StatusOpen,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return accessreq.Request{}, err
	}

	return req, nil
}

func (s *Service) List(ctx context.Context) ([]accessreq.Request, error) {
	return s.requests.List(ctx)
}

// Resolve transitions a request out of "open" exactly once. The
// ordering is fixed: persist the decision, then propagate access, then
// notify; an email failure never rolls back the already-durable grant.
func (s *Service) Resolve(ctx context.Context, adminID, requestID string, status accessreq.Status, note string) (ResolveResult, error) {
	if !status.IsResolution() {
		return ResolveResult{}, apperr.Validation("status must be approved or denied")
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return ResolveResult{}, err
	}

	if req.Status.Terminal() {
		return ResolveResult{}, apperr.Conflict("access request already resolved")
	}

	now := time.Now().UTC()
	req.Status = status
	req.ResolvedAt = &now
	req.ResolvedBy = adminID
	req.Note = note

	if err := s.requests.Update(ctx, req); err != nil {
		return ResolveResult{}, err
	}

	res := ResolveResult{Request: req}

	if status == accessreq.StatusApproved {
		res.AccessGranted = s.grantAccess(ctx, req)
	}

	res.Email = s.sendDecisionEmail(ctx, req)

	if err := s.notify(ctx, req); err != nil {
		return ResolveResult{}, err
	}

	return res, nil
}

// grantAccess adds the requester to the receipt's sharing list. The
// return value reflects whether a receipt was found, independent of
// whether the set already contained the user.
func (s *Service) grantAccess(ctx context.Context, req accessreq.Request) bool {
	rec, err := s.receipts.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if !apperr.IsKind(err, apperr.KindNotFound) {
			s.log.Error("access grant lookup failed", "order_id", req.OrderID, "err", err)
		}
		return false
	}

	if !rec.Share(req.RequesterID) {
		// already shared; nothing to persist
		return true
	}

	if err := s.receipts.Update(ctx, rec); err != nil {
		s.log.Error("access grant persist failed", "order_id", req.OrderID, "err", err)
		return false
	}

	return true
}

func (s *Service) sendDecisionEmail(ctx context.Context, req accessreq.Request) EmailResult {
	requester, err := s.users.GetByID(ctx, req.RequesterID)
	if err != nil || requester.Email == "" {
		return EmailResult{}
	}

	subject := fmt.Sprintf("Your access request was %s", req.Status)
	body := fmt.Sprintf(
		"Your request to view order %s was %s.", req.OrderID, req.Status)
	if req.Note != "" {
		body += "\n\nNote from the team: " + req.Note
	}

	err = s.mailer.Send(ctx, mail.Message{
		To:      requester.Email,
		Subject: subject,
		Body:    body,
	})

	if err != nil {
		s.log.Warn("decision email failed", "request_id", req.ID, "err", err)
		return EmailResult{Attempted: true, Error: err.Error()}
	}

	return EmailResult{Attempted: true, Sent: true}
}

func (s *Service) notify(ctx context.Context, req accessreq.Request) error {
	title := fmt.Sprintf("Access request %s", req.Status)
	body := fmt.Sprintf("Your request to view order %s was %s.", req.OrderID, req.Status)
	if req.Note != "" {
		body += " Note: " + req.Note
	}

	return s.notes.Create(ctx, notification.Notification{
		ID:        uuid.NewString(),
		UserID:    req.RequesterID,
		Title:     title,
		Body:      body,
		Link:      "/receipts/" + req.OrderID,
		CreatedAt: time.Now().UTC(),
	})
}
