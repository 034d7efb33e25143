package file

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/accessreq"
)

type RequestsRepo struct {
	col *collection
}

func NewRequestsRepo(dir string) *RequestsRepo {
	return &RequestsRepo{col: newCollection(filepath.Join(dir, "access_requests.json"))}
}

func (r *RequestsRepo) Create(ctx context.Context, req accessreq.Request) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var requests []accessreq.Request

	if err := r.col.load(&requests); err != nil {
		return err
	}

	requests = append(requests, req)

	return r.col.save(requests)
}

func (r *RequestsRepo) List(ctx context.Context) ([]accessreq.Request, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var requests []accessreq.Request

	if err := r.col.load(&requests); err != nil {
		return nil, err
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	return requests, nil
}

func (r *RequestsRepo) GetByID(ctx context.Context, id string) (accessreq.Request, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var requests []accessreq.Request

	if err := r.col.load(&requests); err != nil {
		return accessreq.Request{}, err
	}

	for _, req := range requests {
		if req.ID == id {
			return req, nil
		}
	}

	return accessreq.Request{}, apperr.NotFound("access request not found")
}

func (r *RequestsRepo) Update(ctx context.Context, req accessreq.Request) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var requests []accessreq.Request

	if err := r.col.load(&requests); err != nil {
		return err
	}

	for i, existing := range requests {
		if existing.ID == req.ID {
			requests[i] = req
			return r.col.save(requests)
		}
	}

	return apperr.NotFound("access request not found")
}
