// Package requests holds the late-pass and maintenance requests students raise
// and admins decide.
package requests

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/store"
	"github.com/pkg/errors"
)

type Kind string

const (
	KindLatePass    Kind = "late-pass"
	KindMaintenance Kind = "maintenance"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusResolved Status = "resolved"
)

var MaintenanceCategories = []string{"electrical", "plumbing", "furniture", "cleaning", "internet", "other"}

var ErrReturnByInPast = fmt.Errorf("return time must be in the future: %w", apperrors.ErrInvalidState)

// Request is either a late pass (Reason, ReturnBy) or a maintenance request
// (Category, Description).
type Request struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	StudentID   string     `json:"studentId"`
	Reason      string     `json:"reason,omitempty"`
	ReturnBy    *time.Time `json:"returnBy,omitempty"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
}

// transitions lists the statuses each kind may move to from a given status.
var transitions = map[Kind]map[Status][]Status{
	KindLatePass: {
		StatusPending: {StatusApproved, StatusRejected},
	},
	KindMaintenance: {
		StatusPending:  {StatusApproved, StatusRejected},
		StatusApproved: {StatusResolved},
	},
}

func (k Kind) Valid() bool {
	_, ok := transitions[k]
	return ok
}

type Service struct {
	mu       sync.Mutex
	requests map[Kind]*store.Collection[Request]
	index    *store.Collection[string]
	nowFunc  func() time.Time
}

type ServiceOption func(*Service)

func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func NewService(kv store.KV, options ...ServiceOption) *Service {
	s := &Service{
		requests: map[Kind]*store.Collection[Request]{
			KindLatePass:    store.NewCollection[Request](kv, "late_pass"),
			KindMaintenance: store.NewCollection[Request](kv, "maintenance"),
		},
		index:   store.NewCollection[string](kv, "request_owner"),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Service) CreateLatePass(ctx context.Context, studentID, reason string, returnBy time.Time) (*Request, error) {
	if !returnBy.After(s.nowFunc()) {
		return nil, ErrReturnByInPast
	}
	return s.create(ctx, &Request{
		Kind:      KindLatePass,
		StudentID: studentID,
		Reason:    reason,
		ReturnBy:  &returnBy,
	})
}

func (s *Service) CreateMaintenance(ctx context.Context, studentID, category, description string) (*Request, error) {
	return s.create(ctx, &Request{
		Kind:        KindMaintenance,
		StudentID:   studentID,
		Category:    category,
		Description: description,
	})
}

func (s *Service) create(ctx context.Context, req *Request) (*Request, error) {
	req.ID = uuid.New().String()
	req.Status = StatusPending
	req.CreatedAt = s.nowFunc()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requests[req.Kind].Put(ctx, store.GroupID(req.StudentID, req.ID), req); err != nil {
		return nil, errors.Wrapf(err, "[create] failed to store %s request", req.Kind)
	}
	owner := req.StudentID
	if err := s.index.Put(ctx, req.ID, &owner); err != nil {
		return nil, errors.Wrapf(err, "[create] failed to index %s request", req.Kind)
	}
	return req, nil
}

// ListForStudent returns a student's requests of one kind, newest first.
func (s *Service) ListForStudent(ctx context.Context, kind Kind, studentID string) ([]Request, error) {
	if !kind.Valid() {
		return nil, apperrors.ErrNotFound
	}
	list, err := s.requests[kind].ListGroup(ctx, studentID)
	if err != nil {
		return nil, errors.Wrapf(err, "[ListForStudent] failed to list %s requests", kind)
	}
	return newestFirst(list), nil
}

// ListAll returns every request of one kind, optionally filtered by status.
func (s *Service) ListAll(ctx context.Context, kind Kind, status Status) ([]Request, error) {
	if !kind.Valid() {
		return nil, apperrors.ErrNotFound
	}
	list, err := s.requests[kind].List(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "[ListAll] failed to list %s requests", kind)
	}
	all := newestFirst(list)
	if status == "" {
		return all, nil
	}
	filtered := make([]Request, 0, len(all))
	for _, r := range all {
		if r.Status == status {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// Decide moves a request to status. Moves not allowed from its current status
// return ErrInvalidState.
func (s *Service) Decide(ctx context.Context, kind Kind, id string, status Status) (*Request, error) {
	if !kind.Valid() {
		return nil, apperrors.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owner, err := s.index.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Decide] failed to look up request")
	}

	key := store.GroupID(*owner, id)
	req, err := s.requests[kind].Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Decide] failed to load request")
	}

	if !allowed(kind, req.Status, status) {
		return nil, errors.Wrapf(apperrors.ErrInvalidState, "cannot move %s request from %s to %s", kind, req.Status, status)
	}

	now := s.nowFunc()
	req.Status = status
	req.DecidedAt = &now
	if err := s.requests[kind].Put(ctx, key, req); err != nil {
		return nil, errors.Wrap(err, "[Decide] failed to store request")
	}
	return req, nil
}

func allowed(kind Kind, from, to Status) bool {
	for _, next := range transitions[kind][from] {
		if next == to {
			return true
		}
	}
	return false
}

func newestFirst(list []*Request) []Request {
	out := make([]Request, 0, len(list))
	for _, r := range list {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
