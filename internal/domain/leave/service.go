package leave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"staffdesk/internal/domain/directory"
)

var (
	ErrCategoryNotFound    = errors.New("leave category not found")
	ErrCategoryInactive    = errors.New("leave category is inactive")
	ErrInsufficientBalance = errors.New("insufficient effective balance")
	ErrExceedsAllotment    = errors.New("request exceeds category allotment")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidState        = errors.New("invalid request state")
)

type Service struct {
	Store     *Store
	Directory *directory.Store
}

func NewService(store *Store, dir *directory.Store) *Service {
	return &Service{Store: store, Directory: dir}
}

func (s *Service) ListCategories(ctx context.Context, activeOnly bool) ([]Category, error) {
	return s.Store.ListCategories(ctx, activeOnly)
}

func (s *Service) CreateCategory(ctx context.Context, cat Category) (string, error) {
	return s.Store.CreateCategory(ctx, cat)
}

func (s *Service) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	return s.Directory.EmployeeIDByUserID(ctx, userID)
}

func (s *Service) IsManagerOf(ctx context.Context, managerEmployeeID, employeeID string) (bool, error) {
	return s.Directory.IsManagerOf(ctx, managerEmployeeID, employeeID)
}

// Balances computes the effective balance for every active category. The
// pending requests are fetched once; per-category snapshots are fetched
// concurrently and combined with the pure resolver.
func (s *Service) Balances(ctx context.Context, employeeID string) ([]BalanceSummary, error) {
	categories, err := s.Store.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}
	pending, err := s.Store.PendingRequests(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	summaries := make([]BalanceSummary, len(categories))
	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	for i, cat := range categories {
		group.Go(func() error {
			snapshot, err := s.Store.LatestSnapshot(groupCtx, employeeID, cat.ID)
			if err != nil {
				return fmt.Errorf("snapshot for category %s: %w", cat.ID, err)
			}
			summary := EffectiveRemaining(snapshot, cat.ID, cat.MaxAllotment, pending)
			summary.CategoryName = cat.Name
			mu.Lock()
			summaries[i] = summary
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Balance computes the effective balance for a single category.
func (s *Service) Balance(ctx context.Context, employeeID, categoryID string) (BalanceSummary, error) {
	cat, err := s.Store.GetCategory(ctx, categoryID)
	if err != nil {
		return BalanceSummary{}, err
	}
	if cat == nil {
		return BalanceSummary{}, ErrCategoryNotFound
	}
	snapshot, err := s.Store.LatestSnapshot(ctx, employeeID, categoryID)
	if err != nil {
		return BalanceSummary{}, err
	}
	pending, err := s.Store.PendingRequests(ctx, employeeID)
	if err != nil {
		return BalanceSummary{}, err
	}
	summary := EffectiveRemaining(snapshot, categoryID, cat.MaxAllotment, pending)
	summary.CategoryName = cat.Name
	return summary, nil
}

// SubmitRequest validates the span against the pending-adjusted balance and
// the category allotment, then records the request as pending. The stored
// snapshot is not touched; pending requests reduce availability implicitly.
func (s *Service) SubmitRequest(ctx context.Context, req Request) (Request, error) {
	cat, err := s.Store.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return Request{}, err
	}
	if cat == nil {
		return Request{}, ErrCategoryNotFound
	}
	if !cat.Active {
		return Request{}, ErrCategoryInactive
	}

	days, err := SpanDays(req.FromDate, req.UntilDate, req.FromDayType, req.UntilDayType)
	if err != nil {
		return Request{}, err
	}
	req.Days = days

	if days.GreaterThan(cat.MaxAllotment) {
		return Request{}, ErrExceedsAllotment
	}

	summary, err := s.Balance(ctx, req.EmployeeID, req.CategoryID)
	if err != nil {
		return Request{}, err
	}
	if days.GreaterThan(summary.Remaining) {
		return Request{}, ErrInsufficientBalance
	}

	id, err := s.Store.CreateRequest(ctx, req)
	if err != nil {
		return Request{}, err
	}
	req.ID = id
	req.Status = StatusPending
	return req, nil
}

func (s *Service) GetRequest(ctx context.Context, requestID string) (*Request, error) {
	return s.Store.GetRequest(ctx, requestID)
}

func (s *Service) ListRequests(ctx context.Context, employeeID, managerEmployeeID, status string, limit, offset int) ([]Request, error) {
	return s.Store.ListRequests(ctx, employeeID, managerEmployeeID, status, limit, offset)
}

// ApproveRequest flips a pending request to approved and appends a new
// balance snapshot superseding the previous one. Older snapshots stay
// untouched for audit.
func (s *Service) ApproveRequest(ctx context.Context, requestID, approverUserID string) (*Request, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != StatusPending {
		return nil, ErrInvalidState
	}

	cat, err := s.Store.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrCategoryNotFound
	}

	snapshot, err := s.Store.LatestSnapshot(ctx, req.EmployeeID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	base := EffectiveRemaining(snapshot, req.CategoryID, cat.MaxAllotment, nil)

	used := base.Used.Add(req.Days)
	remaining := base.Remaining.Sub(req.Days)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	if err := s.Store.UpdateRequestStatus(ctx, requestID, StatusApproved, approverUserID); err != nil {
		return nil, err
	}
	if err := s.Store.AppendSnapshot(ctx, req.EmployeeID, req.CategoryID, base.Total, used, remaining, time.Now().UTC()); err != nil {
		return nil, err
	}
	req.Status = StatusApproved
	return req, nil
}

// RejectRequest flips a pending request to rejected. No snapshot is written;
// the request simply stops counting against effective remaining.
func (s *Service) RejectRequest(ctx context.Context, requestID, approverUserID string) (*Request, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != StatusPending {
		return nil, ErrInvalidState
	}
	if err := s.Store.UpdateRequestStatus(ctx, requestID, StatusRejected, approverUserID); err != nil {
		return nil, err
	}
	req.Status = StatusRejected
	return req, nil
}

// CancelRequest lets the owner withdraw a pending request. Approved requests
// need HR intervention because their snapshot already reflects the days.
func (s *Service) CancelRequest(ctx context.Context, requestID, actorEmployeeID string) (*Request, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.EmployeeID != actorEmployeeID {
		return nil, ErrForbidden
	}
	if req.Status != StatusPending {
		return nil, ErrInvalidState
	}
	if err := s.Store.UpdateRequestStatus(ctx, requestID, StatusCancelled, ""); err != nil {
		return nil, err
	}
	req.Status = StatusCancelled
	return req, nil
}
