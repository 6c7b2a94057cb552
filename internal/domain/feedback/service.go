package feedback

import (
	"context"
	"errors"
	"time"

	"staffdesk/internal/domain/directory"
)

var (
	ErrNoActiveCycle  = errors.New("no active feedback cycle")
	ErrOutsideWindow  = errors.New("cycle window is not active")
	ErrInvalidQuarter = errors.New("invalid quarter")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

type Service struct {
	Store     *Store
	Directory *directory.Store
}

func NewService(store *Store, dir *directory.Store) *Service {
	return &Service{Store: store, Directory: dir}
}

// ActiveCycle finds the cycle whose window contains today and which is
// visible to the requesting employee's department. Visibility follows the
// requester, not the cycle owner: the owner's department is resolved per
// cycle and compared against the requester's.
func (s *Service) ActiveCycle(ctx context.Context, requestingEmployeeID string, today time.Time) (*Cycle, error) {
	collections, err := s.Store.CyclesByQuarter(ctx)
	if err != nil {
		return nil, err
	}

	requesterDept, err := s.Directory.DepartmentOfEmployee(ctx, requestingEmployeeID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, ErrNoActiveCycle
		}
		return nil, err
	}

	owners := make([]string, 0)
	seen := make(map[string]struct{})
	for _, cycles := range collections {
		for _, c := range cycles {
			if _, ok := seen[c.OwnerEmployeeID]; ok {
				continue
			}
			seen[c.OwnerEmployeeID] = struct{}{}
			owners = append(owners, c.OwnerEmployeeID)
		}
	}
	deptByOwner, err := s.Directory.DepartmentsByEmployee(ctx, owners)
	if err != nil {
		return nil, err
	}

	scoped := make([][]Cycle, len(collections))
	for i, cycles := range collections {
		scoped[i] = FilterByDepartment(cycles, deptByOwner, requesterDept)
	}

	active := FindActiveWindow(scoped, today)
	if active == nil {
		return nil, ErrNoActiveCycle
	}
	return active, nil
}

func (s *Service) ListCycles(ctx context.Context, quarter string) ([]Cycle, error) {
	if quarter != "" && !validQuarter(quarter) {
		return nil, ErrInvalidQuarter
	}
	return s.Store.ListCycles(ctx, quarter)
}

func (s *Service) CreateCycle(ctx context.Context, c Cycle) (string, error) {
	if !validQuarter(c.Quarter) {
		return "", ErrInvalidQuarter
	}
	return s.Store.CreateCycle(ctx, c)
}

func (s *Service) ListResponses(ctx context.Context, cycleID string) ([]Response, error) {
	if _, err := s.Store.GetCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	return s.Store.ListResponses(ctx, cycleID)
}

// SubmitResponse records a response against a cycle, rejecting submissions
// outside the cycle window.
func (s *Service) SubmitResponse(ctx context.Context, r Response, today time.Time) (string, error) {
	if r.Rating < 1 || r.Rating > 5 {
		return "", ErrInvalidRating
	}
	cycle, err := s.Store.GetCycle(ctx, r.CycleID)
	if err != nil {
		return "", err
	}
	if FindActiveWindow([][]Cycle{{*cycle}}, today) == nil {
		return "", ErrOutsideWindow
	}
	return s.Store.CreateResponse(ctx, r)
}

func validQuarter(q string) bool {
	for _, known := range Quarters {
		if q == known {
			return true
		}
	}
	return false
}
