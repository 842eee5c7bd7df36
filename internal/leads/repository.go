package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	List(ctx context.Context) ([]*Lead, error)
}

// InMemoryRepository keeps leads for the lifetime of the process. Leads are
// never updated or deleted once created.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	order []string

	now   func() time.Time
	newID func() string
}

// RepositoryOption customises an InMemoryRepository.
type RepositoryOption func(*InMemoryRepository)

// WithClock overrides the createdAt source.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *InMemoryRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(newID func() string) RepositoryOption {
	return func(r *InMemoryRepository) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository(opts ...RepositoryOption) *InMemoryRepository {
	r := &InMemoryRepository{
		leads: make(map[string]*Lead),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a new lead built from req and returns a copy of it.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lead := &Lead{
		PropertyAddress:   req.PropertyAddress,
		City:              req.City,
		State:             req.State,
		ZipCode:           req.ZipCode,
		PropertyType:      optional(req.PropertyType),
		Bedrooms:          optional(req.Bedrooms),
		Bathrooms:         optional(req.Bathrooms),
		SquareFootage:     optional(req.SquareFootage),
		PropertyCondition: optional(req.PropertyCondition),
		SellingReason:     optional(req.SellingReason),
		OtherReason:       optional(req.OtherReason),
		FullName:          req.FullName,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
		AdditionalDetails: optional(req.AdditionalDetails),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for r.taken(id) {
		id = r.newID()
	}
	lead.ID = id
	lead.CreatedAt = r.now()
	r.leads[id] = lead
	r.order = append(r.order, id)

	return lead.Clone(), nil
}

// taken must be called with mu held.
func (r *InMemoryRepository) taken(id string) bool {
	if id == "" {
		return true
	}
	_, ok := r.leads[id]
	return ok
}

// List returns copies of every lead in insertion order.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.leads[id].Clone())
	}
	return out, nil
}

// Count returns the number of stored leads.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
