package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/collinsmw/boutique/internal/domain/errors"
	"github.com/collinsmw/boutique/internal/domain/model"
	"github.com/collinsmw/boutique/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu      sync.Mutex
	ByEmail map[string]*model.User
	ByID    map[int64]*model.User
	Next    int64
	Err     error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[int64]*model.User),
		Next:    1,
	}
}

// AddUser seeds the stub with an existing user.
func (s *UserRepositoryStub) AddUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.Next
		s.Next++
	} else if u.ID >= s.Next {
		s.Next = u.ID + 1
	}
	s.ByEmail[u.Email] = u
	s.ByID[u.ID] = u
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, name, email, phone, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ByEmail[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	u := &model.User{
		ID:           s.Next,
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.Next++
	s.ByEmail[email] = u
	s.ByID[u.ID] = u
	return u, nil
}

// GetByEmail returns stored user or not-found error.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.ByEmail[email]; ok {
		return u, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID returns stored user or not-found error.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.ByID[id]; ok {
		return u, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderRepositoryStub keeps orders in-memory and mirrors the ledger's
// conditional-update semantics, including the at-most-once paid transition.
type OrderRepositoryStub struct {
	mu            sync.Mutex
	Orders        map[string]*model.Order
	Err           error
	MarkPaidCalls int
}

// NewOrderRepositoryStub constructs stub repository with initialized map.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
}

// AddOrder seeds the stub with an existing order.
func (s *OrderRepositoryStub) AddOrder(o *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Orders[o.ID] = o
}

// Create stores a new order.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	s.Orders[order.ID] = order
	return nil
}

// GetByID returns a copy of the stored order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

// AttachPaymentReference sets the reference unless the order is paid.
func (s *OrderRepositoryStub) AttachPaymentReference(ctx context.Context, id, reference string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if o.IsPaid {
		return domainErrors.ErrAlreadyPaid
	}
	o.PaymentReference = &reference
	o.UpdatedAt = time.Now()
	return nil
}

// SetPaymentContact sets the phone unless the order is paid.
func (s *OrderRepositoryStub) SetPaymentContact(ctx context.Context, id, phone string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if o.IsPaid {
		return domainErrors.ErrAlreadyPaid
	}
	o.PaymentContact = &phone
	o.UpdatedAt = time.Now()
	return nil
}

// MarkPaid performs the conditional paid transition.
func (s *OrderRepositoryStub) MarkPaid(ctx context.Context, id string, result model.PaymentResult, paidAt time.Time) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MarkPaidCalls++
	o, ok := s.Orders[id]
	if !ok {
		return false, domainErrors.ErrNotFound
	}
	if o.IsPaid {
		return false, nil
	}
	o.IsPaid = true
	o.PaidAt = &paidAt
	o.PaymentResult = &result
	o.UpdatedAt = time.Now()
	return true, nil
}

// SelectUnreconciled filters initialized unpaid orders by cutoff.
func (s *OrderRepositoryStub) SelectUnreconciled(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if len(result) >= limit {
			break
		}
		if !o.IsPaid && o.PaymentReference != nil && o.UpdatedAt.Before(cutoff) {
			result = append(result, *o)
		}
	}
	return result, nil
}

var _ repository.UserRepository = (*UserRepositoryStub)(nil)
var _ repository.OrderRepository = (*OrderRepositoryStub)(nil)
