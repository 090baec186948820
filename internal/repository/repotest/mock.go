// Package repotest provides function-field mocks of the repository
// interfaces for service and handler tests.
package repotest

import (
	"context"
	"sync"

	"equipment-inventory-api/internal/model"
	"equipment-inventory-api/internal/repository"
	"equipment-inventory-api/internal/search"
)

// Calls counts invocations across every method of a mock.
type Calls struct {
	mu sync.Mutex
	n  int
}

func (c *Calls) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

// Count returns the number of calls made so far.
func (c *Calls) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// MockEquipmentRepository is a mock implementation of EquipmentRepository
type MockEquipmentRepository struct {
	Calls

	ListActiveFunc    func(ctx context.Context) ([]model.Equipment, error)
	SearchFunc        func(ctx context.Context, filter search.Filter) ([]model.Equipment, error)
	GetActiveByIDFunc func(ctx context.Context, id int64) (*model.Equipment, error)
	CreateFunc        func(ctx context.Context, equipment *model.Equipment) error
	UpdateFunc        func(ctx context.Context, equipment *model.Equipment) error
	SoftDeleteFunc    func(ctx context.Context, id int64) error
}

var _ repository.EquipmentRepository = (*MockEquipmentRepository)(nil)

func (m *MockEquipmentRepository) ListActive(ctx context.Context) ([]model.Equipment, error) {
	m.inc()
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return []model.Equipment{}, nil
}

func (m *MockEquipmentRepository) Search(ctx context.Context, filter search.Filter) ([]model.Equipment, error) {
	m.inc()
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, filter)
	}
	return []model.Equipment{}, nil
}

func (m *MockEquipmentRepository) GetActiveByID(ctx context.Context, id int64) (*model.Equipment, error) {
	m.inc()
	if m.GetActiveByIDFunc != nil {
		return m.GetActiveByIDFunc(ctx, id)
	}
	return nil, repository.ErrEquipmentNotFound
}

func (m *MockEquipmentRepository) Create(ctx context.Context, equipment *model.Equipment) error {
	m.inc()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, equipment)
	}
	return nil
}

func (m *MockEquipmentRepository) Update(ctx context.Context, equipment *model.Equipment) error {
	m.inc()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, equipment)
	}
	return nil
}

func (m *MockEquipmentRepository) SoftDelete(ctx context.Context, id int64) error {
	m.inc()
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Calls

	CreateFunc       func(ctx context.Context, user *model.User) error
	GetByEmailFunc   func(ctx context.Context, email string) (*model.User, error)
	GetByIDFunc      func(ctx context.Context, id int64) (*model.User, error)
	ListFunc         func(ctx context.Context) ([]model.User, error)
	SearchByNameFunc func(ctx context.Context, name string) ([]model.User, error)
	UpdateFunc       func(ctx context.Context, user *model.User) error
	EmailTakenFunc   func(ctx context.Context, email string, exceptID int64) (bool, error)
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.inc()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	m.inc()
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, repository.ErrUserNotFound
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	m.inc()
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrUserNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	m.inc()
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []model.User{}, nil
}

func (m *MockUserRepository) SearchByName(ctx context.Context, name string) ([]model.User, error) {
	m.inc()
	if m.SearchByNameFunc != nil {
		return m.SearchByNameFunc(ctx, name)
	}
	return []model.User{}, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	m.inc()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	m.inc()
	if m.EmailTakenFunc != nil {
		return m.EmailTakenFunc(ctx, email, exceptID)
	}
	return false, nil
}

// MockActionLogRepository is a mock implementation of ActionLogRepository
type MockActionLogRepository struct {
	Calls

	InsertFunc          func(ctx context.Context, entry model.ActionLogEntry) error
	ListByEquipmentFunc func(ctx context.Context, equipmentID int64) ([]model.ActionLogEntry, error)
}

var _ repository.ActionLogRepository = (*MockActionLogRepository)(nil)

func (m *MockActionLogRepository) Insert(ctx context.Context, entry model.ActionLogEntry) error {
	m.inc()
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	return nil
}

func (m *MockActionLogRepository) ListByEquipment(ctx context.Context, equipmentID int64) ([]model.ActionLogEntry, error) {
	m.inc()
	if m.ListByEquipmentFunc != nil {
		return m.ListByEquipmentFunc(ctx, equipmentID)
	}
	return []model.ActionLogEntry{}, nil
}

// RecordingRecorder keeps every recorded entry in memory.
type RecordingRecorder struct {
	mu      sync.Mutex
	entries []model.ActionLogEntry
}

func (r *RecordingRecorder) Record(entry model.ActionLogEntry) {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

// Entries returns a copy of the recorded entries.
func (r *RecordingRecorder) Entries() []model.ActionLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ActionLogEntry(nil), r.entries...)
}
