package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// MockGroupRepository is a mock implementation of GroupRepository.
type MockGroupRepository struct {
	mu     sync.RWMutex
	groups map[string]*domain.Group

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, group *domain.Group) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Group, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Group, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Group, error)
	AddMemberFunc        func(ctx context.Context, tx usecase.Transaction, groupID string, member domain.Address, joinedAt time.Time) error
	RemoveMemberFunc     func(ctx context.Context, tx usecase.Transaction, groupID string, member domain.Address) error
	BumpVersionFunc      func(ctx context.Context, tx usecase.Transaction, groupID string, updatedAt time.Time) (int64, error)
	MemberHasHistoryFunc func(ctx context.Context, groupID string, member domain.Address) (bool, error)
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups: make(map[string]*domain.Group),
	}
}

// Seed inserts a group directly into the backing store.
func (m *MockGroupRepository) Seed(group *domain.Group) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group.ID] = group
}

func (m *MockGroupRepository) Create(ctx context.Context, tx usecase.Transaction, group *domain.Group) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, group)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group.ID] = group
	return nil
}

// GetByID returns a copy, the way a real repository scans fresh rows.
func (m *MockGroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	copied := *g
	copied.Members = append([]domain.Address(nil), g.Members...)
	return &copied, nil
}

func (m *MockGroupRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Group, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockGroupRepository) List(ctx context.Context, limit, offset int) ([]*domain.Group, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var groups []*domain.Group
	for _, g := range m.groups {
		groups = append(groups, g)
	}
	return groups, nil
}

func (m *MockGroupRepository) AddMember(ctx context.Context, tx usecase.Transaction, groupID string, member domain.Address, joinedAt time.Time) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, tx, groupID, member, joinedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.groups[groupID]; ok {
		g.Members = append(g.Members, member)
	}
	return nil
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, tx usecase.Transaction, groupID string, member domain.Address) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, tx, groupID, member)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.groups[groupID]; ok {
		kept := g.Members[:0]
		for _, mem := range g.Members {
			if mem != member {
				kept = append(kept, mem)
			}
		}
		g.Members = kept
	}
	return nil
}

func (m *MockGroupRepository) BumpVersion(ctx context.Context, tx usecase.Transaction, groupID string, updatedAt time.Time) (int64, error) {
	if m.BumpVersionFunc != nil {
		return m.BumpVersionFunc(ctx, tx, groupID, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok {
		return 0, domain.ErrGroupNotFound
	}
	g.Version++
	g.UpdatedAt = updatedAt
	return g.Version, nil
}

func (m *MockGroupRepository) MemberHasHistory(ctx context.Context, groupID string, member domain.Address) (bool, error) {
	if m.MemberHasHistoryFunc != nil {
		return m.MemberHasHistoryFunc(ctx, groupID, member)
	}
	return false, nil
}

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses []*domain.Expense

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Expense, error)
	ListByGroupFunc    func(ctx context.Context, groupID string, limit, offset int) ([]*domain.Expense, error)
	ListAllByGroupFunc func(ctx context.Context, groupID string) ([]*domain.Expense, error)
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{}
}

func (m *MockExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses = append(m.expenses, expense)
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Expense, error) {
	if m.ListByGroupFunc != nil {
		return m.ListByGroupFunc(ctx, groupID, limit, offset)
	}
	all, _ := m.ListAllByGroup(ctx, groupID)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MockExpenseRepository) ListAllByGroup(ctx context.Context, groupID string) ([]*domain.Expense, error) {
	if m.ListAllByGroupFunc != nil {
		return m.ListAllByGroupFunc(ctx, groupID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Expense
	for _, e := range m.expenses {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out, nil
}

// MockSettlementRepository is a mock implementation of
// SettlementRepository. The default Create enforces external reference
// uniqueness the way the storage unique index does.
type MockSettlementRepository struct {
	mu          sync.RWMutex
	settlements []*domain.Settlement
	refs        map[string]bool

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, settlement *domain.Settlement) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Settlement, error)
	ListByGroupFunc    func(ctx context.Context, groupID string, limit, offset int) ([]*domain.Settlement, error)
	ListAllByGroupFunc func(ctx context.Context, groupID string) ([]*domain.Settlement, error)
}

func NewMockSettlementRepository() *MockSettlementRepository {
	return &MockSettlementRepository{
		refs: make(map[string]bool),
	}
}

func (m *MockSettlementRepository) Create(ctx context.Context, tx usecase.Transaction, settlement *domain.Settlement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, settlement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if settlement.ExternalRef != nil {
		if m.refs[*settlement.ExternalRef] {
			return domain.ErrDuplicateReference
		}
		m.refs[*settlement.ExternalRef] = true
	}
	m.settlements = append(m.settlements, settlement)
	return nil
}

func (m *MockSettlementRepository) GetByID(ctx context.Context, id string) (*domain.Settlement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.settlements {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrSettlementNotFound
}

func (m *MockSettlementRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Settlement, error) {
	if m.ListByGroupFunc != nil {
		return m.ListByGroupFunc(ctx, groupID, limit, offset)
	}
	all, _ := m.ListAllByGroup(ctx, groupID)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MockSettlementRepository) ListAllByGroup(ctx context.Context, groupID string) ([]*domain.Settlement, error) {
	if m.ListAllByGroupFunc != nil {
		return m.ListAllByGroupFunc(ctx, groupID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Settlement
	for _, s := range m.settlements {
		if s.GroupID == groupID {
			out = append(out, s)
		}
	}
	return out, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregateFunc  func(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// Events returns everything recorded so far.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	if m.GetByAggregateFunc != nil {
		return m.GetByAggregateFunc(ctx, aggregateType, aggregateID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
