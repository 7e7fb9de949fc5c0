package service

import (
	"context"
	"sync"
	"time"

	appErrors "github.com/propertyops/tenant-sms-backend/internal/errors"
	"github.com/propertyops/tenant-sms-backend/internal/gateway"
	"github.com/propertyops/tenant-sms-backend/internal/model"
)

// Mock repositories shared by the service tests.

type MockTenantRepo struct {
	mu      sync.Mutex
	tenants []model.Tenant

	optInUpdates map[int]string
}

func NewMockTenantRepo(tenants ...model.Tenant) *MockTenantRepo {
	return &MockTenantRepo{tenants: tenants, optInUpdates: map[int]string{}}
}

func (m *MockTenantRepo) Create(t *model.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = len(m.tenants) + 1
	m.tenants = append(m.tenants, *t)
	return nil
}

func (m *MockTenantRepo) GetByID(id int) (*model.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			t := m.tenants[i]
			return &t, nil
		}
	}
	return nil, appErrors.NewTenantNotFound(id)
}

func (m *MockTenantRepo) Update(t *model.Tenant) error { return nil }

func (m *MockTenantRepo) Deactivate(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			m.tenants[i].Active = false
			return nil
		}
	}
	return appErrors.NewTenantNotFound(id)
}

func (m *MockTenantRepo) ListActive() ([]model.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Tenant{}
	for _, t := range m.tenants {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockTenantRepo) UpdateOptInStatus(id int, status string, optInDate, optOutDate *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.optInUpdates[id] = status
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			m.tenants[i].SMSOptInStatus = status
			m.tenants[i].SMSOptInDate = optInDate
			m.tenants[i].SMSOptOutDate = optOutDate
		}
	}
	return nil
}

func (m *MockTenantRepo) UpdatePaymentFlags(id int, rentPaid, lateFee bool) error { return nil }

type MockMessageRepo struct {
	mu       sync.Mutex
	nextID   int
	msgs     map[int]*model.Message
	byTextID map[string]*model.Message
}

func NewMockMessageRepo() *MockMessageRepo {
	return &MockMessageRepo{msgs: map[int]*model.Message{}, byTextID: map[string]*model.Message{}}
}

func (m *MockMessageRepo) Create(msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	msg.ID = m.nextID
	cp := *msg
	m.msgs[msg.ID] = &cp
	if msg.GatewayTextID != "" {
		m.byTextID[msg.GatewayTextID] = &cp
	}
	return nil
}

func (m *MockMessageRepo) GetByID(id int) (*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.msgs[id]
	if !ok {
		return nil, nil
	}
	cp := *msg
	return &cp, nil
}

func (m *MockMessageRepo) GetByGatewayTextID(textID string) (*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.byTextID[textID]
	if !ok {
		return nil, nil
	}
	cp := *msg
	return &cp, nil
}

func (m *MockMessageRepo) MarkSent(id int, gatewayTextID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.msgs[id]; ok {
		msg.Status = "sent"
		msg.GatewayTextID = gatewayTextID
		m.byTextID[gatewayTextID] = msg
	}
	return nil
}

func (m *MockMessageRepo) MarkFailed(id int, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.msgs[id]; ok {
		msg.Status = "failed"
		msg.LastError = reason
		msg.RetryCount++
	}
	return nil
}

func (m *MockMessageRepo) ListByTenant(tenantID, limit int) ([]model.Message, error) {
	return nil, nil
}

func (m *MockMessageRepo) ListRecent(limit, offset int) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Message{}
	for i := 1; i <= m.nextID; i++ {
		if msg, ok := m.msgs[i]; ok {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *MockMessageRepo) StatusCounts() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := map[string]int{"pending": 0, "sent": 0, "failed": 0}
	for _, msg := range m.msgs {
		stats[msg.Status]++
	}
	return stats, nil
}

type MockReplyRepo struct {
	mu      sync.Mutex
	replies []*model.Reply
}

func (m *MockReplyRepo) Create(r *model.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = len(m.replies) + 1
	m.replies = append(m.replies, r)
	return nil
}

func (m *MockReplyRepo) MarkProcessed(id int) error { return nil }

func (m *MockReplyRepo) ListUnprocessed(limit int) ([]model.Reply, error) { return nil, nil }

// FakeGatewayClient records sends and can be scripted to fail.
type FakeGatewayClient struct {
	mu     sync.Mutex
	Sends  []FakeSend
	Err    error
	Reject bool
}

type FakeSend struct {
	Phone string
	Text  string
}

func (f *FakeGatewayClient) Send(ctx context.Context, phoneNumber, text string) (*gateway.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sends = append(f.Sends, FakeSend{Phone: phoneNumber, Text: text})
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Reject {
		return &gateway.SendResult{Success: false, Error: "rejected"}, nil
	}
	return &gateway.SendResult{TextID: "txt-100", Success: true}, nil
}

// CollectQueue records published payloads instead of dispatching them.
type CollectQueue struct {
	mu        sync.Mutex
	Published []int
	Err       error
}

func (q *CollectQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.Published = append(q.Published, payload.(int))
	return nil
}

func (q *CollectQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }
