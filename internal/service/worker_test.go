package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyops/tenant-sms-backend/internal/model"
)

func queuedMessage(t *testing.T, repo *MockMessageRepo, tenantID int, content string) *model.Message {
	t.Helper()
	msg := &model.Message{TenantID: tenantID, Content: content, Status: "pending"}
	require.NoError(t, repo.Create(msg))
	return msg
}

func TestWorkerProcessSendsPendingMessage(t *testing.T) {
	msgRepo := NewMockMessageRepo()
	client := &FakeGatewayClient{}
	w := NewWorker(msgRepo, NewMockTenantRepo(testTenants()...), client)

	msg := queuedMessage(t, msgRepo, 1, "Rent is due")

	require.NoError(t, w.Process(context.Background(), msg.ID))

	stored, _ := msgRepo.GetByID(msg.ID)
	assert.Equal(t, "sent", stored.Status)
	assert.Equal(t, "txt-100", stored.GatewayTextID)

	require.Len(t, client.Sends, 1)
	assert.Equal(t, "5551230001", client.Sends[0].Phone)
	assert.Equal(t, "Rent is due", client.Sends[0].Text)
}

func TestWorkerProcessSkipsMissingAndHandled(t *testing.T) {
	msgRepo := NewMockMessageRepo()
	client := &FakeGatewayClient{}
	w := NewWorker(msgRepo, NewMockTenantRepo(testTenants()...), client)

	// Unknown ID is not an error so queue redeliveries are dropped.
	require.NoError(t, w.Process(context.Background(), 42))

	msg := queuedMessage(t, msgRepo, 1, "Rent is due")
	require.NoError(t, msgRepo.MarkSent(msg.ID, "txt-old"))

	require.NoError(t, w.Process(context.Background(), msg.ID))
	assert.Empty(t, client.Sends)
}

func TestWorkerProcessOptedOutTenant(t *testing.T) {
	msgRepo := NewMockMessageRepo()
	client := &FakeGatewayClient{}
	w := NewWorker(msgRepo, NewMockTenantRepo(testTenants()...), client)

	msg := queuedMessage(t, msgRepo, 3, "Rent is due")

	require.NoError(t, w.Process(context.Background(), msg.ID))

	stored, _ := msgRepo.GetByID(msg.ID)
	assert.Equal(t, "failed", stored.Status)
	assert.Contains(t, stored.LastError, "opted out")
	assert.Empty(t, client.Sends)
}

func TestWorkerProcessMissingTenant(t *testing.T) {
	msgRepo := NewMockMessageRepo()
	client := &FakeGatewayClient{}
	w := NewWorker(msgRepo, NewMockTenantRepo(testTenants()...), client)

	msg := queuedMessage(t, msgRepo, 77, "Rent is due")

	require.NoError(t, w.Process(context.Background(), msg.ID))

	stored, _ := msgRepo.GetByID(msg.ID)
	assert.Equal(t, "failed", stored.Status)
	assert.Empty(t, client.Sends)
}

func TestWorkerProcessGatewayError(t *testing.T) {
	msgRepo := NewMockMessageRepo()
	client := &FakeGatewayClient{Err: errors.New("connection refused")}
	w := NewWorker(msgRepo, NewMockTenantRepo(testTenants()...), client)

	msg := queuedMessage(t, msgRepo, 1, "Rent is due")

	// The error propagates so the queue retries the job.
	err := w.Process(context.Background(), msg.ID)
	require.Error(t, err)

	stored, _ := msgRepo.GetByID(msg.ID)
	assert.Equal(t, "failed", stored.Status)
	assert.Contains(t, stored.LastError, "connection refused")
}

func TestWorkerProcessGatewayRejection(t *testing.T) {
	msgRepo := NewMockMessageRepo()
	client := &FakeGatewayClient{Reject: true}
	w := NewWorker(msgRepo, NewMockTenantRepo(testTenants()...), client)

	msg := queuedMessage(t, msgRepo, 1, "Rent is due")

	err := w.Process(context.Background(), msg.ID)
	require.Error(t, err)

	stored, _ := msgRepo.GetByID(msg.ID)
	assert.Equal(t, "failed", stored.Status)
	assert.Equal(t, "rejected", stored.LastError)
}

func TestWorkerStartDrainsChannel(t *testing.T) {
	msgRepo := NewMockMessageRepo()
	client := &FakeGatewayClient{}
	w := NewWorker(msgRepo, NewMockTenantRepo(testTenants()...), client)

	first := queuedMessage(t, msgRepo, 1, "one")
	second := queuedMessage(t, msgRepo, 2, "two")

	jobs := make(chan int, 2)
	jobs <- first.ID
	jobs <- second.ID
	close(jobs)

	w.Start(context.Background(), jobs)

	require.Len(t, client.Sends, 2)
	for _, id := range []int{first.ID, second.ID} {
		stored, _ := msgRepo.GetByID(id)
		assert.Equal(t, "sent", stored.Status)
	}
}
