package targeting

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyops/tenant-sms-backend/internal/gateway"
	"github.com/propertyops/tenant-sms-backend/internal/model"
)

// fakeClient scripts per-number gateway behavior.
type fakeClient struct {
	calls   []string
	failFor map[string]error
	reject  map[string]bool
}

func (f *fakeClient) Send(ctx context.Context, phoneNumber, text string) (*gateway.SendResult, error) {
	f.calls = append(f.calls, phoneNumber)
	if err, ok := f.failFor[phoneNumber]; ok {
		return nil, err
	}
	if f.reject[phoneNumber] {
		return &gateway.SendResult{Success: false, Error: "quota exceeded"}, nil
	}
	return &gateway.SendResult{TextID: "txt-" + phoneNumber, Success: true}, nil
}

func snapshot() []model.Tenant {
	return []model.Tenant{
		{ID: 1, Name: "Alice", Phone: "+15551230001", Rent: 1200, IsCurrentMonthRentPaid: false},
		{ID: 2, Name: "Bob", Phone: "+15551230002", Rent: 1450, IsCurrentMonthRentPaid: true},
		{ID: 3, Name: "Carol", Phone: "+15551230003", Rent: 990, IsCurrentMonthRentPaid: false},
	}
}

func TestSelect_OrderAndMembership(t *testing.T) {
	tenants := snapshot()
	cond, err := Shortcut("unpaid")
	require.NoError(t, err)

	selected, err := Select(tenants, cond)
	require.NoError(t, err)

	require.Len(t, selected, 2)
	assert.Equal(t, 1, selected[0].ID)
	assert.Equal(t, 3, selected[1].ID)
}

func TestSelect_EndToEndScenario(t *testing.T) {
	tenants := []model.Tenant{
		{ID: 1, IsCurrentMonthRentPaid: false},
		{ID: 2, IsCurrentMonthRentPaid: true},
	}
	cond, err := Shortcut("unpaid")
	require.NoError(t, err)

	selected, err := Select(tenants, cond)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, 1, selected[0].ID)
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	tenants := snapshot()
	before := snapshot()

	cond, err := Shortcut("unpaid")
	require.NoError(t, err)
	_, err = Select(tenants, cond)
	require.NoError(t, err)

	if !reflect.DeepEqual(tenants, before) {
		t.Fatalf("Select mutated its input: %+v != %+v", tenants, before)
	}
}

func TestSelect_ConditionErrorSelectsNothing(t *testing.T) {
	cond := &Condition{Field: "bogus", Operator: "eq", Value: 1}
	selected, err := Select(snapshot(), cond)
	var condErr *ConditionError
	require.ErrorAs(t, err, &condErr)
	assert.Nil(t, selected)
}

func TestRender(t *testing.T) {
	tenant := &model.Tenant{Name: "Alex", Rent: 1200}

	got, err := Render("Hi {name}, rent is {rent}", tenant)
	require.NoError(t, err)
	assert.Equal(t, "Hi Alex, rent is 1200", got)

	_, err = Render("Hi {nonexistent}", tenant)
	var tplErr *TemplateError
	require.ErrorAs(t, err, &tplErr)
	assert.Equal(t, "nonexistent", tplErr.Placeholder)

	// No placeholders is a plain passthrough.
	got, err = Render("Trash day is Monday", tenant)
	require.NoError(t, err)
	assert.Equal(t, "Trash day is Monday", got)
}

func TestValidateTemplate(t *testing.T) {
	tenant := &model.Tenant{Name: "Alex"}
	require.NoError(t, ValidateTemplate("Hi {name}", tenant))
	require.Error(t, ValidateTemplate("Hi {name}, {oops}", tenant))
}

func TestSendBatch_PerRecipientIsolation(t *testing.T) {
	client := &fakeClient{
		failFor: map[string]error{"+15551230001": errors.New("connection reset")},
	}
	engine := NewEngine(client)

	cond, err := Shortcut("all")
	require.NoError(t, err)

	deliveries, err := engine.SendBatch(context.Background(), snapshot(), cond, "Hi {name}")
	require.NoError(t, err)
	require.Len(t, deliveries, 3)

	// Alice's transport failure never blocks Bob or Carol.
	assert.Error(t, deliveries[0].Err)
	assert.Nil(t, deliveries[0].Result)

	require.NoError(t, deliveries[1].Err)
	assert.True(t, deliveries[1].Result.Success)
	assert.Equal(t, "txt-+15551230002", deliveries[1].Result.TextID)

	require.NoError(t, deliveries[2].Err)
	assert.True(t, deliveries[2].Result.Success)

	// Positional alignment with the selected set.
	for i, want := range []int{1, 2, 3} {
		assert.Equal(t, want, deliveries[i].Tenant.ID)
	}
	assert.Equal(t, []string{"+15551230001", "+15551230002", "+15551230003"}, client.calls)
}

func TestSendBatch_RenderFailureSkipsSend(t *testing.T) {
	client := &fakeClient{}
	engine := NewEngine(client)

	cond, err := Shortcut("all")
	require.NoError(t, err)

	deliveries, err := engine.SendBatch(context.Background(), snapshot(), cond, "Hi {bogus}")
	require.NoError(t, err)
	require.Len(t, deliveries, 3)

	for _, d := range deliveries {
		var tplErr *TemplateError
		require.ErrorAs(t, d.Err, &tplErr)
	}
	assert.Empty(t, client.calls, "nothing should reach the gateway")
}

func TestSendBatch_ConditionErrorAbortsBeforeSending(t *testing.T) {
	client := &fakeClient{}
	engine := NewEngine(client)

	cond := &Condition{Field: "bogus", Operator: "eq", Value: 1}
	_, err := engine.SendBatch(context.Background(), snapshot(), cond, "Hi {name}")
	var condErr *ConditionError
	require.ErrorAs(t, err, &condErr)
	assert.Empty(t, client.calls)
}

func TestSendBatch_GatewayRejection(t *testing.T) {
	client := &fakeClient{reject: map[string]bool{"+15551230002": true}}
	engine := NewEngine(client)

	cond, err := Shortcut("all")
	require.NoError(t, err)

	deliveries, err := engine.SendBatch(context.Background(), snapshot(), cond, fmt.Sprintf("Rent is {%s}", "rent"))
	require.NoError(t, err)

	require.NoError(t, deliveries[1].Err)
	assert.False(t, deliveries[1].Result.Success)
	assert.Equal(t, "quota exceeded", deliveries[1].Result.Error)
}
