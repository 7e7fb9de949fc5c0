package reply

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyops/tenant-sms-backend/internal/model"
)

func testTenants() []model.Tenant {
	return []model.Tenant{
		{ID: 1, Name: "Alice", Phone: "+15551234567", SMSOptInStatus: model.OptInPending},
		{ID: 2, Name: "Bob", Phone: "5559876543", SMSOptInStatus: model.OptedIn},
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"yes", IntentOptIn},
		{"  YES  ", IntentOptIn},
		{"Y", IntentOptIn},
		{"start", IntentOptIn},
		{"UNSTOP", IntentOptIn},
		{"join", IntentOptIn},
		{"Subscribe", IntentOptIn},
		{"STOP", IntentOptOut},
		{"stop", IntentOptOut},
		{"stopall", IntentOptOut},
		{"Unsubscribe", IntentOptOut},
		{"CANCEL", IntentOptOut},
		{"end", IntentOptOut},
		{"quit", IntentOptOut},
		{"Stop please", IntentUnrecognized}, // contains a keyword but is not one
		{"yes!", IntentUnrecognized},
		{"what is this", IntentUnrecognized},
		{"", IntentUnrecognized},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.text), "text %q", c.text)
	}
}

func TestReceive_OptIn(t *testing.T) {
	m := NewMachine("Jannah Property Management")
	tenants := testTenants()
	receivedAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	out, err := m.Receive(tenants, Event{
		GatewayTextID: "txt-1",
		FromNumber:    "(555) 123-4567", // different format, same line
		Text:          "  yes ",
		ReceivedAt:    receivedAt,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Tenant)

	assert.Equal(t, 1, out.Tenant.ID)
	assert.Equal(t, IntentOptIn, out.Intent)
	assert.Equal(t, model.OptedIn, out.Tenant.SMSOptInStatus)
	require.NotNil(t, out.Tenant.SMSOptInDate)
	assert.Equal(t, receivedAt, *out.Tenant.SMSOptInDate)
	assert.Nil(t, out.Tenant.SMSOptOutDate)

	assert.Contains(t, out.ConfirmationMessage, "subscribed")
	assert.Contains(t, out.ConfirmationMessage, "Jannah Property Management")

	// The mutation lands in the caller's snapshot.
	assert.Equal(t, model.OptedIn, tenants[0].SMSOptInStatus)
}

func TestReceive_OptOut(t *testing.T) {
	m := NewMachine("Acme Rentals")
	tenants := testTenants()
	receivedAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	out, err := m.Receive(tenants, Event{
		GatewayTextID: "txt-2",
		FromNumber:    "+15559876543",
		Text:          "STOP",
		ReceivedAt:    receivedAt,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Tenant)

	assert.Equal(t, 2, out.Tenant.ID)
	assert.Equal(t, model.OptedOut, out.Tenant.SMSOptInStatus)
	require.NotNil(t, out.Tenant.SMSOptOutDate)
	assert.Equal(t, receivedAt, *out.Tenant.SMSOptOutDate)
	assert.Nil(t, out.Tenant.SMSOptInDate)

	assert.Contains(t, out.ConfirmationMessage, "unsubscribed")
	assert.Contains(t, out.ConfirmationMessage, "Acme Rentals")
}

func TestReceive_UnrecognizedChangesNothing(t *testing.T) {
	m := NewMachine("Acme Rentals")
	tenants := testTenants()

	out, err := m.Receive(tenants, Event{
		GatewayTextID: "txt-3",
		FromNumber:    "+15551234567",
		Text:          "Stop please",
		ReceivedAt:    time.Now(),
	})
	require.NoError(t, err)
	require.NotNil(t, out.Tenant)

	assert.Equal(t, IntentUnrecognized, out.Intent)
	assert.Equal(t, model.OptInPending, out.Tenant.SMSOptInStatus)
	assert.Nil(t, out.Tenant.SMSOptInDate)
	assert.Empty(t, out.ConfirmationMessage)
}

func TestReceive_TenantNotFound(t *testing.T) {
	m := NewMachine("Acme Rentals")
	tenants := testTenants()

	out, err := m.Receive(tenants, Event{
		GatewayTextID: "txt-4",
		FromNumber:    "+15550000000",
		Text:          "yes",
		ReceivedAt:    time.Now(),
	})
	require.NoError(t, err)

	assert.Nil(t, out.Tenant)
	assert.Equal(t, IntentOptIn, out.Intent)
	assert.Empty(t, out.ConfirmationMessage)

	for _, tn := range tenants {
		assert.NotEqual(t, model.OptedIn, tn.SMSOptInStatus, "no tenant may be mutated")
	}
}

func TestReceive_AmbiguousNumber(t *testing.T) {
	m := NewMachine("Acme Rentals")
	// Same line stored twice in different formats.
	tenants := []model.Tenant{
		{ID: 1, Phone: "+15551234567", SMSOptInStatus: model.OptInPending},
		{ID: 2, Phone: "5551234567", SMSOptInStatus: model.OptInPending},
	}

	out, err := m.Receive(tenants, Event{
		GatewayTextID: "txt-5",
		FromNumber:    "5551234567",
		Text:          "yes",
		ReceivedAt:    time.Now(),
	})

	var ambErr *AmbiguousTenantError
	require.ErrorAs(t, err, &ambErr)
	assert.Nil(t, out)
	assert.ElementsMatch(t, []int{1, 2}, ambErr.TenantIDs)

	for _, tn := range tenants {
		assert.Equal(t, model.OptInPending, tn.SMSOptInStatus, "neither tenant may be mutated")
		assert.Nil(t, tn.SMSOptInDate)
	}
}

func TestReceive_OptInClearsOptOutDate(t *testing.T) {
	m := NewMachine("Acme Rentals")
	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tenants := []model.Tenant{
		{ID: 1, Phone: "+15551234567", SMSOptInStatus: model.OptedOut, SMSOptOutDate: &past},
	}

	out, err := m.Receive(tenants, Event{
		GatewayTextID: "txt-6",
		FromNumber:    "+15551234567",
		Text:          "JOIN",
		ReceivedAt:    time.Now(),
	})
	require.NoError(t, err)

	assert.Equal(t, model.OptedIn, out.Tenant.SMSOptInStatus)
	assert.Nil(t, out.Tenant.SMSOptOutDate)
	assert.NotNil(t, out.Tenant.SMSOptInDate)
}
