package reply

import (
	"fmt"
	"strings"
	"time"

	"github.com/propertyops/tenant-sms-backend/internal/model"
	"github.com/propertyops/tenant-sms-backend/internal/phone"
)

// Intents a free-text reply can classify into.
const (
	IntentOptIn        = "opt_in"
	IntentOptOut       = "opt_out"
	IntentUnrecognized = "unrecognized"
)

// Keyword sets follow the carrier A2P conventions. Classification is
// exact-match after trimming; "Stop please" is not an opt-out.
var (
	optInKeywords  = []string{"YES", "Y", "START", "UNSTOP", "JOIN", "SUBSCRIBE"}
	optOutKeywords = []string{"STOP", "STOPALL", "UNSUBSCRIBE", "CANCEL", "END", "QUIT"}
)

const (
	optInConfirmation  = "Thank you! You're now subscribed to {companyName} SMS notifications. Reply STOP at any time to unsubscribe."
	optOutConfirmation = "You've been unsubscribed from {companyName} SMS notifications. Reply YES at any time to resubscribe."
)

// Event is one inbound reply delivered by the gateway webhook.
type Event struct {
	GatewayTextID string
	FromNumber    string
	Text          string
	ReceivedAt    time.Time
}

// Outcome describes what a reply did. Tenant is nil when the origin
// number matched no tenant; ConfirmationMessage is empty when no
// automatic confirmation should be sent.
type Outcome struct {
	Tenant              *model.Tenant
	Intent              string
	ConfirmationMessage string
}

// AmbiguousTenantError means the reply's number matched more than one
// tenant. Nothing is mutated; guessing would corrupt the wrong record.
type AmbiguousTenantError struct {
	FromNumber string
	TenantIDs  []int
}

func (e *AmbiguousTenantError) Error() string {
	return fmt.Sprintf("phone number %s matches %d tenants %v", e.FromNumber, len(e.TenantIDs), e.TenantIDs)
}

// Classify maps a free-text reply to an intent.
func Classify(text string) string {
	normalized := strings.ToUpper(strings.TrimSpace(text))
	for _, kw := range optInKeywords {
		if normalized == kw {
			return IntentOptIn
		}
	}
	for _, kw := range optOutKeywords {
		if normalized == kw {
			return IntentOptOut
		}
	}
	return IntentUnrecognized
}

// Machine applies reply events to tenant opt-in state.
type Machine struct {
	CompanyName string
}

func NewMachine(companyName string) *Machine {
	return &Machine{CompanyName: companyName}
}

// Receive resolves the event's origin number against the tenant snapshot,
// classifies the text and applies the transition in place. It is stateless
// across calls and does not deduplicate: the caller must filter events
// whose gateway text id it has already processed, or confirmations will be
// sent twice.
func (m *Machine) Receive(tenants []model.Tenant, ev Event) (*Outcome, error) {
	intent := Classify(ev.Text)

	var matched []*model.Tenant
	for i := range tenants {
		if phone.Match(tenants[i].Phone, ev.FromNumber) {
			matched = append(matched, &tenants[i])
		}
	}

	if len(matched) == 0 {
		return &Outcome{Tenant: nil, Intent: intent}, nil
	}
	if len(matched) > 1 {
		ids := make([]int, len(matched))
		for i, t := range matched {
			ids[i] = t.ID
		}
		return nil, &AmbiguousTenantError{FromNumber: ev.FromNumber, TenantIDs: ids}
	}

	t := matched[0]
	out := &Outcome{Tenant: t, Intent: intent}

	switch intent {
	case IntentOptIn:
		at := ev.ReceivedAt
		t.SMSOptInStatus = model.OptedIn
		t.SMSOptInDate = &at
		t.SMSOptOutDate = nil
		out.ConfirmationMessage = m.confirmation(optInConfirmation)
	case IntentOptOut:
		at := ev.ReceivedAt
		t.SMSOptInStatus = model.OptedOut
		t.SMSOptOutDate = &at
		t.SMSOptInDate = nil
		out.ConfirmationMessage = m.confirmation(optOutConfirmation)
	}
	// Unrecognized replies change nothing; the record is kept for
	// manual review by the caller.
	return out, nil
}

func (m *Machine) confirmation(template string) string {
	return strings.ReplaceAll(template, "{companyName}", m.CompanyName)
}
