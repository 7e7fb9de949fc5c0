package targeting

import (
	"context"
	"fmt"
	"regexp"

	"github.com/propertyops/tenant-sms-backend/internal/gateway"
	"github.com/propertyops/tenant-sms-backend/internal/model"
)

// TemplateError reports a placeholder with no corresponding tenant field.
type TemplateError struct {
	Placeholder string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template references unknown field {%s}", e.Placeholder)
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Select returns the tenants matching cond, preserving input order. An
// unknown field or operator fails the whole call; no partial result is
// returned on error.
func Select(tenants []model.Tenant, cond *Condition) ([]model.Tenant, error) {
	selected := []model.Tenant{}
	for i := range tenants {
		ok, err := cond.Evaluate(&tenants[i])
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, tenants[i])
		}
	}
	return selected, nil
}

// Render substitutes {field} placeholders with the tenant's values. It
// performs substitution only, no expressions or control flow.
func Render(template string, t *model.Tenant) (string, error) {
	var tplErr *TemplateError
	out := placeholderPattern.ReplaceAllStringFunc(template, func(tok string) string {
		name := tok[1 : len(tok)-1]
		v, ok := placeholderValue(t, name)
		if !ok {
			if tplErr == nil {
				tplErr = &TemplateError{Placeholder: name}
			}
			return tok
		}
		return v
	})
	if tplErr != nil {
		return "", tplErr
	}
	return out, nil
}

// ValidateTemplate renders against a representative tenant so a bad
// placeholder is caught before the first recipient is contacted.
func ValidateTemplate(template string, t *model.Tenant) error {
	_, err := Render(template, t)
	return err
}

// Delivery is the per-recipient result of a batch send, positionally
// aligned with the selected tenants.
type Delivery struct {
	Tenant  model.Tenant
	Content string
	Result  *gateway.SendResult
	Err     error
}

// Engine runs the select/render/send pipeline against the SMS gateway.
type Engine struct {
	Client gateway.Client
}

func NewEngine(client gateway.Client) *Engine {
	return &Engine{Client: client}
}

// SendBatch selects recipients and sends the rendered template to each,
// one at a time. A failure for one recipient never skips another; render
// and transport errors land in that recipient's Delivery.Err. Only a
// condition error aborts the batch, before anything is sent.
func (e *Engine) SendBatch(ctx context.Context, tenants []model.Tenant, cond *Condition, template string) ([]Delivery, error) {
	selected, err := Select(tenants, cond)
	if err != nil {
		return nil, err
	}

	deliveries := make([]Delivery, 0, len(selected))
	for i := range selected {
		d := Delivery{Tenant: selected[i]}

		content, err := Render(template, &selected[i])
		if err != nil {
			d.Err = err
			deliveries = append(deliveries, d)
			continue
		}
		d.Content = content

		res, err := e.Client.Send(ctx, selected[i].Phone, content)
		if err != nil {
			d.Err = err
			deliveries = append(deliveries, d)
			continue
		}
		d.Result = res
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}
