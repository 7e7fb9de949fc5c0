package cache

import "context"

// ReplyCache is the seen-set for inbound reply gateway text ids. The
// reply state machine does not deduplicate internally, so the webhook
// layer must check here before invoking it.
type ReplyCache interface {
	// MarkSeen records the id and reports whether it was already present.
	MarkSeen(ctx context.Context, gatewayTextID string) (seen bool, err error)
}
