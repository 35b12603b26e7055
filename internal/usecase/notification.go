package usecase

import "context"

// PlatformHints carries per-platform presentation options.
type PlatformHints struct {
	AndroidPriority  string
	AndroidChannelID string
	APNSSound        string
	APNSBadge        *int
}

type Notification struct {
	Title string
	Body  string
	Data  map[string]string
	Hints PlatformHints
}

// PushSender delivers one notification to one device token.
// Per-token failures are returned as *DeliveryError.
type PushSender interface {
	Send(ctx context.Context, token string, notification Notification) error
}

type DeliveryResult struct {
	UserID    string `json:"userId"`
	Token     string `json:"-"`
	Delivered bool   `json:"delivered"`
	Reason    string `json:"reason,omitempty"`
}

// DeliveryTotals counts sends across one or more fan-outs.
type DeliveryTotals struct {
	Attempted int `json:"attempted"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

func (t *DeliveryTotals) add(other DeliveryTotals) {
	t.Attempted += other.Attempted
	t.Delivered += other.Delivered
	t.Failed += other.Failed
}

type DeliveryReport struct {
	DeliveryTotals
	Results []DeliveryResult `json:"results"`
}

// MatchDelivery is the fan-out outcome for one match.
type MatchDelivery struct {
	MatchID string         `json:"matchId"`
	Report  DeliveryReport `json:"report"`
}
