// Package bus fans out change notifications to live subscribers after a
// mutation commits. Publishing is fire-and-forget from the mutator's
// perspective: no acknowledgement, no retries, no persistence.
package bus

import "go.uber.org/fx"

type TenantChanged struct {
	Room string `json:"room"`
}

type PriceChanged struct{}

type PrivacyKeywordsChanged struct {
	Keywords []string `json:"keywords"`
}

type MeterNameChanged struct {
	CanonicalName string `json:"canonical_name"`
	CustomName    string `json:"custom_name"`
	Scope         string `json:"scope"`
	Room          string `json:"room,omitempty"`
}

type BillChanged struct {
	Room  string `json:"room"`
	Month string `json:"month"`
}

// Bus carries the five independently typed notification channels.
type Bus struct {
	Tenant          *Topic[TenantChanged]
	Price           *Topic[PriceChanged]
	PrivacyKeywords *Topic[PrivacyKeywordsChanged]
	MeterName       *Topic[MeterNameChanged]
	Bill            *Topic[BillChanged]
}

func New() *Bus {
	return &Bus{
		Tenant:          NewTopic[TenantChanged](),
		Price:           NewTopic[PriceChanged](),
		PrivacyKeywords: NewTopic[PrivacyKeywordsChanged](),
		MeterName:       NewTopic[MeterNameChanged](),
		Bill:            NewTopic[BillChanged](),
	}
}

// Module wires the notification bus.
var Module = fx.Module("bus",
	fx.Provide(New),
)
