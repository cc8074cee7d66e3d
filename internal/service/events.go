package service

// EventPublisher pushes structured domain events to subscribed
// presentation clients. The websocket hub implements it; tests use
// NopPublisher.
type EventPublisher interface {
	Publish(guildID, event string, payload interface{})
}

// Event names emitted by the services.
const (
	EventRollOpened        = "roll.opened"
	EventRollClaimed       = "roll.claimed"
	EventRollExpired       = "roll.expired"
	EventProposalCreated   = "proposal.created"
	EventProposalResolved  = "proposal.resolved"
	EventMarriageCompleted = "marriage.completed"
	EventMarriageDissolved = "marriage.dissolved"
	EventWishlistHit       = "wishlist.hit"
)

type NopPublisher struct{}

func (NopPublisher) Publish(guildID, event string, payload interface{}) {}
