package handlers

import (
	"github.com/BruksfildServices01/gym-manager/internal/audit"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
)

// writeAudit queues an audit event for the actor. A nil dispatcher is a no-op.
func writeAudit(
	d *audit.Dispatcher,
	actor access.Actor,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	userID := actor.UserID
	id := entityID

	d.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   entity,
		EntityID: &id,
		Metadata: meta,
	})
}
