package ports

import (
	"context"

	messagebrokerdto "tourguard/internal/tracking-service/core/domain/message_broker_dto"
)

// IAlertBroker is the Alert Sink. Raise is invoked exactly once per newly
// opened violation; failures are logged by the caller and never roll back
// geofence state.
type IAlertBroker interface {
	Raise(ctx context.Context, alert messagebrokerdto.Alert) error
	Close() error
}
