package ports

import websocketdto "tourguard/internal/tracking-service/core/domain/websocket_dto"

// INotifyWebsocket pushes live tracking events to everyone watching a
// trip. Implementations must not block the caller.
type INotifyWebsocket interface {
	NotifyTrip(tripID string, event websocketdto.Event)
}
