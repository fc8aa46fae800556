package realtime

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
)

// Notification is the transport-agnostic shape application services
// emit. The emitter stamps the timestamp at delivery time.
type Notification struct {
	Type    string
	Title   string
	Message string
	OrderID *uuid.UUID
	UserID  *uuid.UUID
}

// Notifier pushes fire-and-forget notifications to live connections.
// Delivery is best effort: offline recipients miss the event and the
// caller must not depend on receipt.
type Notifier struct {
	registry *Registry
}

func NewNotifier(registry *Registry) *Notifier {
	return &Notifier{registry: registry}
}

// NotifyUser delivers to every connection of one user
func (n *Notifier) NotifyUser(userID uuid.UUID, notification Notification) {
	n.registry.Broadcast(UserTopic(userID), Event{
		Name:    EventNotification,
		Payload: n.payload(notification),
	})
}

// NotifyRole delivers to every connection holding the role
func (n *Notifier) NotifyRole(role identity.Role, notification Notification) {
	n.registry.Broadcast(RoleTopic(role), Event{
		Name:    EventNotification,
		Payload: n.payload(notification),
	})
}

// NotifyAdmins delivers to the admin topic using the dedicated
// admin_notification event name
func (n *Notifier) NotifyAdmins(notification Notification) {
	n.registry.Broadcast(AdminTopic(), Event{
		Name:    EventAdminNotification,
		Payload: n.payload(notification),
	})
}

func (n *Notifier) payload(notification Notification) NotificationPayload {
	return NotificationPayload{
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		OrderID:   notification.OrderID,
		UserID:    notification.UserID,
		Timestamp: time.Now().UTC(),
	}
}
