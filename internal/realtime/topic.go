package realtime

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
)

// topicKind discriminates the Topic tagged union
type topicKind uint8

const (
	topicUser topicKind = iota + 1
	topicRole
	topicAdmin
	topicConversation
)

// Topic is a typed fan-out group name. Topics are computed labels, not
// persisted entities; the typed form keeps fan-out destinations
// exhaustively checkable instead of relying on ad-hoc room strings.
// Topic is comparable and safe to use as a map key.
type Topic struct {
	kind topicKind
	id   string
}

// UserTopic addresses every live connection of one user
func UserTopic(userID uuid.UUID) Topic {
	return Topic{kind: topicUser, id: userID.String()}
}

// RoleTopic addresses every live connection of users with the role
func RoleTopic(role identity.Role) Topic {
	return Topic{kind: topicRole, id: string(role)}
}

// AdminTopic addresses every live admin connection
func AdminTopic() Topic {
	return Topic{kind: topicAdmin}
}

// ConversationTopic addresses connections joined to an inquiry's room
func ConversationTopic(inquiryID uuid.UUID) Topic {
	return Topic{kind: topicConversation, id: inquiryID.String()}
}

// IsConversation reports whether the topic is a conversation room.
// Only conversation topics may be joined and left explicitly; the
// user, role and admin topics are managed by registration.
func (t Topic) IsConversation() bool {
	return t.kind == topicConversation
}

// String returns the wire-compatible room name
func (t Topic) String() string {
	switch t.kind {
	case topicUser:
		return "user_" + t.id
	case topicRole:
		return "role_" + t.id
	case topicAdmin:
		return "admin"
	case topicConversation:
		return "conversation_" + t.id
	}
	return ""
}
