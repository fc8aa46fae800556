package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Registry is the process-wide presence state: which connections are
// live, which identity each is bound to, and which topics each belongs
// to. It is an explicit object injected into every component that
// needs it, with lifecycle tied to the server process.
//
// None of its operations fail in the user-visible sense: unknown
// handles and topics degrade to no-ops. Presence is advisory; the
// conversation store stays authoritative for message history.
//
// One RWMutex guards the membership tables. It is held only for map
// mutation or snapshotting, never across store I/O or socket writes.
type Registry struct {
	mu          sync.RWMutex
	conns       map[string]Conn                // connection id -> transport
	identities  map[string]Identity            // connection id -> bound identity
	members     map[Topic]map[string]struct{}  // topic -> member connection ids
	memberships map[string]map[Topic]struct{}  // connection id -> joined topics
	logger      *zap.Logger
}

// NewRegistry constructs an empty presence registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		conns:       make(map[string]Conn),
		identities:  make(map[string]Identity),
		members:     make(map[Topic]map[string]struct{}),
		memberships: make(map[string]map[Topic]struct{}),
		logger:      logger,
	}
}

// Register binds the connection to the identity and auto-joins its
// user topic, role topic and, for admins, the admin topic. Idempotent:
// re-registering an already known handle rebinds without duplication.
// A broadcast started after Register returns observes the membership.
func (r *Registry) Register(conn Conn, id Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle := conn.ID()
	r.conns[handle] = conn
	r.identities[handle] = id
	if r.memberships[handle] == nil {
		r.memberships[handle] = make(map[Topic]struct{})
	}

	r.joinLocked(handle, UserTopic(id.ID))
	r.joinLocked(handle, RoleTopic(id.Role))
	if id.IsAdmin() {
		r.joinLocked(handle, AdminTopic())
	}

	r.logger.Debug("connection registered",
		zap.String("conn_id", handle),
		zap.String("user_id", id.ID.String()),
		zap.String("role", string(id.Role)),
	)
}

// Unregister removes the connection and all its topic memberships.
// Safe to call multiple times; unknown handles are a no-op.
func (r *Registry) Unregister(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle := conn.ID()
	if _, ok := r.conns[handle]; !ok {
		return
	}

	for topic := range r.memberships[handle] {
		r.leaveLocked(handle, topic)
	}
	delete(r.memberships, handle)
	delete(r.identities, handle)
	delete(r.conns, handle)

	r.logger.Debug("connection unregistered", zap.String("conn_id", handle))
}

// Join adds the connection to a conversation topic. Only conversation
// topics may be joined explicitly; other kinds and unregistered
// handles are no-ops.
func (r *Registry) Join(conn Conn, topic Topic) {
	if !topic.IsConversation() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[conn.ID()]; !ok {
		return
	}
	r.joinLocked(conn.ID(), topic)
}

// Leave removes the connection from a conversation topic
func (r *Registry) Leave(conn Conn, topic Topic) {
	if !topic.IsConversation() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(conn.ID(), topic)
}

// Broadcast delivers the event to every connection that is a member of
// the topic at call time. Delivery is fire-and-forget: send errors are
// swallowed and never fail the triggering operation.
func (r *Registry) Broadcast(topic Topic, event Event) {
	r.broadcast(topic, event, "")
}

// BroadcastExcept behaves like Broadcast but skips one connection,
// used for typing indicators that must not echo to their sender.
func (r *Registry) BroadcastExcept(topic Topic, event Event, exceptConnID string) {
	r.broadcast(topic, event, exceptConnID)
}

func (r *Registry) broadcast(topic Topic, event Event, exceptConnID string) {
	payload, err := event.Marshal()
	if err != nil {
		r.logger.Error("failed to encode event",
			zap.String("event", event.Name),
			zap.Error(err),
		)
		return
	}

	// Snapshot the receivers under the read lock; write outside it so
	// a slow socket never stalls membership changes.
	r.mu.RLock()
	receivers := make([]Conn, 0, len(r.members[topic]))
	for handle := range r.members[topic] {
		if handle == exceptConnID {
			continue
		}
		if conn, ok := r.conns[handle]; ok {
			receivers = append(receivers, conn)
		}
	}
	r.mu.RUnlock()

	for _, conn := range receivers {
		if err := conn.Send(payload); err != nil {
			r.logger.Debug("dropped event for connection",
				zap.String("conn_id", conn.ID()),
				zap.String("event", event.Name),
				zap.Error(err),
			)
		}
	}
}

// SendTo delivers an event to a single connection if it is registered
func (r *Registry) SendTo(connID string, event Event) {
	r.mu.RLock()
	conn, ok := r.conns[connID]
	r.mu.RUnlock()
	if !ok {
		return
	}
	payload, err := event.Marshal()
	if err != nil {
		r.logger.Error("failed to encode event",
			zap.String("event", event.Name),
			zap.Error(err),
		)
		return
	}
	_ = conn.Send(payload)
}

// IdentityOf returns the identity bound to a connection handle
func (r *Registry) IdentityOf(connID string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.identities[connID]
	return id, ok
}

// ListOnline snapshots the currently registered identities. It returns
// one entry per connection, not per user: multi-device presence is
// observable by design.
func (r *Registry) ListOnline() []Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	online := make([]Identity, 0, len(r.identities))
	for _, id := range r.identities {
		online = append(online, id)
	}
	return online
}

// ConnectionCount returns the number of live connections
func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *Registry) joinLocked(handle string, topic Topic) {
	set := r.members[topic]
	if set == nil {
		set = make(map[string]struct{})
		r.members[topic] = set
	}
	set[handle] = struct{}{}

	memberships := r.memberships[handle]
	if memberships == nil {
		memberships = make(map[Topic]struct{})
		r.memberships[handle] = memberships
	}
	memberships[topic] = struct{}{}
}

func (r *Registry) leaveLocked(handle string, topic Topic) {
	set := r.members[topic]
	if set == nil {
		return
	}
	delete(set, handle)
	if len(set) == 0 {
		delete(r.members, topic)
	}
	if memberships, ok := r.memberships[handle]; ok {
		delete(memberships, topic)
	}
}
