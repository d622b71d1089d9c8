package realtime

import (
	"context"
	"sync"

	"github.com/ArmaanM08/WikiDoCollab/internal/document"
	"github.com/ArmaanM08/WikiDoCollab/pkg/logger"
	"github.com/ArmaanM08/WikiDoCollab/pkg/metrics"
)

// Store is what the broker needs from the document layer. Project must always
// hit the store fresh; the hub never caches a projection across messages.
type Store interface {
	Project(ctx context.Context, docID string) (document.Projection, string, error)
	SaveContent(ctx context.Context, docID, userID, content string) error
}

// Hub groups live connections into per-document rooms and fans broadcasts out
// to room members. Authorization is enforced twice: a view check when joining
// and an edit check on every doc-ops message.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
	store Store
}

func NewHub(store Store) *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool), store: store}
}

// HandleMessage dispatches one inbound client message. Unknown events and
// malformed payloads are ignored; per-message failures never surface to the
// sender.
func (h *Hub) HandleMessage(ctx context.Context, c *Client, msg *Message) {
	switch msg.Event {
	case EventJoinDocument:
		h.handleJoin(ctx, c, msg)
	case EventDocOps:
		h.handleDocOps(ctx, c, msg)
	}
}

// handleJoin adds the connection to the document's room, announces presence
// to the other members and, when the document exists and is viewable by this
// identity, sends the current content back to the joiner only.
func (h *Hub) handleJoin(ctx context.Context, c *Client, msg *Message) {
	if msg.DocID == "" {
		return
	}
	h.join(c, msg.DocID)
	h.broadcastToOthers(msg.DocID, c, presenceMessage(c.UserID, true))

	proj, content, err := h.store.Project(ctx, msg.DocID)
	if err != nil {
		// missing document: the joiner simply receives no initial content
		return
	}
	if document.Evaluate(proj, c.UserID).CanView {
		c.trySend(contentMessage(content))
	}
}

// handleDocOps re-checks edit capability against a fresh projection, persists
// the content as a whole overwrite and relays it to the rest of the room.
// Writes that race resolve to whichever one the store applied last.
func (h *Hub) handleDocOps(ctx context.Context, c *Client, msg *Message) {
	if msg.DocID == "" || msg.Content == nil {
		return
	}
	if err := h.store.SaveContent(ctx, msg.DocID, c.UserID, *msg.Content); err != nil {
		// authorization denial and store failure alike are dropped silently
		metrics.EditsRejected.Inc()
		logger.Debugf("doc-ops dropped for doc=%s user=%s: %v", msg.DocID, c.UserID, err)
		return
	}
	metrics.EditsPersisted.Inc()
	metrics.ContentBroadcasts.Inc()
	h.broadcastToOthers(msg.DocID, c, contentMessage(*msg.Content))
}

func (h *Hub) join(c *Client, docID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[docID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[docID] = room
		metrics.SocketRooms.Set(float64(len(h.rooms)))
	}
	room[c] = true
}

// remove drops the connection from every room it joined. Rooms left empty are
// deleted. No leave broadcast is sent.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for docID, room := range h.rooms {
		if room[c] {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, docID)
			}
		}
	}
	metrics.SocketRooms.Set(float64(len(h.rooms)))
}

// broadcastToOthers delivers msg to every room member except sender. Slow
// consumers with a full send buffer miss the message rather than block the
// hub.
func (h *Hub) broadcastToOthers(docID string, sender *Client, msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for member := range h.rooms[docID] {
		if member == sender {
			continue
		}
		member.trySend(msg)
	}
}

// RoomSize reports the current member count of a document's room.
func (h *Hub) RoomSize(docID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[docID])
}
