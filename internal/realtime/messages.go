package realtime

// Message is the wire format for every event on the collaboration socket,
// client-to-server (join-document, doc-ops) and server-to-client
// (presence, doc-content) alike.
type Message struct {
	Event   string  `json:"event"`
	DocID   string  `json:"docId,omitempty"`
	Content *string `json:"content,omitempty"`
	UserID  string  `json:"userId,omitempty"`
	Joined  *bool   `json:"joined,omitempty"`
}

// Client-to-server events.
const (
	EventJoinDocument = "join-document"
	EventDocOps       = "doc-ops"
)

// Server-to-client events.
const (
	EventPresence   = "presence"
	EventDocContent = "doc-content"
)

func contentMessage(content string) *Message {
	return &Message{Event: EventDocContent, Content: &content}
}

func presenceMessage(userID string, joined bool) *Message {
	return &Message{Event: EventPresence, UserID: userID, Joined: &joined}
}
