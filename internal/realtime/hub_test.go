package realtime

import (
	"context"
	"testing"

	"github.com/ArmaanM08/WikiDoCollab/internal/document"
	"github.com/ArmaanM08/WikiDoCollab/internal/document/repository"
)

// fakeStore implements Store over a memory document repo with the same
// authorization rules as the document service.
type fakeStore struct {
	docs *repository.MemoryDocumentRepo
}

func (f *fakeStore) Project(ctx context.Context, docID string) (document.Projection, string, error) {
	d, err := f.docs.Get(ctx, docID)
	if err != nil {
		return document.Projection{}, "", err
	}
	return d.Projection(), d.Content, nil
}

func (f *fakeStore) SaveContent(ctx context.Context, docID, userID, content string) error {
	d, err := f.docs.Get(ctx, docID)
	if err != nil {
		return err
	}
	if !document.Evaluate(d.Projection(), userID).CanEdit {
		return errForbidden
	}
	return f.docs.UpdateContent(ctx, docID, content)
}

var errForbidden = &forbiddenErr{}

type forbiddenErr struct{}

func (*forbiddenErr) Error() string { return "forbidden" }

func newTestHub(t *testing.T) (*Hub, *repository.MemoryDocumentRepo) {
	t.Helper()
	docs := repository.NewMemoryDocumentRepo()
	return NewHub(&fakeStore{docs: docs}), docs
}

func testClient(h *Hub, userID string) *Client {
	return &Client{ID: "c-" + userID, UserID: userID, hub: h, send: make(chan *Message, 16)}
}

func seedDoc(t *testing.T, docs *repository.MemoryDocumentRepo, d *document.Document) string {
	t.Helper()
	id, err := docs.Create(context.Background(), d)
	if err != nil {
		t.Fatalf("seed doc failed: %v", err)
	}
	return id
}

func drain(c *Client) []*Message {
	out := []*Message{}
	for {
		select {
		case m := <-c.send:
			out = append(out, m)
		default:
			return out
		}
	}
}

func join(h *Hub, c *Client, docID string) {
	h.HandleMessage(context.Background(), c, &Message{Event: EventJoinDocument, DocID: docID})
}

func sendOps(h *Hub, c *Client, docID, content string) {
	h.HandleMessage(context.Background(), c, &Message{Event: EventDocOps, DocID: docID, Content: &content})
}

func TestJoinSendsContentToAuthorizedJoinerOnly(t *testing.T) {
	h, docs := newTestHub(t)
	id := seedDoc(t, docs, &document.Document{Title: "Notes", OwnerID: "owner", IsPrivate: true, Content: "current"})

	owner := testClient(h, "owner")
	join(h, owner, id)

	msgs := drain(owner)
	if len(msgs) != 1 || msgs[0].Event != EventDocContent || *msgs[0].Content != "current" {
		t.Fatalf("owner should receive current content, got %+v", msgs)
	}

	stranger := testClient(h, "stranger")
	join(h, stranger, id)
	for _, m := range drain(stranger) {
		if m.Event == EventDocContent {
			t.Fatalf("stranger must not receive content of a private doc")
		}
	}
	// stranger is still in the room (presence and membership are not gated)
	if h.RoomSize(id) != 2 {
		t.Fatalf("expected 2 room members, got %d", h.RoomSize(id))
	}
}

func TestJoinAnnouncesPresenceToOthersOnly(t *testing.T) {
	h, docs := newTestHub(t)
	id := seedDoc(t, docs, &document.Document{Title: "Notes", OwnerID: "owner", Content: "x"})

	a := testClient(h, "owner")
	join(h, a, id)
	drain(a)

	b := testClient(h, "b")
	join(h, b, id)

	// a sees b's presence
	var sawPresence bool
	for _, m := range drain(a) {
		if m.Event == EventPresence && m.UserID == "b" && m.Joined != nil && *m.Joined {
			sawPresence = true
		}
	}
	if !sawPresence {
		t.Fatalf("existing member should see the joiner's presence")
	}
	// b sees no presence about itself
	for _, m := range drain(b) {
		if m.Event == EventPresence {
			t.Fatalf("joiner must not receive its own presence")
		}
	}
}

func TestJoinMissingDocOrDocID(t *testing.T) {
	h, _ := newTestHub(t)
	c := testClient(h, "u")

	// missing docId is ignored entirely
	join(h, c, "")
	if len(drain(c)) != 0 {
		t.Fatalf("malformed join must be a no-op")
	}

	// unknown document joins the room but yields no content
	join(h, c, "nope")
	for _, m := range drain(c) {
		if m.Event == EventDocContent {
			t.Fatalf("missing document must not produce content")
		}
	}
}

func TestDocOpsPersistsAndRelaysToOthers(t *testing.T) {
	h, docs := newTestHub(t)
	id := seedDoc(t, docs, &document.Document{
		Title: "Notes", OwnerID: "owner", CollaboratorIDs: []string{"bob"}, IsPrivate: true, Content: "",
	})

	owner := testClient(h, "owner")
	bob := testClient(h, "bob")
	join(h, owner, id)
	join(h, bob, id)
	drain(owner)
	drain(bob)

	sendOps(h, bob, id, "hello")

	// persisted
	d, _ := docs.Get(context.Background(), id)
	if d.Content != "hello" {
		t.Fatalf("content not persisted, got %q", d.Content)
	}
	// relayed to owner, not echoed to bob
	ownerMsgs := drain(owner)
	if len(ownerMsgs) != 1 || ownerMsgs[0].Event != EventDocContent || *ownerMsgs[0].Content != "hello" {
		t.Fatalf("owner should receive the broadcast, got %+v", ownerMsgs)
	}
	if len(drain(bob)) != 0 {
		t.Fatalf("sender must not receive its own broadcast")
	}
}

func TestDocOpsUnauthorizedDroppedSilently(t *testing.T) {
	h, docs := newTestHub(t)
	id := seedDoc(t, docs, &document.Document{Title: "Notes", OwnerID: "owner", Content: "original"})

	owner := testClient(h, "owner")
	viewer := testClient(h, "viewer") // public doc: can view, cannot edit
	join(h, owner, id)
	join(h, viewer, id)
	drain(owner)
	drain(viewer)

	sendOps(h, viewer, id, "sneaky")

	d, _ := docs.Get(context.Background(), id)
	if d.Content != "original" {
		t.Fatalf("unauthorized edit must not persist, got %q", d.Content)
	}
	if len(drain(owner)) != 0 {
		t.Fatalf("unauthorized edit must not be relayed")
	}
	if len(drain(viewer)) != 0 {
		t.Fatalf("no error may surface to the sender")
	}
}

func TestDocOpsMalformedIgnored(t *testing.T) {
	h, docs := newTestHub(t)
	id := seedDoc(t, docs, &document.Document{Title: "Notes", OwnerID: "owner", Content: "keep"})

	owner := testClient(h, "owner")
	join(h, owner, id)
	drain(owner)

	// no content field
	h.HandleMessage(context.Background(), owner, &Message{Event: EventDocOps, DocID: id})
	// no docId
	c := "x"
	h.HandleMessage(context.Background(), owner, &Message{Event: EventDocOps, Content: &c})

	d, _ := docs.Get(context.Background(), id)
	if d.Content != "keep" {
		t.Fatalf("malformed ops must not change content, got %q", d.Content)
	}
}

func TestLastWriteWins(t *testing.T) {
	h, docs := newTestHub(t)
	id := seedDoc(t, docs, &document.Document{
		Title: "Notes", OwnerID: "owner", CollaboratorIDs: []string{"bob"}, Content: "",
	})

	owner := testClient(h, "owner")
	bob := testClient(h, "bob")
	watcher := testClient(h, "watcher")
	join(h, owner, id)
	join(h, bob, id)
	join(h, watcher, id)
	drain(owner)
	drain(bob)
	drain(watcher)

	sendOps(h, owner, id, "from owner")
	sendOps(h, bob, id, "from bob")

	d, _ := docs.Get(context.Background(), id)
	if d.Content != "from bob" {
		t.Fatalf("expected last write to win, got %q", d.Content)
	}
	// watcher saw both broadcasts in write-completion order
	msgs := drain(watcher)
	if len(msgs) != 2 || *msgs[0].Content != "from owner" || *msgs[1].Content != "from bob" {
		t.Fatalf("unexpected broadcast sequence: %+v", msgs)
	}
}

func TestRemoveCleansRooms(t *testing.T) {
	h, docs := newTestHub(t)
	id := seedDoc(t, docs, &document.Document{Title: "Notes", OwnerID: "owner", Content: ""})

	a := testClient(h, "owner")
	b := testClient(h, "b")
	join(h, a, id)
	join(h, b, id)

	h.remove(a)
	if h.RoomSize(id) != 1 {
		t.Fatalf("expected 1 member after removal, got %d", h.RoomSize(id))
	}
	h.remove(b)
	if h.RoomSize(id) != 0 {
		t.Fatalf("expected empty room, got %d", h.RoomSize(id))
	}
}
