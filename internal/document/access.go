package document

// Projection is the minimal document slice needed for a capability decision.
type Projection struct {
	OwnerID         string
	CollaboratorIDs []string
	IsPrivate       bool
}

// Capability is the outcome of an access evaluation. Computed fresh per
// request, never stored.
type Capability struct {
	CanView bool `json:"canView"`
	CanEdit bool `json:"canEdit"`
}

// Evaluate computes the capability of userID over the projected document.
// An empty userID means anonymous. Edit capability implies view capability;
// non-private documents are viewable by anyone.
func Evaluate(p Projection, userID string) Capability {
	canEdit := false
	if userID != "" {
		if userID == p.OwnerID {
			canEdit = true
		} else {
			for _, id := range p.CollaboratorIDs {
				if id == userID {
					canEdit = true
					break
				}
			}
		}
	}
	return Capability{
		CanView: !p.IsPrivate || canEdit,
		CanEdit: canEdit,
	}
}
