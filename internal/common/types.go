package common

// ReactionKind is the closed set of reactions a user can leave on a
// post or comment.
type ReactionKind string

const (
	ReactionLike ReactionKind = "like"
	ReactionFire ReactionKind = "fire"
	ReactionGG   ReactionKind = "gg"
)

// String returns the string representation
func (rk ReactionKind) String() string {
	return string(rk)
}

// IsValid checks if the reaction kind is valid
func (rk ReactionKind) IsValid() bool {
	return rk == ReactionLike || rk == ReactionFire || rk == ReactionGG
}

// ContentKind tags the moderatable content variants in the moderation log
type ContentKind string

const (
	ContentPost    ContentKind = "post"
	ContentComment ContentKind = "comment"
	ContentThread  ContentKind = "thread"
	ContentReply   ContentKind = "reply"
)

func (ck ContentKind) String() string {
	return string(ck)
}

func (ck ContentKind) IsValid() bool {
	switch ck {
	case ContentPost, ContentComment, ContentThread, ContentReply:
		return true
	}
	return false
}

// ToggleResult reports which branch a reaction toggle took
type ToggleResult string

const (
	ToggleAdded   ToggleResult = "added"
	ToggleRemoved ToggleResult = "removed"
	ToggleUpdated ToggleResult = "updated"
)

// Page carries limit/offset pagination for listing queries
type Page struct {
	Limit  int
	Offset int
}

// DefaultPage caps a page request, falling back to the given page size
func DefaultPage(page, size int) Page {
	if size <= 0 {
		size = 10
	}
	if page < 1 {
		page = 1
	}
	return Page{Limit: size, Offset: (page - 1) * size}
}
