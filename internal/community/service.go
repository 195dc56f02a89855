package community

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Store is the persistence surface the community service works against
type Store interface {
	Users
	Posts
	Comments
	Forums
	Threads
	Replies
	Reactions
	Moderation
}

type CommunityService struct {
	store Store
}

func NewCommunityService(store Store) *CommunityService {
	return &CommunityService{store: store}
}

// --------- CONTENT CREATION ---------

func (s *CommunityService) CreatePost(ctx context.Context, authorID int64, title, body, postType, image string) (*dbmysql.Post, error) {
	if postType == "" {
		postType = "post"
	}
	post := &dbmysql.Post{
		AuthorID: authorID,
		Title:    title,
		Body:     body,
		Type:     postType,
		Image:    image,
		Slug:     makeSlug(fmt.Sprintf("%s-%d", title, authorID)),
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// EditPost updates title/body/image; only the author or a superuser may edit
func (s *CommunityService) EditPost(ctx context.Context, slugValue string, actorID int64, title, body, image string) (*dbmysql.Post, error) {
	post, err := s.store.PostBySlug(ctx, slugValue)
	if err != nil {
		return nil, notFoundOr(err, "post")
	}

	actor, err := s.store.UserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load actor: %w", err)
	}
	if post.AuthorID != actorID && !actor.IsSuperuser {
		return nil, common.ErrForbidden
	}

	post.Title = title
	post.Body = body
	if image != "" {
		post.Image = image
	}
	if err := s.store.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// CreateComment rejects comments on removed posts
func (s *CommunityService) CreateComment(ctx context.Context, postSlug string, authorID int64, body string) (*dbmysql.Comment, error) {
	post, err := s.store.PostBySlug(ctx, postSlug)
	if err != nil {
		return nil, notFoundOr(err, "post")
	}
	if post.IsRemoved {
		return nil, common.ErrNotFound
	}

	comment := &dbmysql.Comment{
		PostID:   post.ID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (s *CommunityService) CreateThread(ctx context.Context, forumSlug string, authorID int64, title, body, image string) (*dbmysql.Thread, error) {
	forum, err := s.store.ForumBySlug(ctx, forumSlug)
	if err != nil {
		return nil, notFoundOr(err, "forum")
	}

	thread := &dbmysql.Thread{
		ForumID:  forum.ID,
		AuthorID: authorID,
		Title:    title,
		Body:     body,
		Image:    image,
		Slug:     makeSlug(fmt.Sprintf("%s-%d-%d", title, forum.ID, authorID)),
	}
	if err := s.store.CreateThread(ctx, thread); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	return thread, nil
}

// CreateReply rejects replies on locked or removed threads
func (s *CommunityService) CreateReply(ctx context.Context, threadSlug string, authorID int64, body string) (*dbmysql.ThreadReply, error) {
	thread, err := s.store.ThreadBySlug(ctx, threadSlug)
	if err != nil {
		return nil, notFoundOr(err, "thread")
	}
	if thread.IsRemoved {
		return nil, common.ErrNotFound
	}
	if thread.IsLocked {
		return nil, common.ErrLocked
	}

	reply := &dbmysql.ThreadReply{
		ThreadID: thread.ID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.store.CreateReply(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}
	return reply, nil
}

// --------- LISTINGS ---------

func (s *CommunityService) Feed(ctx context.Context, page common.Page) ([]dbmysql.Post, error) {
	return s.store.ListVisiblePosts(ctx, page)
}

func (s *CommunityService) PostBySlug(ctx context.Context, slugValue string) (*dbmysql.Post, error) {
	post, err := s.store.PostBySlug(ctx, slugValue)
	if err != nil {
		return nil, notFoundOr(err, "post")
	}
	return post, nil
}

func (s *CommunityService) PostDetail(ctx context.Context, slugValue string) (*dbmysql.Post, []dbmysql.Comment, error) {
	post, err := s.store.PostBySlug(ctx, slugValue)
	if err != nil {
		return nil, nil, notFoundOr(err, "post")
	}
	comments, err := s.store.ListVisibleComments(ctx, post.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return post, comments, nil
}

func (s *CommunityService) ForumIndex(ctx context.Context) ([]dbmysql.Forum, error) {
	return s.store.ListForums(ctx)
}

func (s *CommunityService) ForumDetail(ctx context.Context, slugValue string) (*dbmysql.Forum, []dbmysql.Thread, error) {
	forum, err := s.store.ForumBySlug(ctx, slugValue)
	if err != nil {
		return nil, nil, notFoundOr(err, "forum")
	}
	threads, err := s.store.ListVisibleThreads(ctx, forum.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list threads: %w", err)
	}
	return forum, threads, nil
}

func (s *CommunityService) ThreadDetail(ctx context.Context, forumSlug, threadSlug string) (*dbmysql.Thread, []dbmysql.ThreadReply, error) {
	thread, err := s.store.ThreadBySlug(ctx, threadSlug)
	if err != nil {
		return nil, nil, notFoundOr(err, "thread")
	}

	forum, err := s.store.ForumByID(ctx, thread.ForumID)
	if err != nil || forum.Slug != forumSlug {
		return nil, nil, common.ErrNotFound
	}

	replies, err := s.store.ListVisibleReplies(ctx, thread.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return thread, replies, nil
}

// --------- REACTION LEDGER ---------

// TogglePostReaction walks the three-way state machine for a (post, user)
// pair: absent creates, same kind deletes, different kind updates in
// place. The unique index keeps concurrent toggles down to one row.
func (s *CommunityService) TogglePostReaction(ctx context.Context, postID, userID int64, kind common.ReactionKind) (common.ToggleResult, error) {
	if !kind.IsValid() {
		return "", common.NewValidationError("unknown reaction: %s", kind)
	}

	post, err := s.store.PostByID(ctx, postID)
	if err != nil {
		return "", notFoundOr(err, "post")
	}
	if post.IsRemoved {
		return "", common.ErrNotFound
	}

	existing, err := s.store.PostReactionFor(ctx, postID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		createErr := s.store.CreatePostReaction(ctx, &dbmysql.PostReaction{
			PostID:    postID,
			UserID:    userID,
			Kind:      kind.String(),
			CreatedAt: time.Now(),
		})
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			// lost a race against an identical request; the surviving
			// row decides the branch
			existing, err = s.store.PostReactionFor(ctx, postID, userID)
			if err != nil {
				return "", fmt.Errorf("reaction lookup after conflict: %w", err)
			}
			return s.settlePostReaction(ctx, existing, kind)
		}
		if createErr != nil {
			return "", fmt.Errorf("failed to add reaction: %w", createErr)
		}
		return common.ToggleAdded, nil
	}
	if err != nil {
		return "", fmt.Errorf("reaction lookup failed: %w", err)
	}

	return s.settlePostReaction(ctx, existing, kind)
}

func (s *CommunityService) settlePostReaction(ctx context.Context, existing *dbmysql.PostReaction, kind common.ReactionKind) (common.ToggleResult, error) {
	if existing.Kind == kind.String() {
		if err := s.store.DeletePostReaction(ctx, existing.ID); err != nil {
			return "", fmt.Errorf("failed to remove reaction: %w", err)
		}
		return common.ToggleRemoved, nil
	}
	if err := s.store.UpdatePostReactionKind(ctx, existing.ID, kind.String()); err != nil {
		return "", fmt.Errorf("failed to update reaction: %w", err)
	}
	return common.ToggleUpdated, nil
}

func (s *CommunityService) ToggleCommentReaction(ctx context.Context, commentID, userID int64, kind common.ReactionKind) (common.ToggleResult, error) {
	if !kind.IsValid() {
		return "", common.NewValidationError("unknown reaction: %s", kind)
	}

	comment, err := s.store.CommentByID(ctx, commentID)
	if err != nil {
		return "", notFoundOr(err, "comment")
	}
	if comment.IsRemoved {
		return "", common.ErrNotFound
	}

	existing, err := s.store.CommentReactionFor(ctx, commentID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		createErr := s.store.CreateCommentReaction(ctx, &dbmysql.CommentReaction{
			CommentID: commentID,
			UserID:    userID,
			Kind:      kind.String(),
			CreatedAt: time.Now(),
		})
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			existing, err = s.store.CommentReactionFor(ctx, commentID, userID)
			if err != nil {
				return "", fmt.Errorf("reaction lookup after conflict: %w", err)
			}
			return s.settleCommentReaction(ctx, existing, kind)
		}
		if createErr != nil {
			return "", fmt.Errorf("failed to add reaction: %w", createErr)
		}
		return common.ToggleAdded, nil
	}
	if err != nil {
		return "", fmt.Errorf("reaction lookup failed: %w", err)
	}

	return s.settleCommentReaction(ctx, existing, kind)
}

func (s *CommunityService) settleCommentReaction(ctx context.Context, existing *dbmysql.CommentReaction, kind common.ReactionKind) (common.ToggleResult, error) {
	if existing.Kind == kind.String() {
		if err := s.store.DeleteCommentReaction(ctx, existing.ID); err != nil {
			return "", fmt.Errorf("failed to remove reaction: %w", err)
		}
		return common.ToggleRemoved, nil
	}
	if err := s.store.UpdateCommentReactionKind(ctx, existing.ID, kind.String()); err != nil {
		return "", fmt.Errorf("failed to update reaction: %w", err)
	}
	return common.ToggleUpdated, nil
}

func (s *CommunityService) PostReactionCount(ctx context.Context, postID int64) (int64, error) {
	return s.store.CountPostReactions(ctx, postID)
}

func (s *CommunityService) CommentReactionCount(ctx context.Context, commentID int64) (int64, error) {
	return s.store.CountCommentReactions(ctx, commentID)
}

// --------- MODERATION WORKFLOW ---------

// RemovalResult tells the caller where to send the user afterwards
type RemovalResult struct {
	Kind       common.ContentKind
	ObjectID   int64
	ParentSlug string // post slug for comments, thread slug for replies, forum slug for threads
}

// RequestRemoval soft deletes content. Exactly one branch applies:
// a superuser must give a reason and leaves an audit row plus an owner
// notification; the author removes silently; anyone else is rejected.
// Re-running on already-removed content is a no-op.
func (s *CommunityService) RequestRemoval(ctx context.Context, kind common.ContentKind, objectID, actorID int64, reason string) (*RemovalResult, error) {
	if !kind.IsValid() {
		return nil, common.NewValidationError("unknown content kind: %s", kind)
	}

	target, err := s.loadTarget(ctx, kind, objectID)
	if err != nil {
		return nil, err
	}

	actor, err := s.store.UserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load actor: %w", err)
	}

	result := &RemovalResult{Kind: kind, ObjectID: objectID, ParentSlug: target.parentSlug}

	if target.removed {
		// idempotent: the flag is already set, and a second confirm
		// must not mint a second audit entry
		return result, nil
	}

	switch {
	case actor.IsSuperuser:
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return nil, common.NewValidationError("Indica un motivo de moderación.")
		}
		entry := &dbmysql.ModerationLog{
			ContentType: kind.String(),
			ObjectID:    objectID,
			RemovedByID: &actor.ID,
			OwnerID:     &target.ownerID,
			Reason:      reason,
		}
		message := removalMessage(kind, target.title, reason)
		if err := s.store.RemoveWithAudit(ctx, kind, objectID, entry, target.ownerID, message); err != nil {
			return nil, err
		}
		return result, nil

	case actor.ID == target.ownerID:
		// self removal is not a moderation event: no audit, no notification
		if err := s.store.RemoveWithAudit(ctx, kind, objectID, nil, 0, ""); err != nil {
			return nil, err
		}
		return result, nil

	default:
		return nil, common.ErrForbidden
	}
}

type removalTarget struct {
	ownerID    int64
	title      string
	removed    bool
	parentSlug string
}

func (s *CommunityService) loadTarget(ctx context.Context, kind common.ContentKind, id int64) (*removalTarget, error) {
	switch kind {
	case common.ContentPost:
		post, err := s.store.PostByID(ctx, id)
		if err != nil {
			return nil, notFoundOr(err, "post")
		}
		return &removalTarget{ownerID: post.AuthorID, title: post.Title, removed: post.IsRemoved}, nil

	case common.ContentComment:
		comment, err := s.store.CommentByID(ctx, id)
		if err != nil {
			return nil, notFoundOr(err, "comment")
		}
		post, err := s.store.PostByID(ctx, comment.PostID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent post: %w", err)
		}
		return &removalTarget{ownerID: comment.AuthorID, removed: comment.IsRemoved, parentSlug: post.Slug}, nil

	case common.ContentThread:
		thread, err := s.store.ThreadByID(ctx, id)
		if err != nil {
			return nil, notFoundOr(err, "thread")
		}
		forum, err := s.store.ForumByID(ctx, thread.ForumID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent forum: %w", err)
		}
		return &removalTarget{ownerID: thread.AuthorID, title: thread.Title, removed: thread.IsRemoved, parentSlug: forum.Slug}, nil

	case common.ContentReply:
		reply, err := s.store.ReplyByID(ctx, id)
		if err != nil {
			return nil, notFoundOr(err, "reply")
		}
		thread, err := s.store.ThreadByID(ctx, reply.ThreadID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent thread: %w", err)
		}
		return &removalTarget{ownerID: reply.AuthorID, removed: reply.IsRemoved, parentSlug: thread.Slug}, nil
	}
	return nil, common.NewValidationError("unknown content kind: %s", kind)
}

func removalMessage(kind common.ContentKind, title, reason string) string {
	switch kind {
	case common.ContentPost:
		return fmt.Sprintf("Tu publicación %q fue retirada: %s", title, reason)
	case common.ContentComment:
		return fmt.Sprintf("Tu comentario fue retirado: %s", reason)
	case common.ContentThread:
		return fmt.Sprintf("Tu hilo %q fue retirado: %s", title, reason)
	default:
		return fmt.Sprintf("Tu respuesta fue retirada: %s", reason)
	}
}

// ModerationLog is superuser-only: the audit trail names owners and
// moderators by id
func (s *CommunityService) ModerationLog(ctx context.Context, actorID int64, page common.Page) ([]dbmysql.ModerationLog, error) {
	actor, err := s.store.UserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load actor: %w", err)
	}
	if !actor.IsSuperuser {
		return nil, common.ErrForbidden
	}
	return s.store.ListModerationLog(ctx, page)
}

// --------- HELPERS ---------

// makeSlug appends a timestamp so colliding titles stay unique
func makeSlug(base string) string {
	return slug.Make(fmt.Sprintf("%s-%d", base, time.Now().Unix()))
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
