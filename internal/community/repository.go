package community

import (
	"context"
	"fmt"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommunityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// --------- USERS ---------
type Users interface {
	UserByID(ctx context.Context, id int64) (*dbmysql.User, error)
}

func (r *CommunityRepository) UserByID(ctx context.Context, id int64) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	return &user, err
}

// --------- POSTS ---------
type Posts interface {
	CreatePost(ctx context.Context, post *dbmysql.Post) error
	PostByID(ctx context.Context, id int64) (*dbmysql.Post, error)
	PostBySlug(ctx context.Context, slug string) (*dbmysql.Post, error)
	ListVisiblePosts(ctx context.Context, page common.Page) ([]dbmysql.Post, error)
	UpdatePost(ctx context.Context, post *dbmysql.Post) error
}

func (r *CommunityRepository) CreatePost(ctx context.Context, post *dbmysql.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *CommunityRepository) PostByID(ctx context.Context, id int64) (*dbmysql.Post, error) {
	var post dbmysql.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	return &post, err
}

func (r *CommunityRepository) PostBySlug(ctx context.Context, slug string) (*dbmysql.Post, error) {
	var post dbmysql.Post
	err := r.db.WithContext(ctx).First(&post, "slug = ?", slug).Error
	return &post, err
}

// ListVisiblePosts is the default feed query: removed posts are hidden
func (r *CommunityRepository) ListVisiblePosts(ctx context.Context, page common.Page) ([]dbmysql.Post, error) {
	var posts []dbmysql.Post
	err := r.db.WithContext(ctx).
		Where("is_removed = ?", false).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&posts).Error
	return posts, err
}

func (r *CommunityRepository) UpdatePost(ctx context.Context, post *dbmysql.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// --------- COMMENTS ---------
type Comments interface {
	CreateComment(ctx context.Context, comment *dbmysql.Comment) error
	CommentByID(ctx context.Context, id int64) (*dbmysql.Comment, error)
	ListVisibleComments(ctx context.Context, postID int64) ([]dbmysql.Comment, error)
}

func (r *CommunityRepository) CreateComment(ctx context.Context, comment *dbmysql.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *CommunityRepository) CommentByID(ctx context.Context, id int64) (*dbmysql.Comment, error) {
	var comment dbmysql.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	return &comment, err
}

// ListVisibleComments orders oldest first, the reading order of a thread
func (r *CommunityRepository) ListVisibleComments(ctx context.Context, postID int64) ([]dbmysql.Comment, error) {
	var comments []dbmysql.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND is_removed = ?", postID, false).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// --------- FORUMS ---------
type Forums interface {
	ListForums(ctx context.Context) ([]dbmysql.Forum, error)
	ForumBySlug(ctx context.Context, slug string) (*dbmysql.Forum, error)
	ForumByID(ctx context.Context, id int64) (*dbmysql.Forum, error)
}

func (r *CommunityRepository) ListForums(ctx context.Context) ([]dbmysql.Forum, error) {
	var forums []dbmysql.Forum
	err := r.db.WithContext(ctx).Order("title ASC").Find(&forums).Error
	return forums, err
}

func (r *CommunityRepository) ForumBySlug(ctx context.Context, slug string) (*dbmysql.Forum, error) {
	var forum dbmysql.Forum
	err := r.db.WithContext(ctx).First(&forum, "slug = ?", slug).Error
	return &forum, err
}

func (r *CommunityRepository) ForumByID(ctx context.Context, id int64) (*dbmysql.Forum, error) {
	var forum dbmysql.Forum
	err := r.db.WithContext(ctx).First(&forum, "id = ?", id).Error
	return &forum, err
}

// --------- THREADS ---------
type Threads interface {
	CreateThread(ctx context.Context, thread *dbmysql.Thread) error
	ThreadByID(ctx context.Context, id int64) (*dbmysql.Thread, error)
	ThreadBySlug(ctx context.Context, slug string) (*dbmysql.Thread, error)
	ListVisibleThreads(ctx context.Context, forumID int64) ([]dbmysql.Thread, error)
	UpdateThread(ctx context.Context, thread *dbmysql.Thread) error
}

func (r *CommunityRepository) CreateThread(ctx context.Context, thread *dbmysql.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *CommunityRepository) ThreadByID(ctx context.Context, id int64) (*dbmysql.Thread, error) {
	var thread dbmysql.Thread
	err := r.db.WithContext(ctx).First(&thread, "id = ?", id).Error
	return &thread, err
}

func (r *CommunityRepository) ThreadBySlug(ctx context.Context, slug string) (*dbmysql.Thread, error) {
	var thread dbmysql.Thread
	err := r.db.WithContext(ctx).First(&thread, "slug = ?", slug).Error
	return &thread, err
}

func (r *CommunityRepository) ListVisibleThreads(ctx context.Context, forumID int64) ([]dbmysql.Thread, error) {
	var threads []dbmysql.Thread
	err := r.db.WithContext(ctx).
		Where("forum_id = ? AND is_removed = ?", forumID, false).
		Order("created_at DESC").
		Find(&threads).Error
	return threads, err
}

func (r *CommunityRepository) UpdateThread(ctx context.Context, thread *dbmysql.Thread) error {
	return r.db.WithContext(ctx).Save(thread).Error
}

// --------- REPLIES ---------
type Replies interface {
	CreateReply(ctx context.Context, reply *dbmysql.ThreadReply) error
	ReplyByID(ctx context.Context, id int64) (*dbmysql.ThreadReply, error)
	ListVisibleReplies(ctx context.Context, threadID int64) ([]dbmysql.ThreadReply, error)
}

func (r *CommunityRepository) CreateReply(ctx context.Context, reply *dbmysql.ThreadReply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *CommunityRepository) ReplyByID(ctx context.Context, id int64) (*dbmysql.ThreadReply, error) {
	var reply dbmysql.ThreadReply
	err := r.db.WithContext(ctx).First(&reply, "id = ?", id).Error
	return &reply, err
}

func (r *CommunityRepository) ListVisibleReplies(ctx context.Context, threadID int64) ([]dbmysql.ThreadReply, error) {
	var replies []dbmysql.ThreadReply
	err := r.db.WithContext(ctx).
		Where("thread_id = ? AND is_removed = ?", threadID, false).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

// --------- REACTIONS ---------
type Reactions interface {
	PostReactionFor(ctx context.Context, postID, userID int64) (*dbmysql.PostReaction, error)
	CreatePostReaction(ctx context.Context, reaction *dbmysql.PostReaction) error
	UpdatePostReactionKind(ctx context.Context, id int64, kind string) error
	DeletePostReaction(ctx context.Context, id int64) error
	CountPostReactions(ctx context.Context, postID int64) (int64, error)

	CommentReactionFor(ctx context.Context, commentID, userID int64) (*dbmysql.CommentReaction, error)
	CreateCommentReaction(ctx context.Context, reaction *dbmysql.CommentReaction) error
	UpdateCommentReactionKind(ctx context.Context, id int64, kind string) error
	DeleteCommentReaction(ctx context.Context, id int64) error
	CountCommentReactions(ctx context.Context, commentID int64) (int64, error)
}

func (r *CommunityRepository) PostReactionFor(ctx context.Context, postID, userID int64) (*dbmysql.PostReaction, error) {
	var reaction dbmysql.PostReaction
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *CommunityRepository) CreatePostReaction(ctx context.Context, reaction *dbmysql.PostReaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *CommunityRepository) UpdatePostReactionKind(ctx context.Context, id int64, kind string) error {
	return r.db.WithContext(ctx).
		Model(&dbmysql.PostReaction{}).
		Where("id = ?", id).
		Update("kind", kind).Error
}

func (r *CommunityRepository) DeletePostReaction(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&dbmysql.PostReaction{}, "id = ?", id).Error
}

func (r *CommunityRepository) CountPostReactions(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.PostReaction{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *CommunityRepository) CommentReactionFor(ctx context.Context, commentID, userID int64) (*dbmysql.CommentReaction, error) {
	var reaction dbmysql.CommentReaction
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *CommunityRepository) CreateCommentReaction(ctx context.Context, reaction *dbmysql.CommentReaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *CommunityRepository) UpdateCommentReactionKind(ctx context.Context, id int64, kind string) error {
	return r.db.WithContext(ctx).
		Model(&dbmysql.CommentReaction{}).
		Where("id = ?", id).
		Update("kind", kind).Error
}

func (r *CommunityRepository) DeleteCommentReaction(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&dbmysql.CommentReaction{}, "id = ?", id).Error
}

func (r *CommunityRepository) CountCommentReactions(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.CommentReaction{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}

// --------- MODERATION ---------
type Moderation interface {
	RemoveWithAudit(ctx context.Context, kind common.ContentKind, id int64, entry *dbmysql.ModerationLog, notifyUserID int64, notifyMessage string) error
	ListModerationLog(ctx context.Context, page common.Page) ([]dbmysql.ModerationLog, error)
}

// RemoveWithAudit flips the removal flag and, for moderator actions,
// writes the audit row and the owner notification in the same
// transaction. The flag update is guarded on is_removed = false so a
// repeated confirm can never produce a second audit entry.
func (r *CommunityRepository) RemoveWithAudit(
	ctx context.Context,
	kind common.ContentKind,
	id int64,
	entry *dbmysql.ModerationLog,
	notifyUserID int64,
	notifyMessage string,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := modelFor(kind)
		if err != nil {
			return err
		}

		res := tx.Model(model).
			Where("id = ? AND is_removed = ?", id, false).
			Update("is_removed", true)
		if res.Error != nil {
			return fmt.Errorf("failed to remove %s %d: %w", kind, id, res.Error)
		}
		if res.RowsAffected == 0 {
			// already removed; nothing else to record
			return nil
		}

		if entry != nil {
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("failed to create moderation log: %w", err)
			}
		}

		if notifyMessage != "" {
			notif := &dbmysql.Notification{
				ID:      uuid.NewString(),
				UserID:  notifyUserID,
				Message: notifyMessage,
			}
			if err := tx.Create(notif).Error; err != nil {
				return fmt.Errorf("failed to create removal notification: %w", err)
			}
		}

		return nil
	})
}

func (r *CommunityRepository) ListModerationLog(ctx context.Context, page common.Page) ([]dbmysql.ModerationLog, error) {
	var entries []dbmysql.ModerationLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&entries).Error
	return entries, err
}

func modelFor(kind common.ContentKind) (interface{}, error) {
	switch kind {
	case common.ContentPost:
		return &dbmysql.Post{}, nil
	case common.ContentComment:
		return &dbmysql.Comment{}, nil
	case common.ContentThread:
		return &dbmysql.Thread{}, nil
	case common.ContentReply:
		return &dbmysql.ThreadReply{}, nil
	}
	return nil, fmt.Errorf("unknown content kind: %s", kind)
}
