package dbmysql

import "time"

// community.go holds the feed and forum tables. Moderation never hard
// deletes: is_removed hides a row from default listings but keeps it stored.

type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	AuthorID  int64     `gorm:"not null;index;column:author_id"`
	Title     string    `gorm:"size:140;not null;column:title"`
	Body      string    `gorm:"type:text;not null;column:body"`
	Type      string    `gorm:"size:10;default:'post';column:type"` // post, review
	Image     string    `gorm:"size:255;column:image"`
	Slug      string    `gorm:"uniqueIndex;size:180;column:slug"`
	IsRemoved bool      `gorm:"default:false;column:is_removed"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at"`

	Author User `gorm:"foreignKey:AuthorID"`
}

type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    int64     `gorm:"not null;index;column:post_id"`
	AuthorID  int64     `gorm:"not null;index;column:author_id"`
	Body      string    `gorm:"size:1000;not null;column:body"`
	IsRemoved bool      `gorm:"default:false;column:is_removed"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`

	Author User `gorm:"foreignKey:AuthorID"`
}

// PostReaction and CommentReaction each carry a composite unique index:
// the store, not the application, enforces at most one reaction per
// (target, user) pair.

type PostReaction struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    int64     `gorm:"not null;uniqueIndex:idx_post_user;column:post_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_post_user;column:user_id"`
	Kind      string    `gorm:"size:16;default:'like';column:kind"` // like, fire, gg
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
}

type CommentReaction struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	CommentID int64     `gorm:"not null;uniqueIndex:idx_comment_user;column:comment_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_comment_user;column:user_id"`
	Kind      string    `gorm:"size:16;default:'like';column:kind"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
}

type Forum struct {
	ID          int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Title       string `gorm:"size:120;not null;column:title"`
	Description string `gorm:"type:text;column:description"`
	Slug        string `gorm:"uniqueIndex;size:150;column:slug"`
}

type Thread struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ForumID   int64     `gorm:"not null;index;column:forum_id"`
	AuthorID  int64     `gorm:"not null;index;column:author_id"`
	Title     string    `gorm:"size:150;not null;column:title"`
	Body      string    `gorm:"type:text;not null;column:body"`
	Image     string    `gorm:"size:255;column:image"`
	Slug      string    `gorm:"uniqueIndex;size:180;column:slug"`
	IsLocked  bool      `gorm:"default:false;column:is_locked"`
	IsRemoved bool      `gorm:"default:false;column:is_removed"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at"`

	Forum  Forum `gorm:"foreignKey:ForumID"`
	Author User  `gorm:"foreignKey:AuthorID"`
}

type ThreadReply struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ThreadID  int64     `gorm:"not null;index;column:thread_id"`
	AuthorID  int64     `gorm:"not null;index;column:author_id"`
	Body      string    `gorm:"type:text;not null;column:body"`
	IsRemoved bool      `gorm:"default:false;column:is_removed"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`

	Author User `gorm:"foreignKey:AuthorID"`
}

// ModerationLog is append only. A row is the sole record of why content
// was removed, so the actor and owner references survive user deletion.
type ModerationLog struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ContentType string    `gorm:"size:10;not null;column:content_type"` // post, comment, thread, reply
	ObjectID    int64     `gorm:"not null;column:object_id"`
	RemovedByID *int64    `gorm:"column:removed_by_id"`
	OwnerID     *int64    `gorm:"column:owner_id"`
	Reason      string    `gorm:"type:text;not null;column:reason"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at"`
}
