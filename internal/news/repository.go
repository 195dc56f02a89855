package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pinnedRailSize  = 3
	patchRailSize   = 5
	maxRelatedItems = 6
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// publishWindow restricts a query to articles visible to readers:
// published, or scheduled with a publish time in the past.
func publishWindow(q *gorm.DB, now time.Time) *gorm.DB {
	return q.Where(
		"status = ? OR (status = ? AND publish_at IS NOT NULL AND publish_at <= ?)",
		"published", "scheduled", now,
	)
}

type ListFilter struct {
	Category string
	Tag      string
	Search   string
	Page     common.Page
}

func (r *NewsRepository) ListPublished(ctx context.Context, now time.Time, f ListFilter) ([]dbmysql.NewsArticle, error) {
	q := publishWindow(r.db.WithContext(ctx).Model(&dbmysql.NewsArticle{}), now).
		Preload("Author").Preload("Category").Preload("Tags")

	if f.Category != "" {
		q = q.Joins("JOIN categories ON categories.id = news_articles.category_id").
			Where("categories.slug = ?", f.Category)
	}
	if f.Tag != "" {
		q = q.Joins("JOIN news_article_tags ON news_article_tags.news_article_id = news_articles.id").
			Joins("JOIN tags ON tags.id = news_article_tags.tag_id").
			Where("tags.slug = ?", f.Tag)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("news_articles.title LIKE ? OR news_articles.summary LIKE ? OR news_articles.body LIKE ?", like, like, like)
	}

	var articles []dbmysql.NewsArticle
	err := q.Order("news_articles.pin_home desc, news_articles.publish_at desc, news_articles.created_at desc").
		Limit(f.Page.Limit).Offset(f.Page.Offset).
		Find(&articles).Error
	return articles, err
}

func (r *NewsRepository) PublishedBySlug(ctx context.Context, now time.Time, slug string) (*dbmysql.NewsArticle, error) {
	var a dbmysql.NewsArticle
	err := publishWindow(r.db.WithContext(ctx), now).
		Preload("Author").Preload("Category").Preload("Tags").Preload("Gallery").
		Where("slug = ?", slug).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article: %w", common.ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

// Related returns recent articles in the same category or sharing a
// tag, excluding the article itself
func (r *NewsRepository) Related(ctx context.Context, now time.Time, a *dbmysql.NewsArticle) ([]dbmysql.NewsArticle, error) {
	tagIDs := make([]int64, 0, len(a.Tags))
	for _, t := range a.Tags {
		tagIDs = append(tagIDs, t.ID)
	}

	q := publishWindow(r.db.WithContext(ctx).Model(&dbmysql.NewsArticle{}), now).
		Preload("Category").
		Where("news_articles.id <> ?", a.ID)

	sharedTag := "news_articles.id IN (SELECT news_article_id FROM news_article_tags WHERE tag_id IN ?)"
	switch {
	case a.CategoryID != nil && len(tagIDs) > 0:
		q = q.Where("category_id = ? OR "+sharedTag, *a.CategoryID, tagIDs)
	case a.CategoryID != nil:
		q = q.Where("category_id = ?", *a.CategoryID)
	case len(tagIDs) > 0:
		q = q.Where(sharedTag, tagIDs)
	default:
		return nil, nil
	}

	var related []dbmysql.NewsArticle
	err := q.Order("publish_at desc, created_at desc").Limit(maxRelatedItems).Find(&related).Error
	return related, err
}

func (r *NewsRepository) PinnedRail(ctx context.Context, now time.Time) ([]dbmysql.NewsArticle, error) {
	var articles []dbmysql.NewsArticle
	err := publishWindow(r.db.WithContext(ctx).Model(&dbmysql.NewsArticle{}), now).
		Preload("Category").
		Where("pin_home = ?", true).
		Order("publish_at desc, created_at desc").
		Limit(pinnedRailSize).
		Find(&articles).Error
	return articles, err
}

func (r *NewsRepository) PatchNotesRail(ctx context.Context, now time.Time) ([]dbmysql.NewsArticle, error) {
	var articles []dbmysql.NewsArticle
	err := publishWindow(r.db.WithContext(ctx).Model(&dbmysql.NewsArticle{}), now).
		Where("is_patch_notes = ?", true).
		Order("publish_at desc, created_at desc").
		Limit(patchRailSize).
		Find(&articles).Error
	return articles, err
}

func (r *NewsRepository) ListCategories(ctx context.Context) ([]dbmysql.Category, error) {
	var categories []dbmysql.Category
	err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *NewsRepository) ListTags(ctx context.Context) ([]dbmysql.Tag, error) {
	var tags []dbmysql.Tag
	err := r.db.WithContext(ctx).Order("name asc").Find(&tags).Error
	return tags, err
}

func (r *NewsRepository) SaveArticle(ctx context.Context, a *dbmysql.NewsArticle) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Category", "Tags", "Gallery").Save(a).Error; err != nil {
			return err
		}
		if err := tx.Model(a).Association("Tags").Replace(a.Tags); err != nil {
			return err
		}
		return tx.Model(a).Association("Gallery").Replace(a.Gallery)
	})
	if err != nil {
		return fmt.Errorf("save article: %w", err)
	}
	return nil
}

func (r *NewsRepository) DeleteArticle(ctx context.Context, id int64) error {
	var a dbmysql.NewsArticle
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("article: %w", common.ErrNotFound)
		}
		return err
	}
	if err := r.db.WithContext(ctx).Select(clause.Associations).Delete(&a).Error; err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

func (r *NewsRepository) UserByID(ctx context.Context, id int64) (*dbmysql.User, error) {
	var u dbmysql.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user: %w", common.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}
