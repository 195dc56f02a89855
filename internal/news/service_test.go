package news

import (
	"context"
	"testing"
	"time"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newNewsTestService(t *testing.T, now time.Time) (*NewsService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&dbmysql.User{},
		&dbmysql.Profile{},
		&dbmysql.Category{},
		&dbmysql.Tag{},
		&dbmysql.NewsArticle{},
		&dbmysql.Asset{},
	))

	svc := NewNewsService(NewNewsRepository(db))
	svc.now = func() time.Time { return now }
	return svc, db
}

func seedArticle(t *testing.T, db *gorm.DB, slug, status string, publishAt *time.Time) *dbmysql.NewsArticle {
	t.Helper()
	a := &dbmysql.NewsArticle{
		Title:     slug,
		Slug:      slug,
		Body:      "cuerpo",
		Status:    status,
		PublishAt: publishAt,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func TestPublishWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, db := newNewsTestService(t, now)

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	seedArticle(t, db, "publicado", "published", nil)
	seedArticle(t, db, "programado-pasado", "scheduled", &past)
	seedArticle(t, db, "programado-futuro", "scheduled", &future)
	seedArticle(t, db, "borrador", "draft", nil)

	list, err := svc.List(context.Background(), ListFilter{Page: common.DefaultPage(1, 20)})
	require.NoError(t, err)

	slugs := make([]string, 0, len(list))
	for _, a := range list {
		slugs = append(slugs, a.Slug)
	}
	assert.ElementsMatch(t, []string{"publicado", "programado-pasado"}, slugs)
}

func TestDetailHidesUnpublished(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, db := newNewsTestService(t, now)

	seedArticle(t, db, "borrador", "draft", nil)

	_, err := svc.Detail(context.Background(), "borrador")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPinnedArticlesSortFirst(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, db := newNewsTestService(t, now)

	older := now.Add(-48 * time.Hour)
	newer := now.Add(-time.Hour)

	normal := seedArticle(t, db, "normal", "published", &newer)
	_ = normal
	pinned := &dbmysql.NewsArticle{
		Title: "fijado", Slug: "fijado", Body: "b",
		Status: "published", PublishAt: &older, PinHome: true,
	}
	require.NoError(t, db.Create(pinned).Error)

	list, err := svc.List(context.Background(), ListFilter{Page: common.DefaultPage(1, 20)})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "fijado", list[0].Slug)
}

func TestHomeRails(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, db := newNewsTestService(t, now)

	past := now.Add(-time.Hour)
	pinned := &dbmysql.NewsArticle{
		Title: "fijado", Slug: "fijado", Body: "b",
		Status: "published", PublishAt: &past, PinHome: true,
	}
	require.NoError(t, db.Create(pinned).Error)
	patch := &dbmysql.NewsArticle{
		Title: "parche", Slug: "parche-1-2", Body: "b",
		Status: "published", PublishAt: &past, IsPatchNote: true, Version: "1.2",
	}
	require.NoError(t, db.Create(patch).Error)

	rails, err := svc.Home(context.Background())
	require.NoError(t, err)
	require.Len(t, rails.Pinned, 1)
	require.Len(t, rails.PatchNotes, 1)
	assert.Equal(t, "1.2", rails.PatchNotes[0].Version)
}

func TestRelatedExcludesSelfAndMatchesCategory(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, db := newNewsTestService(t, now)

	cat := &dbmysql.Category{Name: "Eventos", Slug: "eventos"}
	require.NoError(t, db.Create(cat).Error)
	other := &dbmysql.Category{Name: "Parches", Slug: "parches"}
	require.NoError(t, db.Create(other).Error)

	main := &dbmysql.NewsArticle{Title: "principal", Slug: "principal", Body: "b", Status: "published", CategoryID: &cat.ID}
	require.NoError(t, db.Create(main).Error)
	sibling := &dbmysql.NewsArticle{Title: "hermano", Slug: "hermano", Body: "b", Status: "published", CategoryID: &cat.ID}
	require.NoError(t, db.Create(sibling).Error)
	unrelated := &dbmysql.NewsArticle{Title: "ajeno", Slug: "ajeno", Body: "b", Status: "published", CategoryID: &other.ID}
	require.NoError(t, db.Create(unrelated).Error)

	detail, err := svc.Detail(context.Background(), "principal")
	require.NoError(t, err)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, "hermano", detail.Related[0].Slug)
}

func TestListFilterByCategory(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, db := newNewsTestService(t, now)

	cat := &dbmysql.Category{Name: "Eventos", Slug: "eventos"}
	require.NoError(t, db.Create(cat).Error)

	inCat := &dbmysql.NewsArticle{Title: "dentro", Slug: "dentro", Body: "b", Status: "published", CategoryID: &cat.ID}
	require.NoError(t, db.Create(inCat).Error)
	seedArticle(t, db, "fuera", "published", nil)

	list, err := svc.List(context.Background(), ListFilter{Category: "eventos", Page: common.DefaultPage(1, 20)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "dentro", list[0].Slug)
}

func TestSaveArticleRequiresSuperuser(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, db := newNewsTestService(t, now)

	regular := &dbmysql.User{Username: "normal", Email: "n@nexo.dev"}
	require.NoError(t, db.Create(regular).Error)
	admin := &dbmysql.User{Username: "admin", Email: "a@nexo.dev", IsSuperuser: true}
	require.NoError(t, db.Create(admin).Error)

	article := &dbmysql.NewsArticle{Title: "Nuevo parche", Body: "b"}
	err := svc.SaveArticle(context.Background(), regular.ID, article)
	assert.ErrorIs(t, err, common.ErrForbidden)

	err = svc.SaveArticle(context.Background(), admin.ID, article)
	require.NoError(t, err)
	assert.Equal(t, "nuevo-parche", article.Slug)
	assert.Equal(t, "draft", article.Status)
}

func TestEmbedURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"https://youtu.be/abc123", "https://www.youtube.com/embed/abc123"},
		{"https://www.youtube.com/watch?v=abc123", "https://www.youtube.com/embed/abc123"},
		{"https://youtube.com/watch?v=abc123&t=10", "https://www.youtube.com/embed/abc123"},
		{"https://www.youtube.com/embed/abc123", "https://www.youtube.com/embed/abc123"},
		{"https://vimeo.com/12345", "https://vimeo.com/12345"},
		{"not a url at all", "not a url at all"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, EmbedURL(tc.in), "input %q", tc.in)
	}
}
