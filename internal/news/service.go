package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"github.com/gosimple/slug"
)

// NewsService serves the public news surface and the superuser-gated
// article mutations. Visibility is time-based: scheduled articles
// appear on their own once publish_at passes, with no publish job.
type NewsService struct {
	repo *NewsRepository
	now  func() time.Time
}

func NewNewsService(repo *NewsRepository) *NewsService {
	return &NewsService{repo: repo, now: time.Now}
}

type ArticleSummary struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	HeroImage   string     `json:"heroImage"`
	Category    string     `json:"category"`
	PinHome     bool       `json:"pinHome"`
	IsPatchNote bool       `json:"isPatchNote"`
	Version     string     `json:"version"`
	ReadingTime int        `json:"readingTime"`
	PublishAt   *time.Time `json:"publishAt"`
}

type ArticleDetail struct {
	ArticleSummary
	Body        string           `json:"body"`
	BannerImage string           `json:"bannerImage"`
	VideoEmbed  string           `json:"videoEmbed"`
	Author      string           `json:"author"`
	Tags        []string         `json:"tags"`
	Gallery     []dbmysql.Asset  `json:"gallery"`
	Related     []ArticleSummary `json:"related"`
}

type HomeRails struct {
	Pinned     []ArticleSummary `json:"pinned"`
	PatchNotes []ArticleSummary `json:"patchNotes"`
}

func toSummary(a *dbmysql.NewsArticle) ArticleSummary {
	category := ""
	if a.Category != nil {
		category = a.Category.Name
	}
	return ArticleSummary{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Summary:     a.Summary,
		HeroImage:   a.HeroImage,
		Category:    category,
		PinHome:     a.PinHome,
		IsPatchNote: a.IsPatchNote,
		Version:     a.Version,
		ReadingTime: a.ReadingTime,
		PublishAt:   a.PublishAt,
	}
}

func toSummaries(articles []dbmysql.NewsArticle) []ArticleSummary {
	out := make([]ArticleSummary, 0, len(articles))
	for i := range articles {
		out = append(out, toSummary(&articles[i]))
	}
	return out
}

func (s *NewsService) List(ctx context.Context, f ListFilter) ([]ArticleSummary, error) {
	articles, err := s.repo.ListPublished(ctx, s.now(), f)
	if err != nil {
		return nil, err
	}
	return toSummaries(articles), nil
}

func (s *NewsService) Detail(ctx context.Context, articleSlug string) (*ArticleDetail, error) {
	now := s.now()
	a, err := s.repo.PublishedBySlug(ctx, now, articleSlug)
	if err != nil {
		return nil, err
	}

	related, err := s.repo.Related(ctx, now, a)
	if err != nil {
		return nil, err
	}

	author := ""
	if a.Author != nil {
		author = a.Author.Username
	}
	tags := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, t.Name)
	}

	return &ArticleDetail{
		ArticleSummary: toSummary(a),
		Body:           a.Body,
		BannerImage:    a.BannerImage,
		VideoEmbed:     EmbedURL(a.VideoURL),
		Author:         author,
		Tags:           tags,
		Gallery:        a.Gallery,
		Related:        toSummaries(related),
	}, nil
}

func (s *NewsService) Home(ctx context.Context) (*HomeRails, error) {
	now := s.now()
	pinned, err := s.repo.PinnedRail(ctx, now)
	if err != nil {
		return nil, err
	}
	patch, err := s.repo.PatchNotesRail(ctx, now)
	if err != nil {
		return nil, err
	}
	return &HomeRails{
		Pinned:     toSummaries(pinned),
		PatchNotes: toSummaries(patch),
	}, nil
}

func (s *NewsService) Categories(ctx context.Context) ([]dbmysql.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *NewsService) Tags(ctx context.Context) ([]dbmysql.Tag, error) {
	return s.repo.ListTags(ctx)
}

func (s *NewsService) SaveArticle(ctx context.Context, actorID int64, a *dbmysql.NewsArticle) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	if strings.TrimSpace(a.Slug) == "" {
		a.Slug = slug.Make(a.Title)
	}
	if a.Status == "" {
		a.Status = "draft"
	}
	return s.repo.SaveArticle(ctx, a)
}

func (s *NewsService) DeleteArticle(ctx context.Context, actorID, id int64) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	return s.repo.DeleteArticle(ctx, id)
}

func (s *NewsService) requireSuperuser(ctx context.Context, actorID int64) error {
	actor, err := s.repo.UserByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("load actor: %w", err)
	}
	if !actor.IsSuperuser {
		return common.ErrForbidden
	}
	return nil
}

// EmbedURL rewrites a watch-page YouTube URL into the embeddable form.
// Anything it cannot parse passes through unchanged.
func EmbedURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return raw
		}
		return "https://www.youtube.com/embed/" + id
	case "youtube.com":
		if strings.HasPrefix(u.Path, "/embed/") {
			return raw
		}
		if u.Path == "/watch" {
			if id := u.Query().Get("v"); id != "" {
				return "https://www.youtube.com/embed/" + id
			}
		}
	}
	return raw
}
