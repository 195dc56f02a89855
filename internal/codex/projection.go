package codex

import (
	"strconv"
	"strings"

	"nexoecos/internal/dbmysql"
)

// Collection names in the document store, one per codex entity variant
const (
	CollectionAssets     = "assets"
	CollectionDomains    = "domains"
	CollectionEmblems    = "emblems"
	CollectionCharacters = "characters"
	CollectionEnemies    = "enemies"
	CollectionGuides     = "guides"
	CollectionStories    = "stories"
	CollectionTraps      = "traps"
)

// Projector flattens codex rows into the documents the external client
// reads. Every projection is computed from scratch on each save; the
// mirror document is always a total overwrite, never a patch.
type Projector struct {
	siteURL string
}

func NewProjector(siteURL string) *Projector {
	return &Projector{siteURL: strings.TrimSuffix(siteURL, "/")}
}

// absMediaURL returns an absolute URL for a stored media path. Paths
// that are already absolute pass through unchanged.
func (p *Projector) absMediaURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return p.siteURL + "/media/" + strings.TrimPrefix(path, "/")
}

func domainSlug(d *dbmysql.Domain) interface{} {
	if d == nil {
		return nil
	}
	return d.Slug
}

func (p *Projector) AssetDoc(a *dbmysql.Asset) (string, map[string]interface{}) {
	return strconv.FormatInt(a.ID, 10), map[string]interface{}{
		"id":      a.ID,
		"kind":    a.Kind,
		"caption": a.Caption,
		"fileUrl": p.absMediaURL(a.File),
	}
}

func (p *Projector) DomainDoc(d *dbmysql.Domain) (string, map[string]interface{}) {
	return d.Slug, map[string]interface{}{
		"name":             d.Name,
		"slug":             d.Slug,
		"shortDescription": d.ShortDescription,
		"coverImageUrl":    p.absMediaURL(d.CoverImage),
		"bannerImageUrl":   p.absMediaURL(d.BannerImage),
		"color":            d.Color,
		"icon":             d.Icon,
		"videoUrl":         d.VideoURL,
		"order":            d.Order,
	}
}

func (p *Projector) EmblemDoc(a *dbmysql.Artifact) (string, map[string]interface{}) {
	return a.Slug, map[string]interface{}{
		"name":        a.Name,
		"slug":        a.Slug,
		"domainId":    domainSlug(a.Domain),
		"quote":       a.Quote,
		"rarity":      a.Rarity,
		"usage":       a.Usage,
		"epoch":       a.Epoch,
		"description": a.Description,
		"imageUrl":    p.absMediaURL(a.Image),
		"gifUrl":      p.absMediaURL(a.Gif),
		"videoUrl":    a.VideoURL,
	}
}

func (p *Projector) CharacterDoc(c *dbmysql.Character) (string, map[string]interface{}) {
	return c.Slug, map[string]interface{}{
		"name":        c.Name,
		"slug":        c.Slug,
		"role":        c.Role,
		"domainId":    domainSlug(c.Domain),
		"description": c.Description,
		"playable":    c.Playable,
		"imageUrl":    p.absMediaURL(c.SpriteStill),
		"gifUrl":      p.absMediaURL(c.SpriteGif),
	}
}

func (p *Projector) EnemyDoc(e *dbmysql.Enemy) (string, map[string]interface{}) {
	return e.Slug, map[string]interface{}{
		"name":           e.Name,
		"slug":           e.Slug,
		"domainId":       domainSlug(e.Domain),
		"description":    e.Description,
		"behavior":       e.Behavior,
		"spriteStillUrl": p.absMediaURL(e.SpriteStill),
		"spriteGifUrl":   p.absMediaURL(e.SpriteGif),
		"imageFullUrl":   p.absMediaURL(e.ImageFull),
		"videoUrl":       e.VideoURL,
	}
}

// GuideDoc projects relationship fields as lists of the related
// entities' slugs, not nested objects
func (p *Projector) GuideDoc(g *dbmysql.Guide) (string, map[string]interface{}) {
	artifacts := make([]string, 0, len(g.RelatedArtifacts))
	for _, a := range g.RelatedArtifacts {
		artifacts = append(artifacts, a.Slug)
	}
	characters := make([]string, 0, len(g.RelatedCharacters))
	for _, c := range g.RelatedCharacters {
		characters = append(characters, c.Slug)
	}
	enemies := make([]string, 0, len(g.RelatedEnemies))
	for _, e := range g.RelatedEnemies {
		enemies = append(enemies, e.Slug)
	}

	return g.Slug, map[string]interface{}{
		"title":             g.Title,
		"slug":              g.Slug,
		"summary":           g.Summary,
		"body":              g.Body,
		"domainId":          domainSlug(g.Domain),
		"relatedArtifacts":  artifacts,
		"relatedCharacters": characters,
		"relatedEnemies":    enemies,
		"tags":              g.Tags,
		"coverImageUrl":     p.absMediaURL(g.CoverImage),
		"readTime":          g.ReadTime,
	}
}

func (p *Projector) StoryDoc(l *dbmysql.LoreEntry) (string, map[string]interface{}) {
	galleryIDs := make([]string, 0, len(l.Gallery))
	for _, a := range l.Gallery {
		galleryIDs = append(galleryIDs, strconv.FormatInt(a.ID, 10))
	}

	return l.Slug, map[string]interface{}{
		"title":           l.Title,
		"slug":            l.Slug,
		"summary":         l.Summary,
		"body":            l.Body,
		"domainId":        domainSlug(l.Domain),
		"coverImageUrl":   p.absMediaURL(l.CoverImage),
		"videoUrl":        l.VideoURL,
		"galleryAssetIds": galleryIDs,
	}
}

// TrapDoc falls back to the numeric id as the document id, since Trap
// has no slug. The delete path uses the same fallback.
func (p *Projector) TrapDoc(t *dbmysql.Trap) (string, map[string]interface{}) {
	domainID := interface{}(nil)
	if t.Domain.ID != 0 {
		domainID = t.Domain.Slug
	}
	return strconv.FormatInt(t.ID, 10), map[string]interface{}{
		"title":       t.Title,
		"slug":        "",
		"domainId":    domainID,
		"description": t.Description,
		"imageUrl":    p.absMediaURL(t.Image),
		"gifUrl":      p.absMediaURL(t.Gif),
	}
}
