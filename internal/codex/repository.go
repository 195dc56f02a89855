package codex

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CodexRepository persists encyclopedia rows and pushes the projected
// document to the mirror after every successful save or delete. The
// relational row is the source of truth; the mirror write happens
// after commit and never fails the request.
type CodexRepository struct {
	db        *gorm.DB
	projector *Projector
	syncer    Syncer
}

func NewCodexRepository(db *gorm.DB, projector *Projector, syncer Syncer) *CodexRepository {
	return &CodexRepository{db: db, projector: projector, syncer: syncer}
}

func wrapNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	return err
}

// ---- domains ----

func (r *CodexRepository) SaveDomain(ctx context.Context, d *dbmysql.Domain) error {
	if err := r.db.WithContext(ctx).Save(d).Error; err != nil {
		return fmt.Errorf("save domain: %w", err)
	}
	docID, doc := r.projector.DomainDoc(d)
	r.syncer.EntitySaved(CollectionDomains, docID, doc)
	return nil
}

func (r *CodexRepository) DeleteDomain(ctx context.Context, id int64) error {
	var d dbmysql.Domain
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return wrapNotFound(err, "domain")
	}
	if err := r.db.WithContext(ctx).Delete(&d).Error; err != nil {
		return fmt.Errorf("delete domain: %w", err)
	}
	r.syncer.EntityDeleted(CollectionDomains, d.Slug)
	return nil
}

func (r *CodexRepository) DomainBySlug(ctx context.Context, slug string) (*dbmysql.Domain, error) {
	var d dbmysql.Domain
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&d).Error; err != nil {
		return nil, wrapNotFound(err, "domain")
	}
	return &d, nil
}

func (r *CodexRepository) ListDomains(ctx context.Context) ([]dbmysql.Domain, error) {
	var domains []dbmysql.Domain
	err := r.db.WithContext(ctx).Order("sort_order asc, name asc").Find(&domains).Error
	return domains, err
}

// ---- assets ----

func (r *CodexRepository) SaveAsset(ctx context.Context, a *dbmysql.Asset) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("save asset: %w", err)
	}
	docID, doc := r.projector.AssetDoc(a)
	r.syncer.EntitySaved(CollectionAssets, docID, doc)
	return nil
}

func (r *CodexRepository) DeleteAsset(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&dbmysql.Asset{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete asset: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("asset: %w", common.ErrNotFound)
	}
	r.syncer.EntityDeleted(CollectionAssets, strconv.FormatInt(id, 10))
	return nil
}

func (r *CodexRepository) AssetByID(ctx context.Context, id int64) (*dbmysql.Asset, error) {
	var a dbmysql.Asset
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, wrapNotFound(err, "asset")
	}
	return &a, nil
}

func (r *CodexRepository) ListAssets(ctx context.Context) ([]dbmysql.Asset, error) {
	var assets []dbmysql.Asset
	err := r.db.WithContext(ctx).Order("id desc").Find(&assets).Error
	return assets, err
}

// ---- lore entries ----

func (r *CodexRepository) SaveLoreEntry(ctx context.Context, l *dbmysql.LoreEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Gallery", "Domain").Save(l).Error; err != nil {
			return err
		}
		return tx.Model(l).Association("Gallery").Replace(l.Gallery)
	})
	if err != nil {
		return fmt.Errorf("save lore entry: %w", err)
	}

	var full dbmysql.LoreEntry
	if err := r.db.WithContext(ctx).Preload("Domain").Preload("Gallery").First(&full, l.ID).Error; err != nil {
		return fmt.Errorf("reload lore entry: %w", err)
	}
	docID, doc := r.projector.StoryDoc(&full)
	r.syncer.EntitySaved(CollectionStories, docID, doc)
	return nil
}

func (r *CodexRepository) DeleteLoreEntry(ctx context.Context, id int64) error {
	var l dbmysql.LoreEntry
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return wrapNotFound(err, "lore entry")
	}
	if err := r.db.WithContext(ctx).Select(clause.Associations).Delete(&l).Error; err != nil {
		return fmt.Errorf("delete lore entry: %w", err)
	}
	r.syncer.EntityDeleted(CollectionStories, l.Slug)
	return nil
}

func (r *CodexRepository) LoreEntryBySlug(ctx context.Context, slug string) (*dbmysql.LoreEntry, error) {
	var l dbmysql.LoreEntry
	err := r.db.WithContext(ctx).Preload("Domain").Preload("Gallery").
		Where("slug = ?", slug).First(&l).Error
	if err != nil {
		return nil, wrapNotFound(err, "lore entry")
	}
	return &l, nil
}

func (r *CodexRepository) ListLoreEntries(ctx context.Context, domainSlug string) ([]dbmysql.LoreEntry, error) {
	q := r.db.WithContext(ctx).Preload("Domain").Order("created_at desc")
	if domainSlug != "" {
		q = q.Joins("JOIN domains ON domains.id = lore_entries.domain_id").
			Where("domains.slug = ?", domainSlug)
	}
	var entries []dbmysql.LoreEntry
	err := q.Find(&entries).Error
	return entries, err
}

// ---- artifacts ----

func (r *CodexRepository) SaveArtifact(ctx context.Context, a *dbmysql.Artifact) error {
	if err := r.db.WithContext(ctx).Omit("Domain").Save(a).Error; err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}

	var full dbmysql.Artifact
	if err := r.db.WithContext(ctx).Preload("Domain").First(&full, a.ID).Error; err != nil {
		return fmt.Errorf("reload artifact: %w", err)
	}
	docID, doc := r.projector.EmblemDoc(&full)
	r.syncer.EntitySaved(CollectionEmblems, docID, doc)
	return nil
}

func (r *CodexRepository) DeleteArtifact(ctx context.Context, id int64) error {
	var a dbmysql.Artifact
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return wrapNotFound(err, "artifact")
	}
	if err := r.db.WithContext(ctx).Select(clause.Associations).Delete(&a).Error; err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	r.syncer.EntityDeleted(CollectionEmblems, a.Slug)
	return nil
}

func (r *CodexRepository) ArtifactBySlug(ctx context.Context, slug string) (*dbmysql.Artifact, error) {
	var a dbmysql.Artifact
	err := r.db.WithContext(ctx).Preload("Domain").Where("slug = ?", slug).First(&a).Error
	if err != nil {
		return nil, wrapNotFound(err, "artifact")
	}
	return &a, nil
}

func (r *CodexRepository) ListArtifacts(ctx context.Context, domainSlug string) ([]dbmysql.Artifact, error) {
	q := r.db.WithContext(ctx).Preload("Domain").Order("name asc")
	if domainSlug != "" {
		q = q.Joins("JOIN domains ON domains.id = artifacts.domain_id").
			Where("domains.slug = ?", domainSlug)
	}
	var artifacts []dbmysql.Artifact
	err := q.Find(&artifacts).Error
	return artifacts, err
}

// ---- characters ----

func (r *CodexRepository) SaveCharacter(ctx context.Context, c *dbmysql.Character) error {
	if err := r.db.WithContext(ctx).Omit("Domain").Save(c).Error; err != nil {
		return fmt.Errorf("save character: %w", err)
	}

	var full dbmysql.Character
	if err := r.db.WithContext(ctx).Preload("Domain").First(&full, c.ID).Error; err != nil {
		return fmt.Errorf("reload character: %w", err)
	}
	docID, doc := r.projector.CharacterDoc(&full)
	r.syncer.EntitySaved(CollectionCharacters, docID, doc)
	return nil
}

func (r *CodexRepository) DeleteCharacter(ctx context.Context, id int64) error {
	var c dbmysql.Character
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return wrapNotFound(err, "character")
	}
	if err := r.db.WithContext(ctx).Select(clause.Associations).Delete(&c).Error; err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	r.syncer.EntityDeleted(CollectionCharacters, c.Slug)
	return nil
}

func (r *CodexRepository) CharacterBySlug(ctx context.Context, slug string) (*dbmysql.Character, error) {
	var c dbmysql.Character
	err := r.db.WithContext(ctx).Preload("Domain").Where("slug = ?", slug).First(&c).Error
	if err != nil {
		return nil, wrapNotFound(err, "character")
	}
	return &c, nil
}

func (r *CodexRepository) ListCharacters(ctx context.Context, domainSlug string) ([]dbmysql.Character, error) {
	q := r.db.WithContext(ctx).Preload("Domain").Order("name asc")
	if domainSlug != "" {
		q = q.Joins("JOIN domains ON domains.id = characters.domain_id").
			Where("domains.slug = ?", domainSlug)
	}
	var characters []dbmysql.Character
	err := q.Find(&characters).Error
	return characters, err
}

// ---- enemies ----

func (r *CodexRepository) SaveEnemy(ctx context.Context, e *dbmysql.Enemy) error {
	if err := r.db.WithContext(ctx).Omit("Domain").Save(e).Error; err != nil {
		return fmt.Errorf("save enemy: %w", err)
	}

	var full dbmysql.Enemy
	if err := r.db.WithContext(ctx).Preload("Domain").First(&full, e.ID).Error; err != nil {
		return fmt.Errorf("reload enemy: %w", err)
	}
	docID, doc := r.projector.EnemyDoc(&full)
	r.syncer.EntitySaved(CollectionEnemies, docID, doc)
	return nil
}

func (r *CodexRepository) DeleteEnemy(ctx context.Context, id int64) error {
	var e dbmysql.Enemy
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return wrapNotFound(err, "enemy")
	}
	if err := r.db.WithContext(ctx).Select(clause.Associations).Delete(&e).Error; err != nil {
		return fmt.Errorf("delete enemy: %w", err)
	}
	r.syncer.EntityDeleted(CollectionEnemies, e.Slug)
	return nil
}

func (r *CodexRepository) EnemyBySlug(ctx context.Context, slug string) (*dbmysql.Enemy, error) {
	var e dbmysql.Enemy
	err := r.db.WithContext(ctx).Preload("Domain").Where("slug = ?", slug).First(&e).Error
	if err != nil {
		return nil, wrapNotFound(err, "enemy")
	}
	return &e, nil
}

func (r *CodexRepository) ListEnemies(ctx context.Context, domainSlug string) ([]dbmysql.Enemy, error) {
	q := r.db.WithContext(ctx).Preload("Domain").Order("name asc")
	if domainSlug != "" {
		q = q.Joins("JOIN domains ON domains.id = enemies.domain_id").
			Where("domains.slug = ?", domainSlug)
	}
	var enemies []dbmysql.Enemy
	err := q.Find(&enemies).Error
	return enemies, err
}

// ---- traps ----

func (r *CodexRepository) SaveTrap(ctx context.Context, t *dbmysql.Trap) error {
	if err := r.db.WithContext(ctx).Omit("Domain").Save(t).Error; err != nil {
		return fmt.Errorf("save trap: %w", err)
	}

	var full dbmysql.Trap
	if err := r.db.WithContext(ctx).Preload("Domain").First(&full, t.ID).Error; err != nil {
		return fmt.Errorf("reload trap: %w", err)
	}
	docID, doc := r.projector.TrapDoc(&full)
	r.syncer.EntitySaved(CollectionTraps, docID, doc)
	return nil
}

func (r *CodexRepository) DeleteTrap(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&dbmysql.Trap{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete trap: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("trap: %w", common.ErrNotFound)
	}
	r.syncer.EntityDeleted(CollectionTraps, strconv.FormatInt(id, 10))
	return nil
}

func (r *CodexRepository) TrapByID(ctx context.Context, id int64) (*dbmysql.Trap, error) {
	var t dbmysql.Trap
	if err := r.db.WithContext(ctx).Preload("Domain").First(&t, id).Error; err != nil {
		return nil, wrapNotFound(err, "trap")
	}
	return &t, nil
}

func (r *CodexRepository) ListTraps(ctx context.Context, domainSlug string) ([]dbmysql.Trap, error) {
	q := r.db.WithContext(ctx).Preload("Domain").Order("title asc")
	if domainSlug != "" {
		q = q.Joins("JOIN domains ON domains.id = traps.domain_id").
			Where("domains.slug = ?", domainSlug)
	}
	var traps []dbmysql.Trap
	err := q.Find(&traps).Error
	return traps, err
}

// ---- guides ----

func (r *CodexRepository) SaveGuide(ctx context.Context, g *dbmysql.Guide) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Domain", "RelatedArtifacts", "RelatedCharacters", "RelatedEnemies").Save(g).Error; err != nil {
			return err
		}
		if err := tx.Model(g).Association("RelatedArtifacts").Replace(g.RelatedArtifacts); err != nil {
			return err
		}
		if err := tx.Model(g).Association("RelatedCharacters").Replace(g.RelatedCharacters); err != nil {
			return err
		}
		return tx.Model(g).Association("RelatedEnemies").Replace(g.RelatedEnemies)
	})
	if err != nil {
		return fmt.Errorf("save guide: %w", err)
	}

	var full dbmysql.Guide
	err = r.db.WithContext(ctx).
		Preload("Domain").
		Preload("RelatedArtifacts").
		Preload("RelatedCharacters").
		Preload("RelatedEnemies").
		First(&full, g.ID).Error
	if err != nil {
		return fmt.Errorf("reload guide: %w", err)
	}
	docID, doc := r.projector.GuideDoc(&full)
	r.syncer.EntitySaved(CollectionGuides, docID, doc)
	return nil
}

func (r *CodexRepository) DeleteGuide(ctx context.Context, id int64) error {
	var g dbmysql.Guide
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return wrapNotFound(err, "guide")
	}
	if err := r.db.WithContext(ctx).Select(clause.Associations).Delete(&g).Error; err != nil {
		return fmt.Errorf("delete guide: %w", err)
	}
	r.syncer.EntityDeleted(CollectionGuides, g.Slug)
	return nil
}

func (r *CodexRepository) GuideBySlug(ctx context.Context, slug string) (*dbmysql.Guide, error) {
	var g dbmysql.Guide
	err := r.db.WithContext(ctx).
		Preload("Domain").
		Preload("RelatedArtifacts").
		Preload("RelatedCharacters").
		Preload("RelatedEnemies").
		Where("slug = ?", slug).First(&g).Error
	if err != nil {
		return nil, wrapNotFound(err, "guide")
	}
	return &g, nil
}

func (r *CodexRepository) ListGuides(ctx context.Context, domainSlug string) ([]dbmysql.Guide, error) {
	q := r.db.WithContext(ctx).Preload("Domain").Order("updated_at desc")
	if domainSlug != "" {
		q = q.Joins("JOIN domains ON domains.id = guides.domain_id").
			Where("domains.slug = ?", domainSlug)
	}
	var guides []dbmysql.Guide
	err := q.Find(&guides).Error
	return guides, err
}
