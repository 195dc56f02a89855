package codex

import (
	"context"
	"fmt"
	"strings"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"github.com/gosimple/slug"
)

// UserFinder is the slice of the user store the codex needs for the
// superuser gate on mutations.
type UserFinder interface {
	UserByID(ctx context.Context, id int64) (*dbmysql.User, error)
}

// CodexService wraps the repository with authorization and slug
// generation. Reads are open; every mutation requires a superuser.
type CodexService struct {
	repo  *CodexRepository
	users UserFinder
}

func NewCodexService(repo *CodexRepository, users UserFinder) *CodexService {
	return &CodexService{repo: repo, users: users}
}

func (s *CodexService) requireSuperuser(ctx context.Context, actorID int64) error {
	actor, err := s.users.UserByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("load actor: %w", err)
	}
	if !actor.IsSuperuser {
		return common.ErrForbidden
	}
	return nil
}

func ensureSlug(current, source string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	return slug.Make(source)
}

// ---- domains ----

func (s *CodexService) ListDomains(ctx context.Context) ([]dbmysql.Domain, error) {
	return s.repo.ListDomains(ctx)
}

func (s *CodexService) DomainBySlug(ctx context.Context, domainSlug string) (*dbmysql.Domain, error) {
	return s.repo.DomainBySlug(ctx, domainSlug)
}

func (s *CodexService) SaveDomain(ctx context.Context, actorID int64, d *dbmysql.Domain) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	d.Slug = ensureSlug(d.Slug, d.Name)
	return s.repo.SaveDomain(ctx, d)
}

func (s *CodexService) DeleteDomain(ctx context.Context, actorID, id int64) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	return s.repo.DeleteDomain(ctx, id)
}

// ---- assets ----

func (s *CodexService) ListAssets(ctx context.Context) ([]dbmysql.Asset, error) {
	return s.repo.ListAssets(ctx)
}

func (s *CodexService) SaveAsset(ctx context.Context, actorID int64, a *dbmysql.Asset) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	return s.repo.SaveAsset(ctx, a)
}

func (s *CodexService) DeleteAsset(ctx context.Context, actorID, id int64) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	return s.repo.DeleteAsset(ctx, id)
}

// ---- lore entries ----

func (s *CodexService) ListLoreEntries(ctx context.Context, domainSlug string) ([]dbmysql.LoreEntry, error) {
	return s.repo.ListLoreEntries(ctx, domainSlug)
}

func (s *CodexService) LoreEntryBySlug(ctx context.Context, entrySlug string) (*dbmysql.LoreEntry, error) {
	return s.repo.LoreEntryBySlug(ctx, entrySlug)
}

func (s *CodexService) SaveLoreEntry(ctx context.Context, actorID int64, l *dbmysql.LoreEntry) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	l.Slug = ensureSlug(l.Slug, l.Title)
	return s.repo.SaveLoreEntry(ctx, l)
}

func (s *CodexService) DeleteLoreEntry(ctx context.Context, actorID, id int64) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	return s.repo.DeleteLoreEntry(ctx, id)
}

// ---- artifacts ----

func (s *CodexService) ListArtifacts(ctx context.Context, domainSlug string) ([]dbmysql.Artifact, error) {
	return s.repo.ListArtifacts(ctx, domainSlug)
}

func (s *CodexService) ArtifactBySlug(ctx context.Context, artifactSlug string) (*dbmysql.Artifact, error) {
	return s.repo.ArtifactBySlug(ctx, artifactSlug)
}

func (s *CodexService) SaveArtifact(ctx context.Context, actorID int64, a *dbmysql.Artifact) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	a.Slug = ensureSlug(a.Slug, a.Name)
	return s.repo.SaveArtifact(ctx, a)
}

func (s *CodexService) DeleteArtifact(ctx context.Context, actorID, id int64) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	return s.repo.DeleteArtifact(ctx, id)
}

// ---- characters ----

func (s *CodexService) ListCharacters(ctx context.Context, domainSlug string) ([]dbmysql.Character, error) {
	return s.repo.ListCharacters(ctx, domainSlug)
}

func (s *CodexService) CharacterBySlug(ctx context.Context, characterSlug string) (*dbmysql.Character, error) {
	return s.repo.CharacterBySlug(ctx, characterSlug)
}

func (s *CodexService) SaveCharacter(ctx context.Context, actorID int64, c *dbmysql.Character) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	c.Slug = ensureSlug(c.Slug, c.Name)
	return s.repo.SaveCharacter(ctx, c)
}

func (s *CodexService) DeleteCharacter(ctx context.Context, actorID, id int64) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	return s.repo.DeleteCharacter(ctx, id)
}

// ---- enemies ----

func (s *CodexService) ListEnemies(ctx context.Context, domainSlug string) ([]dbmysql.Enemy, error) {
	return s.repo.ListEnemies(ctx, domainSlug)
}

func (s *CodexService) EnemyBySlug(ctx context.Context, enemySlug string) (*dbmysql.Enemy, error) {
	return s.repo.EnemyBySlug(ctx, enemySlug)
}

func (s *CodexService) SaveEnemy(ctx context.Context, actorID int64, e *dbmysql.Enemy) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	e.Slug = ensureSlug(e.Slug, e.Name)
	return s.repo.SaveEnemy(ctx, e)
}

func (s *CodexService) DeleteEnemy(ctx context.Context, actorID, id int64) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	return s.repo.DeleteEnemy(ctx, id)
}

// ---- traps ----

func (s *CodexService) ListTraps(ctx context.Context, domainSlug string) ([]dbmysql.Trap, error) {
	return s.repo.ListTraps(ctx, domainSlug)
}

func (s *CodexService) SaveTrap(ctx context.Context, actorID int64, t *dbmysql.Trap) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	return s.repo.SaveTrap(ctx, t)
}

func (s *CodexService) DeleteTrap(ctx context.Context, actorID, id int64) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	return s.repo.DeleteTrap(ctx, id)
}

// ---- guides ----

func (s *CodexService) ListGuides(ctx context.Context, domainSlug string) ([]dbmysql.Guide, error) {
	return s.repo.ListGuides(ctx, domainSlug)
}

func (s *CodexService) GuideBySlug(ctx context.Context, guideSlug string) (*dbmysql.Guide, error) {
	return s.repo.GuideBySlug(ctx, guideSlug)
}

func (s *CodexService) SaveGuide(ctx context.Context, actorID int64, g *dbmysql.Guide) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	g.Slug = ensureSlug(g.Slug, g.Title)
	return s.repo.SaveGuide(ctx, g)
}

func (s *CodexService) DeleteGuide(ctx context.Context, actorID, id int64) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	return s.repo.DeleteGuide(ctx, id)
}
