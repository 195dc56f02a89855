package codex

import (
	"context"
	"testing"

	"nexoecos/internal/dbmysql"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingSyncer applies events inline, so tests see the mirror state
// without racing the worker pool
type recordingSyncer struct {
	events []storeCall
}

func (r *recordingSyncer) EntitySaved(collection, docID string, doc map[string]interface{}) {
	r.events = append(r.events, storeCall{op: OpUpsert, collection: collection, docID: docID, doc: doc})
}

func (r *recordingSyncer) EntityDeleted(collection, docID string) {
	r.events = append(r.events, storeCall{op: OpDelete, collection: collection, docID: docID})
}

func newCodexTestRepo(t *testing.T) (*CodexRepository, *recordingSyncer, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&dbmysql.Domain{},
		&dbmysql.Asset{},
		&dbmysql.LoreEntry{},
		&dbmysql.Artifact{},
		&dbmysql.Character{},
		&dbmysql.Enemy{},
		&dbmysql.Trap{},
		&dbmysql.Guide{},
	))

	syncer := &recordingSyncer{}
	repo := NewCodexRepository(db, NewProjector("https://nexo.example"), syncer)
	return repo, syncer, db
}

func TestSaveDomainMirrorsBySlug(t *testing.T) {
	repo, syncer, _ := newCodexTestRepo(t)

	d := &dbmysql.Domain{Name: "Dominio de la Niebla", Slug: "niebla"}
	require.NoError(t, repo.SaveDomain(context.Background(), d))

	require.Len(t, syncer.events, 1)
	assert.Equal(t, OpUpsert, syncer.events[0].op)
	assert.Equal(t, CollectionDomains, syncer.events[0].collection)
	assert.Equal(t, "niebla", syncer.events[0].docID)
	assert.Equal(t, "Dominio de la Niebla", syncer.events[0].doc["name"])
}

func TestSaveArtifactMirrorsDomainSlug(t *testing.T) {
	repo, syncer, db := newCodexTestRepo(t)

	d := &dbmysql.Domain{Name: "Tiempo", Slug: "tiempo"}
	require.NoError(t, db.Create(d).Error)

	a := &dbmysql.Artifact{Name: "Reloj Roto", Slug: "reloj-roto", DomainID: &d.ID}
	require.NoError(t, repo.SaveArtifact(context.Background(), a))

	require.Len(t, syncer.events, 1)
	assert.Equal(t, CollectionEmblems, syncer.events[0].collection)
	assert.Equal(t, "tiempo", syncer.events[0].doc["domainId"])
}

func TestSaveGuideMirrorsRelationSlugs(t *testing.T) {
	repo, syncer, db := newCodexTestRepo(t)

	a1 := &dbmysql.Artifact{Name: "A1", Slug: "a1"}
	a2 := &dbmysql.Artifact{Name: "A2", Slug: "a2"}
	require.NoError(t, db.Create(a1).Error)
	require.NoError(t, db.Create(a2).Error)

	g := &dbmysql.Guide{
		Title: "Guia", Slug: "guia", Body: "b",
		RelatedArtifacts: []dbmysql.Artifact{{ID: a1.ID}, {ID: a2.ID}},
	}
	require.NoError(t, repo.SaveGuide(context.Background(), g))

	require.Len(t, syncer.events, 1)
	assert.ElementsMatch(t, []string{"a1", "a2"}, syncer.events[0].doc["relatedArtifacts"])
}

func TestDeleteTrapMirrorsNumericID(t *testing.T) {
	repo, syncer, db := newCodexTestRepo(t)

	d := &dbmysql.Domain{Name: "Cenizas", Slug: "cenizas"}
	require.NoError(t, db.Create(d).Error)
	trap := &dbmysql.Trap{DomainID: d.ID, Title: "Pendulo"}
	require.NoError(t, db.Create(trap).Error)

	require.NoError(t, repo.DeleteTrap(context.Background(), trap.ID))

	require.Len(t, syncer.events, 1)
	assert.Equal(t, OpDelete, syncer.events[0].op)
	assert.Equal(t, CollectionTraps, syncer.events[0].collection)
	assert.NotEmpty(t, syncer.events[0].docID)

	var count int64
	require.NoError(t, db.Model(&dbmysql.Trap{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteDomainMirrorsSlug(t *testing.T) {
	repo, syncer, db := newCodexTestRepo(t)

	d := &dbmysql.Domain{Name: "Vientos", Slug: "vientos"}
	require.NoError(t, db.Create(d).Error)

	require.NoError(t, repo.DeleteDomain(context.Background(), d.ID))
	require.Len(t, syncer.events, 1)
	assert.Equal(t, OpDelete, syncer.events[0].op)
	assert.Equal(t, "vientos", syncer.events[0].docID)
}

func TestSaveLoreEntryMirrorsGallery(t *testing.T) {
	repo, syncer, db := newCodexTestRepo(t)

	asset := &dbmysql.Asset{File: "ecos/uno.png"}
	require.NoError(t, db.Create(asset).Error)

	l := &dbmysql.LoreEntry{
		Title: "El primer eco", Slug: "el-primer-eco", Body: "b",
		Gallery: []dbmysql.Asset{{ID: asset.ID}},
	}
	require.NoError(t, repo.SaveLoreEntry(context.Background(), l))

	require.Len(t, syncer.events, 1)
	assert.Equal(t, CollectionStories, syncer.events[0].collection)
	assert.NotEmpty(t, syncer.events[0].doc["galleryAssetIds"])
}
