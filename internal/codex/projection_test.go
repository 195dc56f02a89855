package codex

import (
	"testing"

	"nexoecos/internal/dbmysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainDocUsesSlugAsID(t *testing.T) {
	p := NewProjector("https://nexo.example")

	docID, doc := p.DomainDoc(&dbmysql.Domain{
		Name:             "Dominio del Tiempo",
		Slug:             "tiempo",
		ShortDescription: "Relojes",
		CoverImage:       "domains/tiempo.png",
		Color:            "#aabbcc",
		Order:            2,
	})

	assert.Equal(t, "tiempo", docID)
	assert.Equal(t, "Dominio del Tiempo", doc["name"])
	assert.Equal(t, "https://nexo.example/media/domains/tiempo.png", doc["coverImageUrl"])
	assert.Equal(t, 2, doc["order"])
}

func TestAbsMediaURLPassesThroughAbsolute(t *testing.T) {
	p := NewProjector("https://nexo.example/")

	assert.Equal(t, "https://cdn.example/x.png", p.absMediaURL("https://cdn.example/x.png"))
	assert.Equal(t, "http://cdn.example/x.png", p.absMediaURL("http://cdn.example/x.png"))
	assert.Equal(t, "https://nexo.example/media/a/b.png", p.absMediaURL("a/b.png"))
	assert.Equal(t, "https://nexo.example/media/a/b.png", p.absMediaURL("/a/b.png"))
	assert.Equal(t, "", p.absMediaURL(""))
}

func TestEmblemDocCarriesDomainSlug(t *testing.T) {
	p := NewProjector("https://nexo.example")

	docID, doc := p.EmblemDoc(&dbmysql.Artifact{
		Name:   "Reloj Roto",
		Slug:   "reloj-roto",
		Rarity: "mitico",
		Domain: &dbmysql.Domain{Slug: "tiempo"},
	})

	assert.Equal(t, "reloj-roto", docID)
	assert.Equal(t, "tiempo", doc["domainId"])
	assert.Equal(t, "mitico", doc["rarity"])
}

func TestEmblemDocWithoutDomain(t *testing.T) {
	p := NewProjector("https://nexo.example")

	_, doc := p.EmblemDoc(&dbmysql.Artifact{Name: "Huerfano", Slug: "huerfano"})
	assert.Nil(t, doc["domainId"])
}

func TestTrapDocFallsBackToNumericID(t *testing.T) {
	p := NewProjector("https://nexo.example")

	docID, doc := p.TrapDoc(&dbmysql.Trap{
		ID:     42,
		Title:  "Pendulo",
		Domain: dbmysql.Domain{ID: 1, Slug: "tiempo"},
	})

	assert.Equal(t, "42", docID)
	assert.Equal(t, "", doc["slug"])
	assert.Equal(t, "tiempo", doc["domainId"])
}

func TestGuideDocProjectsRelationsAsSlugLists(t *testing.T) {
	p := NewProjector("https://nexo.example")

	docID, doc := p.GuideDoc(&dbmysql.Guide{
		Title: "Como sobrevivir",
		Slug:  "como-sobrevivir",
		RelatedArtifacts: []dbmysql.Artifact{
			{Slug: "reloj-roto"}, {Slug: "arena-eterna"},
		},
		RelatedCharacters: []dbmysql.Character{{Slug: "viajera"}},
		RelatedEnemies:    nil,
	})

	assert.Equal(t, "como-sobrevivir", docID)
	assert.Equal(t, []string{"reloj-roto", "arena-eterna"}, doc["relatedArtifacts"])
	assert.Equal(t, []string{"viajera"}, doc["relatedCharacters"])
	assert.Equal(t, []string{}, doc["relatedEnemies"])
}

func TestStoryDocGalleryIDsAreStrings(t *testing.T) {
	p := NewProjector("https://nexo.example")

	_, doc := p.StoryDoc(&dbmysql.LoreEntry{
		Title:   "El primer eco",
		Slug:    "el-primer-eco",
		Gallery: []dbmysql.Asset{{ID: 7}, {ID: 12}},
	})

	assert.Equal(t, []string{"7", "12"}, doc["galleryAssetIds"])
}

func TestProjectionIsDeterministic(t *testing.T) {
	p := NewProjector("https://nexo.example")
	c := &dbmysql.Character{Name: "Viajera", Slug: "viajera", Playable: true}

	id1, doc1 := p.CharacterDoc(c)
	id2, doc2 := p.CharacterDoc(c)

	require.Equal(t, id1, id2)
	assert.Equal(t, doc1, doc2)
}
