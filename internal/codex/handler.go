package codex

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type CodexHandler struct {
	service  *CodexService
	validate *validator.Validate
}

func NewCodexHandler(service *CodexService) *CodexHandler {
	return &CodexHandler{
		service:  service,
		validate: validator.New(),
	}
}

type domainRequest struct {
	ID               int64  `json:"id"`
	Name             string `json:"name" validate:"required,max=120"`
	Slug             string `json:"slug" validate:"omitempty,max=140"`
	ShortDescription string `json:"shortDescription"`
	CoverImage       string `json:"coverImage" validate:"omitempty,max=255"`
	BannerImage      string `json:"bannerImage" validate:"omitempty,max=255"`
	Color            string `json:"color" validate:"omitempty,max=32"`
	Icon             string `json:"icon" validate:"omitempty,max=120"`
	VideoURL         string `json:"videoUrl" validate:"omitempty,max=255"`
	Order            int    `json:"order"`
}

type assetRequest struct {
	ID      int64  `json:"id"`
	File    string `json:"file" validate:"required,max=255"`
	Kind    string `json:"kind" validate:"omitempty,oneof=image gif video"`
	Caption string `json:"caption" validate:"omitempty,max=160"`
}

type loreEntryRequest struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title" validate:"required,max=140"`
	Slug       string  `json:"slug" validate:"omitempty,max=160"`
	Summary    string  `json:"summary"`
	Body       string  `json:"body" validate:"required"`
	DomainID   *int64  `json:"domainId"`
	CoverImage string  `json:"coverImage" validate:"omitempty,max=255"`
	VideoURL   string  `json:"videoUrl" validate:"omitempty,max=255"`
	GalleryIDs []int64 `json:"galleryIds"`
}

type artifactRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required,max=120"`
	Slug        string `json:"slug" validate:"omitempty,max=160"`
	DomainID    *int64 `json:"domainId"`
	Quote       string `json:"quote" validate:"omitempty,max=200"`
	Rarity      string `json:"rarity" validate:"omitempty,oneof=comun raro epico mitico"`
	Bearer      string `json:"bearer" validate:"omitempty,max=120"`
	Epoch       string `json:"epoch" validate:"omitempty,max=120"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Image       string `json:"image" validate:"omitempty,max=255"`
	Gif         string `json:"gif" validate:"omitempty,max=255"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,max=255"`
}

type characterRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required,max=120"`
	Slug        string `json:"slug" validate:"omitempty,max=160"`
	Role        string `json:"role" validate:"omitempty,max=120"`
	DomainID    *int64 `json:"domainId"`
	Description string `json:"description"`
	Playable    bool   `json:"playable"`
	SpriteStill string `json:"spriteStill" validate:"omitempty,max=255"`
	SpriteGif   string `json:"spriteGif" validate:"omitempty,max=255"`
	ImageFull   string `json:"imageFull" validate:"omitempty,max=255"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,max=255"`
}

type enemyRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required,max=120"`
	Slug        string `json:"slug" validate:"omitempty,max=160"`
	DomainID    *int64 `json:"domainId"`
	Description string `json:"description"`
	Behavior    string `json:"behavior"`
	SpriteStill string `json:"spriteStill" validate:"omitempty,max=255"`
	SpriteGif   string `json:"spriteGif" validate:"omitempty,max=255"`
	ImageFull   string `json:"imageFull" validate:"omitempty,max=255"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,max=255"`
}

type trapRequest struct {
	ID          int64  `json:"id"`
	DomainID    int64  `json:"domainId" validate:"required"`
	Title       string `json:"title" validate:"required,max=140"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"omitempty,max=255"`
	Gif         string `json:"gif" validate:"omitempty,max=255"`
}

type guideRequest struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title" validate:"required,max=140"`
	Slug         string  `json:"slug" validate:"omitempty,max=160"`
	Summary      string  `json:"summary"`
	Body         string  `json:"body" validate:"required"`
	DomainID     *int64  `json:"domainId"`
	Tags         string  `json:"tags" validate:"omitempty,max=200"`
	CoverImage   string  `json:"coverImage" validate:"omitempty,max=255"`
	ReadTime     int     `json:"readTime"`
	ArtifactIDs  []int64 `json:"artifactIds"`
	CharacterIDs []int64 `json:"characterIds"`
	EnemyIDs     []int64 `json:"enemyIds"`
}

// ---- reads ----

func (h *CodexHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.service.ListDomains(r.Context())
	h.respondList(w, domains, err)
}

func (h *CodexHandler) DomainDetail(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.DomainBySlug(r.Context(), mux.Vars(r)["slug"])
	h.respondOne(w, d, err)
}

func (h *CodexHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.ListAssets(r.Context())
	h.respondList(w, assets, err)
}

func (h *CodexHandler) ListLoreEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListLoreEntries(r.Context(), r.URL.Query().Get("domain"))
	h.respondList(w, entries, err)
}

func (h *CodexHandler) LoreEntryDetail(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.LoreEntryBySlug(r.Context(), mux.Vars(r)["slug"])
	h.respondOne(w, l, err)
}

func (h *CodexHandler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	artifacts, err := h.service.ListArtifacts(r.Context(), r.URL.Query().Get("domain"))
	h.respondList(w, artifacts, err)
}

func (h *CodexHandler) ArtifactDetail(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.ArtifactBySlug(r.Context(), mux.Vars(r)["slug"])
	h.respondOne(w, a, err)
}

func (h *CodexHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := h.service.ListCharacters(r.Context(), r.URL.Query().Get("domain"))
	h.respondList(w, characters, err)
}

func (h *CodexHandler) CharacterDetail(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.CharacterBySlug(r.Context(), mux.Vars(r)["slug"])
	h.respondOne(w, c, err)
}

func (h *CodexHandler) ListEnemies(w http.ResponseWriter, r *http.Request) {
	enemies, err := h.service.ListEnemies(r.Context(), r.URL.Query().Get("domain"))
	h.respondList(w, enemies, err)
}

func (h *CodexHandler) EnemyDetail(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.EnemyBySlug(r.Context(), mux.Vars(r)["slug"])
	h.respondOne(w, e, err)
}

func (h *CodexHandler) ListTraps(w http.ResponseWriter, r *http.Request) {
	traps, err := h.service.ListTraps(r.Context(), r.URL.Query().Get("domain"))
	h.respondList(w, traps, err)
}

func (h *CodexHandler) ListGuides(w http.ResponseWriter, r *http.Request) {
	guides, err := h.service.ListGuides(r.Context(), r.URL.Query().Get("domain"))
	h.respondList(w, guides, err)
}

func (h *CodexHandler) GuideDetail(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.GuideBySlug(r.Context(), mux.Vars(r)["slug"])
	h.respondOne(w, g, err)
}

// ---- mutations ----

func (h *CodexHandler) SaveDomain(w http.ResponseWriter, r *http.Request) {
	var req domainRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := common.UserIDFromContext(r.Context())
	d := &dbmysql.Domain{
		ID: req.ID, Name: req.Name, Slug: req.Slug,
		ShortDescription: req.ShortDescription,
		CoverImage:       req.CoverImage, BannerImage: req.BannerImage,
		Color: req.Color, Icon: req.Icon,
		VideoURL: req.VideoURL, Order: req.Order,
	}
	if err := h.service.SaveDomain(r.Context(), userID, d); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *CodexHandler) DeleteDomain(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteDomain)
}

func (h *CodexHandler) SaveAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := common.UserIDFromContext(r.Context())
	kind := req.Kind
	if kind == "" {
		kind = "image"
	}
	a := &dbmysql.Asset{ID: req.ID, File: req.File, Kind: kind, Caption: req.Caption}
	if err := h.service.SaveAsset(r.Context(), userID, a); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *CodexHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteAsset)
}

func (h *CodexHandler) SaveLoreEntry(w http.ResponseWriter, r *http.Request) {
	var req loreEntryRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := common.UserIDFromContext(r.Context())
	gallery := make([]dbmysql.Asset, 0, len(req.GalleryIDs))
	for _, id := range req.GalleryIDs {
		gallery = append(gallery, dbmysql.Asset{ID: id})
	}
	l := &dbmysql.LoreEntry{
		ID: req.ID, Title: req.Title, Slug: req.Slug,
		Summary: req.Summary, Body: req.Body, DomainID: req.DomainID,
		CoverImage: req.CoverImage, VideoURL: req.VideoURL,
		Gallery: gallery,
	}
	if err := h.service.SaveLoreEntry(r.Context(), userID, l); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *CodexHandler) DeleteLoreEntry(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteLoreEntry)
}

func (h *CodexHandler) SaveArtifact(w http.ResponseWriter, r *http.Request) {
	var req artifactRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := common.UserIDFromContext(r.Context())
	rarity := req.Rarity
	if rarity == "" {
		rarity = "raro"
	}
	a := &dbmysql.Artifact{
		ID: req.ID, Name: req.Name, Slug: req.Slug, DomainID: req.DomainID,
		Quote: req.Quote, Rarity: rarity, Bearer: req.Bearer, Epoch: req.Epoch,
		Description: req.Description, Usage: req.Usage,
		Image: req.Image, Gif: req.Gif, VideoURL: req.VideoURL,
	}
	if err := h.service.SaveArtifact(r.Context(), userID, a); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *CodexHandler) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteArtifact)
}

func (h *CodexHandler) SaveCharacter(w http.ResponseWriter, r *http.Request) {
	var req characterRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := common.UserIDFromContext(r.Context())
	c := &dbmysql.Character{
		ID: req.ID, Name: req.Name, Slug: req.Slug, Role: req.Role,
		DomainID: req.DomainID, Description: req.Description, Playable: req.Playable,
		SpriteStill: req.SpriteStill, SpriteGif: req.SpriteGif,
		ImageFull: req.ImageFull, VideoURL: req.VideoURL,
	}
	if err := h.service.SaveCharacter(r.Context(), userID, c); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CodexHandler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteCharacter)
}

func (h *CodexHandler) SaveEnemy(w http.ResponseWriter, r *http.Request) {
	var req enemyRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := common.UserIDFromContext(r.Context())
	e := &dbmysql.Enemy{
		ID: req.ID, Name: req.Name, Slug: req.Slug, DomainID: req.DomainID,
		Description: req.Description, Behavior: req.Behavior,
		SpriteStill: req.SpriteStill, SpriteGif: req.SpriteGif,
		ImageFull: req.ImageFull, VideoURL: req.VideoURL,
	}
	if err := h.service.SaveEnemy(r.Context(), userID, e); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *CodexHandler) DeleteEnemy(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteEnemy)
}

func (h *CodexHandler) SaveTrap(w http.ResponseWriter, r *http.Request) {
	var req trapRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := common.UserIDFromContext(r.Context())
	t := &dbmysql.Trap{
		ID: req.ID, DomainID: req.DomainID, Title: req.Title,
		Description: req.Description, Image: req.Image, Gif: req.Gif,
	}
	if err := h.service.SaveTrap(r.Context(), userID, t); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *CodexHandler) DeleteTrap(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteTrap)
}

func (h *CodexHandler) SaveGuide(w http.ResponseWriter, r *http.Request) {
	var req guideRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := common.UserIDFromContext(r.Context())
	readTime := req.ReadTime
	if readTime <= 0 {
		readTime = 4
	}
	artifacts := make([]dbmysql.Artifact, 0, len(req.ArtifactIDs))
	for _, id := range req.ArtifactIDs {
		artifacts = append(artifacts, dbmysql.Artifact{ID: id})
	}
	characters := make([]dbmysql.Character, 0, len(req.CharacterIDs))
	for _, id := range req.CharacterIDs {
		characters = append(characters, dbmysql.Character{ID: id})
	}
	enemies := make([]dbmysql.Enemy, 0, len(req.EnemyIDs))
	for _, id := range req.EnemyIDs {
		enemies = append(enemies, dbmysql.Enemy{ID: id})
	}
	g := &dbmysql.Guide{
		ID: req.ID, Title: req.Title, Slug: req.Slug,
		Summary: req.Summary, Body: req.Body, DomainID: req.DomainID,
		Tags: req.Tags, CoverImage: req.CoverImage, ReadTime: readTime,
		RelatedArtifacts: artifacts, RelatedCharacters: characters, RelatedEnemies: enemies,
	}
	if err := h.service.SaveGuide(r.Context(), userID, g); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *CodexHandler) DeleteGuide(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteGuide)
}

// ---- helpers ----

func (h *CodexHandler) deleteByID(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, actorID, id int64) error) {
	userID, _ := common.UserIDFromContext(r.Context())
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := fn(r.Context(), userID, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CodexHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *CodexHandler) respondList(w http.ResponseWriter, v interface{}, err error) {
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CodexHandler) respondOne(w http.ResponseWriter, v interface{}, err error) {
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CodexHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, common.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		log.Printf("codex handler error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
