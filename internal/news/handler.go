package news

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type NewsHandler struct {
	service  *NewsService
	validate *validator.Validate
}

func NewNewsHandler(service *NewsService) *NewsHandler {
	return &NewsHandler{
		service:  service,
		validate: validator.New(),
	}
}

type articleRequest struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title" validate:"required,max=160"`
	Slug        string     `json:"slug" validate:"omitempty,max=180"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body" validate:"required"`
	CategoryID  *int64     `json:"categoryId"`
	HeroImage   string     `json:"heroImage" validate:"omitempty,max=255"`
	BannerImage string     `json:"bannerImage" validate:"omitempty,max=255"`
	VideoURL    string     `json:"videoUrl" validate:"omitempty,max=255"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft scheduled published"`
	PublishAt   *time.Time `json:"publishAt"`
	PinHome     bool       `json:"pinHome"`
	IsPatchNote bool       `json:"isPatchNote"`
	Version     string     `json:"version" validate:"omitempty,max=40"`
	ReadingTime int        `json:"readingTime"`
	TagIDs      []int64    `json:"tagIds"`
	GalleryIDs  []int64    `json:"galleryIds"`
}

func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	articles, err := h.service.List(r.Context(), ListFilter{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("q"),
		Page:     common.DefaultPage(page, 12),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (h *NewsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Detail(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *NewsHandler) Home(w http.ResponseWriter, r *http.Request) {
	rails, err := h.service.Home(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rails)
}

func (h *NewsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *NewsHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.Tags(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *NewsHandler) SaveArticle(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tags := make([]dbmysql.Tag, 0, len(req.TagIDs))
	for _, id := range req.TagIDs {
		tags = append(tags, dbmysql.Tag{ID: id})
	}
	gallery := make([]dbmysql.Asset, 0, len(req.GalleryIDs))
	for _, id := range req.GalleryIDs {
		gallery = append(gallery, dbmysql.Asset{ID: id})
	}

	readingTime := req.ReadingTime
	if readingTime <= 0 {
		readingTime = 4
	}
	a := &dbmysql.NewsArticle{
		ID: req.ID, Title: req.Title, Slug: req.Slug,
		Summary: req.Summary, Body: req.Body,
		AuthorID: &userID, CategoryID: req.CategoryID,
		HeroImage: req.HeroImage, BannerImage: req.BannerImage, VideoURL: req.VideoURL,
		Status: req.Status, PublishAt: req.PublishAt,
		PinHome: req.PinHome, IsPatchNote: req.IsPatchNote,
		Version: req.Version, ReadingTime: readingTime,
		Tags: tags, Gallery: gallery,
	}
	if err := h.service.SaveArticle(r.Context(), userID, a); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *NewsHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteArticle(r.Context(), userID, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NewsHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, common.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		log.Printf("news handler error: %v", err)
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
