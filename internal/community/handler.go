package community

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"nexoecos/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type CommunityHandler struct {
	service  *CommunityService
	validate *validator.Validate
}

func NewCommunityHandler(service *CommunityService) *CommunityHandler {
	return &CommunityHandler{
		service:  service,
		validate: validator.New(),
	}
}

type createPostRequest struct {
	Title string `json:"title" validate:"required,max=140"`
	Body  string `json:"body" validate:"required"`
	Type  string `json:"type" validate:"omitempty,oneof=post review"`
	Image string `json:"image" validate:"omitempty,max=255"`
}

type createCommentRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}

type createThreadRequest struct {
	Forum string `json:"forum" validate:"required"`
	Title string `json:"title" validate:"required,max=150"`
	Body  string `json:"body" validate:"required"`
	Image string `json:"image" validate:"omitempty,max=255"`
}

type createReplyRequest struct {
	Body string `json:"body" validate:"required"`
}

type removalRequest struct {
	Reason string `json:"reason"`
}

func (h *CommunityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	posts, err := h.service.Feed(r.Context(), common.DefaultPage(page, 10))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req createPostRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(r.Context(), userID, req.Title, req.Body, req.Type, req.Image)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *CommunityHandler) PostDetail(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	post, comments, err := h.service.PostDetail(r.Context(), slug)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"post":     post,
		"comments": comments,
	})
}

func (h *CommunityHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())
	slug := mux.Vars(r)["slug"]

	var req createPostRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.EditPost(r.Context(), slug, userID, req.Title, req.Body, req.Image)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *CommunityHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())
	slug := mux.Vars(r)["slug"]

	var req createCommentRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := h.service.CreateComment(r.Context(), slug, userID, req.Body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommunityHandler) ForumIndex(w http.ResponseWriter, r *http.Request) {
	forums, err := h.service.ForumIndex(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forums)
}

func (h *CommunityHandler) ForumDetail(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	forum, threads, err := h.service.ForumDetail(r.Context(), slug)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"forum":   forum,
		"threads": threads,
	})
}

func (h *CommunityHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	var req createThreadRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	thread, err := h.service.CreateThread(r.Context(), req.Forum, userID, req.Title, req.Body, req.Image)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, thread)
}

func (h *CommunityHandler) ThreadDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	thread, replies, err := h.service.ThreadDetail(r.Context(), vars["forumSlug"], vars["slug"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"thread":  thread,
		"replies": replies,
	})
}

func (h *CommunityHandler) CreateReply(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())
	slug := mux.Vars(r)["slug"]

	var req createReplyRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := h.service.CreateReply(r.Context(), slug, userID, req.Body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reply)
}

// ReactToPost toggles the caller's reaction; the response reports which
// branch was taken
func (h *CommunityHandler) ReactToPost(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())
	vars := mux.Vars(r)

	post, err := h.service.PostBySlug(r.Context(), vars["slug"])
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.service.TogglePostReaction(r.Context(), post.ID, userID, common.ReactionKind(vars["reaction"]))
	if err != nil {
		h.writeError(w, err)
		return
	}

	count, err := h.service.PostReactionCount(r.Context(), post.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"result": string(result), "count": count})
}

func (h *CommunityHandler) ReactToComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())
	vars := mux.Vars(r)

	commentID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	result, err := h.service.ToggleCommentReaction(r.Context(), commentID, userID, common.ReactionKind(vars["reaction"]))
	if err != nil {
		h.writeError(w, err)
		return
	}

	count, err := h.service.CommentReactionCount(r.Context(), commentID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"result": string(result), "count": count})
}

// RemoveContent handles all four moderatable variants; the kind comes
// from the route
func (h *CommunityHandler) RemoveContent(kind common.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := common.UserIDFromContext(r.Context())

		objectID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var req removalRequest
		// reason is optional for self-removal, so a missing body is fine
		_ = json.NewDecoder(r.Body).Decode(&req)

		result, err := h.service.RequestRemoval(r.Context(), kind, objectID, userID, req.Reason)
		if err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (h *CommunityHandler) ModerationLog(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	entries, err := h.service.ModerationLog(r.Context(), userID, common.DefaultPage(page, 25))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *CommunityHandler) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return h.validate.Struct(dst)
}

func (h *CommunityHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, common.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, common.ErrLocked):
		http.Error(w, "El hilo está cerrado.", http.StatusConflict)
	case common.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("community handler error: %v", err)
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
