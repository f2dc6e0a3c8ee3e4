package comments

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jameslahm/conduit-server-rest/apperror"
	"github.com/jameslahm/conduit-server-rest/auth"
	"github.com/jameslahm/conduit-server-rest/users"
)

// Handlers wraps the comment Service to provide HTTP handlers.
type Handlers struct {
	service *Service
	users   *users.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service, users *users.Service) *Handlers {
	return &Handlers{service: service, users: users}
}

// followingSet loads the viewer's following ids once so rendering a
// thread does not query per comment. A nil viewer yields an empty set.
func (h *Handlers) followingSet(r *http.Request) (map[int]bool, error) {
	set := map[int]bool{}
	viewer, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return set, nil
	}
	ids, err := h.users.FollowingIDs(r.Context(), viewer.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func renderComment(c *Comment, following map[int]bool) commentJSON {
	return commentJSON{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Body:      c.Body,
		Author: users.Profile{
			Username:  c.Author.Username,
			Bio:       c.Author.Bio,
			Image:     c.Author.Image,
			Following: following[c.AuthorID],
		},
	}
}

func (h *Handlers) writeComment(w http.ResponseWriter, r *http.Request, comment *Comment) {
	following, err := h.followingSet(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, CommentResponse{Comment: renderComment(comment, following)})
}

// HandleCreate godoc
// @Summary Post a comment on an article
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param body body comments.CreateCommentRequest true "Comment to post"
// @Success 200 {object} comments.CommentResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /articles/{slug}/comments [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError(nil))
			return
		}

		var req CreateCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		comment, err := h.service.Create(r.Context(), chi.URLParam(r, "slug"), viewer.ID, req.Comment.Body)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeComment(w, r, comment)
	}
}

// HandleList godoc
// @Summary List an article's comments
// @Tags comments
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} comments.CommentsResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /articles/{slug}/comments [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.service.List(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		following, err := h.followingSet(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		thread := make([]commentJSON, 0, len(list))
		for _, comment := range list {
			thread = append(thread, renderComment(comment, following))
		}
		auth.WriteJSON(w, http.StatusOK, CommentsResponse{Comments: thread})
	}
}

// HandleDelete godoc
// @Summary Delete a comment from an article
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param id path int true "Comment id"
// @Success 200 {object} comments.CommentResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /articles/{slug}/comments/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewNotFoundError(err))
			return
		}

		comment, err := h.service.Delete(r.Context(), chi.URLParam(r, "slug"), commentID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeComment(w, r, comment)
	}
}
