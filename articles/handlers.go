package articles

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jameslahm/conduit-server-rest/apperror"
	"github.com/jameslahm/conduit-server-rest/auth"
	"github.com/jameslahm/conduit-server-rest/users"
)

// Handlers wraps the article Service to provide HTTP handlers.
type Handlers struct {
	service *Service
	users   *users.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service, users *users.Service) *Handlers {
	return &Handlers{service: service, users: users}
}

// viewerState carries the requesting user's favorite and following id
// sets, loaded once per request so rendering a page of articles does
// not query per row. A nil viewer renders everything unannotated.
type viewerState struct {
	favorites map[int]bool
	following map[int]bool
}

func (h *Handlers) loadViewerState(ctx context.Context, viewer *auth.User) (*viewerState, error) {
	state := &viewerState{favorites: map[int]bool{}, following: map[int]bool{}}
	if viewer == nil {
		return state, nil
	}

	favoriteIDs, err := h.users.FavoriteIDs(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range favoriteIDs {
		state.favorites[id] = true
	}

	followingIDs, err := h.users.FollowingIDs(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range followingIDs {
		state.following[id] = true
	}
	return state, nil
}

func (s *viewerState) render(a *Article) articleJSON {
	tags := a.TagList
	if tags == nil {
		tags = []string{}
	}
	return articleJSON{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        tags,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Favorited:      s.favorites[a.ID],
		FavoritesCount: a.FavoritesCount,
		Author: users.Profile{
			Username:  a.Author.Username,
			Bio:       a.Author.Bio,
			Image:     a.Author.Image,
			Following: s.following[a.AuthorID],
		},
	}
}

func (h *Handlers) writeArticle(w http.ResponseWriter, r *http.Request, article *Article) {
	viewer, _ := auth.IdentityFromContext(r.Context())
	state, err := h.loadViewerState(r.Context(), viewer)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, ArticleResponse{Article: state.render(article)})
}

func (h *Handlers) writeArticles(w http.ResponseWriter, r *http.Request, list []*Article) {
	viewer, _ := auth.IdentityFromContext(r.Context())
	state, err := h.loadViewerState(r.Context(), viewer)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	page := make([]articleJSON, 0, len(list))
	for _, article := range list {
		page = append(page, state.render(article))
	}
	auth.WriteJSON(w, http.StatusOK, ArticlesResponse{Articles: page, ArticlesCount: len(page)})
}

func pagination(r *http.Request) (limit, offset int) {
	limit = DefaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// HandleList godoc
// @Summary List articles, optionally filtered by tag, author or favoriter
// @Tags articles
// @Produce json
// @Param tag query string false "Tag to filter by"
// @Param author query string false "Author username"
// @Param favorited query string false "Username whose favorites to list"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} articles.ArticlesResponse
// @Router /articles [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pagination(r)
		query := r.URL.Query()
		list, err := h.service.List(r.Context(),
			query.Get("tag"), query.Get("author"), query.Get("favorited"),
			limit, offset)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeArticles(w, r, list)
	}
}

// HandleFeed godoc
// @Summary List articles authored by followed users
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} articles.ArticlesResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Router /articles/feed [get]
func (h *Handlers) HandleFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError(nil))
			return
		}
		limit, offset := pagination(r)
		list, err := h.service.Feed(r.Context(), viewer.ID, limit, offset)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeArticles(w, r, list)
	}
}

// HandleGet godoc
// @Summary Get a single article by slug
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} articles.ArticleResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /articles/{slug} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		article, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeArticle(w, r, article)
	}
}

// HandleCreate godoc
// @Summary Create an article
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body articles.CreateArticleRequest true "Article to create"
// @Success 200 {object} articles.ArticleResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 422 {object} apperror.ErrorResponse
// @Router /articles [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError(nil))
			return
		}

		var req CreateArticleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		var details []apperror.FieldError
		if req.Article.Title == "" {
			details = append(details, apperror.FieldError{Msg: "Invalid value", Param: "article.title", Location: "body"})
		}
		if req.Article.Description == "" {
			details = append(details, apperror.FieldError{Msg: "Invalid value", Param: "article.description", Location: "body"})
		}
		if req.Article.Body == "" {
			details = append(details, apperror.FieldError{Msg: "Invalid value", Param: "article.body", Location: "body"})
		}
		if req.Article.TagList == nil {
			details = append(details, apperror.FieldError{Msg: "Invalid value", Param: "article.tagList", Location: "body"})
		}
		if len(details) > 0 {
			auth.WriteError(w, r, apperror.NewValidationError(http.StatusUnprocessableEntity, details))
			return
		}

		article, err := h.service.Create(r.Context(), viewer.ID, &req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeArticle(w, r, article)
	}
}

// HandleUpdate godoc
// @Summary Update an article
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param body body articles.UpdateArticleRequest true "Fields to update"
// @Success 200 {object} articles.ArticleResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /articles/{slug} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateArticleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		article, err := h.service.Update(r.Context(), chi.URLParam(r, "slug"), &req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeArticle(w, r, article)
	}
}

// HandleDelete godoc
// @Summary Delete an article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 200 {object} articles.ArticleResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /articles/{slug} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		article, err := h.service.Delete(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeArticle(w, r, article)
	}
}

// HandleFavorite godoc
// @Summary Favorite an article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 200 {object} articles.ArticleResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /articles/{slug}/favorite [post]
func (h *Handlers) HandleFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError(nil))
			return
		}
		article, err := h.service.Favorite(r.Context(), viewer.ID, chi.URLParam(r, "slug"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeArticle(w, r, article)
	}
}

// HandleUnfavorite godoc
// @Summary Remove a favorite from an article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 200 {object} articles.ArticleResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /articles/{slug}/favorite [delete]
func (h *Handlers) HandleUnfavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError(nil))
			return
		}
		article, err := h.service.Unfavorite(r.Context(), viewer.ID, chi.URLParam(r, "slug"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeArticle(w, r, article)
	}
}

// HandleTags godoc
// @Summary List all tags in use
// @Tags tags
// @Produce json
// @Success 200 {object} articles.TagsResponse
// @Router /tags [get]
func (h *Handlers) HandleTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.service.Tags(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, TagsResponse{Tags: tags})
	}
}
