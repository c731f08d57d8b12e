// Package api exposes the recipe search, recipe, shopping list and likes
// controllers over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forkify/internal/list"
	"forkify/internal/recipe"
	"forkify/internal/search"
)

const (
	fetchTimeout = 10 * time.Second
	storeTimeout = 5 * time.Second

	msgSearchFailed = "Something went wrong with the search..."
	msgRecipeFailed = "Error processing recipe!"
)

// RecipeClient defines the interface for the recipe API.
type RecipeClient interface {
	Search(ctx context.Context, query string) ([]search.Summary, error)
	GetRecipe(ctx context.Context, id string) (*recipe.RawRecipe, error)
}

// Thumbnailer defines the interface for liked-recipe thumbnails.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, key, imageURL string) ([]byte, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Client      RecipeClient
	Thumbnailer Thumbnailer
	State       *State
	Logger      *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(client RecipeClient, thumbnailer Thumbnailer, state *State, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Thumbnailer: thumbnailer, State: state, Logger: logger}
}

// Routes registers every controller on r.
func (h *Handler) Routes(r gin.IRoutes) {
	r.GET("/search", h.Search)
	r.GET("/search/results", h.SearchResults)
	r.GET("/recipes/:id", h.GetRecipe)
	r.POST("/recipe/servings", h.UpdateServings)
	r.POST("/list", h.AddToList)
	r.GET("/list", h.GetList)
	r.PATCH("/list/:id", h.UpdateListItem)
	r.DELETE("/list/:id", h.DeleteListItem)
	r.POST("/likes/toggle", h.ToggleLike)
	r.GET("/likes", h.GetLikes)
	r.GET("/likes/:id/thumbnail", h.LikeThumbnail)
}

// Search runs a new search and returns its first page. The previous search
// is kept if the fetch fails.
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.String(http.StatusBadRequest, "query parameter q is required")
		return
	}

	h.State.mu.Lock()
	defer h.State.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	s := search.New(query)
	results, err := h.Client.Search(ctx, query)
	if err != nil {
		h.Logger.Error("search failed", zap.String("query", query), zap.Error(err))
		fetchFailed(c, err, msgSearchFailed)
		return
	}
	s.Results = results
	h.State.search = s
	h.Logger.Info("search completed", zap.String("query", query), zap.Int("results", len(results)))

	c.JSON(http.StatusOK, newSearchPageView(s, 1, h.State.currentRecipeID()))
}

// SearchResults returns another page of the current search.
func (h *Handler) SearchResults(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			c.String(http.StatusBadRequest, "invalid page: "+p)
			return
		}
		page = n
	}

	h.State.mu.Lock()
	defer h.State.mu.Unlock()

	if h.State.search == nil {
		c.String(http.StatusConflict, ErrNoSearch.Error())
		return
	}
	c.JSON(http.StatusOK, newSearchPageView(h.State.search, page, h.State.currentRecipeID()))
}

// GetRecipe loads a recipe, parses its ingredients and makes it current.
func (h *Handler) GetRecipe(c *gin.Context) {
	id := c.Param("id")

	h.State.mu.Lock()
	defer h.State.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	raw, err := h.Client.GetRecipe(ctx, id)
	if err != nil {
		h.Logger.Error("recipe fetch failed", zap.String("id", id), zap.Error(err))
		fetchFailed(c, err, msgRecipeFailed)
		return
	}

	r, warnings := recipe.New(id, raw)
	for _, w := range warnings {
		h.Logger.Warn("ingredient quantity replaced by default",
			zap.String("recipe", id),
			zap.String("line", w.Line),
			zap.Error(w.Err))
	}
	h.State.recipe = r
	h.Logger.Debug("recipe loaded", zap.String("id", id), zap.Int("ingredients", len(r.Ingredients)))

	c.JSON(http.StatusOK, newRecipeView(r, h.State.likes.IsLiked(id)))
}

type servingsRequest struct {
	Type string `json:"type" binding:"required"`
}

// UpdateServings increases or decreases the current recipe's servings.
func (h *Handler) UpdateServings(c *gin.Context) {
	var req servingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	dir, err := recipe.ParseDirection(req.Type)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	h.State.mu.Lock()
	defer h.State.mu.Unlock()

	r := h.State.recipe
	if r == nil {
		c.String(http.StatusConflict, ErrNoRecipe.Error())
		return
	}
	if !r.UpdateServings(dir) {
		h.Logger.Debug("servings unchanged", zap.String("id", r.ID), zap.Int("servings", r.Servings))
	}
	c.JSON(http.StatusOK, newRecipeView(r, h.State.likes.IsLiked(r.ID)))
}

// AddToList adds every ingredient of the current recipe to the shopping list.
func (h *Handler) AddToList(c *gin.Context) {
	h.State.mu.Lock()
	defer h.State.mu.Unlock()

	r := h.State.recipe
	if r == nil {
		c.String(http.StatusConflict, ErrNoRecipe.Error())
		return
	}
	added := make([]list.Item, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		added = append(added, h.State.list.AddItem(ing.Count, ing.Unit, ing.Ingredient))
	}
	c.JSON(http.StatusCreated, added)
}

// GetList returns the shopping list.
func (h *Handler) GetList(c *gin.Context) {
	h.State.mu.Lock()
	defer h.State.mu.Unlock()

	c.JSON(http.StatusOK, h.State.list.Items())
}

type countRequest struct {
	Count *float64 `json:"count" binding:"required"`
}

// UpdateListItem changes the count of one shopping list item.
func (h *Handler) UpdateListItem(c *gin.Context) {
	var req countRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	h.State.mu.Lock()
	defer h.State.mu.Unlock()

	item, err := h.State.list.UpdateCount(c.Param("id"), *req.Count)
	if err != nil {
		listError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteListItem removes one shopping list item.
func (h *Handler) DeleteListItem(c *gin.Context) {
	h.State.mu.Lock()
	defer h.State.mu.Unlock()

	if err := h.State.list.DeleteItem(c.Param("id")); err != nil {
		listError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleLike likes the current recipe, or unlikes it if it is already liked.
func (h *Handler) ToggleLike(c *gin.Context) {
	h.State.mu.Lock()
	defer h.State.mu.Unlock()

	r := h.State.recipe
	if r == nil {
		c.String(http.StatusConflict, ErrNoRecipe.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	l := h.State.likes
	resp := likeToggleView{}
	if !l.IsLiked(r.ID) {
		like, err := l.AddLike(ctx, r.ID, r.Title, r.Author, r.ImageURL)
		if err != nil {
			h.Logger.Error("like failed", zap.String("id", r.ID), zap.Error(err))
			c.String(http.StatusInternalServerError, "failed to save like")
			return
		}
		resp.Liked = true
		resp.Like = &like
	} else if err := l.DeleteLike(ctx, r.ID); err != nil {
		h.Logger.Error("unlike failed", zap.String("id", r.ID), zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to remove like")
		return
	}
	resp.NumLikes = l.NumLikes()
	c.JSON(http.StatusOK, resp)
}

// GetLikes returns the liked recipes.
func (h *Handler) GetLikes(c *gin.Context) {
	h.State.mu.Lock()
	defer h.State.mu.Unlock()

	c.JSON(http.StatusOK, likesView{Likes: h.State.likes.All(), NumLikes: h.State.likes.NumLikes()})
}

// LikeThumbnail returns a small JPEG of a liked recipe's image.
func (h *Handler) LikeThumbnail(c *gin.Context) {
	id := c.Param("id")

	h.State.mu.Lock()
	like, ok := h.State.likes.Get(id)
	h.State.mu.Unlock()
	if !ok {
		c.String(http.StatusNotFound, "Like not found")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	data, err := h.Thumbnailer.Thumbnail(ctx, like.ID, like.Img)
	if err != nil {
		h.Logger.Warn("thumbnail failed", zap.String("id", id), zap.Error(err))
		fetchFailed(c, err, "failed to load image")
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

func (s *State) currentRecipeID() string {
	if s.recipe == nil {
		return ""
	}
	return s.recipe.ID
}

// fetchFailed reduces any outbound failure to one generic message.
func fetchFailed(c *gin.Context, err error, msg string) {
	if errors.Is(err, context.DeadlineExceeded) {
		c.String(http.StatusRequestTimeout, msg)
		return
	}
	c.String(http.StatusBadGateway, msg)
}

func listError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, list.ErrItemNotFound):
		c.String(http.StatusNotFound, "Item not found")
	case errors.Is(err, list.ErrInvalidCount):
		c.String(http.StatusBadRequest, err.Error())
	default:
		c.String(http.StatusInternalServerError, err.Error())
	}
}
