package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"forkify/internal/likes"
	"forkify/internal/list"
	"forkify/internal/platform/forkify"
	"forkify/internal/recipe"
	"forkify/internal/search"
	"forkify/internal/storage"
)

// mockRecipeClient is a mock of the forkify client.
type mockRecipeClient struct {
	results map[string][]search.Summary
	recipes map[string]*recipe.RawRecipe
	err     error
}

func (m *mockRecipeClient) Search(ctx context.Context, query string) ([]search.Summary, error) {
	if m.err != nil {
		return nil, m.err
	}
	res, ok := m.results[query]
	if !ok {
		return nil, fmt.Errorf("search %q: %w", query, forkify.ErrFetch)
	}
	return res, nil
}

func (m *mockRecipeClient) GetRecipe(ctx context.Context, id string) (*recipe.RawRecipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	raw, ok := m.recipes[id]
	if !ok {
		return nil, fmt.Errorf("get recipe %s: %w", id, forkify.ErrFetch)
	}
	return raw, nil
}

// mockThumbnailer returns a fixed payload.
type mockThumbnailer struct {
	requested []string
}

func (m *mockThumbnailer) Thumbnail(ctx context.Context, key, imageURL string) ([]byte, error) {
	m.requested = append(m.requested, imageURL)
	return []byte("jpeg:" + key), nil
}

type testEnv struct {
	router *gin.Engine
	client *mockRecipeClient
	thumbs *mockThumbnailer
	store  *storage.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var pizzas []search.Summary
	for i := 0; i < 23; i++ {
		pizzas = append(pizzas, search.Summary{ID: strconv.Itoa(1000 + i), Title: "Pizza with tomato and spinach no " + strconv.Itoa(i)})
	}
	client := &mockRecipeClient{
		results: map[string][]search.Summary{"pizza": pizzas},
		recipes: map[string]*recipe.RawRecipe{
			"1000": {
				ID:        "1000",
				Title:     "Best Pizza Dough Ever",
				Publisher: "101 Cookbooks",
				ImageURL:  "http://img/1000.jpg",
				Ingredients: []string{
					"4 1/2 cups plain flour (sifted)",
					"1-1/2 tsp salt",
					"2 eggs",
					"salt to taste",
					"1 tablespoon olive oil",
					"8 ounces mozzarella",
					"1 pound tomatoes",
				},
			},
			"2000": {
				ID:          "2000",
				Title:       "Toast",
				Publisher:   "Me",
				Ingredients: []string{"2 slices bread"},
			},
		},
	}
	store := storage.NewMemoryStore()
	l := likes.New(store)
	require.NoError(t, l.ReadStorage(context.Background()))

	env := &testEnv{
		router: gin.New(),
		client: client,
		thumbs: &mockThumbnailer{},
		store:  store,
	}
	NewHandler(client, env.thumbs, NewState(l), zap.NewNop()).Routes(env.router)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

type recipeResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Servings    int    `json:"servings"`
	Time        int    `json:"time"`
	Liked       bool   `json:"liked"`
	CanDecrease bool   `json:"can_decrease"`
	Ingredients []struct {
		Count        float64 `json:"count"`
		Unit         string  `json:"unit"`
		Ingredient   string  `json:"ingredient"`
		DisplayCount string  `json:"display_count"`
	} `json:"ingredients"`
}

type searchResponse struct {
	Query   string `json:"query"`
	Page    int    `json:"page"`
	Pages   int    `json:"pages"`
	Prev    int    `json:"prev"`
	Next    int    `json:"next"`
	Results []struct {
		ID         string `json:"recipe_id"`
		ShortTitle string `json:"short_title"`
		Selected   bool   `json:"selected"`
	} `json:"results"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/search?q=pizza", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	res := decode[searchResponse](t, rr)
	assert.Equal(t, "pizza", res.Query)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 2, res.Next)
	assert.Zero(t, res.Prev)
	require.Len(t, res.Results, 10)
	assert.Equal(t, "Pizza with tomato ...", res.Results[0].ShortTitle)

	rr = env.do(t, http.MethodGet, "/search/results?page=3", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	res = decode[searchResponse](t, rr)
	assert.Len(t, res.Results, 3)
	assert.Equal(t, 2, res.Prev)
	assert.Zero(t, res.Next)
}

func TestSearch_Validation(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/search?q=%20", nil).Code)
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodGet, "/search/results", nil).Code)

	env.do(t, http.MethodGet, "/search?q=pizza", nil)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/search/results?page=two", nil).Code)
}

func TestSearch_FailureKeepsPreviousSearch(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/search?q=pizza", nil).Code)

	rr := env.do(t, http.MethodGet, "/search?q=unknown", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, msgSearchFailed, rr.Body.String())

	rr = env.do(t, http.MethodGet, "/search/results?page=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pizza", decode[searchResponse](t, rr).Query)
}

func TestSearch_Timeout(t *testing.T) {
	env := newTestEnv(t)
	env.client.err = fmt.Errorf("%w: %w", forkify.ErrFetch, context.DeadlineExceeded)

	rr := env.do(t, http.MethodGet, "/search?q=pizza", nil)
	assert.Equal(t, http.StatusRequestTimeout, rr.Code)
}

func TestGetRecipe(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/recipes/1000", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	res := decode[recipeResponse](t, rr)
	assert.Equal(t, "Best Pizza Dough Ever", res.Title)
	assert.Equal(t, 4, res.Servings)
	assert.Equal(t, 45, res.Time)
	assert.False(t, res.Liked)
	assert.True(t, res.CanDecrease)
	require.Len(t, res.Ingredients, 7)
	assert.Equal(t, 4.5, res.Ingredients[0].Count)
	assert.Equal(t, "cup", res.Ingredients[0].Unit)
	assert.Equal(t, "plain flour", res.Ingredients[0].Ingredient)
	assert.Equal(t, "4 1/2", res.Ingredients[0].DisplayCount)

	env.do(t, http.MethodGet, "/search?q=pizza", nil)
	page := decode[searchResponse](t, env.do(t, http.MethodGet, "/search/results?page=1", nil))
	assert.True(t, page.Results[0].Selected)
	assert.False(t, page.Results[1].Selected)
}

func TestGetRecipe_FailureKeepsCurrentRecipe(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/recipes/2000", nil).Code)

	rr := env.do(t, http.MethodGet, "/recipes/9999", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, msgRecipeFailed, rr.Body.String())

	rr = env.do(t, http.MethodPost, "/recipe/servings", gin.H{"type": "inc"})
	require.Equal(t, http.StatusOK, rr.Code)
	res := decode[recipeResponse](t, rr)
	assert.Equal(t, "2000", res.ID)
	assert.Equal(t, 5, res.Servings)
}

func TestUpdateServings(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/recipe/servings", gin.H{"type": "inc"}).Code)

	env.do(t, http.MethodGet, "/recipes/2000", nil)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/recipe/servings", gin.H{"type": "up"}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/recipe/servings", gin.H{}).Code)

	var res recipeResponse
	for i := 0; i < 4; i++ {
		rr := env.do(t, http.MethodPost, "/recipe/servings", gin.H{"type": "dec"})
		require.Equal(t, http.StatusOK, rr.Code)
		res = decode[recipeResponse](t, rr)
	}
	assert.Equal(t, 1, res.Servings)
	assert.False(t, res.CanDecrease)
	assert.InDelta(t, 0.5, res.Ingredients[0].Count, 1e-9)
	assert.Equal(t, "1/2", res.Ingredients[0].DisplayCount)
}

func TestShoppingList(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/list", nil).Code)

	env.do(t, http.MethodGet, "/recipes/1000", nil)
	rr := env.do(t, http.MethodPost, "/list", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	added := decode[[]list.Item](t, rr)
	require.Len(t, added, 7)
	assert.Equal(t, "salt", added[1].Ingredient)

	rr = env.do(t, http.MethodPatch, "/list/"+added[1].ID, gin.H{"count": 3})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3.0, decode[list.Item](t, rr).Count)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, "/list/"+added[1].ID, gin.H{"count": -2}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, "/list/"+added[1].ID, gin.H{}).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPatch, "/list/missing", gin.H{"count": 1}).Code)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/list/"+added[0].ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/list/"+added[0].ID, nil).Code)

	items := decode[[]list.Item](t, env.do(t, http.MethodGet, "/list", nil))
	require.Len(t, items, 6)
	assert.Equal(t, added[1].ID, items[0].ID)
	assert.Equal(t, 3.0, items[0].Count)
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/likes/toggle", nil).Code)

	env.do(t, http.MethodGet, "/recipes/1000", nil)
	rr := env.do(t, http.MethodPost, "/likes/toggle", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	toggled := decode[likeToggleView](t, rr)
	assert.True(t, toggled.Liked)
	assert.Equal(t, 1, toggled.NumLikes)
	require.NotNil(t, toggled.Like)
	assert.Equal(t, "101 Cookbooks", toggled.Like.Author)

	stored, err := env.store.Get(context.Background(), likes.StorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(stored), `"id":"1000"`)

	assert.True(t, decode[recipeResponse](t, env.do(t, http.MethodGet, "/recipes/1000", nil)).Liked)

	all := decode[likesView](t, env.do(t, http.MethodGet, "/likes", nil))
	assert.Equal(t, 1, all.NumLikes)

	rr = env.do(t, http.MethodPost, "/likes/toggle", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	toggled = decode[likeToggleView](t, rr)
	assert.False(t, toggled.Liked)
	assert.Zero(t, toggled.NumLikes)
	assert.Nil(t, toggled.Like)
}

func TestLikeThumbnail(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/likes/1000/thumbnail", nil).Code)

	env.do(t, http.MethodGet, "/recipes/1000", nil)
	env.do(t, http.MethodPost, "/likes/toggle", nil)

	rr := env.do(t, http.MethodGet, "/likes/1000/thumbnail", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg:1000", rr.Body.String())
	assert.Equal(t, []string{"http://img/1000.jpg"}, env.thumbs.requested)
}

func TestUpdateServings_HugeCountStillRenders(t *testing.T) {
	env := newTestEnv(t)
	env.client.recipes["3000"] = &recipe.RawRecipe{
		ID:          "3000",
		Title:       "Flour Mountain",
		Ingredients: []string{"15" + strings.Repeat("0", 307) + " cups flour"},
	}
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/recipes/3000", nil).Code)

	for i := 0; i < 2; i++ {
		rr := env.do(t, http.MethodPost, "/recipe/servings", gin.H{"type": "inc"})
		require.Equal(t, http.StatusOK, rr.Code)
		res := decode[recipeResponse](t, rr)
		assert.Equal(t, 4, res.Servings)
		assert.Equal(t, 1.5e308, res.Ingredients[0].Count)
	}
}
