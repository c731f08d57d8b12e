package api

import (
	"forkify/internal/ingredient"
	"forkify/internal/likes"
	"forkify/internal/recipe"
	"forkify/internal/search"
)

type ingredientView struct {
	ingredient.Ingredient
	DisplayCount string `json:"display_count"`
}

type recipeView struct {
	*recipe.Recipe
	Ingredients []ingredientView `json:"ingredients"`
	Liked       bool             `json:"liked"`
	CanDecrease bool             `json:"can_decrease"`
}

func newRecipeView(r *recipe.Recipe, liked bool) recipeView {
	ings := make([]ingredientView, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ings[i] = ingredientView{Ingredient: ing, DisplayCount: ingredient.FormatCount(ing.Count)}
	}
	return recipeView{
		Recipe:      r,
		Ingredients: ings,
		Liked:       liked,
		CanDecrease: r.CanDecrease(),
	}
}

type summaryView struct {
	search.Summary
	ShortTitle string `json:"short_title"`
	Selected   bool   `json:"selected"`
}

type searchPageView struct {
	Query string `json:"query"`
	search.PageResult
	Results []summaryView `json:"results"`
}

func newSearchPageView(s *search.Search, page int, selectedID string) searchPageView {
	res := s.Page(page, search.ResultsPerPage)
	results := make([]summaryView, len(res.Results))
	for i, sum := range res.Results {
		results[i] = summaryView{
			Summary:    sum,
			ShortTitle: search.LimitTitle(sum.Title, search.TitleLimit),
			Selected:   sum.ID == selectedID,
		}
	}
	return searchPageView{Query: s.Query, PageResult: res, Results: results}
}

type likesView struct {
	Likes    []likes.Like `json:"likes"`
	NumLikes int          `json:"num_likes"`
}

type likeToggleView struct {
	Liked    bool        `json:"liked"`
	Like     *likes.Like `json:"like,omitempty"`
	NumLikes int         `json:"num_likes"`
}
