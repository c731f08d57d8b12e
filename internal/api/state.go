package api

import (
	"errors"
	"sync"

	"forkify/internal/likes"
	"forkify/internal/list"
	"forkify/internal/recipe"
	"forkify/internal/search"
)

var (
	// ErrNoSearch is returned when results are paged before any search ran.
	ErrNoSearch = errors.New("no search has been run")
	// ErrNoRecipe is returned for recipe actions before a recipe is loaded.
	ErrNoRecipe = errors.New("no recipe is loaded")
)

// State owns the entities the controllers work on. Controllers hold mu for
// their whole run, so a fetch and the state change that follows it are never
// interleaved with another action.
type State struct {
	mu     sync.Mutex
	search *search.Search
	recipe *recipe.Recipe
	list   *list.List
	likes  *likes.Likes
}

// NewState creates the coordinator around an already restored likes
// collection.
func NewState(l *likes.Likes) *State {
	return &State{
		list:  list.New(),
		likes: l,
	}
}
