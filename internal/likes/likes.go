// Package likes keeps the user's liked recipes and persists them across
// restarts through a storage.Store.
package likes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"forkify/internal/storage"
)

// StorageKey is the fixed key the liked recipes are stored under.
const StorageKey = "likes"

// Like is a liked recipe with the metadata needed to list it.
type Like struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Img    string `json:"img"`
}

// Likes is the collection of liked recipes.
type Likes struct {
	store storage.Store
	likes []Like
}

// New returns an empty collection backed by store. Call ReadStorage to
// restore previously persisted likes.
func New(store storage.Store) *Likes {
	return &Likes{store: store}
}

// AddLike likes a recipe and persists the collection. Liking a recipe twice
// returns the existing like.
func (l *Likes) AddLike(ctx context.Context, id, title, author, img string) (Like, error) {
	if i := l.index(id); i >= 0 {
		return l.likes[i], nil
	}
	like := Like{ID: id, Title: title, Author: author, Img: img}
	prev := l.likes
	l.likes = append(slices.Clip(l.likes), like)
	if err := l.persist(ctx); err != nil {
		l.likes = prev
		return Like{}, err
	}
	return like, nil
}

// DeleteLike removes a like and persists the collection. Unknown ids are
// ignored.
func (l *Likes) DeleteLike(ctx context.Context, id string) error {
	i := l.index(id)
	if i < 0 {
		return nil
	}
	prev := l.likes
	l.likes = slices.Delete(slices.Clone(l.likes), i, i+1)
	if err := l.persist(ctx); err != nil {
		l.likes = prev
		return err
	}
	return nil
}

// IsLiked reports whether the recipe is liked.
func (l *Likes) IsLiked(id string) bool {
	return l.index(id) >= 0
}

// Get returns the like for id.
func (l *Likes) Get(id string) (Like, bool) {
	i := l.index(id)
	if i < 0 {
		return Like{}, false
	}
	return l.likes[i], true
}

// NumLikes returns the number of liked recipes.
func (l *Likes) NumLikes() int {
	return len(l.likes)
}

// All returns a copy of the likes in the order they were added.
func (l *Likes) All() []Like {
	out := make([]Like, len(l.likes))
	copy(out, l.likes)
	return out
}

// ReadStorage replaces the in-memory likes with the persisted ones. A missing
// key leaves the collection empty.
func (l *Likes) ReadStorage(ctx context.Context) error {
	data, err := l.store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read likes: %w", err)
	}
	var stored []Like
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("decode likes: %w", err)
	}
	l.likes = stored
	return nil
}

func (l *Likes) persist(ctx context.Context) error {
	if len(l.likes) == 0 {
		if err := l.store.Remove(ctx, StorageKey); err != nil {
			return fmt.Errorf("persist likes: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(l.likes)
	if err != nil {
		return fmt.Errorf("encode likes: %w", err)
	}
	if err := l.store.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("persist likes: %w", err)
	}
	return nil
}

func (l *Likes) index(id string) int {
	return slices.IndexFunc(l.likes, func(like Like) bool { return like.ID == id })
}
