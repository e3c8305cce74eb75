// Package cache keeps recently rendered published posts in memory.
package cache

import (
	"sync"
	"time"

	"portfolio/internal/domain/models"

	gocache "github.com/patrickmn/go-cache"
)

const (
	listPrefix = "list:"
	slugPrefix = "slug:"
)

// PostCache drops writes carrying a generation older than the last
// Invalidate, so a read that raced a mutation cannot repopulate stale data.
type PostCache struct {
	c *gocache.Cache

	mu  sync.RWMutex
	gen uint64
}

func NewPostCache(ttl time.Duration) *PostCache {
	return &PostCache{c: gocache.New(ttl, 2*ttl)}
}

func listKey(search, tag string) string {
	return listPrefix + search + "\x00" + tag
}

func (p *PostCache) GetList(search, tag string) ([]models.BlogPost, bool) {
	v, ok := p.c.Get(listKey(search, tag))
	if !ok {
		return nil, false
	}
	posts, ok := v.([]models.BlogPost)
	return posts, ok
}

// Generation is taken before reading from the database and handed back to
// SetList or SetPost.
func (p *PostCache) Generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gen
}

func (p *PostCache) SetList(gen uint64, search, tag string, posts []models.BlogPost) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if gen != p.gen {
		return
	}
	p.c.SetDefault(listKey(search, tag), posts)
}

func (p *PostCache) GetPost(slug string) (*models.BlogPost, bool) {
	v, ok := p.c.Get(slugPrefix + slug)
	if !ok {
		return nil, false
	}
	post, ok := v.(*models.BlogPost)
	return post, ok
}

func (p *PostCache) SetPost(gen uint64, post *models.BlogPost) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if gen != p.gen {
		return
	}
	p.c.SetDefault(slugPrefix+post.Slug, post)
}

// Invalidate drops every cached entry and starts a new generation.
func (p *PostCache) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.c.Flush()
}

func (p *PostCache) Len() int {
	return p.c.ItemCount()
}
