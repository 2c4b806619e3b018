package animation

import (
	"sync"

	"github.com/google/uuid"
)

// GenerationCache memoizes the compiled data of the form being edited.
//
// Each selection of an animation starts a new generation, tagged with the
// animation it was started for. Every edit bumps
// the revision and marks the cache dirty. A compile result is stored against
// the generation and revision it was started with: a result from an older
// generation is dropped, and a result from an older revision is kept as data
// but leaves the cache dirty.
type GenerationCache struct {
	mu         sync.Mutex
	data       string
	dirty      bool
	revision   uint64
	generation string
	animation  string
}

// Ticket identifies the inputs a compile was started with.
type Ticket struct {
	Generation string
	Revision   uint64
	// Animation is the animation the generation was started for.
	Animation string
}

// NewGenerationCache returns a dirty cache in a fresh generation.
func NewGenerationCache() *GenerationCache {
	c := &GenerationCache{}
	c.NewGeneration("")
	return c
}

// NewGeneration starts a new generation for animation and marks the cache
// dirty.
func (c *GenerationCache) NewGeneration(animation string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation = uuid.NewString()
	c.animation = animation
	c.revision++
	c.dirty = true
	return c.generation
}

// MarkDirty records an edit.
func (c *GenerationCache) MarkDirty() {
	c.mu.Lock()
	c.revision++
	c.dirty = true
	c.mu.Unlock()
}

// Dirty reports whether the cached data is stale.
func (c *GenerationCache) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Generation returns the current generation tag.
func (c *GenerationCache) Generation() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Get returns the cached data and a ticket for the current inputs. ok is
// false when the data is stale and must be recompiled.
func (c *GenerationCache) Get() (data string, t Ticket, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data, Ticket{Generation: c.generation, Revision: c.revision, Animation: c.animation}, !c.dirty
}

// Store records data compiled for t. stored is false, and nothing is kept,
// if t belongs to an older generation. clean is true when no edit happened
// since t was taken, so data matches the form.
func (c *GenerationCache) Store(t Ticket, data string) (stored, clean bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Generation != c.generation {
		return false, false
	}
	c.data = data
	if t.Revision == c.revision {
		c.dirty = false
	}
	return true, !c.dirty
}
