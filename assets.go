package main

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/fogleman/gg"
)

type AssetStatus int

const (
	AssetMissing AssetStatus = iota
	AssetPending
	AssetLoaded
	AssetBroken
)

func (s AssetStatus) String() string {
	switch s {
	case AssetPending:
		return "pending"
	case AssetLoaded:
		return "loaded"
	case AssetBroken:
		return "broken"
	default:
		return "missing"
	}
}

type AssetLoader func(src string) (image.Image, error)

type assetEntry struct {
	status AssetStatus
	img    image.Image
	done   chan struct{}
}

// AssetCache loads images referenced by elements. Loads never report errors
// to the caller: a failed source is logged and stays broken, and renderers
// paint a placeholder for it.
type AssetCache struct {
	mu      sync.Mutex
	entries map[string]*assetEntry
	load    AssetLoader
}

func NewAssetCache(load AssetLoader) *AssetCache {
	if load == nil {
		load = loadImageFile
	}
	return &AssetCache{
		entries: make(map[string]*assetEntry),
		load:    load,
	}
}

func loadImageFile(src string) (image.Image, error) {
	if strings.Contains(src, "://") && !strings.HasPrefix(src, "file://") {
		return nil, fmt.Errorf("unsupported image source %q", src)
	}
	return gg.LoadImage(strings.TrimPrefix(src, "file://"))
}

// Request starts loading src in the background if nobody has asked for it
// yet.
func (c *AssetCache) Request(src string) {
	if src == "" {
		return
	}
	if e, started := c.begin(src); started {
		go c.fetch(src, e)
	}
}

// Load fetches src and blocks until it is loaded or broken.
func (c *AssetCache) Load(src string) AssetStatus {
	if src == "" {
		return AssetMissing
	}
	e, started := c.begin(src)
	if started {
		c.fetch(src, e)
	} else {
		<-e.done
	}
	status, _ := c.Lookup(src)
	return status
}

func (c *AssetCache) begin(src string) (*assetEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[src]; ok {
		return e, false
	}
	e := &assetEntry{status: AssetPending, done: make(chan struct{})}
	c.entries[src] = e
	return e, true
}

func (c *AssetCache) fetch(src string, e *assetEntry) {
	img, err := c.safeLoad(src)

	c.mu.Lock()
	if err != nil || img == nil {
		e.status = AssetBroken
	} else {
		e.status = AssetLoaded
		e.img = img
	}
	c.mu.Unlock()
	close(e.done)

	if err != nil {
		Logger().Warn("image load failed", "src", src, "err", err)
	} else {
		Logger().Debug("image loaded", "src", src)
	}
}

func (c *AssetCache) safeLoad(src string) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loader panic: %v", r)
		}
	}()
	return c.load(src)
}

// Lookup reports the state of src without starting a load.
func (c *AssetCache) Lookup(src string) (AssetStatus, image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[src]
	if !ok {
		return AssetMissing, nil
	}
	return e.status, e.img
}

// RequestScene starts loads for every image in s.
func (c *AssetCache) RequestScene(s Scene) {
	for _, src := range ImageSources(s) {
		c.Request(src)
	}
}

// Wait blocks until every requested load has settled or ctx is done.
func (c *AssetCache) Wait(ctx context.Context) error {
	c.mu.Lock()
	pending := make([]chan struct{}, 0, len(c.entries))
	for _, e := range c.entries {
		pending = append(pending, e.done)
	}
	c.mu.Unlock()

	for _, done := range pending {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
