package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"
)

// exportTimeout bounds how long an export waits for image sources.
const exportTimeout = 10 * time.Second

// exportPNG rasterizes s into path once its images have settled.
func exportPNG(ctx context.Context, path string, s Scene, assets *AssetCache, scale float64) error {
	assets.RequestScene(s)
	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()
	if err := assets.Wait(ctx); err != nil {
		// Whatever is still pending is painted as a placeholder.
		Logger().Warn("export continuing with pending images", "err", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := ExportPNG(w, s, assets, scale); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	Logger().Info("exported", "path", path, "elements", len(s.Elements))
	return nil
}

// exportName picks the next free poster-N.png name in the save directory.
func (m *model) exportName() string {
	for i := 1; ; i++ {
		path := m.config.GetSavePath(fmt.Sprintf("poster-%d.png", i))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}
