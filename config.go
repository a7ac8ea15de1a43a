package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	SaveDirectory string
	CanvasWidth   float64
	CanvasHeight  float64
	HistoryLimit  int
	ZoomStep      float64
	Log           bool
}

func defaultConfig() *Config {
	return &Config{
		CanvasWidth:  defaultCanvasWidth,
		CanvasHeight: defaultCanvasHeight,
		ZoomStep:     defaultZoomStep,
	}
}

// loadConfig reads ~/.posterrc. A missing or unreadable file leaves the
// defaults in place.
func loadConfig() *Config {
	config := defaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}

	file, err := os.Open(filepath.Join(homeDir, ".posterrc"))
	if err != nil {
		return config
	}
	defer file.Close()

	if err := parseConfig(file, homeDir, config); err != nil {
		Logger().Warn("config read failed", "err", err)
	}
	return config
}

// parseConfig applies key = value lines from r onto config. Unknown keys and
// malformed values are skipped.
func parseConfig(r io.Reader, homeDir string, config *Config) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "savedirectory", "save_directory", "savedir":
			if strings.HasPrefix(value, "~") {
				value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
			}
			if !filepath.IsAbs(value) {
				if absPath, err := filepath.Abs(value); err == nil {
					value = absPath
				}
			}
			config.SaveDirectory = value
		case "canvaswidth", "canvas_width", "width":
			if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 {
				config.CanvasWidth = v
			}
		case "canvasheight", "canvas_height", "height":
			if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 {
				config.CanvasHeight = v
			}
		case "historylimit", "history_limit":
			if v, err := strconv.Atoi(value); err == nil && v >= 0 {
				config.HistoryLimit = v
			}
		case "zoomstep", "zoom_step":
			if v, err := strconv.ParseFloat(value, 64); err == nil && v > 1 {
				config.ZoomStep = v
			}
		case "log", "debug":
			config.Log = strings.ToLower(value) == "true"
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	if err := os.MkdirAll(c.SaveDirectory, 0755); err != nil {
		Logger().Warn("create save directory failed", "dir", c.SaveDirectory, "err", err)
	}
	return filepath.Join(c.SaveDirectory, filename)
}
