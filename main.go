package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

type App struct {
	Config  *Config
	LogPath string
	Width   float64
	Height  float64
}

func newRootCmd() *cobra.Command {
	app := &App{Config: loadConfig()}

	cmd := &cobra.Command{
		Use:          "poster [elements.json]",
		Short:        "Lay out posters in the terminal",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start with a blank A4 canvas
  poster

  # Open a scene and render it to PNG without the editor
  poster design.json
  poster export design.json -o design.png --scale 2
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			return runTUI(app, source)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setupLogging()
	}

	cmd.PersistentFlags().StringVar(&app.LogPath, "log", "", "Write logs to this file")
	cmd.PersistentFlags().Float64Var(&app.Width, "width", 0, "Canvas width when the source does not set one")
	cmd.PersistentFlags().Float64Var(&app.Height, "height", 0, "Canvas height when the source does not set one")

	cmd.AddCommand(newExportCmd(app))
	return cmd
}

func (app *App) setupLogging() error {
	path := app.LogPath
	if path == "" && app.Config.Log {
		path = app.Config.GetSavePath("poster.log")
	}
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	SetLogger(newTextLogger(f, true))
	return nil
}

// newEditor builds an editor for source, which may be empty. Canvas size
// comes from the source, then flags, then the rc file.
func (app *App) newEditor(source string) (*Editor, error) {
	var sf sceneFile
	if source != "" {
		var err error
		if sf, err = readSceneFile(source); err != nil {
			return nil, err
		}
	}
	width, height := sf.Width, sf.Height
	if width <= 0 {
		width = firstPositive(app.Width, app.Config.CanvasWidth)
	}
	if height <= 0 {
		height = firstPositive(app.Height, app.Config.CanvasHeight)
	}
	return NewEditor(width, height, sf.Elements, WithHistoryLimit(app.Config.HistoryLimit)), nil
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func runTUI(app *App, source string) error {
	editor, err := app.newEditor(source)
	if err != nil {
		return err
	}
	p := tea.NewProgram(
		newModel(editor, app.Config, source),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}

func newExportCmd(app *App) *cobra.Command {
	var (
		out   string
		scale float64
	)
	cmd := &cobra.Command{
		Use:   "export <elements.json>",
		Short: "Render a scene to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := app.newEditor(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = strings.TrimSuffix(args[0], ".json") + ".png"
			}
			if err := exportPNG(cmd.Context(), out, editor.Scene(), NewAssetCache(nil), scale); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output PNG path (default: source name with .png)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "Output pixels per canvas unit")
	return cmd
}
