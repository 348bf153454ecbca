// FilletCorners - Fillet 2D Corners
//
// A cross-platform desktop application that rounds the corners of a
// wireframe with tangent arcs and exports the result.
//
// Build:
//   go build -o filletcorners ./cmd/filletcorners
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o filletcorners.exe ./cmd/filletcorners
//   GOOS=darwin  GOARCH=amd64 go build -o filletcorners-darwin ./cmd/filletcorners
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/FilletCorners/internal/logging"
	"github.com/piwi3910/FilletCorners/internal/model"
	"github.com/piwi3910/FilletCorners/internal/project"
	"github.com/piwi3910/FilletCorners/internal/ui"
)

func main() {
	configPath := flag.String("config", project.DefaultConfigPath(), "path to the TOML config file")
	logLevel := flag.String("log-level", "", "override the configured log level")
	flag.Parse()

	config, err := project.LoadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "filletcorners: %v; using defaults\n", err)
		config = model.DefaultAppConfig()
	}
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}
	logging.SetLogger(logging.NewTextLogger(os.Stderr, config.LogLevel))
	logging.Logger().Info("starting", "config", *configPath, "units", config.Units)

	application := app.NewWithID("com.piwi3910.filletcorners")
	application.Settings().SetTheme(ui.NewFilletTheme(config.Theme))
	window := application.NewWindow("FilletCorners - Fillet 2D Corners")

	appUI := ui.NewApp(application, window, config, *configPath)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 760))
	window.CenterOnScreen()

	// Files named on the command line are opened in order; the last one wins.
	for _, path := range flag.Args() {
		appUI.OpenPath(path)
	}

	window.ShowAndRun()
}
