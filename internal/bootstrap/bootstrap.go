package bootstrap

import (
	"fmt"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	graphinadapter "kgview/internal/modules/graph/adapter/in"
	graphoutadapter "kgview/internal/modules/graph/adapter/out"
	"kgview/internal/modules/graph/domain"
	graphout "kgview/internal/modules/graph/port/out"
	graphservice "kgview/internal/modules/graph/service"
	graphusecase "kgview/internal/modules/graph/usecase"
	roadmapinadapter "kgview/internal/modules/roadmap/adapter/in"
	roadmapoutadapter "kgview/internal/modules/roadmap/adapter/out"
	roadmapservice "kgview/internal/modules/roadmap/service"
	roadmapusecase "kgview/internal/modules/roadmap/usecase"
	"kgview/internal/platform/clock"
	"kgview/internal/platform/config"
	"kgview/internal/platform/id"
	"kgview/internal/platform/logging"
	"kgview/internal/server"
	uiapp "kgview/internal/ui/app"
	graphview "kgview/internal/ui/views/graph"
)

type App struct {
	Config config.Config
	Logger *logging.Logger

	GraphCLI    graphinadapter.CLIHandler
	GraphTUI    graphinadapter.TUIHandler
	GraphHTTP   graphinadapter.HTTPHandler
	RoadmapCLI  roadmapinadapter.CLIHandler
	RoadmapTUI  roadmapinadapter.TUIHandler
	sqliteStore *graphoutadapter.SQLiteTreeSource
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	client := &http.Client{Timeout: cfg.Sources.Timeout}
	codec := graphoutadapter.NewTreeCodec()
	sqliteStore := graphoutadapter.NewSQLiteTreeSource()

	graphSvc := graphservice.NewGraphService(graphservice.Ports{
		Sources: []graphout.TreeSource{
			sqliteStore,
			graphoutadapter.NewHTTPTreeSource(client, codec),
			graphoutadapter.NewFileTreeSource(codec),
		},
		Exporters: []graphout.Exporter{
			graphoutadapter.NewSVGExporter(),
			graphoutadapter.NewPNGExporter(),
		},
		Codec:     codec,
		Artifacts: graphoutadapter.NewFileArtifactStore(cfg.Export.Dir),
		Generator: graphoutadapter.NewHTTPGraphGenerator(cfg.Sources.GraphEndpoint, client, codec),
		Probe:     graphoutadapter.NewPDFProbe(),
		Store:     sqliteStore,
	}, graphservice.NewRenderer(Style(cfg), Theme(cfg)), graphservice.Options{
		Sentinel:        cfg.Layout.RootSentinel,
		Layout:          Layout(cfg),
		Viewport:        Viewport(cfg),
		MaxPDFPages:     cfg.Sources.MaxPDFPages,
		MaxRenderPixels: cfg.Export.MaxPixels,
		Logger:          logger.With("module", "graph"),
	})
	graphUC := graphusecase.NewInteractor(graphSvc)

	roadmapSvc := roadmapservice.NewRoadmapService(
		roadmapoutadapter.NewHTTPRoadmapSource(client, cfg.Sources.RoadmapEndpoint),
		roadmapoutadapter.NewFileNoteStore(cfg.Export.Dir),
		cfg.Style.Palette,
		logger.With("module", "roadmap"),
	)
	roadmapUC := roadmapusecase.NewInteractor(roadmapSvc)

	logger.Debug("bootstrap complete",
		"graph_endpoint", cfg.Sources.GraphEndpoint,
		"roadmap_endpoint", cfg.Sources.RoadmapEndpoint,
		"export_dir", cfg.Export.Dir,
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		GraphCLI:   graphinadapter.NewCLIHandler(graphUC),
		GraphTUI:   graphinadapter.NewTUIHandler(graphUC),
		GraphHTTP: graphinadapter.NewHTTPHandler(graphUC, graphinadapter.HTTPOptions{
			Width:        cfg.Export.Width,
			Height:       cfg.Export.Height,
			MaxBodyBytes: cfg.Serve.MaxBodyBytes,
		}),
		RoadmapCLI:  roadmapinadapter.NewCLIHandler(roadmapUC),
		RoadmapTUI:  roadmapinadapter.NewTUIHandler(roadmapUC),
		sqliteStore: sqliteStore,
	}, nil
}

// Close releases cached database handles and the log file.
func (a *App) Close() error {
	var first error
	if err := a.sqliteStore.Close(); err != nil {
		first = fmt.Errorf("close sqlite: %w", err)
	}
	if err := a.Logger.Close(); err != nil && first == nil {
		first = fmt.Errorf("close log: %w", err)
	}
	return first
}

func RunTUI(source string, app *App) error {
	cfg := app.Config
	model := uiapp.NewModel(app.GraphTUI, app.RoadmapTUI, graphview.Options{
		Source:        source,
		Style:         Style(cfg),
		Viewport:      Viewport(cfg),
		FrameInterval: cfg.Viewport.FrameInterval,
		WheelStep:     cfg.Viewport.WheelStep,
		ExportWidth:   cfg.Export.Width,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := program.Run()
	return err
}

// NewServer wires the HTTP surface. addr overrides the configured address
// when non-empty.
func NewServer(app *App, addr string) *server.Server {
	if addr == "" {
		addr = app.Config.Serve.Addr
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return server.New(server.Options{
		Addr:     addr,
		Logger:   app.Logger.With("module", "server"),
		Clock:    clock.SystemClock{},
		IDs:      id.UUID{},
		Registry: reg,
	}, app.GraphHTTP)
}

// ─── config mapping ──────────────────────────────────────────────────────────

func Layout(cfg config.Config) domain.LayoutConfig {
	return domain.LayoutConfig{
		Width:       cfg.Canvas.Width,
		Height:      cfg.Canvas.Height,
		RingSpacing: cfg.Layout.RingSpacing,
	}
}

func Style(cfg config.Config) domain.Style {
	return domain.Style{
		RootSize: cfg.Style.RootSize,
		BaseSize: cfg.Style.BaseSize,
		Decay:    cfg.Style.Decay,
		MinSize:  cfg.Style.MinSize,
		Palette:  append([]string(nil), cfg.Style.Palette...),
	}
}

func Theme(cfg config.Config) graphservice.Theme {
	theme := graphservice.DefaultTheme()
	if cfg.Style.Background != "" {
		theme.Background = cfg.Style.Background
	}
	if cfg.Style.Edge != "" {
		theme.Edge = cfg.Style.Edge
	}
	if cfg.Style.Label != "" {
		theme.Label = cfg.Style.Label
	}
	if cfg.Style.HoverShade > 0 {
		theme.HoverShade = cfg.Style.HoverShade
	}
	return theme
}

// Viewport starts the camera on the whole canvas at scale 1.
func Viewport(cfg config.Config) domain.ViewportConfig {
	v := cfg.Viewport
	return domain.ViewportConfig{
		Initial:         domain.Camera{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height, Scale: 1},
		MinScale:        v.MinScale,
		MaxScale:        v.MaxScale,
		ZoomStep:        v.ZoomStep,
		ZoomSpeed:       v.ZoomSpeed,
		Smoothing:       v.Smoothing,
		PositionEpsilon: v.PositionEpsilon,
		ScaleEpsilon:    v.ScaleEpsilon,
		PanSpeed:        v.PanSpeed,
	}
}
