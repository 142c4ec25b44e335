package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"kgview/internal/bootstrap"
	"kgview/internal/platform/config"
	"kgview/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, Bad.Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "kgview",
		Short:         "Radial knowledge-graph viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log level: debug|info|warn|error")

	root.AddCommand(newTUICmd(&flags))
	root.AddCommand(newFlattenCmd(&flags))
	root.AddCommand(newLayoutCmd(&flags))
	root.AddCommand(newRenderCmd(&flags))
	root.AddCommand(newFetchCmd(&flags))
	root.AddCommand(newImportCmd(&flags))
	root.AddCommand(newServeCmd(&flags))
	return root
}

// loadApp reads the config and wires the application. logOut receives the
// log stream when no log directory is configured.
func loadApp(flags *globalFlags, logOut io.Writer) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	logger, err := logging.New(logging.Config{
		Level:   level,
		Dir:     cfg.Log.Dir,
		Service: "kgview",
		Output:  logOut,
	})
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logger)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [source]",
		Short: "Open the interactive graph viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			app, err := loadApp(flags, nil)
			if err != nil {
				return err
			}
			defer app.Close()
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			return bootstrap.RunTUI(source, app)
		},
	}
}

func newFlattenCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "flatten <source>",
		Short: "Flatten a tree into graph nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, nil)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.GraphCLI.Flatten(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			rows := make([][]string, 0, len(out.Nodes))
			for _, n := range out.Nodes {
				parent := ""
				if len(n.ParentIDs) > 0 {
					parent = n.ParentIDs[0]
				}
				rows = append(rows, []string{n.ID, n.Label, strconv.Itoa(n.Depth), parent})
			}
			Banner(cmd.OutOrStdout(), out.Title, fmt.Sprintf("%d nodes, depth %d", len(out.Nodes), out.MaxDepth))
			Table(cmd.OutOrStdout(), []string{"ID", "LABEL", "DEPTH", "PARENT"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newLayoutCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "layout <source>",
		Short: "Print node positions, sizes and colours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, nil)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.GraphCLI.Layout(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			rows := make([][]string, 0, len(out.Nodes))
			for _, n := range out.Nodes {
				rows = append(rows, []string{
					n.ID,
					strconv.FormatFloat(n.X, 'f', 1, 64),
					strconv.FormatFloat(n.Y, 'f', 1, 64),
					strconv.FormatFloat(n.Radius, 'f', 1, 64),
					Swatch(n.Color),
				})
			}
			Banner(cmd.OutOrStdout(), out.Title, fmt.Sprintf("%.0fx%.0f canvas", out.Width, out.Height))
			Table(cmd.OutOrStdout(), []string{"ID", "X", "Y", "RADIUS", "COLOR"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var format, out, focus string
	var width, height, zoom int
	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Render a graph to SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, nil)
			if err != nil {
				return err
			}
			defer app.Close()
			if width <= 0 {
				width = app.Config.Export.Width
			}
			if height <= 0 {
				height = app.Config.Export.Height
			}
			res, err := app.GraphCLI.Render(cmd.Context(), args[0], format, out, width, height, zoom, focus)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s rendered %d nodes to %s (%d bytes)\n",
				Good.Sprint("✓"), res.Nodes, res.Path, res.Bytes)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "svg", "output format: svg|png")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <title>.<format>)")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels")
	cmd.Flags().IntVar(&zoom, "zoom", 0, "zoom steps from the initial view (negative zooms out)")
	cmd.Flags().StringVar(&focus, "focus", "", "centre the view on this node id")
	return cmd
}

func newFetchCmd(flags *globalFlags) *cobra.Command {
	fetch := &cobra.Command{Use: "fetch", Short: "Call the remote generators"}

	var graphOut string
	graphCmd := &cobra.Command{
		Use:   "graph <pdf>",
		Short: "Generate a knowledge graph from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, nil)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.GraphCLI.Generate(cmd.Context(), args[0], graphOut)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d pages -> %d nodes, saved %s\n",
				Good.Sprint("✓"), Brand.Sprint(out.Title), out.Pages, out.Nodes, out.OutPath)
			return nil
		},
	}
	graphCmd.Flags().StringVarP(&graphOut, "out", "o", "", "where to save the tree (default <pdf name>.json)")

	var roadmapOut string
	var asJSON bool
	roadmapCmd := &cobra.Command{
		Use:   "roadmap <query>",
		Short: "Generate a prioritised learning roadmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, nil)
			if err != nil {
				return err
			}
			defer app.Close()
			if roadmapOut != "" {
				res, err := app.RoadmapCLI.Export(cmd.Context(), args[0], roadmapOut)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %d steps to %s\n", Good.Sprint("✓"), res.Items, res.Path)
				return nil
			}
			out, err := app.RoadmapCLI.Generate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			rows := make([][]string, 0, len(out.Items))
			for i, it := range out.Items {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					Swatch(it.Color) + " " + strconv.Itoa(it.Priority),
					it.Entity,
					it.Relationship,
				})
			}
			Banner(cmd.OutOrStdout(), "Roadmap", out.Query)
			Table(cmd.OutOrStdout(), []string{"#", "PRIORITY", "ENTITY", "RELATIONSHIP"}, rows)
			return nil
		},
	}
	roadmapCmd.Flags().StringVarP(&roadmapOut, "out", "o", "", "write the roadmap into this markdown note")
	roadmapCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	fetch.AddCommand(graphCmd, roadmapCmd)
	return fetch
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <source> <sqlite:db#tree>",
		Short: "Copy a tree into a SQLite store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, nil)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.GraphCLI.Import(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s imported %s (%d nodes) into %s\n",
				Good.Sprint("✓"), out.Title, len(out.Nodes), args[1])
			return nil
		},
	}
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve flatten and render over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			gin.SetMode(gin.ReleaseMode)
			srv := bootstrap.NewServer(app, addr)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			listen := addr
			if listen == "" {
				listen = app.Config.Serve.Addr
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s listening on %s\n", Brand.Sprint("kgview"), listen)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
