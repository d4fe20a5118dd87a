// ABOUTME: CLI entrypoint for wishweaver with board, serve, and export modes.
// ABOUTME: Wires together the sync repository, remote store, board server, and TUI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/wishweaver/boardserver"
	"github.com/2389-research/wishweaver/export"
	"github.com/2389-research/wishweaver/identity"
	"github.com/2389-research/wishweaver/poem"
	"github.com/2389-research/wishweaver/repo"
	"github.com/2389-research/wishweaver/store"
	"github.com/2389-research/wishweaver/tui"
)

var version = "dev"

// config holds all CLI configuration parsed from flags.
type config struct {
	serveMode    bool
	remoteURL    string
	boardName    string
	token        string
	dataDir      string
	exportFormat string
	title        string
	showVersion  bool
}

func main() {
	loadEnvFiles()

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("wishweaver %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("wishweaver", flag.ContinueOnError)
	fs.BoolVar(&cfg.serveMode, "serve", false, "Run the board server instead of the TUI")
	fs.StringVar(&cfg.remoteURL, "remote", "", "Board server base URL (default: in-memory board)")
	fs.StringVar(&cfg.boardName, "board", "main", "Board name on the server")
	fs.StringVar(&cfg.token, "token", "", "Bearer token for the board server")
	fs.StringVar(&cfg.dataDir, "data-dir", "", "Data directory for identity and cache (default: $XDG_DATA_HOME/wishweaver)")
	fs.StringVar(&cfg.exportFormat, "export", "", "Print the board and exit: markdown, html, yaml, or share")
	fs.StringVar(&cfg.title, "title", "Wish Board", "Board title used in exports")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	return cfg
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	if cfg.serveMode {
		return runServe()
	}

	r, err := buildRepository(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer r.Close()

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	err = r.Load(loadCtx)
	cancelLoad()
	if err != nil {
		// Soft failure: the repository keeps its warm-start state.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if cfg.exportFormat != "" {
		return runExport(cfg, r)
	}
	return runBoard(r)
}

// buildRepository assembles the sync repository: remote store, identity,
// local cache, and poem generator.
func buildRepository(cfg config) (*repo.Repository, error) {
	dataDir, err := resolveDataDir(cfg.dataDir)
	if err != nil {
		return nil, err
	}

	opts := []repo.Option{}

	actorID, err := identity.GetOrCreate(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: no stable identity, reactions disabled: %v\n", err)
	} else {
		opts = append(opts, repo.WithIdentity(actorID))
	}

	cache, err := store.OpenCache(filepath.Join(dataDir, "cache.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: board cache unavailable: %v\n", err)
	} else {
		opts = append(opts, repo.WithCache(cache))
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		gen := poem.NewOpenAIGenerator(key, os.Getenv("WISHWEAVER_POEM_MODEL"), "")
		opts = append(opts, repo.WithPoemGenerator(gen))
	}

	var remote store.Remote
	if cfg.remoteURL != "" {
		restOpts := []store.RESTOption{}
		if cfg.token != "" {
			restOpts = append(restOpts, store.WithToken(cfg.token))
		}
		remote = store.NewRESTStore(cfg.remoteURL, cfg.boardName, restOpts...)
	} else {
		remote = store.NewMemoryStore()
	}

	return repo.New(remote, opts...), nil
}

// runBoard runs the interactive TUI against the repository.
func runBoard(r *repo.Repository) int {
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	if err := r.Watch(watchCtx); err != nil && !errors.Is(err, repo.ErrPushUnsupported) {
		fmt.Fprintf(os.Stderr, "warning: live updates unavailable: %v\n", err)
	}

	p := tea.NewProgram(tui.NewAppModel(r), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runExport prints the board in the requested format and exits.
func runExport(cfg config, r *repo.Repository) int {
	cards := r.Cards()

	switch cfg.exportFormat {
	case "markdown", "md":
		fmt.Print(export.ExportMarkdown(cfg.title, cards))
	case "html":
		out, err := export.ExportHTML(cfg.title, cards)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Print(out)
	case "yaml":
		out, err := export.ExportYAML(cfg.title, cards)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Print(out)
	case "share":
		out, err := export.EncodeShare(cards)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Println(out)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown export format %q (markdown, html, yaml, share)\n", cfg.exportFormat)
		return 2
	}
	return 0
}

// runServe runs the board server until interrupted.
func runServe() int {
	srvCfg, err := boardserver.ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := os.MkdirAll(srvCfg.Home, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	docs, err := boardserver.OpenDocStore(filepath.Join(srvCfg.Home, "board.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer docs.Close()

	httpServer := &http.Server{
		Addr:              srvCfg.Bind,
		Handler:           boardserver.NewServer(docs, srvCfg.AuthToken),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("wishweaver board server listening on %s\n", srvCfg.Bind)
		errCh <- httpServer.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	case <-sigChan:
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}
	return 0
}
