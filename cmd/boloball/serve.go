package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/boloball/internal/config"
	"github.com/vovakirdan/boloball/internal/games/boloball"
	"github.com/vovakirdan/boloball/internal/multiplayer"
	"github.com/vovakirdan/boloball/internal/platform/tui"
	"github.com/vovakirdan/boloball/internal/platform/web"
	"github.com/vovakirdan/boloball/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagWebAddr     string
	flagWithWeb     bool
	flagWebVariant  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the BoloBall SSH server",
	Long: `Start an SSH server where users connect, pick a board and play.

Each SSH connection gets its own menu. Online play pairs two sessions through
host/join codes or a quick-match queue; all match results share one history.
With --web, the browser WebSocket server runs on the same matchmaking, so SSH
and browser players can meet.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.boloball/host_key

Examples:
  boloball serve                   # Listen on :23234 with auto-generated key
  boloball serve --ssh :2222       # Listen on port 2222
  boloball serve --web             # Also serve browsers on :8080

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the browser WebSocket server",
	Long: `Serve the browser protocol on /play. Connections are paired in arrival
order: the first waits as red, the second joins as blue.

Endpoints:
  GET /play          - WebSocket game connection
  GET /healthz       - Lobby and match counts
  GET /matches/:id   - A finished match

Examples:
  boloball web
  boloball web --addr :9000 --variant mini`,
	RunE: runWeb,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config, :23234)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config)")
	serveCmd.Flags().BoolVar(&flagWithWeb, "web", false, "Also run the browser WebSocket server")

	for _, c := range []*cobra.Command{serveCmd, webCmd} {
		c.Flags().StringVar(&flagWebAddr, "addr", "", "Web server address (default from config, :8080)")
		c.Flags().StringVar(&flagWebVariant, "variant", "standard", "Variant played by browser sessions")
	}
}

// backend is the matchmaking state shared by the front ends.
type backend struct {
	cfg         config.BoloConfig
	store       *storage.Store
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
	logger      *log.Logger
}

func newBackend() (*backend, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if flagSSHAddr != "" {
		cfg.Server.SSHAddress = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}
	if flagWebAddr != "" {
		cfg.Server.WebAddress = flagWebAddr
	}

	logger := newLogger("boloball")
	b := &backend{
		cfg:      cfg,
		sessions: multiplayer.NewSessionRegistry(),
		logger:   logger,
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open match database", "error", err)
	} else {
		b.store = store
	}

	b.coordinator = multiplayer.NewCoordinator(multiplayer.CoordinatorConfig{
		LobbyTimeout:  cfg.Server.LobbyTimeout,
		CleanupPeriod: cfg.Server.CleanupPeriod,
		Logger:        logger.WithPrefix("coordinator"),
	}, boloball.NewOnlineGame, b.sessions)
	if b.store != nil {
		b.coordinator.SetResultSaver(b.store)
	}
	b.coordinator.Start()
	return b, nil
}

func (b *backend) close() {
	b.coordinator.Stop()
	b.sessions.CloseAll()
	if b.store != nil {
		b.store.Close()
	}
}

func (b *backend) webServer() *web.Server {
	return web.NewServer(web.ConfigFrom(b.cfg, flagWebVariant), b.coordinator, b.sessions, b.store, b.logger.WithPrefix("web"))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runServe(_ *cobra.Command, _ []string) error {
	b, err := newBackend()
	if err != nil {
		return err
	}
	defer b.close()

	sshServer, err := tui.NewSSHServer(tui.SSHServerConfigFrom(b.cfg), b.coordinator, b.sessions, b.store, b.logger.WithPrefix("ssh"))
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	fmt.Printf("Starting BoloBall SSH server on %s\n", sshServer.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signalContext()
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sshServer.ListenAndServe(ctx) })
	if flagWithWeb {
		webServer := b.webServer()
		fmt.Printf("Serving browsers on %s\n", b.cfg.Server.WebAddress)
		g.Go(func() error { return webServer.ListenAndServe(ctx) })
	}
	return g.Wait()
}

func runWeb(_ *cobra.Command, _ []string) error {
	b, err := newBackend()
	if err != nil {
		return err
	}
	defer b.close()

	fmt.Printf("Serving browsers on %s (variant %s)\n", b.cfg.Server.WebAddress, flagWebVariant)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signalContext()
	defer stop()

	return b.webServer().ListenAndServe(ctx)
}
