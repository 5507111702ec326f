package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	assets "github.com/goliatone/go-contacts"
	"github.com/goliatone/go-contacts/components/contacts"
	"github.com/goliatone/go-contacts/internal/config"
	"github.com/goliatone/go-contacts/internal/logging"
	"github.com/goliatone/go-contacts/pkg/apispec"
	"github.com/goliatone/go-contacts/pkg/flash"
	"github.com/goliatone/go-contacts/pkg/store"
	"github.com/goliatone/go-contacts/pkg/views"
)

var (
	templatesDir    string
	reloadTemplates bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web application",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		handler, err := buildHandler(ctx, *cfg, st, logger)
		if err != nil {
			return err
		}

		ln, err := net.Listen("tcp", cfg.Server.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
		}
		logger.Info("listening", zap.String("addr", ln.Addr().String()))
		return runServer(ctx, newServer(cfg.Server, handler), ln, cfg.Server.ShutdownTimeout, logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&templatesDir, "templates", "", "directory of templates layered over the embedded ones")
	serveCmd.Flags().BoolVar(&reloadTemplates, "reload", false, "re-read templates on every request (with --templates)")
}

// buildHandler wires views, flash cookies, the API document and the contacts
// component behind the access log middleware.
func buildHandler(ctx context.Context, c config.Config, st store.Store, log *zap.Logger) (http.Handler, error) {
	viewOpts := []views.Option{views.WithTheme(views.DefaultThemeName, c.Theme.Variant)}
	if templatesDir != "" {
		viewOpts = append(viewOpts, views.WithTemplatesDir(templatesDir, reloadTemplates))
	}
	v, err := views.New(viewOpts...)
	if err != nil {
		return nil, err
	}

	secret := []byte(c.Flash.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("flash secret: %w", err)
		}
		log.Warn("no flash secret configured, using a random one; flash cookies will not survive a restart",
			zap.String("env", config.EnvFlashSecret))
	}
	f, err := flash.New(secret, flash.WithTTL(c.Flash.TTL))
	if err != nil {
		return nil, err
	}

	spec, err := apispec.New(ctx)
	if err != nil {
		return nil, err
	}

	h, err := contacts.New(
		contacts.WithStore(st),
		contacts.WithViews(v),
		contacts.WithFlash(f),
		contacts.WithSpec(spec),
		contacts.WithStatic(assets.StaticFS()),
		contacts.WithLogger(log),
	).Handler()
	if err != nil {
		return nil, err
	}
	return logging.Middleware(log, h), nil
}

func newServer(c config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              c.Addr,
		Handler:           handler,
		ReadHeaderTimeout: c.ReadHeaderTimeout,
	}
}

// runServer serves on ln until ctx is done, then shuts down within grace.
func runServer(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", zap.Duration("grace", grace))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
