package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/reqshape/reqshape/internal/config"
	"github.com/reqshape/reqshape/internal/logx"
)

func Run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return Serve(cfg)
}

// Serve runs the HTTP service for cfg until the listener fails.
func Serve(cfg *config.Config) error {
	accessLogger, accessClose, accessColor, err := openAccessLogger(cfg)
	if err != nil {
		return fmt.Errorf("init access log: %w", err)
	}
	if accessClose != nil {
		defer func() { _ = accessClose.Close() }()
	}

	tables, err := config.BuildTables(cfg)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	st := newState(tables)

	reloadMu := &sync.Mutex{}
	installReloadSignalHandler(cfg, st, reloadMu)
	autoReloadClose, err := installTablesAutoReload(cfg, st, reloadMu)
	if err != nil {
		return fmt.Errorf("init tables auto reload: %w", err)
	}
	if autoReloadClose != nil {
		defer func() { _ = autoReloadClose.Close() }()
	}

	accessFormat, err := logx.ResolveAccessLogFormat(cfg.Logging.AccessLogFormat, cfg.Logging.AccessLogFormatPreset)
	if err != nil {
		return fmt.Errorf("resolve access log format: %w", err)
	}
	accessFormatter, err := logx.CompileAccessLogFormat(accessFormat)
	if err != nil {
		return fmt.Errorf("compile access_log_format: %w", err)
	}
	engine := NewRouter(cfg, st, accessLogger, accessColor, accessFormatter)

	srv := newHTTPServer(cfg, engine)
	log.Printf("reqshape listening on %s (h2c=%t)", cfg.Server.Listen, cfg.Server.H2C)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	readTimeout := time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond
	writeTimeout := time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond
	if cfg.Server.H2C {
		handler = h2c.NewHandler(handler, &http2.Server{IdleTimeout: readTimeout})
	}
	return &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}

func openAccessLogger(cfg *config.Config) (*log.Logger, io.Closer, bool, error) {
	if cfg == nil || !cfg.Logging.AccessLogEnabled() {
		return nil, nil, false, nil
	}

	path := strings.TrimSpace(cfg.Logging.AccessLogPath)
	if path == "" {
		return log.New(os.Stdout, "", 0), nil, logx.ColorEnabled(cfg.Logging.Color, os.Stdout), nil
	}

	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, false, err
		}
	}
	// #nosec G304 -- access_log_path comes from trusted config/env.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, false, err
	}
	return log.New(f, "", 0), f, logx.ColorEnabled(cfg.Logging.Color, f), nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

// installReloadSignalHandler rebuilds the tables on SIGHUP.
func installReloadSignalHandler(cfg *config.Config, st *state, mu *sync.Mutex) {
	if cfg == nil || st == nil || mu == nil {
		return
	}
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGHUP)
	go func() {
		for range ch {
			mu.Lock()
			err := reloadTablesRuntime(cfg, st)
			mu.Unlock()
			if err != nil {
				log.Printf("reload failed (signal): %v", err)
				continue
			}
			log.Printf("reload ok (signal): tables_file=%q", cfg.Params.TablesFile)
		}
	}()
}

// reloadTablesRuntime swaps in freshly built tables. On error the current
// tables stay active.
func reloadTablesRuntime(cfg *config.Config, st *state) error {
	if cfg == nil || st == nil {
		return errors.New("reload tables: nil cfg/state")
	}
	tables, err := config.BuildTables(cfg)
	if err != nil {
		return err
	}
	st.SetTables(tables)
	return nil
}
