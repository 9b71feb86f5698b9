package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/prasetyowira/qrsite/api"
	"github.com/prasetyowira/qrsite/config"
	"github.com/prasetyowira/qrsite/constant"
	"github.com/prasetyowira/qrsite/domain/payload"
	"github.com/prasetyowira/qrsite/domain/qrsite"
	"github.com/prasetyowira/qrsite/domain/settings"
	"github.com/prasetyowira/qrsite/infrastructure/db"
	"github.com/prasetyowira/qrsite/infrastructure/jsonstore"
	appLogger "github.com/prasetyowira/qrsite/infrastructure/logger"
	"github.com/prasetyowira/qrsite/infrastructure/qrcode"
	"github.com/prasetyowira/qrsite/infrastructure/random"
)

// runIDBytes yields an 11 character run ID.
const runIDBytes = 8

func main() {
	// Load configuration from environment variables
	cfg := config.LoadConfig()

	appLogger.Initialize(cfg.IsProduction())
	defer appLogger.Close()

	appLogger.Info(constant.MsgApplicationStarting, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
		Data: map[string]interface{}{
			constant.DataHost:        cfg.Host,
			constant.DataPort:        cfg.Port,
			constant.DataBackend:     cfg.SettingsBackend,
			constant.DataConfigPath:  cfg.SettingsPath,
			constant.DataEnvironment: cfg.LogLevel,
		},
	})

	backend, closeBackend := openBackend(cfg)
	defer closeBackend()

	store := settings.NewStore(backend, cfg.AdminToken)

	var renderer qrcode.Renderer
	generator, err := qrcode.NewGenerator(qrcode.DefaultOptions())
	if err != nil {
		appLogger.Error(constant.MsgEncoderUnavailableLog, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error:           appLogger.NewCustomError(constant.ErrCodeEncoderUnavailable, constant.ErrTypeRender, err),
		})
		renderer = qrcode.Unavailable(err)
	} else {
		renderer = generator
	}

	builder := payload.NewBuilder(random.MustURLSafeToken(runIDBytes))
	service := qrsite.NewService(store, builder, renderer, qrcode.ResolveDesktopDir)

	ctx := context.Background()
	current, err := service.Settings(ctx)
	if err != nil {
		appLogger.Fatal(constant.MsgFailedToLoadSettings, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error:           appLogger.NewCustomError(constant.ErrCodeAppSettings, constant.ErrTypeApp, err),
			Data: map[string]interface{}{
				constant.DataConfigPath: cfg.SettingsPath,
			},
		})
	}

	printBanner(os.Stdout, cfg, service.RunID(), current.AdminToken(), service.SaveOnce(ctx, current))

	handler := api.NewHandler(service)
	router := api.NewRouter(handler)
	router.SetupRoutes()

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info(constant.MsgServerStarting, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Data: map[string]interface{}{
				constant.DataAddr: addr,
			},
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(constant.MsgServerFailedToStart, appLogger.LoggerInfo{
				ContextFunction: constant.CtxMain,
				Error:           appLogger.NewCustomError(constant.ErrCodeAppServerStart, constant.ErrTypeApp, err),
				Data: map[string]interface{}{
					constant.DataAddr: addr,
				},
			})
		}
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	appLogger.Info(constant.MsgServerShuttingDown, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(constant.MsgServerShutdownError, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error:           appLogger.NewCustomError(constant.ErrCodeAppServerShutdown, constant.ErrTypeApp, err),
		})
	}

	appLogger.Info(constant.MsgServerStopped, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})
}

// openBackend selects the settings backend; the returned func releases it.
func openBackend(cfg config.Config) (settings.Backend, func()) {
	if cfg.SettingsBackend != constant.BackendSQLite {
		return jsonstore.NewFileBackend(cfg.SettingsPath), func() {}
	}

	backend, err := db.NewSQLiteBackend(cfg.SettingsDBPath)
	if err != nil {
		appLogger.Fatal(constant.MsgFailedToInitStore, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error:           appLogger.NewCustomError(constant.ErrCodeAppStoreInit, constant.ErrTypeApp, err),
			Data: map[string]interface{}{
				constant.DataPath: cfg.SettingsDBPath,
			},
		})
	}
	return backend, func() { backend.Close() }
}

// printBanner tells the operator where to find the saved PNG and the admin page.
func printBanner(w io.Writer, cfg config.Config, runID, adminToken string, status qrsite.SaveStatus) {
	fmt.Fprintf(w, "RUN_ID: %s\n", runID)

	switch {
	case status.Saved():
		fmt.Fprintf(w, "QR PNG kaydedildi: %s\n", status.Path)
		fmt.Fprintf(w, "QR içeriği: %s\n", status.Payload)
	case status.Failed():
		fmt.Fprintf(w, "QR PNG kaydedilemedi: %s\n", status.Error)
	}

	adminURL := url.URL{
		Scheme:   "http",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     constant.RouteAdmin,
		RawQuery: url.Values{constant.AdminTokenQueryParam: []string{adminToken}}.Encode(),
	}
	fmt.Fprintf(w, "Admin: %s\n", adminURL.String())
}
