package qrsite

import (
	"context"
	"errors"

	"github.com/prasetyowira/qrsite/constant"
	"github.com/prasetyowira/qrsite/domain/payload"
	"github.com/prasetyowira/qrsite/domain/settings"
	"github.com/prasetyowira/qrsite/infrastructure/logger"
	"github.com/prasetyowira/qrsite/infrastructure/qrcode"
)

// SettingsStore defines the settings persistence the service needs
type SettingsStore interface {
	Load(ctx context.Context) (settings.Settings, error)
	Update(ctx context.Context, fn func(settings.Settings)) (settings.Settings, error)
}

// Service represents the domain service behind the QR site
type Service struct {
	store      SettingsStore
	builder    *payload.Builder
	renderer   qrcode.Renderer
	desktopDir func() string
	saved      *saveCell
}

// NewService creates a new QR site service. desktopDir is consulted only
// when the startup save runs.
func NewService(store SettingsStore, builder *payload.Builder, renderer qrcode.Renderer, desktopDir func() string) *Service {
	logger.Debug("Creating qrsite service", logger.LoggerInfo{
		ContextFunction: constant.CtxDomain,
		Data: map[string]interface{}{
			constant.DataService: "qrsite",
			constant.DataRunID:   builder.RunID(),
		},
	})

	return &Service{
		store:      store,
		builder:    builder,
		renderer:   renderer,
		desktopDir: desktopDir,
		saved:      newSaveCell(),
	}
}

// RunID returns the identifier of this process run
func (s *Service) RunID() string {
	return s.builder.RunID()
}

// Settings loads the current settings from the store
func (s *Service) Settings(ctx context.Context) (settings.Settings, error) {
	return s.store.Load(ctx)
}

// Payload computes the payload for a request rooted at baseURL
func (s *Service) Payload(ctx context.Context, cfg settings.Settings, baseURL string) string {
	p := s.builder.ForRequest(cfg, baseURL)

	logger.CtxDebug(ctx, constant.MsgPayloadBuilt, logger.LoggerInfo{
		ContextFunction: constant.CtxBuildPayload,
		Data: map[string]interface{}{
			constant.DataMode:    cfg.Mode(),
			constant.DataPayload: p,
		},
	})
	return p
}

// RenderQR loads settings and renders the request payload as a PNG
func (s *Service) RenderQR(ctx context.Context, baseURL string) ([]byte, string, error) {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		return nil, "", err
	}

	p := s.Payload(ctx, cfg, baseURL)
	png, err := s.renderer.Render(p)
	if err != nil {
		code := constant.ErrCodeRender
		if errors.Is(err, qrcode.ErrEncoderUnavailable) {
			code = constant.ErrCodeEncoderUnavailable
		}
		logger.CtxError(ctx, "Failed to render QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxRenderPNG,
			Error:           logger.NewCustomError(code, constant.ErrTypeRender, err),
			Data: map[string]interface{}{
				constant.DataPayload: p,
			},
		})
		return nil, p, err
	}

	logger.CtxDebug(ctx, constant.MsgQRRendered, logger.LoggerInfo{
		ContextFunction: constant.CtxRenderPNG,
		Data: map[string]interface{}{
			constant.DataPayload: p,
			constant.DataSize:    len(png),
		},
	})
	return png, p, nil
}

// SaveOnce writes the startup PNG the first time it is called in this
// process; later calls return the recorded outcome. Errors never escape,
// they are kept in the status.
func (s *Service) SaveOnce(ctx context.Context, cfg settings.Settings) SaveStatus {
	return s.saved.evaluate(func() SaveStatus {
		if !cfg.SaveToDesktop() {
			logger.CtxInfo(ctx, constant.MsgStartupSaveSkipped, logger.LoggerInfo{
				ContextFunction: constant.CtxSaveOnce,
			})
			return SaveStatus{State: constant.SaveStatusDisabled}
		}

		p := s.builder.ForStartup(cfg)
		dir := s.desktopDir()
		path, err := s.renderer.SaveToFile(p, dir, cfg.OutputFilename())
		if err != nil {
			code := constant.ErrCodeStartupSave
			if errors.Is(err, qrcode.ErrEncoderUnavailable) {
				code = constant.ErrCodeEncoderUnavailable
			}
			logger.CtxWarn(ctx, constant.MsgStartupSaveFailed, logger.LoggerInfo{
				ContextFunction: constant.CtxSaveOnce,
				Error:           logger.NewCustomError(code, constant.ErrTypeRender, err),
				Data: map[string]interface{}{
					constant.DataDir:      dir,
					constant.DataFilename: cfg.OutputFilename(),
				},
			})
			return SaveStatus{State: constant.SaveStatusFailed, Payload: p, Error: err.Error()}
		}

		logger.CtxInfo(ctx, constant.MsgStartupSaveDone, logger.LoggerInfo{
			ContextFunction: constant.CtxSaveOnce,
			Data: map[string]interface{}{
				constant.DataPath:    path,
				constant.DataPayload: p,
			},
		})
		return SaveStatus{State: constant.SaveStatusSaved, Path: path, Payload: p}
	})
}

// SaveStatus returns the startup save outcome, pending if not yet run
func (s *Service) SaveStatus() SaveStatus {
	return s.saved.get()
}

// UpdateFromAdmin applies the admin form to the stored settings and
// persists the full document
func (s *Service) UpdateFromAdmin(ctx context.Context, form settings.AdminForm) (settings.Settings, error) {
	cfg, err := s.store.Update(ctx, func(cfg settings.Settings) {
		cfg.ApplyAdminForm(form)
	})
	if err != nil {
		logger.CtxError(ctx, constant.MsgFailedToSaveSettings, logger.LoggerInfo{
			ContextFunction: constant.CtxUpdateSettings,
			Error:           logger.NewCustomError(constant.ErrCodeSettingsSave, constant.ErrTypeStorage, err),
		})
		return nil, err
	}

	logger.CtxInfo(ctx, constant.MsgAdminUpdated, logger.LoggerInfo{
		ContextFunction: constant.CtxUpdateSettings,
		Data: map[string]interface{}{
			constant.DataMode:   cfg.Mode(),
			constant.DataTarget: cfg.TargetURL(),
		},
	})
	return cfg, nil
}
