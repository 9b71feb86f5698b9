package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/prasetyowira/qrsite/constant"
	"github.com/prasetyowira/qrsite/infrastructure/logger"
	"github.com/prasetyowira/qrsite/infrastructure/random"
)

// adminTokenBytes yields a 24 character token.
const adminTokenBytes = 18

// Backend persists the raw settings document.
//
// Read returns exists=false when nothing has been stored yet. A stored
// document that is not a JSON object is reported as exists=true with a
// nil map so the Store treats it as empty.
type Backend interface {
	Read(ctx context.Context) (raw map[string]interface{}, exists bool, err error)
	Write(ctx context.Context, s Settings) error
}

// Store layers defaults, admin token handling and the ADMIN_TOKEN override
// on top of a Backend. Every Load goes to the backend.
type Store struct {
	backend       Backend
	tokenOverride string
	newToken      func() (string, error)
	mu            sync.Mutex
}

// NewStore creates a Store. A non-empty tokenOverride always replaces the
// stored admin token in loaded settings.
func NewStore(backend Backend, tokenOverride string) *Store {
	return &Store{
		backend:       backend,
		tokenOverride: tokenOverride,
		newToken: func() (string, error) {
			return random.URLSafeToken(adminTokenBytes)
		},
	}
}

// Load reads, merges and, when needed, persists the settings.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	raw, exists, err := s.backend.Read(ctx)
	if err != nil {
		logger.CtxError(ctx, constant.MsgFailedToLoadSettings, logger.LoggerInfo{
			ContextFunction: constant.CtxLoadSettings,
			Error:           logger.NewCustomError(constant.ErrCodeSettingsLoad, constant.ErrTypeStorage, err),
		})
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if !exists {
		cfg := Defaults()
		token, err := s.tokenOrGenerate()
		if err != nil {
			return nil, err
		}
		cfg[constant.KeyAdminToken] = token
		if err := s.Save(ctx, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	merged := Merge(raw)
	if s.tokenOverride != "" {
		merged[constant.KeyAdminToken] = s.tokenOverride
		return merged, nil
	}

	if merged.AdminToken() == "" {
		token, err := s.newToken()
		if err != nil {
			return nil, s.tokenError(ctx, err)
		}
		merged[constant.KeyAdminToken] = token
		logger.CtxInfo(ctx, constant.MsgAdminTokenGenerated, logger.LoggerInfo{
			ContextFunction: constant.CtxLoadSettings,
		})
		if err := s.Save(ctx, merged); err != nil {
			return nil, err
		}
	}

	return merged, nil
}

// Save overwrites the stored document with cfg in full.
func (s *Store) Save(ctx context.Context, cfg Settings) error {
	if err := s.backend.Write(ctx, cfg); err != nil {
		logger.CtxError(ctx, constant.MsgFailedToSaveSettings, logger.LoggerInfo{
			ContextFunction: constant.CtxSaveSettings,
			Error:           logger.NewCustomError(constant.ErrCodeSettingsSave, constant.ErrTypeStorage, err),
		})
		return fmt.Errorf("save settings: %w", err)
	}

	logger.CtxDebug(ctx, constant.MsgSettingsSaved, logger.LoggerInfo{
		ContextFunction: constant.CtxSaveSettings,
		Data: map[string]interface{}{
			constant.DataKeys: len(cfg),
		},
	})
	return nil
}

// Update runs load, fn and save while holding the store lock, so admin
// updates in this process do not interleave.
func (s *Store) Update(ctx context.Context, fn func(Settings)) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	fn(cfg)
	if err := s.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Store) tokenOrGenerate() (string, error) {
	if s.tokenOverride != "" {
		return s.tokenOverride, nil
	}
	token, err := s.newToken()
	if err != nil {
		return "", s.tokenError(context.Background(), err)
	}
	return token, nil
}

func (s *Store) tokenError(ctx context.Context, err error) error {
	logger.CtxError(ctx, "Failed to generate admin token", logger.LoggerInfo{
		ContextFunction: constant.CtxLoadSettings,
		Error:           logger.NewCustomError(constant.ErrCodeTokenGenerate, constant.ErrTypeDomain, err),
	})
	return fmt.Errorf("generate admin token: %w", err)
}
