package db

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/prasetyowira/qrsite/constant"
	"github.com/prasetyowira/qrsite/domain/settings"
	appLogger "github.com/prasetyowira/qrsite/infrastructure/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// SQLiteBackend implements settings.Backend with one row per key
type SQLiteBackend struct {
	db *gorm.DB
}

// SettingModel is the GORM model for a single settings key. Value holds
// the JSON encoding of the setting.
type SettingModel struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName pins the table name
func (SettingModel) TableName() string {
	return "settings"
}

// GormLogger implements GORM's logger.Interface
type GormLogger struct{}

var _ gorm.ParamsFilter = (*GormLogger)(nil)

// LogMode implements the log.Interface method
func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return l
}

// Info logs info messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxInfo(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Warn logs warn messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxWarn(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Error logs error messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxError(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// ParamsFilter drops bound values before gorm renders SQL for Trace, so
// setting values such as admin_token never reach the logs.
func (l *GormLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	return sql, nil
}

// Trace logs SQL operations
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil {
		appLogger.CtxError(ctx, "SQL error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataElapsed: elapsed.String(),
				constant.DataRows:    rows,
				constant.DataSQL:     sql,
			},
		})
		return
	}

	appLogger.CtxDebug(ctx, "SQL query", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataElapsed: elapsed.String(),
			constant.DataRows:    rows,
			constant.DataSQL:     sql,
		},
	})
}

// NewSQLiteBackend opens (and migrates) the settings database at dbPath
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	ctx := context.Background()

	appLogger.CtxDebug(ctx, "Opening SQLite database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: &GormLogger{},
	})
	if err != nil {
		appLogger.CtxError(ctx, "Failed to open database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error:           appLogger.NewCustomError(constant.ErrCodeDBOpen, constant.ErrTypeDB, err),
			Data: map[string]interface{}{
				constant.DataPath: dbPath,
			},
		})
		return nil, err
	}

	if err := db.AutoMigrate(&SettingModel{}); err != nil {
		appLogger.CtxError(ctx, "Failed to migrate database schema", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error:           appLogger.NewCustomError(constant.ErrCodeDBMigrate, constant.ErrTypeDB, err),
		})
		return nil, err
	}

	appLogger.CtxInfo(ctx, "Database initialized successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	return &SQLiteBackend{db: db}, nil
}

// Read implements settings.Backend. An empty table means nothing has been
// stored yet. Rows whose value is not valid JSON are skipped.
func (r *SQLiteBackend) Read(ctx context.Context) (map[string]interface{}, bool, error) {
	var rows []SettingModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		appLogger.CtxError(ctx, "Failed to load settings rows", appLogger.LoggerInfo{
			ContextFunction: constant.CtxLoadSettings,
			Error:           appLogger.NewCustomError(constant.ErrCodeDBLoad, constant.ErrTypeDB, err),
		})
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	doc := make(map[string]interface{}, len(rows))
	for _, row := range rows {
		dec := json.NewDecoder(bytes.NewReader([]byte(row.Value)))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			appLogger.CtxWarn(ctx, "Skipping undecodable settings row", appLogger.LoggerInfo{
				ContextFunction: constant.CtxLoadSettings,
				Error:           appLogger.NewCustomError(constant.ErrCodeSettingsDecode, constant.ErrTypeValidation, err),
				Data: map[string]interface{}{
					constant.DataKeys: row.Key,
				},
			})
			continue
		}
		doc[row.Key] = v
	}

	return doc, true, nil
}

// Write implements settings.Backend by replacing every row in one transaction
func (r *SQLiteBackend) Write(ctx context.Context, s settings.Settings) error {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now()
	models := make([]SettingModel, 0, len(keys))
	for _, k := range keys {
		value, err := json.Marshal(s[k])
		if err != nil {
			return err
		}
		models = append(models, SettingModel{Key: k, Value: string(value), UpdatedAt: now})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&SettingModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.Create(&models).Error
	})
	if err != nil {
		appLogger.CtxError(ctx, "Failed to store settings rows", appLogger.LoggerInfo{
			ContextFunction: constant.CtxSaveSettings,
			Error:           appLogger.NewCustomError(constant.ErrCodeDBStore, constant.ErrTypeDB, err),
		})
		return err
	}

	return nil
}

// Close closes the database connection
func (r *SQLiteBackend) Close() error {
	ctx := context.Background()
	sqlDB, err := r.db.DB()
	if err != nil {
		appLogger.CtxError(ctx, "Failed to get database connection", appLogger.LoggerInfo{
			ContextFunction: constant.CtxClose,
			Error:           appLogger.NewCustomError(constant.ErrCodeDBClose, constant.ErrTypeDB, err),
		})
		return err
	}

	appLogger.CtxInfo(ctx, "Closing database connection", appLogger.LoggerInfo{
		ContextFunction: constant.CtxClose,
	})

	return sqlDB.Close()
}
