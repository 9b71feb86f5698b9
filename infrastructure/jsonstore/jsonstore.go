package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/prasetyowira/qrsite/constant"
	"github.com/prasetyowira/qrsite/domain/settings"
	appLogger "github.com/prasetyowira/qrsite/infrastructure/logger"
)

var errTrailingData = errors.New("trailing data after settings object")

// FileBackend stores settings as a single pretty-printed JSON object.
type FileBackend struct {
	path string
}

// NewFileBackend creates a FileBackend for path. The file is not touched
// until the first Read or Write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the settings file location.
func (b *FileBackend) Path() string {
	return b.path
}

// Read implements settings.Backend. Content that does not decode to a JSON
// object is reported as an existing, empty document.
func (b *FileBackend) Read(ctx context.Context) (map[string]interface{}, bool, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		appLogger.CtxError(ctx, "Failed to read settings file", appLogger.LoggerInfo{
			ContextFunction: constant.CtxJSONStore,
			Error:           appLogger.NewCustomError(constant.ErrCodeFileRead, constant.ErrTypeFile, err),
			Data: map[string]interface{}{
				constant.DataPath: b.path,
			},
		})
		return nil, false, fmt.Errorf("read %s: %w", b.path, err)
	}

	doc, err := decodeObject(data)
	if err != nil {
		appLogger.CtxWarn(ctx, constant.MsgMalformedSettings, appLogger.LoggerInfo{
			ContextFunction: constant.CtxJSONStore,
			Error:           appLogger.NewCustomError(constant.ErrCodeSettingsDecode, constant.ErrTypeValidation, err),
			Data: map[string]interface{}{
				constant.DataPath: b.path,
			},
		})
		return nil, true, nil
	}

	return doc, true, nil
}

// decodeObject decodes data as exactly one JSON object.
func decodeObject(data []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return doc, nil
}

// Write implements settings.Backend. The document is written to a sibling
// temp file and renamed over the target.
func (b *FileBackend) Write(ctx context.Context, s settings.Settings) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return b.writeError(ctx, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return b.writeError(ctx, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return b.writeError(ctx, err)
	}
	if err := tmp.Close(); err != nil {
		return b.writeError(ctx, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return b.writeError(ctx, err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return b.writeError(ctx, err)
	}

	appLogger.CtxDebug(ctx, constant.MsgSettingsSaved, appLogger.LoggerInfo{
		ContextFunction: constant.CtxJSONStore,
		Data: map[string]interface{}{
			constant.DataPath: b.path,
			constant.DataSize: len(data),
		},
	})
	return nil
}

func (b *FileBackend) writeError(ctx context.Context, err error) error {
	appLogger.CtxError(ctx, "Failed to write settings file", appLogger.LoggerInfo{
		ContextFunction: constant.CtxJSONStore,
		Error:           appLogger.NewCustomError(constant.ErrCodeFileWrite, constant.ErrTypeFile, err),
		Data: map[string]interface{}{
			constant.DataPath: b.path,
		},
	})
	return fmt.Errorf("write %s: %w", b.path, err)
}

// Encode renders s as 2-space indented UTF-8 JSON with sorted keys and a
// trailing newline.
func Encode(s settings.Settings) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]interface{}(s)); err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return buf.Bytes(), nil
}
