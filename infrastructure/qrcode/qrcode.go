package qrcode

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"
)

// ErrEncoderUnavailable marks failures caused by the QR encoder itself
// being unusable, as opposed to a bad payload or an I/O error.
var ErrEncoderUnavailable = errors.New("qr encoder unavailable")

// Renderer encodes payloads into PNG QR codes
type Renderer interface {
	Render(payload string) ([]byte, error)
	SaveToFile(payload, dir, filename string) (string, error)
}

// Options controls the generated image.
type Options struct {
	Level         qrcode.RecoveryLevel
	ModuleSize    int
	DisableBorder bool
	Foreground    color.Color
	Background    color.Color
}

// DefaultOptions returns medium recovery, 10px modules, the standard
// 4-module quiet zone and black on white.
func DefaultOptions() Options {
	return Options{
		Level:      qrcode.Medium,
		ModuleSize: 10,
		Foreground: color.Black,
		Background: color.White,
	}
}

// Generator handles QR code generation
type Generator struct {
	opts Options
}

// NewGenerator validates opts and checks the encoder works. Any failure
// wraps ErrEncoderUnavailable.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.ModuleSize <= 0 {
		return nil, fmt.Errorf("%w: module size must be positive, got %d", ErrEncoderUnavailable, opts.ModuleSize)
	}
	if opts.Foreground == nil || opts.Background == nil {
		return nil, fmt.Errorf("%w: colors must be set", ErrEncoderUnavailable)
	}

	g := &Generator{opts: opts}
	if _, err := g.encode("probe"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}
	return g, nil
}

func (g *Generator) encode(payload string) (*qrcode.QRCode, error) {
	q, err := qrcode.New(payload, g.opts.Level)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = g.opts.DisableBorder
	q.ForegroundColor = g.opts.Foreground
	q.BackgroundColor = g.opts.Background
	return q, nil
}

// Render generates the QR code for payload as PNG bytes
func (g *Generator) Render(payload string) ([]byte, error) {
	q, err := g.encode(payload)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	// negative size means fixed pixels per module, version picked by content
	png, err := q.PNG(-g.opts.ModuleSize)
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	return png, nil
}

// SaveToFile renders payload into dir/filename and returns the absolute path
func (g *Generator) SaveToFile(payload, dir, filename string) (string, error) {
	png, err := g.Render(payload)
	if err != nil {
		return "", err
	}

	outPath, err := filepath.Abs(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, png, 0o644); err != nil {
		return "", fmt.Errorf("write png: %w", err)
	}
	return outPath, nil
}

type unavailable struct {
	err error
}

// Unavailable returns a Renderer that fails every call with err, which
// should wrap ErrEncoderUnavailable (NewGenerator's errors do).
func Unavailable(err error) Renderer {
	if !errors.Is(err, ErrEncoderUnavailable) {
		err = fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}
	return unavailable{err: err}
}

func (u unavailable) Render(string) ([]byte, error) {
	return nil, u.err
}

func (u unavailable) SaveToFile(string, string, string) (string, error) {
	return "", u.err
}
