package qrcode

import (
	"os"
	"path/filepath"
)

// DesktopDir returns the first existing desktop-like directory under home,
// or cwd/output when none exists.
func DesktopDir(home, cwd string) string {
	if home != "" {
		candidates := []string{
			filepath.Join(home, "OneDrive", "Masaüstü"),
			filepath.Join(home, "OneDrive", "Desktop"),
			filepath.Join(home, "Desktop"),
			filepath.Join(home, "Masaüstü"),
		}
		for _, p := range candidates {
			if info, err := os.Stat(p); err == nil && info.IsDir() {
				return p
			}
		}
	}
	return filepath.Join(cwd, "output")
}

// ResolveDesktopDir applies DesktopDir to the current user and process.
func ResolveDesktopDir() string {
	home, _ := os.UserHomeDir()
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return DesktopDir(home, cwd)
}
