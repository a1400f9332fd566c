package store

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Store is a directory holding client-side state for one backend origin.
type Store struct {
	Dir string
}

// ConfigDir is the root that holds one directory per backend origin.
func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.casedesk).
	if v := strings.TrimSpace(os.Getenv("CASEDESK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".casedesk"), nil
}

// OriginDir scopes state to the backend origin, the way browser storage is scoped per origin.
func OriginDir(root, baseURL string) (string, error) {
	name, err := originName(baseURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "origins", name), nil
}

func originName(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", errors.New("base url has no host: " + baseURL)
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "http"
	}
	name := scheme + "_" + strings.ToLower(u.Host)
	return strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(name), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: missing dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}
