// Package device resolves the per-installation identifier that scopes review
// ownership.
package device

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/ports"
)

// EnvDeviceID overrides the stored identifier.
const EnvDeviceID = "FOODSCAN_DEVICE_ID"

// FileProvider caches the identifier in memory and persists a generated one
// to disk so it survives restarts.
type FileProvider struct {
	override string
	path     string
	logger   ports.Logger

	mu     sync.Mutex
	cached string
}

// NewFileProvider builds a provider. override wins over everything else.
func NewFileProvider(override, path string, logger ports.Logger) *FileProvider {
	return &FileProvider{
		override: strings.TrimSpace(override),
		path:     path,
		logger:   logger,
	}
}

// DeviceID resolves in order: override, FOODSCAN_DEVICE_ID, the id file, a
// freshly generated id. Failing to persist the generated id is logged, the id
// is still returned and reused for the life of the process.
func (p *FileProvider) DeviceID(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached, nil
	}
	if p.override != "" {
		p.cached = p.override
		return p.cached, nil
	}
	if env := strings.TrimSpace(os.Getenv(EnvDeviceID)); env != "" {
		p.cached = env
		return p.cached, nil
	}

	stored, err := p.read()
	if err != nil {
		p.warn("device id unreadable, generating a new one", err)
	}
	if stored != "" {
		p.cached = stored
		return p.cached, nil
	}

	generated := "device-" + uuid.NewString()
	if err := p.write(generated); err != nil {
		p.warn("device id not persisted", err)
	}
	p.cached = generated
	return p.cached, nil
}

// Path returns the identifier file location.
func (p *FileProvider) Path() string {
	return p.path
}

func (p *FileProvider) read() (string, error) {
	if p.path == "" {
		return "", nil
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (p *FileProvider) write(id string) error {
	if p.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(p.path, []byte(id+"\n"), domain.SecureFilePermissions)
}

func (p *FileProvider) warn(msg string, err error) {
	if p.logger != nil {
		p.logger.Warn(msg, map[string]interface{}{"path": p.path, "error": err.Error()})
	}
}

var _ ports.DeviceIDProvider = (*FileProvider)(nil)
