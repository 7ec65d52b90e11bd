// Package portfile picks the port the backend listens on and announces it
// to the editor front-end through a small JSON file.
package portfile

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/internal/logging"
	"github.com/mesh-intelligence/adjvalet/internal/store"
)

// DefaultName is the port file name the front-end looks for.
const DefaultName = ".adj-valet-port"

// frontendPublicDir is where the front-end's dev server serves static files
// from, relative to the backend's working directory.
var frontendPublicDir = filepath.Join("..", "adj-valet-front", "public")

// ErrNoPort is returned when every port in the tried range is taken.
var ErrNoPort = errors.New("no available port")

// Info is the content of the port file.
type Info struct {
	BackendPort uint16 `json:"backend_port"`
	BackendURL  string `json:"backend_url"`
	Timestamp   string `json:"timestamp"`
}

// NewInfo describes a backend listening on port at time now.
func NewInfo(port uint16, now time.Time) Info {
	return Info{
		BackendPort: port,
		BackendURL:  fmt.Sprintf("http://localhost:%d", port),
		Timestamp:   now.UTC().Format(time.RFC3339),
	}
}

// FindAvailablePort returns the first port in preferred..preferred+attempts
// that host can bind. The range is clipped at 65535.
func FindAvailablePort(host string, preferred uint16, attempts int) (uint16, error) {
	last := int(preferred) + attempts
	if last > 65535 {
		last = 65535
	}
	for p := int(preferred); p <= last; p++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(p)))
		if err != nil {
			continue
		}
		ln.Close()
		return uint16(p), nil
	}
	return 0, fmt.Errorf("%w in range %d-%d", ErrNoPort, preferred, last)
}

// Write writes the port file into dir. When the front-end's public
// directory exists next to dir, a copy is written there too; failing to
// write the copy is only logged.
func Write(st *store.Store, dir, name string, port uint16, now time.Time, log *zap.Logger) (Info, error) {
	log = logging.OrNop(log)
	if name == "" {
		name = DefaultName
	}
	info := NewInfo(port, now)

	path := filepath.Join(dir, name)
	if err := st.WriteJSON(path, info); err != nil {
		return info, fmt.Errorf("writing port file: %w", err)
	}
	log.Info("port information written", zap.String("path", path))

	public := filepath.Join(dir, frontendPublicDir)
	ok, err := st.IsDir(public)
	if err != nil || !ok {
		return info, nil
	}
	copyPath := filepath.Join(public, name)
	if err := st.WriteJSON(copyPath, info); err != nil {
		log.Info("could not write port file to front-end public directory", zap.Error(err))
		return info, nil
	}
	log.Info("port information written to front-end public directory", zap.String("path", copyPath))
	return info, nil
}
