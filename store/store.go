// Package store persists generation artifacts under a dataset root.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Client interface {
	SaveBytes(relPath string, data []byte) error
}

type diskClient struct {
	root            string
	backoffDuration time.Duration
}

// New returns a client that writes below root, retrying transient filesystem
// errors with a constant backoff.
func New(root string, backoffDuration time.Duration) Client {
	return &diskClient{root: root, backoffDuration: backoffDuration}
}

func (s *diskClient) SaveBytes(relPath string, data []byte) error {
	path := filepath.Join(s.root, relPath)

	err := backoff.Retry(func() error {
		return os.WriteFile(path, data, 0o644)
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(s.backoffDuration), 4))
	if err != nil {
		return fmt.Errorf("failed to write %s: %v", relPath, err)
	}

	return nil
}
