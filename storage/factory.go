package storage

import (
	"fmt"
	"log/slog"

	"github.com/pixfeed/imgsource/config"
	"github.com/pixfeed/imgsource/interfaces"
)

// StoreFor builds the configured object store backend. An unrecognized
// backend selector is a configuration error; no connection is attempted here
// for the S3 backend, whose client is constructed lazily on first fetch.
func StoreFor(cfg config.StoreConfig, log *slog.Logger) (interfaces.ObjectStore, error) {
	switch cfg.Backend {
	case config.BackendS3:
		provider := NewS3ClientProvider(S3ClientConfig{
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		}, log)
		return NewS3Store(provider, log), nil
	case config.BackendFile:
		return NewFileStore(cfg.Root, log)
	case config.BackendIPFS:
		return NewIPFSStore(cfg.IPFSAddr, log), nil
	default:
		return nil, fmt.Errorf("%w: unsupported store backend %q", interfaces.ErrInvalidConfiguration, cfg.Backend)
	}
}
