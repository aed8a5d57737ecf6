package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	shell "github.com/ipfs/go-ipfs-api"
	"github.com/pixfeed/imgsource/interfaces"
	"github.com/pixfeed/imgsource/media"
)

// IPFSStore implements read-only interfaces.ObjectStore over an IPFS API
// node. The object key is treated as an IPFS path (a CID, optionally followed
// by sub-path segments); the bucket portion of a location is ignored. IPFS
// supplies no media type metadata, so the content type is inferred from the
// key's extension when it has one.
type IPFSStore struct {
	shell *shell.Shell
	addr  string
	log   *slog.Logger
}

// NewIPFSStore creates an IPFS-backed object store connected to the API at
// addr (host:port).
func NewIPFSStore(addr string, log *slog.Logger) *IPFSStore {
	return &IPFSStore{
		shell: shell.NewShell(addr),
		addr:  addr,
		log:   log,
	}
}

// Fetch streams the object at loc.Key from IPFS.
func (s *IPFSStore) Fetch(ctx context.Context, loc interfaces.ObjectLocation) (*interfaces.ObjectHandle, error) {
	ipfsPath := "/ipfs/" + strings.TrimPrefix(loc.Key, "/")

	reader, err := s.shell.Cat(ipfsPath)
	if err != nil {
		if isIPFSNotFound(err) {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrObjectNotFound, loc.Key)
		}
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStorageIO, err)
	}

	s.log.Debug("Opened object from IPFS",
		slog.String("path", ipfsPath),
		slog.String("node", s.addr))

	return &interfaces.ObjectHandle{
		Body:          reader,
		ContentType:   media.Infer(loc.Key).MediaType(),
		ContentLength: -1,
	}, nil
}

// Name returns an identifier for logging.
func (s *IPFSStore) Name() string {
	return fmt.Sprintf("ipfs-%s", s.addr)
}

// isIPFSNotFound recognizes the node's missing-content error strings. The API
// reports these as plain text, so string matching is the only signal.
func isIPFSNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no link named") ||
		strings.Contains(msg, "invalid path") ||
		strings.Contains(msg, "not found")
}
