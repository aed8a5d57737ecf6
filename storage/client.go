package storage

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3ClientConfig holds the connection settings consumed once at client
// construction time.
type S3ClientConfig struct {
	Region    string
	Endpoint  string // optional, for S3-compatible services
	AccessKey string
	SecretKey string
}

// S3ClientProvider builds the process-wide S3 client on first use. All source
// instances share the one client; construction is synchronized so concurrent
// first users converge on a single fully constructed client. There is no
// teardown or refresh path: changing credentials or region requires a process
// restart.
type S3ClientProvider struct {
	cfg S3ClientConfig
	log *slog.Logger

	once   sync.Once
	client *s3.S3
	err    error
}

// NewS3ClientProvider creates a provider. No connection is attempted until
// Client is first called.
func NewS3ClientProvider(cfg S3ClientConfig, log *slog.Logger) *S3ClientProvider {
	return &S3ClientProvider{cfg: cfg, log: log}
}

// Client returns the shared S3 client, constructing it on first call. A
// construction failure is sticky: every later call reports the same error.
func (p *S3ClientProvider) Client() (*s3.S3, error) {
	p.once.Do(func() {
		awsCfg := aws.Config{
			Region: aws.String(p.cfg.Region),
		}
		if p.cfg.Endpoint != "" {
			awsCfg.Endpoint = aws.String(p.cfg.Endpoint)
			awsCfg.S3ForcePathStyle = aws.Bool(true)
		}
		if p.cfg.AccessKey != "" && p.cfg.SecretKey != "" {
			awsCfg.Credentials = credentials.NewStaticCredentials(p.cfg.AccessKey, p.cfg.SecretKey, "")
		} else {
			p.log.Warn("No S3 credentials configured, relying on ambient credentials or public bucket access")
		}

		sess, err := session.NewSession(&awsCfg)
		if err != nil {
			p.err = fmt.Errorf("failed to create AWS session: %w", err)
			return
		}

		p.client = s3.New(sess)
		p.log.Debug("Constructed S3 client",
			slog.String("region", p.cfg.Region),
			slog.String("endpoint", p.cfg.Endpoint))
	})
	return p.client, p.err
}
