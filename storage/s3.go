package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pixfeed/imgsource/interfaces"
	"github.com/pixfeed/imgsource/metrics"
)

// S3Store implements interfaces.ObjectStore over Amazon S3 or a compatible
// service. The client is obtained lazily from the shared provider.
type S3Store struct {
	provider *S3ClientProvider
	log      *slog.Logger
}

// NewS3Store creates an S3-backed object store.
func NewS3Store(provider *S3ClientProvider, log *slog.Logger) *S3Store {
	return &S3Store{provider: provider, log: log}
}

// Fetch opens the object at loc. The returned handle's body is an open
// network stream; the caller must close it.
func (s *S3Store) Fetch(ctx context.Context, loc interfaces.ObjectLocation) (*interfaces.ObjectHandle, error) {
	start := time.Now()

	client, err := s.provider.Client()
	if err != nil {
		metrics.ObserveFetch(metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStorageIO, err)
	}

	s.log.Debug("Requesting object from S3",
		slog.String("bucket", loc.Bucket),
		slog.String("key", loc.Key))

	out, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		classified := classifyS3Error(err)
		metrics.ObserveFetch(outcomeFor(classified), time.Since(start))
		s.log.Debug("S3 fetch failed",
			slog.String("bucket", loc.Bucket),
			slog.String("key", loc.Key),
			"err", classified,
			slog.Duration("duration", time.Since(start)))
		return nil, classified
	}

	metrics.ObserveFetch(metrics.OutcomeOK, time.Since(start))

	length := int64(-1)
	if out.ContentLength != nil {
		length = *out.ContentLength
	}
	return &interfaces.ObjectHandle{
		Body:          out.Body,
		ContentType:   aws.StringValue(out.ContentType),
		ContentLength: length,
	}, nil
}

// Name returns an identifier for logging.
func (s *S3Store) Name() string {
	return "s3"
}

// classifyS3Error maps an AWS SDK error to the shared taxonomy. Only explicit
// missing-object signals become ErrObjectNotFound and only explicit permission
// signals become ErrAccessDenied; everything else is ErrStorageIO.
func classifyS3Error(err error) error {
	switch e := err.(type) {
	case awserr.RequestFailure:
		switch e.StatusCode() {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", interfaces.ErrObjectNotFound, e.Code())
		case http.StatusForbidden:
			return fmt.Errorf("%w: %s", interfaces.ErrAccessDenied, e.Code())
		}
	case awserr.Error:
		switch e.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket:
			return fmt.Errorf("%w: %s", interfaces.ErrObjectNotFound, e.Code())
		case "AccessDenied":
			return fmt.Errorf("%w: %s", interfaces.ErrAccessDenied, e.Code())
		}
	}
	return fmt.Errorf("%w: %v", interfaces.ErrStorageIO, err)
}

// outcomeFor maps a classified error to a metrics label.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, interfaces.ErrObjectNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, interfaces.ErrAccessDenied):
		return metrics.OutcomeDenied
	default:
		return metrics.OutcomeError
	}
}
