package source

import (
	"fmt"
	"log/slog"

	"github.com/pixfeed/imgsource/config"
	"github.com/pixfeed/imgsource/delegate"
	"github.com/pixfeed/imgsource/interfaces"
)

// Factory builds per-request Source instances over the shared store and
// delegate client. The lookup strategy selector is checked before any storage
// call: an unrecognized or unset value fails with ErrInvalidConfiguration.
type Factory struct {
	strategy string
	bucket   string
	store    interfaces.ObjectStore
	delegate interfaces.DelegateClient
	log      *slog.Logger
}

// NewFactory creates a source factory. The delegate client may be nil when
// delegate lookups are not configured; delegate-strategy resolutions then
// fail as unavailable.
func NewFactory(cfg *config.Config, store interfaces.ObjectStore, delegateClient interfaces.DelegateClient, log *slog.Logger) *Factory {
	if delegateClient == nil {
		delegateClient = delegate.Disabled{}
	}
	return &Factory{
		strategy: cfg.Lookup.Strategy,
		bucket:   cfg.Store.Bucket,
		store:    store,
		delegate: delegateClient,
		log:      log,
	}
}

// SourceFor creates a Source for one identifier. The request context carries
// ambient request attributes for the delegate's use.
func (f *Factory) SourceFor(id interfaces.Identifier, requestContext map[string]string) (*Source, error) {
	resolver, err := f.resolverFor()
	if err != nil {
		return nil, err
	}

	return &Source{
		id:             id,
		requestContext: requestContext,
		resolver:       resolver,
		store:          f.store,
		log:            f.log,
	}, nil
}

func (f *Factory) resolverFor() (interfaces.KeyResolver, error) {
	switch f.strategy {
	case config.StrategyDirect:
		return DirectResolver{Bucket: f.bucket}, nil
	case config.StrategyDelegate:
		return DelegateResolver{Bucket: f.bucket, Client: f.delegate, Log: f.log}, nil
	case "":
		return nil, fmt.Errorf("%w: lookup strategy is not set", interfaces.ErrInvalidConfiguration)
	default:
		return nil, fmt.Errorf("%w: unrecognized lookup strategy %q", interfaces.ErrInvalidConfiguration, f.strategy)
	}
}
