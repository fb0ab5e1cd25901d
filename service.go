package storesync

import (
	"context"

	"github.com/rs/zerolog"
)

// Service is the entry point consumed by the store form. It wires the
// resolver, reader and writer over one TableClient; there is no shared
// mutable state across requests.
type Service struct {
	client   TableClient
	resolver *Resolver
	reader   *Reader
	writer   *Writer
	logger   zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger used by the service and its components
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a Service over the given client.
func New(client TableClient, opts ...Option) *Service {
	s := &Service{
		client: client,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.resolver = NewResolver(client, s.logger)
	s.reader = NewReader(client, s.resolver, s.logger)
	s.writer = NewWriter(client, s.resolver, s.logger)
	return s
}

// ListStores returns the full projection of the Stores table with column
// names translated to the form's naming convention.
func (s *Service) ListStores(ctx context.Context) ([]StoreSummary, error) {
	rows, err := s.client.Find(ctx, TableStores, "")
	if err != nil {
		return nil, err
	}

	summaries := make([]StoreSummary, 0, len(rows))
	for _, row := range rows {
		store := StoreFromRow(row)
		summaries = append(summaries, StoreSummary{
			StoreName:   store.StoreName,
			CompanyName: store.CompanyName,
			TeamName:    store.TeamName,
			Interviewer: store.Interviewer,
		})
	}
	return summaries, nil
}

// GetStoreData returns the aggregate document for storeName. Failures
// propagate to the caller, which is expected to show a blocking error.
func (s *Service) GetStoreData(ctx context.Context, storeName string) (*AggregateDocument, error) {
	return s.reader.Read(ctx, storeName)
}

// SaveStoreData replaces the store's child record sets and updates the
// parent record. Failures are returned as a structured result, never raised.
func (s *Service) SaveStoreData(ctx context.Context, doc *AggregateDocument) WriteResult {
	return s.writer.Write(ctx, doc)
}
