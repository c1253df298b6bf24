package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service loads the product file once per version and answers selection queries.
type Service struct {
	cfgMu sync.RWMutex
	cfg   Config

	cache *catalogCache
	group singleflight.Group
	loads atomic.Int64

	logger *zap.Logger
}

// NewService constructs a service for the given configuration.
func NewService(cfg Config, logger *zap.Logger) *Service {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:    cfg,
		cache:  newCatalogCache(),
		logger: logger.Named("catalog"),
	}
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig replaces the configuration and drops the cached catalog.
func (s *Service) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
	s.Invalidate()
}

// Invalidate forgets every cached catalog.
func (s *Service) Invalidate() {
	s.cache.clear()
}

// Catalog returns the catalog for the current version of the data file,
// loading it at most once per version.
func (s *Service) Catalog(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := s.Config()
	stamp, err := stampOf(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	if cat, ok := s.cache.get(stamp); ok {
		return cat, nil
	}
	v, err, _ := s.group.Do(stamp.key(), func() (any, error) {
		if cat, ok := s.cache.get(stamp); ok {
			return cat, nil
		}
		cat, err := Load(cfg.DataPath, cfg.LoadOptions())
		s.loads.Add(1)
		if err != nil {
			s.logger.Error("load failed", zap.String("path", cfg.DataPath), zap.Error(err))
			return nil, err
		}
		for _, w := range cat.Warnings {
			s.logger.Warn("boolean in text field", zap.String("path", cfg.DataPath), zap.String("detail", w))
		}
		s.logger.Info("catalog loaded",
			zap.String("path", cfg.DataPath),
			zap.Int("columns", len(cat.Columns)),
			zap.Int("categories", len(cat.Categories)),
			zap.Int("products", len(cat.Products)))
		s.cache.put(stamp, cat)
		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Catalog), nil
}

// Query filters the current catalog with the selection.
func (s *Service) Query(ctx context.Context, sel Selection) (Result, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return Result{}, err
	}
	unknown := sel.Unknown(cat.Categories)
	if len(unknown) > 0 {
		s.logger.Warn("unknown filter values", zap.Strings("keys", unknown))
	}
	products := Filter(cat.Products, sel)
	s.logger.Debug("query",
		zap.String("selection", sel.String()),
		zap.Int("matched", len(products)),
		zap.Int("total", len(cat.Products)))
	return Result{
		Selection: sel.Clone(),
		Products:  products,
		Total:     len(cat.Products),
		Unknown:   unknown,
	}, nil
}
