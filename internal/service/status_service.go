package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/repository"
)

// statusService is the concrete implementation of StatusService
type statusService struct {
	stores *repository.Stores
	log    zerolog.Logger
}

func newStatusService(stores *repository.Stores, log zerolog.Logger) *statusService {
	return &statusService{
		stores: stores,
		log:    log.With().Str("service", "status").Logger(),
	}
}

// Health pings each store independently; one failing store does not hide the other.
func (s *statusService) Health(ctx context.Context) *models.HealthReport {
	report := &models.HealthReport{
		Status: "healthy",
		Stores: make(map[models.StoreName]string, 2),
	}
	for _, store := range []repository.Store{s.stores.A, s.stores.B} {
		if err := store.Ping(ctx); err != nil {
			s.log.Error().Err(err).Str("store", string(store.Name())).Msg("Store health check failed")
			report.Status = "unhealthy"
			report.Stores[store.Name()] = "unreachable"
			continue
		}
		report.Stores[store.Name()] = "ok"
	}
	return report
}

// Metrics counts the rows of every entity concurrently
func (s *statusService) Metrics(ctx context.Context) (*models.Metrics, error) {
	var m models.Metrics

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range []struct {
		dst   *int
		count func(context.Context) (int, error)
	}{
		{&m.Users, s.stores.A.Users().Count},
		{&m.Posts, s.stores.A.Posts().Count},
		{&m.Comments, s.stores.B.Comments().Count},
		{&m.Tags, s.stores.B.Tags().Count},
		{&m.PostTags, s.stores.B.PostTags().Count},
	} {
		c := c
		g.Go(func() error {
			n, err := c.count(gctx)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &m, nil
}
