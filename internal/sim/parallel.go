package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/neoshield/internal/dynamo"
)

// Ensemble propagates several initial states through the same system. Each
// member gets its own integrator from newIntegrator, because integrators keep
// scratch buffers.
type Ensemble struct {
	sys           dynamo.System
	newIntegrator func() dynamo.Integrator
	workers       int
}

func NewEnsemble(sys dynamo.System, newIntegrator func() dynamo.Integrator, workers int) *Ensemble {
	return &Ensemble{sys: sys, newIntegrator: newIntegrator, workers: workers}
}

func (e *Ensemble) Run(ctx context.Context, x0s []dynamo.State, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(x0s))

	g, ctx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}

	for i, x0 := range x0s {
		i, x0 := i, x0
		g.Go(func() error {
			s := New(e.sys, e.newIntegrator())
			res, err := s.Run(ctx, x0, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
