// Package service bundles the client's long-running auxiliary servers
// so the entrypoint can start and stop them as one unit.
package service

import (
	"context"
	"errors"
	"fmt"
)

// Runnable is a background server with a non-blocking start and a
// context-bound stop.
type Runnable interface {
	Run()
	Shutdown(ctx context.Context) error
}

// Group starts and stops a set of runnables in the order they were
// added.
type Group struct {
	list []Runnable
}

func (g *Group) Add(services ...Runnable) { g.list = append(g.list, services...) }

func (g *Group) Start() {
	for _, s := range g.list {
		s.Run()
	}
}

// Shutdown stops every runnable and reports the failures joined into
// one error. A cancelled context is not counted as a failure.
func (g *Group) Shutdown(ctx context.Context) error {
	var errs []error
	for _, s := range g.list {
		if err := s.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, fmt.Errorf("stop %s: %w", s, err))
		}
	}
	return errors.Join(errs...)
}
