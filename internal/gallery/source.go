package gallery

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nikbrunner/gallery/internal/api"
	"github.com/nikbrunner/gallery/internal/cache"
	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/state"
	"github.com/nikbrunner/gallery/internal/storage"
)

// Queries is the part of the query cache the remote source uses.
// *cache.Queries implements it.
type Queries interface {
	FetchPaintings(ctx context.Context, key cache.Key, fn func(context.Context) ([]model.Painting, error)) ([]model.Painting, error)
	Invalidate(ctx context.Context, prefix cache.Key) error
}

// PaintingsAPI is the part of the backend client the remote source uses.
// *api.Client implements it.
type PaintingsAPI interface {
	FetchAll(ctx context.Context, p api.ListParams) ([]model.Painting, error)
	CreatePainting(ctx context.Context, data api.CreatePaintingData) (model.Painting, error)
	DeletePainting(ctx context.Context, id string) error
}

// Remote reads paintings from the backend through the query cache and
// invalidates the painting queries after every mutation.
type Remote struct {
	API     PaintingsAPI
	Queries Queries
	Params  api.ListParams
	// Users, when set, adopts the uploader of a created painting as the
	// signed-in member.
	Users  *state.Store
	Logger *log.Logger
}

func (r *Remote) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

// Paintings returns every painting matching r.Params.
func (r *Remote) Paintings(ctx context.Context) ([]model.Painting, error) {
	return r.PaintingsFetched(ctx, nil)
}

// PaintingsFetched is Paintings, calling fetched with the result only when
// it came from the backend rather than the query cache.
func (r *Remote) PaintingsFetched(ctx context.Context, fetched func([]model.Painting)) ([]model.Painting, error) {
	params := r.Params
	params.Page = 0
	key := cache.PaintingsList(params.Encode())
	return r.Queries.FetchPaintings(ctx, key, func(ctx context.Context) ([]model.Painting, error) {
		r.logger().Debug("fetching paintings", "key", key.String())
		paintings, err := r.API.FetchAll(ctx, params)
		if err == nil && fetched != nil {
			fetched(paintings)
		}
		return paintings, err
	})
}

// Create uploads a painting record and returns the stored version.
func (r *Remote) Create(ctx context.Context, data api.CreatePaintingData) (model.Painting, error) {
	p, err := r.API.CreatePainting(ctx, data)
	if err != nil {
		return model.Painting{}, fmt.Errorf("create painting: %w", err)
	}
	r.invalidate(ctx)

	if r.Users != nil && p.User != nil {
		live := &state.User{ID: p.User.ID, Name: p.User.Name, Image: p.User.Image}
		if _, _, err := r.Users.Merge(live); err != nil {
			r.logger().Warn("could not persist member", "err", err)
		}
	}
	return p, nil
}

// Delete removes a painting on the backend.
func (r *Remote) Delete(ctx context.Context, id string) error {
	if err := r.API.DeletePainting(ctx, id); err != nil {
		return fmt.Errorf("delete painting %s: %w", id, err)
	}
	r.invalidate(ctx)
	return nil
}

func (r *Remote) invalidate(ctx context.Context) {
	if err := r.Queries.Invalidate(ctx, cache.PaintingsAll); err != nil {
		r.logger().Warn("cache invalidation failed", "err", err)
	}
}

// Local reads paintings from the on-disk catalog.
type Local struct {
	Storage storage.Storage
}

// Paintings returns the catalog contents in stored order.
func (l Local) Paintings(context.Context) ([]model.Painting, error) {
	catalog, err := l.Storage.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog.Paintings, nil
}

// fetchReporter is a Source that can tell a backend fetch from a cache hit.
type fetchReporter interface {
	PaintingsFetched(ctx context.Context, fetched func([]model.Painting)) ([]model.Painting, error)
}

// Synced prefers Remote and mirrors every backend fetch into Storage.
// Results served from the query cache are not written again. When Remote fails the stored catalog is served instead, unless it is
// empty, in which case the remote error is returned.
type Synced struct {
	Remote  Source
	Storage storage.Storage
	Logger  *log.Logger
}

// Paintings implements Source.
func (s Synced) Paintings(ctx context.Context) ([]model.Painting, error) {
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	mirror := func(paintings []model.Painting) {
		catalog := model.NewCatalog()
		catalog.Replace(paintings)
		if err := s.Storage.Save(catalog); err != nil {
			logger.Warn("could not mirror catalog", "err", err)
		}
	}

	var (
		paintings []model.Painting
		err       error
	)
	if r, ok := s.Remote.(fetchReporter); ok {
		paintings, err = r.PaintingsFetched(ctx, mirror)
	} else if paintings, err = s.Remote.Paintings(ctx); err == nil {
		mirror(paintings)
	}
	if err == nil {
		return paintings, nil
	}

	if ctx.Err() != nil {
		return nil, err
	}
	local, localErr := Local{Storage: s.Storage}.Paintings(ctx)
	if localErr != nil || len(local) == 0 {
		return nil, err
	}
	logger.Warn("backend unavailable, showing local catalog", "err", err, "count", len(local))
	return local, nil
}
