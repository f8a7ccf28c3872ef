package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"compass/internal/config"
	"compass/internal/domain"
	"compass/internal/errs"
	"compass/internal/index"
	"compass/internal/kb"
	"compass/internal/profile"
)

// Resources is the shared, read-only handle produced by the one-time
// initialization: corpus, prepared embedder, index, profile table and the
// assembled engine.
type Resources struct {
	Documents []domain.ProductDocument
	Index     *index.Flat
	Profiles  *profile.Table
	Engine    *Engine
}

// Bootstrap performs process-wide initialization exactly once. Concurrent
// first callers block until the initializer finishes, then every caller
// reads the same cached Resources.
type Bootstrap struct {
	cfg       *config.AppConfig
	embedder  domain.Embedder
	generator domain.Generator

	once sync.Once
	res  *Resources
	err  error
}

// NewBootstrap creates a bootstrap around the given config and the embedder
// and generator assembled by the caller.
func NewBootstrap(cfg *config.AppConfig, embedder domain.Embedder, generator domain.Generator) *Bootstrap {
	return &Bootstrap{cfg: cfg, embedder: embedder, generator: generator}
}

// Resources returns the shared initialization result, running the
// initializer on first call.
func (b *Bootstrap) Resources(ctx context.Context) (*Resources, error) {
	b.once.Do(func() {
		b.res, b.err = b.initialize(ctx)
	})
	return b.res, b.err
}

func (b *Bootstrap) initialize(ctx context.Context) (*Resources, error) {
	docs, err := kb.Load(b.cfg.KnowledgeBase.Path, b.cfg.KnowledgeBase.Delimiter)
	if err != nil {
		return nil, err
	}
	if err := b.embedder.Prepare(kb.Texts(docs)); err != nil {
		return nil, errs.ModelLoad(err, "prepare embedder %q", b.embedder.Name())
	}

	idx, err := b.buildOrLoadIndex(ctx, docs)
	if err != nil {
		return nil, err
	}

	profiles, err := profile.Load(b.cfg.Profiles.Path)
	if err != nil {
		return nil, err
	}

	engine, err := NewEngine(profiles, b.embedder, idx, docs, b.generator, b.cfg.Retrieval.TopK)
	if err != nil {
		return nil, errs.Configuration(err, "assemble recommendation engine")
	}
	slog.Info("recommendation engine ready",
		"products", len(docs),
		"customers", profiles.Len(),
		"embedder", b.embedder.Name(),
		"top_k", b.cfg.Retrieval.TopK,
	)
	return &Resources{Documents: docs, Index: idx, Profiles: profiles, Engine: engine}, nil
}

// buildOrLoadIndex loads the persisted index artifact when present,
// otherwise embeds the corpus, builds a fresh index and persists it. The
// index and the corpus are positionally coupled: a loaded artifact whose
// vector count or dimensionality disagrees with the corpus is rejected
// instead of silently served.
func (b *Bootstrap) buildOrLoadIndex(ctx context.Context, docs []domain.ProductDocument) (*index.Flat, error) {
	path := b.cfg.Index.Path
	if _, err := os.Stat(path); err == nil {
		idx, err := index.ReadFile(path)
		if err != nil {
			return nil, errs.Configuration(err, "load index artifact %q", path)
		}
		if idx.Len() != len(docs) {
			return nil, errs.Configuration(nil,
				"index artifact %q holds %d vectors but corpus has %d documents; delete the artifact to rebuild",
				path, idx.Len(), len(docs))
		}
		if d := b.embedder.Dimensions(); d != 0 && d != idx.Dimensions() {
			return nil, errs.Configuration(nil,
				"index artifact %q has dimension %d but embedder %q produces %d; delete the artifact to rebuild",
				path, idx.Dimensions(), b.embedder.Name(), d)
		}
		slog.Info("loaded persisted index", "path", path, "vectors", idx.Len(), "dimensions", idx.Dimensions())
		return idx, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, errs.Configuration(err, "stat index artifact %q", path)
	}

	slog.Info("building index", "products", len(docs), "embedder", b.embedder.Name())
	vectors, err := b.embedder.Embed(ctx, kb.Texts(docs))
	if err != nil {
		return nil, errs.ModelLoad(err, "embed knowledge base")
	}
	idx, err := index.Build(vectors)
	if err != nil {
		return nil, errs.Configuration(err, "build index from corpus embeddings")
	}
	if err := idx.WriteFile(path); err != nil {
		return nil, errs.Configuration(err, "persist index artifact %q", path)
	}
	slog.Info("persisted index", "path", path, "vectors", idx.Len(), "dimensions", idx.Dimensions())
	return idx, nil
}
