package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tesso57/newsreel/internal/domain/news"
	"github.com/tesso57/newsreel/internal/domain/subscription"
	"golang.org/x/time/rate"
)

// ErrNoArticles is returned when a run has nothing left to publish.
var ErrNoArticles = errors.New("no articles survived the pipeline")

// CardRenderer renders one post as an HTML card.
type CardRenderer interface {
	Render(post news.Post, generatedAt time.Time) (news.Card, error)
}

// Publisher delivers a finished digest somewhere (card files, feed, mail).
type Publisher interface {
	Name() string
	Publish(ctx context.Context, digest news.Digest) error
}

// PipelineOptions are the per-run knobs.
type PipelineOptions struct {
	Collect       CollectOptions
	MaxURLs       int
	MinViralScore int
	MaxPosts      int
}

// Pipeline runs collect, extract, rewrite, select, render and publish.
type Pipeline struct {
	Topics       []subscription.Topic
	Options      PipelineOptions
	Collector    *Collector
	Extractor    ArticleExtractor
	ExtractPacer *rate.Limiter
	Rewriter     *Rewriter
	Renderer     CardRenderer
	Publishers   []Publisher
	Model        string
	NewRunID     func() string
	Now          func() time.Time
	Logger       *log.Logger
}

// Run performs one full pass. When nothing survives extraction or selection
// the partial digest is returned with ErrNoArticles. Publisher failures are
// joined into the returned error after every publisher has run.
func (p *Pipeline) Run(ctx context.Context) (news.Digest, error) {
	digest := news.Digest{
		RunID:       p.runID(),
		GeneratedAt: p.now().UTC(),
		Model:       p.Model,
	}
	logger := p.logger().With("run", digest.RunID)
	if p.Collector == nil || p.Extractor == nil || p.Rewriter == nil || p.Renderer == nil {
		return digest, errors.New("pipeline is not fully configured")
	}

	collector := *p.Collector
	collector.Logger = logger
	collected, err := collector.Collect(ctx, p.Topics, p.Options.Collect)
	if err != nil {
		return digest, fmt.Errorf("collect: %w", err)
	}
	digest.Items = collected.Items

	urls := UniqueURLs(collected.Items, p.Options.MaxURLs)
	logger.Info("extracting", "urls", len(urls))
	digest.Articles, err = ExtractAll(ctx, p.Extractor, urls, p.ExtractPacer, logger)
	if err != nil {
		return digest, fmt.Errorf("extract: %w", err)
	}
	if len(digest.Articles) == 0 {
		return digest, ErrNoArticles
	}

	rewriter := *p.Rewriter
	rewriter.Logger = logger
	posts, err := rewriter.RewriteAll(ctx, digest.Articles)
	if err != nil {
		return digest, fmt.Errorf("rewrite: %w", err)
	}
	digest.Posts = SelectViral(posts, p.Options.MinViralScore, p.Options.MaxPosts)
	logger.Info("selected posts", "rewritten", len(posts), "selected", len(digest.Posts), "min_score", p.Options.MinViralScore)
	if len(digest.Posts) == 0 {
		return digest, ErrNoArticles
	}

	for _, post := range digest.Posts {
		card, err := p.Renderer.Render(post, digest.GeneratedAt)
		if err != nil {
			logger.Warn("render failed", "title", post.Title, "err", err)
			continue
		}
		digest.Cards = append(digest.Cards, card)
	}

	var errs []error
	for _, pub := range p.Publishers {
		if err := pub.Publish(ctx, digest); err != nil {
			logger.Error("publish failed", "publisher", pub.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", pub.Name(), err))
			continue
		}
		logger.Info("published", "publisher", pub.Name())
	}
	return digest, errors.Join(errs...)
}

func (p *Pipeline) runID() string {
	if p.NewRunID != nil {
		return p.NewRunID()
	}
	return p.now().UTC().Format("20060102T150405Z")
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return discardLogger
}
