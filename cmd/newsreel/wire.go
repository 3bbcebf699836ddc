package main

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tesso57/newsreel/internal/application/settings"
	"github.com/tesso57/newsreel/internal/application/usecase"
	"github.com/tesso57/newsreel/internal/infrastructure/ai"
	"github.com/tesso57/newsreel/internal/infrastructure/ai/chat"
	"github.com/tesso57/newsreel/internal/infrastructure/extract"
	"github.com/tesso57/newsreel/internal/infrastructure/feed"
	"github.com/tesso57/newsreel/internal/infrastructure/mailer"
	"github.com/tesso57/newsreel/internal/infrastructure/publish"
	"github.com/tesso57/newsreel/internal/infrastructure/render"
	"github.com/tesso57/newsreel/internal/infrastructure/resolver"
	"github.com/tesso57/newsreel/internal/infrastructure/web"
)

func collectOptions(s settings.Settings) usecase.CollectOptions {
	return usecase.CollectOptions{
		MaxPerTopic:              s.Collect.MaxPerTopic,
		Window:                   s.Window(),
		ResolveMissingTimestamps: s.Collect.ResolveMissingTimestamps,
	}
}

func newCollector(s settings.Settings, logger *log.Logger) *usecase.Collector {
	timeout := settings.Seconds(s.Collect.FeedTimeoutSeconds, feed.DefaultTimeout)
	pages := web.NewClient(timeout, s.Collect.UserAgent)
	return usecase.NewCollector(feed.NewFetcher(timeout), resolver.New(pages, logger), logger)
}

func newExtractor(s settings.Settings, logger *log.Logger) *extract.Extractor {
	pages := web.NewClient(settings.Seconds(s.Extract.TimeoutSeconds, web.DefaultTimeout), s.Collect.UserAgent)
	ex := extract.New(pages, logger)
	if s.Extract.MaxChars > 0 {
		ex.MaxChars = s.Extract.MaxChars
	}
	return ex
}

func newLLM(s settings.Settings, logger *log.Logger) (ai.Client, error) {
	if s.LLM.APIKey == "" {
		return nil, errors.New("llm api key is not set (llm.api_key, LLM_API_KEY or PERPLEXITY_API_KEY)")
	}
	return chat.New(chat.Options{
		Endpoint:    s.LLM.Endpoint,
		APIKey:      s.LLM.APIKey,
		Model:       s.LLM.Model,
		Temperature: s.LLM.Temperature,
		MaxTokens:   s.LLM.MaxTokens,
		Timeout:     settings.Seconds(s.LLM.TimeoutSeconds, time.Minute),
	}, logger), nil
}

func newPublishers(s settings.Settings, logger *log.Logger) []usecase.Publisher {
	pubs := []usecase.Publisher{render.CardWriter{Dir: s.Output.CardsDir}}
	if s.Output.AtomFeed != "" {
		pubs = append(pubs, publish.AtomWriter{
			Path: s.Output.AtomFeed,
			Info: publish.FeedInfo{Title: s.Output.Brand, Author: s.Output.Brand},
		})
	}
	mailCfg := mailer.Config{
		Host:     s.Mail.Host,
		Port:     s.Mail.Port,
		Username: s.Mail.Username,
		Password: s.Mail.Password,
		From:     s.Mail.From,
		To:       s.Mail.To,
		Subject:  s.Mail.Subject,
	}
	if mailCfg.Enabled() {
		pubs = append(pubs, mailer.New(mailCfg, logger))
	} else {
		logger.Debug("mail disabled: no host or recipients")
	}
	return pubs
}

func newPipeline(s settings.Settings, logger *log.Logger) (*usecase.Pipeline, error) {
	llm, err := newLLM(s, logger)
	if err != nil {
		return nil, err
	}
	return &usecase.Pipeline{
		Topics: s.TopicList(),
		Options: usecase.PipelineOptions{
			Collect:       collectOptions(s),
			MaxURLs:       s.Extract.MaxURLs,
			MinViralScore: s.LLM.MinViralScore,
			MaxPosts:      s.LLM.MaxPosts,
		},
		Collector:    newCollector(s, logger),
		Extractor:    newExtractor(s, logger),
		ExtractPacer: usecase.NewExtractPacer(),
		Rewriter:     usecase.NewRewriter(llm, llm.Model(), logger),
		Renderer:     render.New(s.Output.Brand, llm.Model()),
		Publishers:   newPublishers(s, logger),
		Model:        llm.Model(),
		NewRunID:     uuid.NewString,
		Now:          time.Now,
		Logger:       logger,
	}, nil
}
