// Package fetch performs single-shot page retrieval with failure
// classification.
package fetch

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/crawl"
	"github.com/scrapework/harvester/internal/metrics"
	"github.com/scrapework/harvester/internal/pacing"
)

// Config holds the knobs the fetcher needs.
type Config struct {
	RequestTimeout time.Duration
	Concurrency    int
}

// CollyFetcher implements crawl.Fetcher using the Colly collector. Each call
// issues exactly one GET; retries belong to the runner.
type CollyFetcher struct {
	baseCollector *colly.Collector
	identity      crawl.Identity
	limiter       *pacing.Limiter
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher. The identity
// source supplies a fresh client identity per request; limiter may be nil.
func NewCollyFetcher(
	cfg Config,
	id crawl.Identity,
	limiter *pacing.Limiter,
	logger *zap.Logger,
) (*CollyFetcher, error) {
	base := colly.NewCollector(colly.Async(true))
	// Retried tasks re-fetch the same URL.
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		MaxConnsPerHost:       max(2, cfg.Concurrency*2),
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.RequestTimeout)

	if err := base.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: max(1, cfg.Concurrency),
	}); err != nil {
		return nil, err
	}

	return &CollyFetcher{
		baseCollector: base,
		identity:      id,
		limiter:       limiter,
		logger:        logger,
	}, nil
}

// Fetch retrieves a page via a cloned collector and returns either the page
// or a classified *Error.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (crawl.Page, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return crawl.Page{}, err
		}
	}

	collector := f.baseCollector.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	agent := f.identity.UserAgent()
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", agent)
	})

	collector.OnResponse(func(r *colly.Response) {
		page := crawl.Page{
			URL:        rawURL,
			FinalURL:   r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte{}, r.Body...),
		}
		send(fetchResult{page: page})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		send(fetchResult{err: Classify(rawURL, status, err)})
	})

	metrics.RequestsTotal.Inc()
	if err := collector.Visit(rawURL); err != nil {
		metrics.RequestErrorsTotal.Inc()
		return crawl.Page{}, Classify(rawURL, 0, err)
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return crawl.Page{}, err
		}
		if res.err != nil {
			metrics.RequestErrorsTotal.Inc()
			f.logger.Debug("fetch failed",
				zap.String("url", rawURL),
				zap.Error(res.err),
			)
			return crawl.Page{}, res.err
		}
		return res.page, nil
	default:
		return crawl.Page{}, Classify(rawURL, 0, errors.New("colly fetch produced no result"))
	}
}

type fetchResult struct {
	page crawl.Page
	err  error
}
