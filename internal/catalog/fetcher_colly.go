package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements Fetcher using a Colly collector. Useful when the
// dataset sits behind a host that needs Colly's charset detection or retries.
type CollyFetcher struct {
	UserAgent      string
	MaxRetries     int
	RequestTimeout time.Duration
	MaxBodySize    int // bytes, 0 = unlimited
}

// NewCollyFetcher creates a CollyFetcher with sensible defaults.
func NewCollyFetcher() *CollyFetcher {
	return &CollyFetcher{
		UserAgent:      "scholarship-finder/1.0 (+dataset loader)",
		MaxRetries:     2,
		RequestTimeout: 30 * time.Second,
		MaxBodySize:    32 * 1024 * 1024,
	}
}

// buildCollector creates a configured Colly collector. Caching and URL
// de-duplication are left off so every Fetch goes to the network.
func (f *CollyFetcher) buildCollector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(f.UserAgent),
		colly.MaxBodySize(f.MaxBodySize),
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.RequestTimeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
		r.Headers.Set("Cache-Control", "no-cache, no-store")
		r.Headers.Set("Pragma", "no-cache")
	})

	return c
}

// Fetch visits source synchronously and returns the response body.
func (f *CollyFetcher) Fetch(ctx context.Context, source string) (*FetchedDocument, error) {
	c := f.buildCollector(ctx)

	var result *FetchedDocument
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result = &FetchedDocument{
			URL:         r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        io.NopCloser(bytes.NewReader(r.Body)),
			FetchedAt:   time.Now(),
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		retries, _ := r.Request.Ctx.GetAny("retries").(int)
		if retries < f.MaxRetries && ctx.Err() == nil {
			r.Request.Ctx.Put("retries", retries+1)
			log.Printf("[colly] retry %d/%d for %s: %v", retries+1, f.MaxRetries, r.Request.URL, err)
			time.Sleep(time.Duration(retries+1) * 500 * time.Millisecond)
			if retryErr := r.Request.Retry(); retryErr == nil {
				return
			}
		}
		fetchErr = fmt.Errorf("fetch failed after %d retries: %w", retries, err)
	})

	// Visit reports the first attempt's error even when a retry succeeded.
	visitErr := c.Visit(source)
	c.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if visitErr != nil {
		return nil, fmt.Errorf("visit failed: %w", visitErr)
	}
	return nil, fmt.Errorf("no response received for %s", source)
}
