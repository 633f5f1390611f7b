// Package catalog reads movie metadata from the remote catalog service.
// Every failure is logged and turned into an empty result.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"movie-reservation/internal/data/entity"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://movie.pequla.com/api"

// MovieQuery filters the movie listing. Zero values are omitted.
type MovieQuery struct {
	Search   string
	Actor    int64
	Genre    int64
	Director int64
	Runtime  int
}

func (q MovieQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Actor != 0 {
		v.Set("actor", strconv.FormatInt(q.Actor, 10))
	}
	if q.Genre != 0 {
		v.Set("genre", strconv.FormatInt(q.Genre, 10))
	}
	if q.Director != 0 {
		v.Set("director", strconv.FormatInt(q.Director, 10))
	}
	if q.Runtime != 0 {
		v.Set("runtime", strconv.Itoa(q.Runtime))
	}
	return v
}

type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	cache    Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit caps outbound requests per second. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func NewClient(baseURL string, log *zap.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log.With(zap.String("component", "catalog")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ==================== MOVIES ====================

func (c *Client) Movies(ctx context.Context, q MovieQuery) []*entity.Movie {
	var raw []rawMovie
	if !c.get(ctx, "/movie", q.values(), &raw) {
		return []*entity.Movie{}
	}
	movies := make([]*entity.Movie, 0, len(raw))
	for _, m := range raw {
		movies = append(movies, normalize(m))
	}
	return movies
}

// Movie returns nil when the movie cannot be fetched.
func (c *Client) Movie(ctx context.Context, id int64) *entity.Movie {
	var raw rawMovie
	if !c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), nil, &raw) {
		return nil
	}
	return normalize(raw)
}

func (c *Client) MovieByShortURL(ctx context.Context, shortURL string) *entity.Movie {
	var raw rawMovie
	if !c.get(ctx, "/movie/short/"+url.PathEscape(shortURL), nil, &raw) {
		return nil
	}
	return normalize(raw)
}

func (c *Client) Runtimes(ctx context.Context) []int {
	var runtimes []int
	if !c.get(ctx, "/movie/runtime", nil, &runtimes) {
		return []int{}
	}
	return runtimes
}

// ==================== REFERENCE DATA ====================

func (c *Client) refs(ctx context.Context, path, search string) []ref {
	var v url.Values
	if search != "" {
		v = url.Values{"search": {search}}
	}
	var raw []ref
	if !c.get(ctx, path, v, &raw) {
		return nil
	}
	return raw
}

func (c *Client) Genres(ctx context.Context, search string) []entity.Genre {
	raw := c.refs(ctx, "/genre", search)
	out := make([]entity.Genre, 0, len(raw))
	for _, r := range raw {
		out = append(out, entity.Genre{ID: r.id(), Name: r.Name})
	}
	return out
}

func (c *Client) Actors(ctx context.Context, search string) []entity.Actor {
	raw := c.refs(ctx, "/actor", search)
	out := make([]entity.Actor, 0, len(raw))
	for _, r := range raw {
		out = append(out, entity.Actor{ID: r.id(), Name: r.Name})
	}
	return out
}

func (c *Client) Directors(ctx context.Context, search string) []entity.Director {
	raw := c.refs(ctx, "/director", search)
	out := make([]entity.Director, 0, len(raw))
	for _, r := range raw {
		out = append(out, entity.Director{ID: r.id(), Name: r.Name})
	}
	return out
}

// ==================== TRANSPORT ====================

// get decodes the response at path into dst and reports success.
func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) bool {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	body, err := c.fetch(ctx, target)
	if err != nil {
		c.log.Warn("Catalog request failed", zap.String("url", target), zap.Error(err))
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		c.log.Warn("Catalog response malformed", zap.String("url", target), zap.Error(err))
		return false
	}
	return true
}

func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	if c.cache != nil {
		if b, ok, err := c.cache.Get(ctx, target); err != nil {
			c.log.Debug("Catalog cache read failed", zap.Error(err))
		} else if ok {
			return b, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, target, body, c.cacheTTL); err != nil {
			c.log.Debug("Catalog cache write failed", zap.Error(err))
		}
	}
	return body, nil
}
