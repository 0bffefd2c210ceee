// Package pokeapi is the read-only client for the public PokeAPI. Every
// method normalizes the upstream payload into pkg/pokemon types.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/pokedex/pkg/pokemon"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// DefaultPageSize is the list page size used by every surface.
const DefaultPageSize = 20

// ErrNotFound matches status errors for 404 responses.
var ErrNotFound = errors.New("pokeapi: resource not found")

// StatusError is returned when upstream answers with a non-success status.
// Message names the resource that was requested.
type StatusError struct {
	Resource   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the API over a shared http.Client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     log.Interface
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (tests, mirrors).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the request timeout on the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l log.Interface) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client with sane transport defaults.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: "pokedex-cli/1.0",
		logger:    log.Log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client is bound to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListPage fetches one page of the unfiltered list and resolves every result
// to a summary. Any failing detail fetch fails the whole page.
func (c *Client) ListPage(ctx context.Context, page, limit int) (*pokemon.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	endpoint := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", c.baseURL, limit, pokemon.Offset(page, limit))

	var list listResponse
	if err := c.getJSON(ctx, endpoint, "pokemon list", "failed to fetch Pokemon list", &list); err != nil {
		return nil, err
	}

	summaries, err := c.summaries(ctx, list.Results)
	if err != nil {
		return nil, err
	}
	return &pokemon.Page{
		Pokemon:    summaries,
		Page:       page,
		TotalPages: pokemon.TotalPages(list.Count, limit),
		TotalCount: list.Count,
	}, nil
}

// Detail fetches a single entry by id or name.
func (c *Client) Detail(ctx context.Context, id string) (*pokemon.Detail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("pokeapi: id is required")
	}
	endpoint := fmt.Sprintf("%s/pokemon/%s", c.baseURL, url.PathEscape(strings.ToLower(id)))

	var d detailResponse
	if err := c.getJSON(ctx, endpoint, "pokemon "+id, "failed to fetch Pokemon with id: "+id, &d); err != nil {
		return nil, err
	}
	return d.detail(), nil
}

// Search looks an entry up by exact name.
func (c *Client) Search(ctx context.Context, name string) (*pokemon.Summary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("pokeapi: name is required")
	}
	endpoint := fmt.Sprintf("%s/pokemon/%s", c.baseURL, url.PathEscape(strings.ToLower(name)))

	var d detailResponse
	if err := c.getJSON(ctx, endpoint, "pokemon "+name, fmt.Sprintf("Pokemon %q not found", name), &d); err != nil {
		return nil, err
	}
	s := d.summary("", fmt.Sprintf("%s/pokemon/%d", c.baseURL, d.ID))
	return &s, nil
}

// Type fetches a type with its damage relations and member list.
func (c *Client) Type(ctx context.Context, name string) (*pokemon.TypeDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("pokeapi: type name is required")
	}
	endpoint := fmt.Sprintf("%s/type/%s", c.baseURL, url.PathEscape(strings.ToLower(name)))

	var t typeResponse
	if err := c.getJSON(ctx, endpoint, "type "+name, "failed to fetch type: "+name, &t); err != nil {
		return nil, err
	}
	return t.detail(), nil
}

// TypePage fetches the type and slices its member list client-side; upstream
// has no pagination for type members.
func (c *Client) TypePage(ctx context.Context, name string, page, limit int) (*pokemon.Page, error) {
	td, err := c.Type(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.TypePageFrom(ctx, td, page, limit)
}

// TypePageFrom slices an already fetched member list and resolves the slice
// to summaries.
func (c *Client) TypePageFrom(ctx context.Context, td *pokemon.TypeDetail, page, limit int) (*pokemon.Page, error) {
	if td == nil {
		return nil, errors.New("pokeapi: type detail is required")
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	slice := pokemon.SlicePage(td.Members, page, limit)
	refs := make([]namedResource, len(slice))
	for i, m := range slice {
		refs[i] = namedResource(m)
	}
	summaries, err := c.summaries(ctx, refs)
	if err != nil {
		return nil, err
	}
	total := len(td.Members)
	return &pokemon.Page{
		Pokemon:    summaries,
		Page:       page,
		TotalPages: pokemon.TotalPages(total, limit),
		TotalCount: total,
	}, nil
}

// Move fetches a move by id or name.
func (c *Client) Move(ctx context.Context, id string) (*pokemon.Move, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("pokeapi: move id is required")
	}
	endpoint := fmt.Sprintf("%s/move/%s", c.baseURL, url.PathEscape(strings.ToLower(id)))

	var m moveResponse
	if err := c.getJSON(ctx, endpoint, "move "+id, "failed to fetch move: "+id, &m); err != nil {
		return nil, err
	}
	return m.move(), nil
}

// MoveID extracts the id segment from a move URL such as
// https://pokeapi.co/api/v2/move/15/.
func MoveID(moveURL string) string {
	parts := strings.Split(moveURL, "/")
	if len(parts) < 2 {
		return moveURL
	}
	if last := parts[len(parts)-1]; last != "" {
		return last
	}
	return parts[len(parts)-2]
}

// summaries fans out one detail request per reference and waits for all of
// them. Order follows refs.
func (c *Client) summaries(ctx context.Context, refs []namedResource) ([]pokemon.Summary, error) {
	out := make([]pokemon.Summary, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			var d detailResponse
			if err := c.getJSON(gctx, ref.URL, "pokemon "+ref.Name, "failed to fetch details for "+ref.Name, &d); err != nil {
				return err
			}
			out[i] = d.summary(ref.Name, ref.URL)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, resource, failure string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", failure, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", failure, err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(log.Fields{
		"resource": resource,
		"status":   resp.StatusCode,
		"elapsed":  time.Since(started).String(),
	}).Debug("pokeapi request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Resource: resource, StatusCode: resp.StatusCode, Message: failure}
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("%s: decoding error: %w", failure, err)
	}
	return nil
}
