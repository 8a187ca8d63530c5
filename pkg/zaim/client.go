package zaim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/gozaim/pkg/auth"
)

const DefaultBaseURL = "https://api.zaim.net"

const (
	pathVerify   = "/v2/home/user/verify"
	pathMoney    = "/v2/home/money"
	pathPayment  = pathMoney + "/payment"
	pathIncome   = pathMoney + "/income"
	pathTransfer = pathMoney + "/transfer"
	pathCategory = "/v2/home/category"
	pathGenre    = "/v2/home/genre"
	pathAccount  = "/v2/home/account"
	pathCurrency = "/v2/home/currency"
)

var ErrMissingCredentials = errors.New("zaim: missing credentials")

// APIError is returned for any non-2xx response. The body is kept verbatim.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zaim: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Response is the undecoded result of a mutating call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// EntryID returns the id of the entry a create or update call touched.
func (r *Response) EntryID() (int64, error) {
	var out struct {
		Money struct {
			ID int64 `json:"id"`
		} `json:"money"`
	}
	if err := r.Decode(&out); err != nil {
		return 0, err
	}
	return out.Money.ID, nil
}

// Client wraps the provider's REST API. Lookup tables are fetched once in New
// and never refreshed.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *log.Logger

	lookup     *Lookup
	genres     []Genre
	categories []Category
	accounts   []Account
}

type options struct {
	store   auth.Store
	baseURL string
	logger  *log.Logger
}

type Option func(*options)

// WithStore sets where missing credential fields are read from. The default
// is the process environment.
func WithStore(s auth.Store) Option {
	return func(o *options) { o.store = s }
}

func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New resolves credentials (explicit fields first, then the store), builds a
// signed HTTP client and loads genres, categories and accounts.
func New(ctx context.Context, creds auth.Credentials, opts ...Option) (*Client, error) {
	o := options{
		store:   auth.EnvStore{},
		baseURL: DefaultBaseURL,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	stored, err := o.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	creds = creds.Merge(stored)
	if creds.ConsumerKey == "" || creds.ConsumerSecret == "" || !creds.HasAccessToken() {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		http:    creds.HTTPClient(ctx),
		baseURL: strings.TrimRight(o.baseURL, "/"),
		logger:  o.logger,
	}
	if err := c.loadTables(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) loadTables(ctx context.Context) error {
	var genres struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.getJSON(ctx, pathGenre, nil, &genres); err != nil {
		return fmt.Errorf("failed to load genres: %w", err)
	}
	var categories struct {
		Categories []Category `json:"categories"`
	}
	if err := c.getJSON(ctx, pathCategory, nil, &categories); err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	var accounts struct {
		Accounts []Account `json:"accounts"`
	}
	if err := c.getJSON(ctx, pathAccount, nil, &accounts); err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	c.genres = genres.Genres
	c.categories = categories.Categories
	c.accounts = accounts.Accounts
	c.lookup = NewLookup(c.genres, c.categories, c.accounts)
	c.logger.Debug("lookup tables loaded", "genres", len(c.genres), "categories", len(c.categories), "accounts", len(c.accounts))
	return nil
}

func (c *Client) Lookup() *Lookup { return c.lookup }
func (c *Client) Genres() []Genre { return c.genres }
func (c *Client) Categories() []Category { return c.categories }
func (c *Client) Accounts() []Account { return c.accounts }

// Verify checks the credentials and returns the authenticated user.
func (c *Client) Verify(ctx context.Context) (*User, error) {
	var out struct {
		Me User `json:"me"`
	}
	if err := c.getJSON(ctx, pathVerify, nil, &out); err != nil {
		return nil, err
	}
	return &out.Me, nil
}

// GetData lists ledger entries. A nil filter lists with provider defaults.
func (c *Client) GetData(ctx context.Context, filter *Filter) ([]Money, error) {
	var out struct {
		Money []Money `json:"money"`
	}
	if err := c.getJSON(ctx, pathMoney, filter.Values(), &out); err != nil {
		return nil, err
	}
	return out.Money, nil
}

func (c *Client) Currencies(ctx context.Context) ([]Currency, error) {
	var out struct {
		Currencies []Currency `json:"currencies"`
	}
	if err := c.getJSON(ctx, pathCurrency, nil, &out); err != nil {
		return nil, err
	}
	return out.Currencies, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return resp.Decode(v)
}

func (c *Client) do(ctx context.Context, method, path string, query, form url.Values) (*Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.logger.Debug("api request", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: data}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
