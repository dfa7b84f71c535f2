// Package remote talks to the game's account and gacha-history endpoints.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/gachastat/internal/apperr"
	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/pkg/logger"
	"github.com/okian/gachastat/pkg/metrics"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// PageSize is the number of batches the history endpoint returns per page.
const PageSize = 10

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20
)

// Default endpoints of the official service.
const (
	DefaultTokenURL = "https://as.hypergryph.com/user/auth/v1/token_by_phone_password"
	DefaultGachaURL = "https://ak.hypergryph.com/user/api/inquiry/gacha"
)

// TokenSource exposes the current session token.
type TokenSource interface {
	CurrentToken() (string, bool)
}

// Fetcher retrieves one page of draw history.
type Fetcher interface {
	FetchPage(ctx context.Context, page int) (model.Page, error)
}

// Client implements Fetcher and the token exchange over HTTP.
type Client struct {
	gachaURL string
	tokenURL string
	tokens   TokenSource
	http     *http.Client
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   logger.Logger
}

var _ Fetcher = (*Client)(nil)

// New creates a client for the given endpoints.
func New(gachaURL, tokenURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		gachaURL: gachaURL,
		tokenURL: tokenURL,
		tokens:   tokens,
		http:     &http.Client{Timeout: defaultTimeout},
		logger:   logger.Get().Named("remote"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.http.Timeout != c.timeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

type pageResponse struct {
	Code int       `json:"code"`
	Data *pageData `json:"data"`
}

type pageData struct {
	List       []model.DrawBatch `json:"list"`
	Pagination *struct {
		Current int `json:"current"`
		Total   int `json:"total"`
	} `json:"pagination"`
}

// FetchPage requests page n (1-based) of the draw history.
func (c *Client) FetchPage(ctx context.Context, page int) (model.Page, error) {
	const op = "remote.fetch_page"

	token, ok := c.tokens.CurrentToken()
	if !ok {
		return model.Page{}, ErrNotAuthenticated
	}

	start := time.Now()
	p, err := c.fetchPage(ctx, op, token, page)
	metrics.RecordPageFetch(err == nil, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return model.Page{}, err
	}
	c.logger.Debug(ctx, "page fetched",
		logger.Int("page", page),
		logger.Int("batches", len(p.Batches)),
		logger.Int("total_pages", p.TotalPages))
	return p, nil
}

func (c *Client) fetchPage(ctx context.Context, op, token string, page int) (model.Page, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return model.Page{}, apperr.WrapKind(op, apperr.ErrNetwork, err)
		}
	}

	u, err := url.Parse(c.gachaURL)
	if err != nil {
		return model.Page{}, apperr.WrapKind(op, apperr.ErrNetwork, err)
	}
	q := u.Query()
	q.Set("token", token)
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Page{}, apperr.WrapKind(op, apperr.ErrNetwork, err)
	}
	body, err := c.do(req)
	if err != nil {
		return model.Page{}, apperr.WrapKind(op, apperr.ErrNetwork, err)
	}

	var resp pageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.Page{}, apperr.WrapKind(op, apperr.ErrSerialization, err)
	}
	if resp.Data == nil || resp.Data.Pagination == nil {
		return model.Page{}, apperr.WrapKind(op, apperr.ErrSerialization,
			fmt.Errorf("response code %d without data.pagination", resp.Code))
	}

	pg := resp.Data.Pagination
	return model.Page{
		Batches:    resp.Data.List,
		Current:    pg.Current,
		TotalPages: TotalPages(pg.Total),
	}, nil
}

// TotalPages converts an item total into a page count.
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// Login exchanges a credential for a session token.
func (c *Client) Login(ctx context.Context, cred model.Credential) (token string, err error) {
	const op = "remote.login"
	defer func() { metrics.RecordLogin(err == nil) }()

	payload, err := json.Marshal(cred)
	if err != nil {
		return "", apperr.WrapKind(op, apperr.ErrSerialization, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return "", apperr.WrapKind(op, apperr.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", apperr.WrapKind(op, apperr.ErrNetwork, err)
	}
	if !gjson.ValidBytes(body) {
		return "", apperr.WrapKind(op, apperr.ErrSerialization, errors.New("invalid token response"))
	}

	res := gjson.GetManyBytes(body, "status", "data.token")
	status, tok := res[0], res[1]
	if status.Type != gjson.Number {
		return "", apperr.WrapKind(op, apperr.ErrSerialization, errors.New("missing status"))
	}
	if status.Int() != 0 {
		c.logger.Warn(ctx, "login rejected", logger.Int64("status", status.Int()))
		return "", ErrLoginFailed
	}
	if tok.Type != gjson.String {
		return "", apperr.WrapKind(op, apperr.ErrSerialization, errors.New("missing data.token"))
	}
	return tok.String(), nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
