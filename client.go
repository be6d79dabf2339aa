package fsfetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/noxmake/go-fsfetch/internal"
)

// TemplatesFile is the name of the templates listing, relative to a base
// location.
const TemplatesFile = "templates.json"

// Client fetches resources through a Resolver. A Client is safe for
// concurrent use, provided its Resolver is.
type Client struct {
	resolver Resolver
	logger   *slog.Logger
	notify   func(msg string)
}

// NewClient returns a Client that reads through r, usually a Mux.
func NewClient(r Resolver, opts ...Option) *Client {
	cfg := config{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	c := &Client{
		resolver: r,
		logger:   cfg.logger,
		notify:   cfg.notify,
	}

	if c.notify == nil {
		c.notify = func(msg string) {
			c.logger.Warn(msg)
		}
	}

	return c
}

// Get fetches rawURL. The given params are added to the URL's query, and opts
// are applied to the request before it's sent.
//
// Transport failures are reported through the returned Response (see
// Response.OK); the error is non-nil only when rawURL can't be parsed.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, opts ...RequestOption) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", rawURL, err)
	}

	internal.AddParams(u, params)

	req := NewRequest(u)
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.resolver.Resolve(ctx, req)

	switch {
	case err != nil:
		resp = ErrorResponse(u, err)
	case resp == nil:
		resp = ErrorResponse(u, errors.New("resolver returned no response"))
	}

	if resp.URL == nil {
		resp.URL = u
	}

	c.logger.DebugContext(ctx, "fetched resource",
		slog.String("url", u.String()),
		slog.String("resolved", resp.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Int("size", len(resp.Body)),
		slog.Any("err", resp.Err),
	)

	return resp, nil
}

// GetTemplates fetches and parses the templates listing (templates.json) found
// at base.
//
// If the listing can't be fetched, or isn't a JSON object, the Client's
// notifier is called once with a message naming the attempted URL, and an
// empty map is returned. The error is non-nil only when base can't be joined
// with the listing's name.
func (c *Client) GetTemplates(ctx context.Context, base string, params url.Values, opts ...RequestOption) (map[string]any, error) {
	u, err := JoinURL(base, TemplatesFile)
	if err != nil {
		return nil, err
	}

	resp, err := c.Get(ctx, u, params, opts...)
	if err != nil {
		return nil, err
	}

	if resp.OK() {
		templates := map[string]any{}

		err = resp.JSON(&templates)
		if err == nil && templates == nil {
			err = errors.New("listing is null, not an object")
		}

		if err == nil {
			return templates, nil
		}

		c.logger.DebugContext(ctx, "invalid templates listing",
			slog.String("url", u), slog.Any("err", err))
	}

	c.notify(fmt.Sprintf("unable to fetch templates from %s", u))

	return map[string]any{}, nil
}

// GetText fetches the resource found at base, and returns its content decoded
// as text, along with the URL it was fetched from.
//
// If the resource can't be fetched or decoded, the text is empty; the URL is
// always returned so callers can report the location that was attempted. The
// error is non-nil only when base can't be joined with resource.
func (c *Client) GetText(ctx context.Context, base, resource string, params url.Values, opts ...RequestOption) (string, string, error) {
	u, err := JoinURL(base, resource)
	if err != nil {
		return "", "", err
	}

	resp, err := c.Get(ctx, u, params, opts...)
	if err != nil {
		return "", u, err
	}

	if !resp.OK() {
		return "", u, nil
	}

	text, err := resp.Text()
	if err != nil {
		c.logger.DebugContext(ctx, "undecodable resource",
			slog.String("url", u), slog.Any("err", err))

		return "", u, nil
	}

	return text, u, nil
}
