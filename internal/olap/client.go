package olap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-profiles/internal/logging"
	"github.com/goliatone/go-profiles/pkg/interfaces"
)

// Flavor is the wire dialect spoken by the cube server.
type Flavor string

const (
	FlavorTesseract Flavor = "tesseract"
	FlavorMondrian  Flavor = "mondrian"
)

// Client implements interfaces.OLAPClient over HTTP. There is no fully
// featured way to tell a Tesseract server from a Mondrian one up front;
// Tesseract is probed first and on failure the server is assumed to be
// Mondrian. Detection happens once, at construction.
type Client struct {
	baseURL string
	flavor  Flavor
	http    *http.Client
	logger  interfaces.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFlavor pins the dialect and skips probing.
func WithFlavor(flavor Flavor) Option {
	return func(c *Client) {
		c.flavor = flavor
	}
}

// New builds a client for the cube server at baseURL, probing the dialect
// unless one was pinned.
func New(ctx context.Context, baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("olap: base url is required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.flavor == "" {
		c.flavor = c.detect(ctx)
	}
	return c, nil
}

// Flavor reports the detected dialect.
func (c *Client) Flavor() Flavor {
	return c.flavor
}

func (c *Client) detect(ctx context.Context) Flavor {
	err := c.getJSON(ctx, c.baseURL+"/cubes", nil)
	if err != nil {
		c.logger.Warn("tesseract not detected, assuming mondrian",
			"url", c.baseURL, "error", err)
		return FlavorMondrian
	}
	c.logger.Info("tesseract detected", "url", c.baseURL)
	return FlavorTesseract
}

type wireLevel struct {
	Name string `json:"name"`
}

type wireHierarchy struct {
	Name   string      `json:"name"`
	Levels []wireLevel `json:"levels"`
}

type wireDimension struct {
	Name        string          `json:"name"`
	Hierarchies []wireHierarchy `json:"hierarchies"`
}

type wireCube struct {
	Name       string          `json:"name"`
	Dimensions []wireDimension `json:"dimensions"`
}

func (c *Client) GetCube(ctx context.Context, name string) (*interfaces.Cube, error) {
	var payload wireCube
	endpoint := fmt.Sprintf("%s/cubes/%s", c.baseURL, url.PathEscape(name))
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("olap: get cube %q: %w", name, err)
	}

	cube := &interfaces.Cube{Name: payload.Name}
	if cube.Name == "" {
		cube.Name = name
	}
	for _, dim := range payload.Dimensions {
		outDim := interfaces.CubeDimension{Name: dim.Name}
		for _, hier := range dim.Hierarchies {
			outHier := interfaces.CubeHierarchy{Name: hier.Name}
			for _, level := range hier.Levels {
				outHier.Levels = append(outHier.Levels, interfaces.CubeLevel{
					Name:      level.Name,
					Hierarchy: hier.Name,
					Dimension: dim.Name,
					Cube:      cube.Name,
				})
			}
			outDim.Hierarchies = append(outDim.Hierarchies, outHier)
		}
		cube.Dimensions = append(cube.Dimensions, outDim)
	}
	return cube, nil
}

type wireMember struct {
	Key     any    `json:"key"`
	ID      any    `json:"id"`
	Name    string `json:"name"`
	Caption string `json:"caption"`
}

type wireMembers struct {
	Members []wireMember `json:"members"`
}

func (c *Client) GetMembers(ctx context.Context, level interfaces.CubeLevel, q interfaces.MemberQuery) ([]interfaces.Member, error) {
	var endpoint string
	switch c.flavor {
	case FlavorMondrian:
		endpoint = fmt.Sprintf("%s/cubes/%s/dimensions/%s/hierarchies/%s/levels/%s/members",
			c.baseURL,
			url.PathEscape(level.Cube),
			url.PathEscape(level.Dimension),
			url.PathEscape(level.Hierarchy),
			url.PathEscape(level.Name),
		)
		if q.Locale != "" {
			endpoint += "?locale=" + url.QueryEscape(q.Locale)
		}
	default:
		values := url.Values{}
		values.Set("cube", level.Cube)
		values.Set("level", level.Name)
		if q.Locale != "" {
			values.Set("locale", q.Locale)
		}
		endpoint = c.baseURL + "/members?" + values.Encode()
	}

	var payload wireMembers
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("olap: get members for %s: %w", level.Name, err)
	}

	out := make([]interfaces.Member, 0, len(payload.Members))
	for _, m := range payload.Members {
		key := m.Key
		if key == nil {
			key = m.ID
		}
		out = append(out, interfaces.Member{
			Key:     stringifyKey(key),
			Name:    m.Name,
			Caption: m.Caption,
		})
	}
	return out, nil
}

type wireData struct {
	Data []map[string]any `json:"data"`
}

func (c *Client) ExecQuery(ctx context.Context, q interfaces.AggregateQuery) ([]map[string]any, error) {
	var endpoint string
	switch c.flavor {
	case FlavorMondrian:
		values := url.Values{}
		values.Add("drilldown[]", fmt.Sprintf("[%s].[%s].[%s]", q.Level.Dimension, q.Level.Hierarchy, q.Level.Name))
		values.Add("measures[]", q.Measure)
		if q.Locale != "" {
			values.Set("locale", q.Locale)
		}
		endpoint = fmt.Sprintf("%s/cubes/%s/aggregate.jsonrecords?%s",
			c.baseURL, url.PathEscape(q.Cube), values.Encode())
	default:
		values := url.Values{}
		values.Set("cube", q.Cube)
		values.Set("drilldowns", q.Level.Name)
		values.Set("measures", q.Measure)
		if q.Locale != "" {
			values.Set("locale", q.Locale)
		}
		endpoint = c.baseURL + "/data.jsonrecords?" + values.Encode()
	}

	var payload wireData
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("olap: aggregate %s by %s: %w", q.Measure, q.Level.Name, err)
	}
	return payload.Data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func stringifyKey(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
