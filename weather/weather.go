package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"moul.io/http2curl"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultTimeout = 10 * time.Second

	// Current-weather replies are a few hundred bytes.
	maxBodyBytes = 1 << 20
)

var (
	ErrMissingAPIKey     = errors.New("weather: missing API key")
	ErrEmptyCity         = errors.New("weather: empty city name")
	ErrCityNotFound      = errors.New("weather: city not found")
	ErrMalformedResponse = errors.New("weather: malformed response")
)

// StatusError is returned for any non-2xx reply. Message carries the provider's
// own explanation when the body had one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("weather: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("weather: unexpected status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrCityNotFound && e.Code == http.StatusNotFound
}

type Client struct {
	baseURL string
	apiKey  string
	units   Units
	timeout time.Duration
	hc      *http.Client
	cache   *Cache
	metrics *Metrics
	logger  *zap.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithUnits(u Units) Option {
	return func(c *Client) { c.units = u }
}

// WithTimeout bounds each request made by the default HTTP client. It has no
// effect together with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient fails with ErrMissingAPIKey before anything else is set up, so a
// missing key never reaches the network.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		units:   Imperial,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.hc == nil {
		c.hc = &http.Client{
			Timeout:   c.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if !c.units.Valid() {
		return nil, fmt.Errorf("Invalid units %q: %w", c.units, ErrUnknownUnits)
	}
	return c, nil
}

func (c *Client) Units() Units {
	return c.units
}

func (c *Client) Timeout() time.Duration {
	return c.hc.Timeout
}

// query adds the lookup parameters to q, which may already hold parameters
// from the endpoint.
func (c *Client) query(q url.Values, city, key string) url.Values {
	q.Set("q", city)
	q.Set("APPID", key)
	q.Set("units", string(c.units))
	return q
}

func (c *Client) QueryURL(city string) string {
	return c.buildURL(city, c.apiKey)
}

func (c *Client) buildURL(city, key string) string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + "?" + c.query(url.Values{}, city, key).Encode()
	}
	u.RawQuery = c.query(u.Query(), city, key).Encode()
	return u.String()
}

// Current returns the provider's JSON body for city, unmodified apart from
// surrounding whitespace.
func (c *Client) Current(ctx context.Context, city string) ([]byte, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}

	ctx, span := otel.Tracer("weather").Start(ctx, "weather.Current")
	defer span.End()
	span.SetAttributes(attribute.String("weather.city", city), attribute.String("weather.units", string(c.units)))

	if data, ok := c.cache.Get(c.units, city); ok {
		c.logger.Debug("Serving cached response", zap.String("city", city))
		c.metrics.cacheHit()
		span.SetAttributes(attribute.Bool("weather.cached", true))
		return data, nil
	}

	start := time.Now()
	data, err := c.fetch(ctx, city)
	c.metrics.observe(time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c.cache.Set(c.units, city, data)
	return data, nil
}

func (c *Client) fetch(ctx context.Context, city string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QueryURL(city), nil)
	if err != nil {
		return nil, fmt.Errorf("Failed to build request: %w", err)
	}
	if ce := c.logger.Check(zap.DebugLevel, "Fetching weather"); ce != nil {
		ce.Write(zap.String("city", city), zap.String("curl", c.curl(city)))
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("Failed to read body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("Response for %s exceeds %d bytes: %w", city, maxBodyBytes, ErrMalformedResponse)
	}
	c.logger.Debug("Got response", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: providerMessage(data)}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("Failed to parse json from %s: %w", city, ErrMalformedResponse)
	}
	return bytes.TrimSpace(data), nil
}

// curl renders the request with the key masked, for debug logs only.
func (c *Client) curl(city string) string {
	req, err := http.NewRequest(http.MethodGet, c.buildURL(city, "REDACTED"), nil)
	if err != nil {
		return ""
	}
	cmd, err := http2curl.GetCurlCommand(req)
	if err != nil {
		return ""
	}
	return cmd.String()
}

// providerMessage pulls "message" out of an OpenWeatherMap error body such as
// {"cod":"404","message":"city not found"}.
func providerMessage(data []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return ""
	}
	return m.Message
}
