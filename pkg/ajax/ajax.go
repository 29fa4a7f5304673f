package ajax

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	xj "github.com/basgys/goxml2json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/mini/pkg/loop"
)

// Default tracer name for AJAX requests.
const defaultTracerName = "mini/ajax"

// DefaultTimeout bounds a request when the client has no http.Client of its own.
const DefaultTimeout = 30 * time.Second

// Sentinel errors returned synchronously by Do.
var (
	// ErrEmptyURL is returned when the URL is empty.
	ErrEmptyURL = errors.New("ajax: URL cannot be empty")

	// ErrInvalidMethod is returned for methods other than GET and POST.
	ErrInvalidMethod = errors.New("ajax: method is invalid")

	// ErrInvalidData is returned when Data is not nil, a string or url.Values.
	ErrInvalidData = errors.New("ajax: data format is invalid")
)

// Format selects how a successful response body is decoded.
type Format int

const (
	Text Format = iota // body as string
	JSON               // body decoded with encoding/json into any
	XML                // body converted to JSON, then decoded into any
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case JSON:
		return "json"
	case XML:
		return "xml"
	default:
		return "unknown"
	}
}

// ParseFormat parses "text", "json" or "xml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	case "xml":
		return XML, nil
	}
	return Text, fmt.Errorf("ajax: unknown response format %q", s)
}

// Request describes one AJAX call.
type Request struct {
	// Method is GET or POST, case-insensitive. Default: GET.
	// Any non-nil Data forces POST.
	Method string

	// Data is the request body: nil, a form-encoded string, or url.Values
	// sent as multipart/form-data.
	Data any

	// Format selects how the body of a 200 response is decoded.
	Format Format

	// Sync makes Do block and run the callbacks on the calling goroutine.
	Sync bool

	// Success receives the decoded body of a 200 response.
	Success func(data any)

	// Fail receives responses with any other status, transport errors
	// (status 0) and bodies that could not be decoded.
	Fail func(resp *Response, status int)

	// Complete runs after Success or Fail.
	Complete func(resp *Response)
}

// Response is the outcome of a request.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	Err    error
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithScheduler makes asynchronous callbacks run through s.Dispatch.
func WithScheduler(s loop.Scheduler) ClientOption {
	return func(c *Client) {
		c.sched = s
	}
}

// WithTracerName sets the OpenTelemetry tracer name.
func WithTracerName(name string) ClientOption {
	return func(c *Client) {
		c.tracer = otel.Tracer(name)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client performs AJAX requests.
type Client struct {
	http   *http.Client
	sched  loop.Scheduler
	tracer trace.Tracer
	logger *slog.Logger
}

// NewClient creates a Client. The tracer comes from the global
// OpenTelemetry provider.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:   &http.Client{Timeout: DefaultTimeout},
		tracer: otel.Tracer(defaultTracerName),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do validates req and sends it to rawURL. Validation errors are returned
// directly and no callback runs. Otherwise the callbacks report the outcome
// and Do returns nil; asynchronous requests return immediately.
func (c *Client) Do(ctx context.Context, rawURL string, req Request) error {
	if rawURL == "" {
		return ErrEmptyURL
	}
	prepared, err := c.prepare(rawURL, req)
	if err != nil {
		return err
	}

	if req.Sync {
		resp := c.execute(ctx, prepared)
		c.deliver(req, resp)
		return nil
	}

	go func() {
		resp := c.execute(ctx, prepared)
		if c.sched != nil {
			c.sched.Dispatch(func() { c.deliver(req, resp) })
			return
		}
		c.deliver(req, resp)
	}()
	return nil
}

// Get is a synchronous GET returning the response.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	var out *Response
	err := c.Do(ctx, rawURL, Request{
		Sync:     true,
		Complete: func(r *Response) { out = r },
	})
	if err != nil {
		return nil, err
	}
	return out, out.Err
}

type prepared struct {
	method      string
	url         string
	body        []byte
	contentType string
}

func (c *Client) prepare(rawURL string, req Request) (prepared, error) {
	p := prepared{url: rawURL, method: strings.ToUpper(req.Method)}
	if p.method == "" {
		p.method = http.MethodGet
	}

	switch data := req.Data.(type) {
	case nil:
	case string:
		p.method = http.MethodPost
		p.body = []byte(data)
		p.contentType = "application/x-www-form-urlencoded"
	case url.Values:
		p.method = http.MethodPost
		body, ct, err := encodeMultipart(data)
		if err != nil {
			return p, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		p.body, p.contentType = body, ct
	default:
		return p, fmt.Errorf("%w: %T", ErrInvalidData, req.Data)
	}

	if p.method != http.MethodGet && p.method != http.MethodPost {
		return p, fmt.Errorf("%w: %q", ErrInvalidMethod, req.Method)
	}
	return p, nil
}

func (c *Client) execute(ctx context.Context, p prepared) *Response {
	ctx, span := c.tracer.Start(ctx, "ajax "+p.method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", p.method),
			attribute.String("http.url", p.url),
		),
	)
	defer span.End()

	start := time.Now()
	resp := c.roundTrip(ctx, p)

	span.SetAttributes(attribute.Int("http.status_code", resp.Status))
	if resp.Err != nil {
		span.RecordError(resp.Err)
		span.SetStatus(codes.Error, resp.Err.Error())
	} else if resp.Status != http.StatusOK {
		span.SetStatus(codes.Error, http.StatusText(resp.Status))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	c.logger.Debug("ajax request",
		"method", p.method,
		"url", p.url,
		"status", resp.Status,
		"duration", time.Since(start),
		"error", resp.Err)
	return resp
}

func (c *Client) roundTrip(ctx context.Context, p prepared) *Response {
	var body io.Reader
	if p.body != nil {
		body = bytes.NewReader(p.body)
	}
	hreq, err := http.NewRequestWithContext(ctx, p.method, p.url, body)
	if err != nil {
		return &Response{Err: err}
	}
	if p.contentType != "" {
		hreq.Header.Set("Content-Type", p.contentType)
	}

	hresp, err := c.http.Do(hreq)
	if err != nil {
		return &Response{Err: err}
	}
	defer hresp.Body.Close()

	data, err := io.ReadAll(hresp.Body)
	return &Response{
		Status: hresp.StatusCode,
		Header: hresp.Header,
		Body:   data,
		Err:    err,
	}
}

// deliver runs Success or Fail, then Complete.
func (c *Client) deliver(req Request, resp *Response) {
	if resp.Err == nil && resp.Status == http.StatusOK {
		data, err := decode(req.Format, resp.Body)
		if err == nil {
			if req.Success != nil {
				req.Success(data)
			}
		} else {
			resp.Err = err
		}
	}
	if resp.Err != nil || resp.Status != http.StatusOK {
		if req.Fail != nil {
			req.Fail(resp, resp.Status)
		}
	}
	if req.Complete != nil {
		req.Complete(resp)
	}
}

func decode(f Format, body []byte) (any, error) {
	switch f {
	case JSON:
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("ajax: decode json: %w", err)
		}
		return v, nil
	case XML:
		buf, err := xj.Convert(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("ajax: decode xml: %w", err)
		}
		var v any
		if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
			return nil, fmt.Errorf("ajax: decode xml: %w", err)
		}
		return v, nil
	default:
		return string(body), nil
	}
}

func encodeMultipart(values url.Values) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range values[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
