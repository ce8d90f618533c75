package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	storefront "github.com/azuracommerce/go-storefront"
	"github.com/goliatone/go-errors"
)

// TokenHeader is the literal header name the commerce API reads the
// session token from. Not Authorization, not Bearer.
const TokenHeader = "token"

// Client is the storefront's view of the commerce REST API. It is
// stateless: the token travels with each call and nothing is cached or
// retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	Logger     storefront.Logger
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithLogger(logger storefront.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

func New(cfg storefront.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.GetAPIBaseURL(), "/") + "/",
		httpClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     storefront.DefaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

func (c *Client) do(ctx context.Context, method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "unable to encode request payload").
				WithTextCode(TextCodeInvalidResponse)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "unable to build upstream request")
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	c.Logger.Debug("upstream %s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "commerce api unreachable").
			WithTextCode(TextCodeUpstreamUnreachable).
			WithMetadata(map[string]any{
				"path": path,
			})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "unable to read upstream response").
			WithTextCode(TextCodeUpstreamUnreachable)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp.StatusCode, raw, path)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "unable to decode upstream response").
				WithTextCode(TextCodeInvalidResponse).
				WithMetadata(map[string]any{
					"path": path,
				})
		}
	}

	return nil
}

// apiErrorBody covers every error shape the commerce API is known to
// produce: a flat message, a nested error object and express-validator
// style errors.
type apiErrorBody struct {
	Message   string `json:"message"`
	StatusMsg string `json:"statusMsg"`
	Errors    struct {
		Msg string `json:"msg"`
	} `json:"errors"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func parseAPIMessage(raw []byte) string {
	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}

	switch {
	case body.Message != "":
		return body.Message
	case body.Errors.Msg != "":
		return body.Errors.Msg
	case body.Error.Message != "":
		return body.Error.Message
	}
	return ""
}

func apiError(status int, raw []byte, path string) *errors.Error {
	message := parseAPIMessage(raw)
	if message == "" {
		message = http.StatusText(status)
	}

	meta := map[string]any{
		"status": status,
		"path":   path,
	}

	switch {
	case status == http.StatusUnauthorized:
		return errors.New(message, errors.CategoryAuth).
			WithTextCode(TextCodeAuthRejected).
			WithCode(errors.CodeUnauthorized).
			WithMetadata(meta)
	case status == http.StatusForbidden:
		return errors.New(message, errors.CategoryAuthz).
			WithTextCode(TextCodeAuthRejected).
			WithCode(errors.CodeForbidden).
			WithMetadata(meta)
	case status == http.StatusNotFound:
		return errors.New(message, errors.CategoryNotFound).
			WithTextCode(TextCodeUpstreamError).
			WithCode(errors.CodeNotFound).
			WithMetadata(meta)
	case status >= http.StatusInternalServerError:
		return errors.New(message, errors.CategoryInternal).
			WithTextCode(TextCodeUpstreamError).
			WithCode(errors.CodeInternal).
			WithMetadata(meta)
	default:
		return errors.New(message, errors.CategoryBadInput).
			WithTextCode(TextCodeUpstreamError).
			WithCode(errors.CodeBadRequest).
			WithMetadata(meta)
	}
}
