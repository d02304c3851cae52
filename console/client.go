package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/octabyte/bm-queue-console/models"
	"github.com/octabyte/bm-queue-console/otel"
)

const (
	EndpointStats   = "/stats"
	EndpointPublish = "/publicar"
	EndpointChannel = "/publicar-canal"

	tracerName = "queue-console"
)

var ErrMalformedResponse = errors.New("malformed response body")

// APIError is a non-2xx answer from the backend. Message is the body's error
// field and may be empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// PublishPayload is the publish request body. Canal is omitted when empty.
type PublishPayload struct {
	Email    string `json:"email"`
	Mensagem string `json:"mensagem"`
	Canal    string `json:"canal,omitempty"`
}

type API interface {
	GetStats(ctx context.Context) (models.QueueStats, error)
	// Publish returns the server's success message.
	Publish(ctx context.Context, endpoint string, payload PublishPayload) (string, error)
}

type Client struct {
	baseURL string
	http    *resty.Client
}

// NewClient talks to the console backend at baseURL. A zero timeout keeps the
// transport default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	rc := otel.NewTracedRestyClient(baseURL).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}
	return &Client{baseURL: baseURL, http: rc}
}

func (c *Client) GetStats(ctx context.Context) (models.QueueStats, error) {
	ctx, finish := otel.StartHTTPSpan(ctx, otel.ClientCall{
		Tracer:    tracerName,
		Client:    "console",
		Operation: "stats",
		Method:    http.MethodGet,
		BaseURL:   c.baseURL,
		Path:      EndpointStats,
	})

	resp, err := c.http.R().SetContext(ctx).Get(EndpointStats)
	if err != nil {
		finish(0, err)
		return models.QueueStats{}, fmt.Errorf("failed to fetch stats: %w", err)
	}

	body, err := parseBody(resp)
	finish(resp.StatusCode(), err)
	if err != nil {
		return models.QueueStats{}, err
	}

	return models.QueueStats{
		Nome:         body.Get("nome").String(),
		Estado:       body.Get("estado").String(),
		Criado:       body.Get("criado").String(),
		Regiao:       body.Get("regiao").String(),
		Mensagens:    int(body.Get("mensagens").Int()),
		Consumidores: int(body.Get("consumidores").Int()),
	}, nil
}

func (c *Client) Publish(ctx context.Context, endpoint string, payload PublishPayload) (string, error) {
	ctx, finish := otel.StartHTTPSpan(ctx, otel.ClientCall{
		Tracer:    tracerName,
		Client:    "console",
		Operation: "publish",
		Method:    http.MethodPost,
		BaseURL:   c.baseURL,
		Path:      endpoint,
		Channel:   payload.Canal,
	})

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(endpoint)
	if err != nil {
		finish(0, err)
		return "", fmt.Errorf("failed to publish: %w", err)
	}

	body, err := parseBody(resp)
	finish(resp.StatusCode(), err)
	if err != nil {
		return "", err
	}

	return body.Get("message").String(), nil
}

// parseBody reads the JSON body whatever the status, so a failed call still
// yields the server's error field. A successful response must be an object.
func parseBody(resp *resty.Response) (gjson.Result, error) {
	raw := resp.Body()
	valid := gjson.ValidBytes(raw)

	if !resp.IsSuccess() {
		apiErr := &APIError{Status: resp.StatusCode()}
		if valid {
			apiErr.Message = gjson.GetBytes(raw, "error").String()
		}
		return gjson.Result{}, apiErr
	}
	body := gjson.ParseBytes(raw)
	if !valid || !body.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: status %d", ErrMalformedResponse, resp.StatusCode())
	}

	return body, nil
}
