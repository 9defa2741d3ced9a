package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"phone-analytics/config"
	"phone-analytics/models"
	"phone-analytics/utils"
)

// Client talks to the remote prediction service. Every call is a single
// logical request with bounded retries; it never falls back on its own.
type Client struct {
	baseURL string
	client  *http.Client
	retry   *utils.RetryConfig
	logger  *utils.Logger
}

// New creates a Client from the application config.
func New(cfg *config.Config, logger *utils.Logger) *Client {
	return NewClient(
		cfg.GatewayURL,
		&http.Client{Timeout: cfg.GatewayTimeout()},
		&utils.RetryConfig{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay(),
			Logger:      logger,
			ShouldRetry: IsRetryable,
		},
		logger,
	)
}

// NewClient creates a Client with explicit transport settings.
func NewClient(baseURL string, httpClient *http.Client, retry *utils.RetryConfig, logger *utils.Logger) *Client {
	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1, ShouldRetry: IsRetryable}
	}
	return &Client{
		baseURL: baseURL,
		client:  httpClient,
		retry:   retry,
		logger:  logger,
	}
}

// Predict calls POST /api/predict/<target>. For ram, battery and brand the
// predicted field is left out of the payload.
func (c *Client) Predict(ctx context.Context, target models.PredictionTarget, spec models.PhoneSpecification) (*models.PredictResponse, error) {
	body := specPayload(spec)
	if field := targetField(target); field != "" {
		delete(body, field)
	}

	var resp models.PredictResponse
	if err := c.do(ctx, "predict-"+string(target), http.MethodPost, "/api/predict/"+string(target), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdvancedPredict calls POST /api/advanced/predict.
func (c *Client) AdvancedPredict(ctx context.Context, spec models.PhoneSpecification, modelType, currency string) (*models.AdvancedPredictResponse, error) {
	body := specPayload(spec)
	body["modelType"] = modelType
	body["currency"] = currency

	var resp models.AdvancedPredictResponse
	if err := c.do(ctx, "advanced-predict", http.MethodPost, "/api/advanced/predict", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListProducts calls GET /api/products?limit=N. The listing may be a bare
// array or wrapped in a products/data/items/results envelope.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]models.RawProduct, error) {
	path := "/api/products"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	var raw json.RawMessage
	if err := c.do(ctx, "list-products", http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	products, err := decodeProducts(raw)
	if err != nil {
		return nil, &Error{Op: "list-products", Endpoint: path, Kind: KindDecode, Err: err}
	}
	c.logger.Debug("[gateway] Listed %d raw products", len(products))
	return products, nil
}

// CompareModels calls POST /api/dataset/compare.
func (c *Client) CompareModels(ctx context.Context, modelNames []string) (models.Comparison, error) {
	body := map[string]any{"modelNames": modelNames}

	var resp models.Comparison
	if err := c.do(ctx, "compare", http.MethodPost, "/api/dataset/compare", body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, payload, out any) error {
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("gateway %s: marshal request: %w", op, err)
		}
	}
	return c.retry.Do(ctx, op, func() error {
		return c.once(ctx, op, method, path, data, out)
	})
}

func (c *Client) once(ctx context.Context, op, method, path string, data []byte, out any) error {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("gateway %s: create request: %w", op, err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		kind := KindNetwork
		if isTimeout(err) {
			kind = KindTimeout
		}
		return &Error{Op: op, Endpoint: path, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &Error{Op: op, Endpoint: path, Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Endpoint: path, Kind: KindDecode, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// specPayload builds the shared request body of the prediction endpoints.
func specPayload(spec models.PhoneSpecification) map[string]any {
	body := map[string]any{
		"ram":     spec.RAM,
		"battery": spec.Battery,
		"screen":  spec.ScreenSize,
		"weight":  spec.Weight,
		"year":    spec.LaunchYear,
		"company": spec.Brand,
	}
	if spec.FrontCameraMp != nil {
		body["front_camera"] = *spec.FrontCameraMp
	}
	if spec.MainCameraMp != nil {
		body["back_camera"] = *spec.MainCameraMp
	}
	if spec.ProcessorID != "" {
		body["processor"] = spec.ProcessorID
	}
	if spec.StorageGb != nil {
		body["storage"] = *spec.StorageGb
	}
	return body
}

func targetField(target models.PredictionTarget) string {
	switch target {
	case models.TargetRAM:
		return "ram"
	case models.TargetBattery:
		return "battery"
	case models.TargetBrand:
		return "company"
	default:
		return ""
	}
}

var productEnvelopeKeys = []string{"products", "data", "items", "results"}

func decodeProducts(data json.RawMessage) ([]models.RawProduct, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty product listing")
	}

	if data[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decode product array: %w", err)
		}
		products := make([]models.RawProduct, 0, len(entries))
		for _, entry := range entries {
			var p models.RawProduct
			if err := json.Unmarshal(entry, &p); err != nil || p == nil {
				continue
			}
			products = append(products, p)
		}
		return products, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode product envelope: %w", err)
	}
	for _, key := range productEnvelopeKeys {
		if inner, ok := envelope[key]; ok {
			return decodeProducts(inner)
		}
	}
	return nil, errors.New("no product list in response")
}
