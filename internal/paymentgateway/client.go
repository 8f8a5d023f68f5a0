package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	gatewaytypes "github.com/alxtravel/travel-booking/internal/core/datamodel/paymentgateway"
)

const DefaultTimeout = 10 * time.Second

// GatewayError is returned when the gateway answered but did not report success.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Message)
}

// IsTimeout reports whether err came from the request deadline expiring.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type Config struct {
	BaseURL   string
	VerifyURL string
	SecretKey string
	Currency  string
	Timeout   time.Duration
}

type Client struct {
	baseURL    string
	verifyURL  string
	secretKey  string
	currency   string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    config.BaseURL,
		verifyURL:  config.VerifyURL,
		secretKey:  config.SecretKey,
		currency:   config.Currency,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// InitializeTransaction asks the gateway to open a checkout session for req.
// A non-nil response always reports success.
func (c *Client) InitializeTransaction(ctx context.Context, in *gatewaytypes.InitializeRequest) (*gatewaytypes.InitializeResponse, error) {
	req := *in
	if req.Currency == "" {
		req.Currency = c.currency
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	body, err := json.Marshal(&req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initialize request: %w", err)
	}

	c.logger.Info("initializing gateway transaction",
		"tx_ref", req.TxRef,
		"amount", req.Amount.String(),
		"currency", req.Currency)

	var resp gatewaytypes.InitializeResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body), &resp); err != nil {
		c.logger.Warn("gateway transaction initialization failed", "tx_ref", req.TxRef, "error", err)
		return nil, err
	}

	if !resp.Succeeded() {
		return nil, &GatewayError{StatusCode: http.StatusOK, Message: resp.Message}
	}

	c.logger.Info("gateway transaction initialized",
		"tx_ref", req.TxRef,
		"gateway_tx_ref", resp.Data.TxRef)

	return &resp, nil
}

// VerifyTransaction queries the final status of txRef. A non-nil response
// always reports success.
func (c *Client) VerifyTransaction(ctx context.Context, txRef string) (*gatewaytypes.VerifyResponse, error) {
	if txRef == "" {
		return nil, errors.New("validation error: tx_ref is required")
	}

	endpoint := strings.TrimRight(c.verifyURL, "/") + "/" + url.PathEscape(txRef) + "/"

	var resp gatewaytypes.VerifyResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		c.logger.Warn("gateway verification failed", "tx_ref", txRef, "error", err)
		return nil, err
	}

	if !resp.Succeeded() {
		return nil, &GatewayError{StatusCode: http.StatusOK, Message: resp.Message}
	}

	c.logger.Info("gateway verification succeeded", "tx_ref", txRef)
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &GatewayError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the gateway's "message" field. Chapa sometimes sends
// it as an object of field errors, which is flattened to its JSON text.
func errorMessage(raw []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Message) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(body.Message, &text); err == nil {
		return text
	}
	if string(body.Message) == "null" {
		return ""
	}
	return string(body.Message)
}
