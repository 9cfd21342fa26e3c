// internal/domain/payment/stripe_service.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// PlaceholderKey marks a publishable key that was never filled in
	PlaceholderKey = "YOUR_PUBLISHABLE_KEY"
	// SecretMarker separates the intent ID from the rest of a client secret
	SecretMarker = "_secret_"
	// ElementCard is the only element type the storefront mounts
	ElementCard = "card"
)

// Payment intent statuses the storefront reacts to
const (
	StatusSucceeded      = "succeeded"
	StatusProcessing     = "processing"
	StatusRequiresAction = "requires_action"
)

var (
	ErrMissingKey          = errors.New("publishable key not configured")
	ErrPlaceholderKey      = errors.New("publishable key is still the placeholder value")
	ErrInvalidClientSecret = errors.New("client secret must contain " + SecretMarker)
	ErrUnsupportedElement  = errors.New("unsupported element type")
	ErrNoPaymentMethod     = errors.New("card element has no tokenized payment method")
	ErrForeignElement      = errors.New("card element belongs to another payment intent")
)

// ValidateKey checks that key is usable as a publishable key
func ValidateKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrMissingKey
	}
	if strings.Contains(key, PlaceholderKey) {
		return ErrPlaceholderKey
	}
	return nil
}

// IntentIDFromSecret returns the payment intent ID embedded in a client secret
func IntentIDFromSecret(secret string) (string, error) {
	id, _, ok := strings.Cut(secret, SecretMarker)
	if !ok || id == "" {
		return "", ErrInvalidClientSecret
	}
	return id, nil
}

// PaymentIntent is the gateway's view of a payment after confirmation
type PaymentIntent struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// GatewayError is a rejection reported by the gateway, e.g. a declined card
type GatewayError struct {
	Type        string `json:"type"`
	Code        string `json:"code,omitempty"`
	DeclineCode string `json:"decline_code,omitempty"`
	Message     string `json:"message"`
}

// ConfirmResult carries exactly one of PaymentIntent or Error
type ConfirmResult struct {
	PaymentIntent *PaymentIntent `json:"paymentIntent,omitempty"`
	Error         *GatewayError  `json:"error,omitempty"`
}

// Gateway confirms card payments with a publishable key
type Gateway struct {
	key        string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewGateway creates a gateway client. httpClient may be nil; no timeout is
// applied to confirmation calls.
func NewGateway(key, baseURL string, httpClient *http.Client, logger *logrus.Logger) (*Gateway, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Gateway{
		key:        strings.TrimSpace(key),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Elements scopes hosted widgets to one payment intent
type Elements struct {
	clientSecret string
}

// Elements returns the widget factory for clientSecret
func (g *Gateway) Elements(clientSecret string) (*Elements, error) {
	if _, err := IntentIDFromSecret(clientSecret); err != nil {
		return nil, err
	}
	return &Elements{clientSecret: clientSecret}, nil
}

// Create builds a new widget instance of the given type
func (e *Elements) Create(kind string) (*CardElement, error) {
	if kind != ElementCard {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedElement, kind)
	}
	return &CardElement{
		id:       uuid.New().String(),
		elements: e,
	}, nil
}

// CardElement is the server-side handle of the hosted card-entry widget.
// The widget tokenizes the card in the user agent; the storefront only ever
// sees the resulting payment method ID.
type CardElement struct {
	mu            sync.Mutex
	id            string
	elements      *Elements
	target        string
	mounts        int
	paymentMethod string
}

// ID identifies the widget instance; remounting never changes it
func (c *CardElement) ID() string {
	return c.id
}

// Mount attaches the widget to a DOM target, replacing any previous attachment
func (c *CardElement) Mount(target string) error {
	if strings.TrimSpace(target) == "" {
		return errors.New("mount target is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
	c.mounts++
	return nil
}

// Unmount detaches the widget; the collected card is kept
func (c *CardElement) Unmount() {
	c.mu.Lock()
	c.target = ""
	c.mu.Unlock()
}

// Target returns where the widget is mounted, or "" when unmounted
func (c *CardElement) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// MountCount returns how many times the widget was mounted
func (c *CardElement) MountCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounts
}

// Attach records the payment method the widget produced for the entered card
func (c *CardElement) Attach(paymentMethodID string) error {
	paymentMethodID = strings.TrimSpace(paymentMethodID)
	if paymentMethodID == "" {
		return ErrNoPaymentMethod
	}

	c.mu.Lock()
	c.paymentMethod = paymentMethodID
	c.mu.Unlock()
	return nil
}

// PaymentMethod returns the attached payment method ID
func (c *CardElement) PaymentMethod() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paymentMethod
}

// ConfirmCardPayment confirms the intent behind clientSecret with the card
// collected by card. A gateway rejection is reported in the result; transport
// failures and unreadable answers are returned as errors.
func (g *Gateway) ConfirmCardPayment(ctx context.Context, clientSecret string, card *CardElement) (*ConfirmResult, error) {
	intentID, err := IntentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrNoPaymentMethod
	}
	if card.elements == nil || card.elements.clientSecret != clientSecret {
		return nil, ErrForeignElement
	}
	paymentMethod := card.PaymentMethod()
	if paymentMethod == "" {
		return nil, ErrNoPaymentMethod
	}

	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("payment_method", paymentMethod)

	status, body, err := g.makeAPICall(ctx, http.MethodPost, "/v1/payment_intents/"+url.PathEscape(intentID)+"/confirm", form)
	if err != nil {
		return nil, err
	}

	log := g.logger.WithFields(logrus.Fields{
		"intent_id":   intentID,
		"http_status": status,
	})

	if status >= 200 && status <= 299 {
		var intent PaymentIntent
		if err := json.Unmarshal(body, &intent); err != nil {
			return nil, fmt.Errorf("failed to parse payment intent response: %w", err)
		}
		log.WithField("status", intent.Status).Info("Payment intent confirmed")
		return &ConfirmResult{PaymentIntent: &intent}, nil
	}

	var failure struct {
		Error *GatewayError `json:"error"`
	}
	if err := json.Unmarshal(body, &failure); err != nil || failure.Error == nil {
		return nil, fmt.Errorf("gateway returned status %d: %s", status, truncate(string(body), 200))
	}

	log.WithFields(logrus.Fields{
		"error_type": failure.Error.Type,
		"error_code": failure.Error.Code,
	}).Warn("Payment confirmation rejected")
	return &ConfirmResult{Error: failure.Error}, nil
}

// makeAPICall sends a form-encoded request authenticated with the publishable key
func (g *Gateway) makeAPICall(ctx context.Context, method, endpoint string, form url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+g.key)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to make API call: %w", err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, respBody.Bytes(), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
