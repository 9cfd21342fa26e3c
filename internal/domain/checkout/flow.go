// internal/domain/checkout/flow.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/cart"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/payment"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/session"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/infrastructure/backend"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/pkg/metrics"
)

// PathCreateIntent is the backend endpoint that issues payment intents
const PathCreateIntent = "/create-payment-intent"

// CartLoader reads the session's cart
type CartLoader interface {
	Get(ctx context.Context, sid string) (*cart.Cart, error)
}

// IntentAPI creates payment intents on the backend
type IntentAPI interface {
	Post(ctx context.Context, path string, in, out any) error
}

// Credentials tells whether a session is logged in
type Credentials interface {
	Get(ctx context.Context, sid string) (*session.Credential, error)
}

// Gateway is the hosted payment gateway
type Gateway interface {
	Elements(clientSecret string) (*payment.Elements, error)
	ConfirmCardPayment(ctx context.Context, clientSecret string, card *payment.CardElement) (*payment.ConfirmResult, error)
}

// Config holds the fixed parameters of every attempt
type Config struct {
	PublishableKey string
	BackendURL     string
	Currency       string
	SuccessURL     string
	SuccessDelay   time.Duration
	PaymentElement string
}

// Attempt is one run of the payment page for one session
type Attempt struct {
	mu sync.Mutex

	id            string
	sid           string
	state         State
	cart          *cart.Cart
	total         decimal.Decimal
	amount        int64
	currency      string
	clientSecret  string
	card          *payment.CardElement
	method        PaymentMethod
	submitEnabled bool
	info          string
	errMsg        string
	message       string
	failure       FailureKind
	intentStatus  string
	navScheduled  bool
	redirect      string
}

// State returns the current state
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Card returns the mounted card widget, or nil before WIDGET_READY
func (a *Attempt) Card() *payment.CardElement {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.card
}

// Flow drives checkout attempts
type Flow struct {
	cfg       Config
	carts     CartLoader
	api       IntentAPI
	creds     Credentials
	gateway   Gateway
	registry  *Registry
	scheduler Scheduler
	metrics   metrics.Recorder
	logger    *logrus.Logger
}

// NewFlow creates a checkout flow. gateway may be nil when the publishable
// key is unusable; every attempt then fails as misconfigured.
func NewFlow(cfg Config, carts CartLoader, api IntentAPI, creds Credentials, gateway Gateway,
	registry *Registry, scheduler Scheduler, rec metrics.Recorder, logger *logrus.Logger) *Flow {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	if cfg.Currency == "" {
		cfg.Currency = "brl"
	}

	return &Flow{
		cfg:       cfg,
		carts:     carts,
		api:       api,
		creds:     creds,
		gateway:   gateway,
		registry:  registry,
		scheduler: scheduler,
		metrics:   rec,
		logger:    logger,
	}
}

// Start begins a new attempt for sid, replacing the previous one, and runs
// it up to WIDGET_READY or FAILED. The only error returned is a
// *backend.SessionExpiredError; every other failure is part of the snapshot.
func (f *Flow) Start(ctx context.Context, sid string) (Snapshot, error) {
	ctx = session.WithID(ctx, sid)

	a := &Attempt{
		id:     uuid.New().String(),
		sid:    sid,
		state:  StateLoadingCart,
		method: MethodCreditCard,
	}
	f.registry.Put(sid, a)

	log := f.logger.WithFields(logrus.Fields{
		"session_id": sid,
		"attempt_id": a.id,
	})

	if err := payment.ValidateKey(f.cfg.PublishableKey); err != nil || f.gateway == nil {
		log.WithError(err).Error("Payment gateway is not configured")
		f.fail(a, FailureMisconfigured, "", MsgMisconfigured)
		return f.snapshot(a), nil
	}

	if _, err := f.creds.Get(ctx, sid); err != nil {
		if !errors.Is(err, session.ErrNoCredential) {
			log.WithError(err).Warn("Failed to read credential")
		}
		f.fail(a, FailureNotLoggedIn, MsgNotLoggedIn, "")
		return f.snapshot(a), nil
	}

	// LOADING_CART
	c, err := f.carts.Get(ctx, sid)
	if err != nil {
		expired := f.failCartLoad(a, err, log)
		return f.snapshot(a), expired
	}
	if c.IsEmpty() {
		f.fail(a, FailureCartEmpty, MsgCartEmpty, "")
		return f.snapshot(a), nil
	}

	total := c.EffectiveTotal()
	f.transition(a, StateCartReady, func() {
		a.cart = c
		a.total = total
	})

	// CART_READY
	amount := Amount(total)
	if !total.IsPositive() || amount <= 0 {
		f.fail(a, FailureCartInvalid, MsgCartInvalid, "")
		return f.snapshot(a), nil
	}
	f.transition(a, StateCreatingIntent, func() {
		a.amount = amount
		a.currency = f.cfg.Currency
	})

	// CREATING_INTENT
	var resp map[string]any
	if err := f.api.Post(ctx, PathCreateIntent, IntentRequest{Amount: amount, Currency: f.cfg.Currency}, &resp); err != nil {
		log.WithError(err).Warn("Payment intent creation failed")
		f.fail(a, FailureIntent, "", fmt.Sprintf("Erro ao criar PaymentIntent: %s", errorText(err)))
		if expired, ok := backend.IsSessionExpired(err); ok {
			a.mu.Lock()
			a.failure = FailureSessionExpired
			a.mu.Unlock()
			return f.snapshot(a), expired
		}
		return f.snapshot(a), nil
	}

	secret, err := ExtractClientSecret(resp)
	switch {
	case errors.Is(err, ErrMissingClientSecret):
		f.fail(a, FailureMalformed, "", MsgNoClientSecret)
		return f.snapshot(a), nil
	case err != nil:
		log.WithField("client_secret", secret).Error("Backend returned an intent ID instead of a client secret")
		f.fail(a, FailureMalformed, "", MsgBadClientSecret)
		return f.snapshot(a), nil
	}

	card, err := f.mountCard(secret)
	if err != nil {
		log.WithError(err).Error("Failed to initialize payment widget")
		f.fail(a, FailureWidget, "", MsgWidgetFailed)
		return f.snapshot(a), nil
	}

	f.transition(a, StateWidgetReady, func() {
		a.clientSecret = secret
		a.card = card
		a.submitEnabled = true
	})
	log.WithFields(logrus.Fields{
		"amount":   amount,
		"currency": f.cfg.Currency,
	}).Info("Checkout ready for payment")

	return f.snapshot(a), nil
}

func (f *Flow) mountCard(secret string) (*payment.CardElement, error) {
	elements, err := f.gateway.Elements(secret)
	if err != nil {
		return nil, err
	}
	card, err := elements.Create(payment.ElementCard)
	if err != nil {
		return nil, err
	}
	if err := card.Mount(f.cfg.PaymentElement); err != nil {
		return nil, err
	}
	return card, nil
}

func (f *Flow) failCartLoad(a *Attempt, err error, log *logrus.Entry) error {
	log.WithError(err).Warn("Failed to load cart")

	switch {
	case backend.IsNetworkError(err):
		f.fail(a, FailureConnection, "", fmt.Sprintf(
			"Falha de conexão: não foi possível conectar ao backend em %s. Verifique se o servidor está rodando e se a porta/host estão corretos.",
			f.cfg.BackendURL))
	default:
		f.fail(a, FailureBackend, "", fmt.Sprintf("Erro ao carregar carrinho: %s", errorText(err)))
	}

	if expired, ok := backend.IsSessionExpired(err); ok {
		a.mu.Lock()
		a.failure = FailureSessionExpired
		a.mu.Unlock()
		return expired
	}
	return nil
}

// Snapshot returns the current attempt of sid
func (f *Flow) Snapshot(sid string) (Snapshot, error) {
	a, ok := f.registry.Get(sid)
	if !ok {
		return Snapshot{}, ErrNoAttempt
	}
	return f.snapshot(a), nil
}

// SelectMethod changes the payment option. The existing card widget is
// re-mounted into the payment element; it is never recreated.
func (f *Flow) SelectMethod(sid string, method PaymentMethod) (Snapshot, error) {
	if !method.Valid() {
		return Snapshot{}, ErrUnknownMethod
	}
	a, ok := f.registry.Get(sid)
	if !ok {
		return Snapshot{}, ErrNoAttempt
	}

	a.mu.Lock()
	card := a.card
	if card == nil {
		a.mu.Unlock()
		return Snapshot{}, ErrWidgetNotMounted
	}
	a.method = method
	a.mu.Unlock()

	card.Unmount()
	if err := card.Mount(f.cfg.PaymentElement); err != nil {
		return Snapshot{}, err
	}
	return f.snapshot(a), nil
}

// Submit confirms the payment with the card the widget tokenized as
// paymentMethodID. Only one confirmation per attempt can be in flight; a
// concurrent call gets ErrSubmitDisabled.
func (f *Flow) Submit(ctx context.Context, sid, paymentMethodID string) (Snapshot, error) {
	a, ok := f.registry.Get(sid)
	if !ok {
		return Snapshot{}, ErrNoAttempt
	}

	a.mu.Lock()
	if !a.submitEnabled || a.card == nil {
		a.mu.Unlock()
		return Snapshot{}, ErrSubmitDisabled
	}
	if err := a.card.Attach(paymentMethodID); err != nil {
		a.mu.Unlock()
		return Snapshot{}, err
	}
	a.state = StateSubmitting
	a.submitEnabled = false
	a.errMsg = ""
	a.failure = FailureNone
	a.message = MsgProcessing
	secret, card := a.clientSecret, a.card
	a.mu.Unlock()

	log := f.logger.WithFields(logrus.Fields{
		"session_id": sid,
		"attempt_id": a.id,
	})

	// No lock is held while the confirmation is in flight; submitEnabled
	// keeps other submissions out. A confirmation runs to completion even
	// when the caller goes away.
	confirmCtx := context.WithoutCancel(session.WithID(ctx, sid))
	result, err := f.gateway.ConfirmCardPayment(confirmCtx, secret, card)

	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case err != nil:
		log.WithError(err).Error("Payment confirmation failed")
		a.state = StateFailed
		a.failure = FailureProcessing
		a.errMsg = MsgConfirmError
		a.message = ""
		a.submitEnabled = true
		f.metrics.RecordCheckoutOutcome(string(FailureProcessing))

	case result.Error != nil:
		msg := result.Error.Message
		if msg == "" {
			msg = MsgDeclinedDefault
		}
		a.state = StateFailed
		a.failure = FailureDeclined
		a.errMsg = msg
		a.message = ""
		a.submitEnabled = true
		f.metrics.RecordCheckoutOutcome(string(FailureDeclined))

	case result.PaymentIntent != nil && result.PaymentIntent.Status == payment.StatusSucceeded:
		a.state = StateSucceeded
		a.intentStatus = result.PaymentIntent.Status
		a.message = MsgSucceeded
		f.scheduleNavigation(a)
		f.metrics.RecordCheckoutOutcome("succeeded")
		log.WithField("intent_id", result.PaymentIntent.ID).Info("Payment succeeded")

	default:
		// e.g. requires_action: no follow-up handling, submission stays disabled
		if result.PaymentIntent != nil {
			a.intentStatus = result.PaymentIntent.Status
		}
		a.state = StateWidgetReady
		a.message = MsgCheckStatement
		f.metrics.RecordCheckoutOutcome("unresolved")
		log.WithField("intent_status", a.intentStatus).Warn("Payment left in a non-final status")
	}

	return a.snapshotLocked(f.cfg.PublishableKey), nil
}

// scheduleNavigation must be called with a.mu held
func (f *Flow) scheduleNavigation(a *Attempt) {
	if a.navScheduled {
		return
	}
	a.navScheduled = true

	f.scheduler.AfterFunc(f.cfg.SuccessDelay, func() {
		a.mu.Lock()
		a.redirect = f.cfg.SuccessURL
		a.mu.Unlock()
	})
}

func (f *Flow) transition(a *Attempt, to State, apply func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if apply != nil {
		apply()
	}
	a.state = to
}

// fail moves a to FAILED with submission disabled
func (f *Flow) fail(a *Attempt, kind FailureKind, info, errMsg string) {
	a.mu.Lock()
	a.state = StateFailed
	a.failure = kind
	a.info = info
	a.errMsg = errMsg
	a.submitEnabled = false
	a.mu.Unlock()

	f.metrics.RecordCheckoutOutcome(string(kind))
}

func (f *Flow) snapshot(a *Attempt) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked(f.cfg.PublishableKey)
}

func (a *Attempt) snapshotLocked(publishableKey string) Snapshot {
	s := Snapshot{
		ID:             a.id,
		State:          a.state,
		Amount:         a.amount,
		Currency:       a.currency,
		PaymentMethod:  a.method,
		PaymentMethods: PaymentMethods,
		SubmitEnabled:  a.submitEnabled,
		Info:           a.info,
		Error:          a.errMsg,
		Message:        a.message,
		Failure:        a.failure,
		IntentStatus:   a.intentStatus,
		Redirect:       a.redirect,
	}
	if a.cart != nil {
		summary := a.cart.Summarize()
		s.Summary = &summary
	}
	if a.card != nil {
		s.PublishableKey = publishableKey
		s.ClientSecret = a.clientSecret
		s.WidgetID = a.card.ID()
		s.WidgetTarget = a.card.Target()
	}
	return s
}

// errorText is the message shown for a backend error
func errorText(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
