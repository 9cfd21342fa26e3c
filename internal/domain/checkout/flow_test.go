package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/cart"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/payment"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/session"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/infrastructure/backend"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/pkg/logger"
)

const (
	sid        = "sid-1"
	testKey    = "pk_test_123"
	testSecret = "pi_1_secret_abc"
)

type fakeCarts struct {
	cart  string
	err   error
	calls int
}

func (f *fakeCarts) Get(_ context.Context, _ string) (*cart.Cart, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var c cart.Cart
	if err := json.Unmarshal([]byte(f.cart), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

type fakeIntentAPI struct {
	resp     string
	err      error
	requests []IntentRequest
}

func (f *fakeIntentAPI) Post(_ context.Context, path string, in, out any) error {
	if path != PathCreateIntent {
		return errors.New("unexpected path " + path)
	}
	f.requests = append(f.requests, in.(IntentRequest))
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.resp), out)
}

// fakeGateway builds real widgets but answers confirmations from its fields
type fakeGateway struct {
	*payment.Gateway

	mu      sync.Mutex
	result  *payment.ConfirmResult
	err     error
	calls   int
	methods []string
	sids    []string
	entered chan struct{}
	release chan struct{}
}

// ConfirmCardPayment fails like a real HTTP call when ctx is already done
func (g *fakeGateway) ConfirmCardPayment(ctx context.Context, secret string, card *payment.CardElement) (*payment.ConfirmResult, error) {
	g.mu.Lock()
	g.calls++
	g.methods = append(g.methods, card.PaymentMethod())
	g.sids = append(g.sids, session.IDFrom(ctx))
	result, err := g.result, g.err
	g.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	if secret != testSecret {
		return nil, errors.New("unexpected secret " + secret)
	}
	return result, err
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

type fakeScheduler struct {
	mu    sync.Mutex
	tasks []scheduled
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, scheduled{delay: d, fn: fn})
}

type outcomes struct {
	mu   sync.Mutex
	seen []string
}

func (o *outcomes) RecordBackendRequest(string, int, time.Duration) {}
func (o *outcomes) RecordSessionExpired()                          {}
func (o *outcomes) RecordCheckoutOutcome(outcome string) {
	o.mu.Lock()
	o.seen = append(o.seen, outcome)
	o.mu.Unlock()
}

type harness struct {
	flow      *Flow
	carts     *fakeCarts
	api       *fakeIntentAPI
	gateway   *fakeGateway
	scheduler *fakeScheduler
	store     *session.MemoryStore
	registry  *Registry
	outcomes  *outcomes
}

func newHarness(t *testing.T, cartJSON string) *harness {
	t.Helper()

	gw, err := payment.NewGateway(testKey, "http://gateway.invalid", nil, logger.Discard())
	require.NoError(t, err)

	h := &harness{
		carts:     &fakeCarts{cart: cartJSON},
		api:       &fakeIntentAPI{resp: `{"clientSecret":"` + testSecret + `"}`},
		gateway:   &fakeGateway{Gateway: gw},
		scheduler: &fakeScheduler{},
		store:     session.NewMemoryStore(0),
		registry:  NewRegistry(0),
		outcomes:  &outcomes{},
	}
	require.NoError(t, h.store.Set(context.Background(), sid, session.NewCredential("tok", "CLIENTE", "Bia")))

	h.flow = h.newFlow(testKey, h.gateway)
	return h
}

func (h *harness) newFlow(key string, gw Gateway) *Flow {
	cfg := Config{
		PublishableKey: key,
		BackendURL:     "http://localhost:8000",
		Currency:       "brl",
		SuccessURL:     "/pagamento-success",
		SuccessDelay:   1200 * time.Millisecond,
		PaymentElement: "#payment-element",
	}
	return NewFlow(cfg, h.carts, h.api, h.store, gw, h.registry, h.scheduler, h.outcomes, logger.Discard())
}

const oneItem = `{"itens":[{"produtoId":"p1","nome":"Caneca","precoUnitario":19.9,"quantidade":1}]}`

func (h *harness) ready(t *testing.T) Snapshot {
	t.Helper()
	snap, err := h.flow.Start(context.Background(), sid)
	require.NoError(t, err)
	require.Equal(t, StateWidgetReady, snap.State, "error=%q info=%q", snap.Error, snap.Info)
	return snap
}

func TestFlow_ReachesWidgetReady(t *testing.T) {
	h := newHarness(t, oneItem)

	snap := h.ready(t)

	assert.True(t, snap.SubmitEnabled)
	assert.Equal(t, int64(1990), snap.Amount)
	assert.Equal(t, "brl", snap.Currency)
	assert.Equal(t, MethodCreditCard, snap.PaymentMethod)
	assert.Equal(t, testSecret, snap.ClientSecret)
	assert.Equal(t, testKey, snap.PublishableKey)
	assert.Equal(t, "#payment-element", snap.WidgetTarget)
	assert.NotEmpty(t, snap.WidgetID)
	require.NotNil(t, snap.Summary)
	assert.Equal(t, "Caneca", snap.Summary.Items[0].Name)
	assert.Equal(t, []IntentRequest{{Amount: 1990, Currency: "brl"}}, h.api.requests)
}

func TestFlow_AmountRounding(t *testing.T) {
	tests := []struct {
		cart string
		want int64
	}{
		{cart: `{"itens":[{"precoUnitario":10,"quantidade":1}],"total":10.005}`, want: 1001},
		{cart: `{"itens":[{"precoUnitario":"3.333","quantidade":3}]}`, want: 1000},
		{cart: `{"itens":[{"precoUnitario":0.1,"quantidade":3}]}`, want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.cart, func(t *testing.T) {
			h := newHarness(t, tt.cart)
			h.ready(t)
			require.Len(t, h.api.requests, 1)
			assert.Equal(t, tt.want, h.api.requests[0].Amount)
		})
	}
}

func TestFlow_NonPositiveCartNeverCreatesIntent(t *testing.T) {
	tests := []struct {
		name    string
		cart    string
		failure FailureKind
		info    string
	}{
		{name: "null cart", cart: `null`, failure: FailureCartEmpty, info: MsgCartEmpty},
		{name: "no items", cart: `{"itens":[]}`, failure: FailureCartEmpty, info: MsgCartEmpty},
		{name: "zero prices", cart: `{"itens":[{"precoUnitario":0,"quantidade":2}]}`, failure: FailureCartInvalid, info: MsgCartInvalid},
		{name: "garbage numbers", cart: `{"itens":[{"precoUnitario":"abc","quantidade":null}],"total":"x"}`, failure: FailureCartInvalid, info: MsgCartInvalid},
		{name: "negative", cart: `{"itens":[{"precoUnitario":-5,"quantidade":1}]}`, failure: FailureCartInvalid, info: MsgCartInvalid},
		{name: "negative supplied total", cart: `{"itens":[{"precoUnitario":2,"quantidade":3}],"total":-1}`, failure: FailureCartInvalid, info: MsgCartInvalid},
		{name: "rounds to zero cents", cart: `{"itens":[{"precoUnitario":0.004,"quantidade":1}]}`, failure: FailureCartInvalid, info: MsgCartInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.cart)

			snap, err := h.flow.Start(context.Background(), sid)
			require.NoError(t, err)

			assert.Equal(t, StateFailed, snap.State)
			assert.Equal(t, tt.failure, snap.Failure)
			assert.Equal(t, tt.info, snap.Info)
			assert.False(t, snap.SubmitEnabled)
			assert.Empty(t, h.api.requests)
		})
	}
}

func TestFlow_CartLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		failure FailureKind
		message string
	}{
		{
			name:    "connection refused",
			err:     &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")},
			failure: FailureConnection,
			message: "Falha de conexão: não foi possível conectar ao backend em http://localhost:8000. Verifique se o servidor está rodando e se a porta/host estão corretos.",
		},
		{
			name:    "fetch signature",
			err:     errors.New("TypeError: Failed to fetch"),
			failure: FailureConnection,
		},
		{
			name:    "backend error",
			err:     &backend.APIError{Status: 500, Message: "boom"},
			failure: FailureBackend,
			message: "Erro ao carregar carrinho: HTTP 500: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, oneItem)
			h.carts.err = tt.err

			snap, err := h.flow.Start(context.Background(), sid)
			require.NoError(t, err)

			assert.Equal(t, StateFailed, snap.State)
			assert.Equal(t, tt.failure, snap.Failure)
			if tt.message != "" {
				assert.Equal(t, tt.message, snap.Error)
			}
			assert.False(t, snap.SubmitEnabled)
			assert.Empty(t, h.api.requests)
		})
	}
}

func TestFlow_SessionExpiredDuringCartLoad(t *testing.T) {
	h := newHarness(t, oneItem)
	h.carts.err = &backend.SessionExpiredError{
		RedirectURL: backend.ExpiredRedirectURL,
		Err:         &backend.APIError{Status: 401, Message: "jwt expired"},
	}

	snap, err := h.flow.Start(context.Background(), sid)

	expired, ok := backend.IsSessionExpired(err)
	require.True(t, ok)
	assert.Equal(t, "/login?mensagem=Token_expirado!", expired.RedirectURL)
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, FailureSessionExpired, snap.Failure)
	assert.Equal(t, "Erro ao carregar carrinho: HTTP 401: jwt expired", snap.Error)
}

func TestFlow_RequiresLogin(t *testing.T) {
	h := newHarness(t, oneItem)
	require.NoError(t, h.store.Clear(context.Background(), sid, session.ReasonLogout))

	snap, err := h.flow.Start(context.Background(), sid)
	require.NoError(t, err)

	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, MsgNotLoggedIn, snap.Info)
	assert.Equal(t, 0, h.carts.calls)
}

func TestFlow_MisconfiguredKey(t *testing.T) {
	h := newHarness(t, oneItem)

	for name, flow := range map[string]*Flow{
		"placeholder": h.newFlow("pk_test_YOUR_PUBLISHABLE_KEY", h.gateway),
		"empty":       h.newFlow("", h.gateway),
		"no gateway":  h.newFlow(testKey, nil),
	} {
		t.Run(name, func(t *testing.T) {
			snap, err := flow.Start(context.Background(), sid)
			require.NoError(t, err)
			assert.Equal(t, StateFailed, snap.State)
			assert.Equal(t, FailureMisconfigured, snap.Failure)
			assert.Equal(t, MsgMisconfigured, snap.Error)
			assert.False(t, snap.SubmitEnabled)
		})
	}
	assert.Equal(t, 0, h.carts.calls)
}

func TestFlow_ClientSecretValidation(t *testing.T) {
	tests := []struct {
		name    string
		resp    string
		state   State
		message string
	}{
		{name: "bare id", resp: `{"id":"pi_1"}`, state: StateFailed, message: MsgBadClientSecret},
		{name: "non-empty but not a secret", resp: `{"clientSecret":"pi_1"}`, state: StateFailed, message: MsgBadClientSecret},
		{name: "missing", resp: `{"ok":true}`, state: StateFailed, message: MsgNoClientSecret},
		{name: "snake case alias", resp: `{"client_secret":"` + testSecret + `"}`, state: StateWidgetReady},
		{name: "value alias", resp: `{"clientSecret":"","client_secret_value":"` + testSecret + `"}`, state: StateWidgetReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, oneItem)
			h.api.resp = tt.resp

			snap, err := h.flow.Start(context.Background(), sid)
			require.NoError(t, err)
			assert.Equal(t, tt.state, snap.State)
			assert.Equal(t, tt.message, snap.Error)
			if tt.state == StateFailed {
				assert.Equal(t, FailureMalformed, snap.Failure)
				assert.Empty(t, snap.WidgetID)
				assert.False(t, snap.SubmitEnabled)
			}
		})
	}
}

func TestFlow_IntentCreationFails(t *testing.T) {
	h := newHarness(t, oneItem)
	h.api.err = &backend.APIError{Status: 400, Message: "amount inválido"}

	snap, err := h.flow.Start(context.Background(), sid)
	require.NoError(t, err)

	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, FailureIntent, snap.Failure)
	assert.Equal(t, "Erro ao criar PaymentIntent: HTTP 400: amount inválido", snap.Error)
	assert.False(t, snap.SubmitEnabled)
}

func TestFlow_SucceededSchedulesOneNavigation(t *testing.T) {
	h := newHarness(t, oneItem)
	h.ready(t)
	h.gateway.result = &payment.ConfirmResult{PaymentIntent: &payment.PaymentIntent{ID: "pi_1", Status: payment.StatusSucceeded}}

	snap, err := h.flow.Submit(context.Background(), sid, "pm_card_visa")
	require.NoError(t, err)

	assert.Equal(t, StateSucceeded, snap.State)
	assert.Equal(t, MsgSucceeded, snap.Message)
	assert.False(t, snap.SubmitEnabled)
	assert.Empty(t, snap.Redirect)
	assert.Equal(t, []string{"pm_card_visa"}, h.gateway.methods)

	require.Len(t, h.scheduler.tasks, 1)
	assert.Equal(t, 1200*time.Millisecond, h.scheduler.tasks[0].delay)

	h.scheduler.tasks[0].fn()
	snap, err = h.flow.Snapshot(sid)
	require.NoError(t, err)
	assert.Equal(t, "/pagamento-success", snap.Redirect)

	_, err = h.flow.Submit(context.Background(), sid, "pm_card_visa")
	assert.ErrorIs(t, err, ErrSubmitDisabled)
	assert.Len(t, h.scheduler.tasks, 1)
	assert.Contains(t, h.outcomes.seen, "succeeded")
}

func TestFlow_ConfirmationOutlivesCancelledRequest(t *testing.T) {
	h := newHarness(t, oneItem)
	h.ready(t)
	h.gateway.result = &payment.ConfirmResult{PaymentIntent: &payment.PaymentIntent{ID: "pi_1", Status: payment.StatusSucceeded}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap, err := h.flow.Submit(ctx, sid, "pm_card_visa")
	require.NoError(t, err)

	assert.Equal(t, StateSucceeded, snap.State)
	assert.Equal(t, FailureNone, snap.Failure)
	assert.Empty(t, snap.Error)
	assert.Equal(t, []string{sid}, h.gateway.sids)
	assert.Len(t, h.scheduler.tasks, 1)
}

func TestFlow_DeclinedReenablesSubmit(t *testing.T) {
	h := newHarness(t, oneItem)
	h.ready(t)
	h.gateway.result = &payment.ConfirmResult{Error: &payment.GatewayError{Type: "card_error", Message: "Seu cartão foi recusado."}}

	snap, err := h.flow.Submit(context.Background(), sid, "pm_card_declined")
	require.NoError(t, err)

	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, FailureDeclined, snap.Failure)
	assert.Equal(t, "Seu cartão foi recusado.", snap.Error)
	assert.Empty(t, snap.Message)
	assert.True(t, snap.SubmitEnabled)
	assert.Empty(t, h.scheduler.tasks)

	// retry with another card on the same intent
	h.gateway.result = &payment.ConfirmResult{PaymentIntent: &payment.PaymentIntent{Status: payment.StatusSucceeded}}
	snap, err = h.flow.Submit(context.Background(), sid, "pm_card_visa")
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, snap.State)
	assert.Empty(t, snap.Error)
	assert.Equal(t, []string{"pm_card_declined", "pm_card_visa"}, h.gateway.methods)
}

func TestFlow_DeclinedWithoutMessage(t *testing.T) {
	h := newHarness(t, oneItem)
	h.ready(t)
	h.gateway.result = &payment.ConfirmResult{Error: &payment.GatewayError{Type: "api_error"}}

	snap, err := h.flow.Submit(context.Background(), sid, "pm_x")
	require.NoError(t, err)
	assert.Equal(t, MsgDeclinedDefault, snap.Error)
}

func TestFlow_ConfirmErrorReenablesSubmit(t *testing.T) {
	h := newHarness(t, oneItem)
	h.ready(t)
	h.gateway.err = errors.New("failed to make API call: connection reset")

	snap, err := h.flow.Submit(context.Background(), sid, "pm_x")
	require.NoError(t, err)

	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, FailureProcessing, snap.Failure)
	assert.Equal(t, MsgConfirmError, snap.Error)
	assert.Empty(t, snap.Message)
	assert.True(t, snap.SubmitEnabled)
	assert.Empty(t, h.scheduler.tasks)
}

func TestFlow_RequiresActionLeavesSubmitDisabled(t *testing.T) {
	h := newHarness(t, oneItem)
	h.ready(t)
	h.gateway.result = &payment.ConfirmResult{PaymentIntent: &payment.PaymentIntent{Status: payment.StatusRequiresAction}}

	snap, err := h.flow.Submit(context.Background(), sid, "pm_3ds")
	require.NoError(t, err)

	assert.Equal(t, StateWidgetReady, snap.State)
	assert.Equal(t, MsgCheckStatement, snap.Message)
	assert.Equal(t, payment.StatusRequiresAction, snap.IntentStatus)
	assert.False(t, snap.SubmitEnabled)
	assert.Empty(t, h.scheduler.tasks)

	_, err = h.flow.Submit(context.Background(), sid, "pm_3ds")
	assert.ErrorIs(t, err, ErrSubmitDisabled)
}

func TestFlow_ConcurrentSubmitRejected(t *testing.T) {
	h := newHarness(t, oneItem)
	h.ready(t)
	h.gateway.result = &payment.ConfirmResult{PaymentIntent: &payment.PaymentIntent{Status: payment.StatusSucceeded}}
	h.gateway.entered = make(chan struct{}, 1)
	h.gateway.release = make(chan struct{})

	done := make(chan Snapshot)
	go func() {
		snap, err := h.flow.Submit(context.Background(), sid, "pm_first")
		assert.NoError(t, err)
		done <- snap
	}()
	<-h.gateway.entered

	inFlight, err := h.flow.Snapshot(sid)
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, inFlight.State)
	assert.Equal(t, MsgProcessing, inFlight.Message)
	assert.False(t, inFlight.SubmitEnabled)

	_, err = h.flow.Submit(context.Background(), sid, "pm_second")
	assert.ErrorIs(t, err, ErrSubmitDisabled)

	close(h.gateway.release)
	final := <-done
	assert.Equal(t, StateSucceeded, final.State)
	assert.Equal(t, 1, h.gateway.calls)
}

func TestFlow_SubmitNeedsPaymentMethod(t *testing.T) {
	h := newHarness(t, oneItem)
	h.ready(t)

	_, err := h.flow.Submit(context.Background(), sid, "  ")
	assert.ErrorIs(t, err, payment.ErrNoPaymentMethod)

	snap, err := h.flow.Snapshot(sid)
	require.NoError(t, err)
	assert.Equal(t, StateWidgetReady, snap.State)
	assert.True(t, snap.SubmitEnabled)
	assert.Equal(t, 0, h.gateway.calls)
}

func TestFlow_SubmitWithoutAttemptOrWidget(t *testing.T) {
	h := newHarness(t, `{"itens":[]}`)

	_, err := h.flow.Submit(context.Background(), sid, "pm_x")
	assert.ErrorIs(t, err, ErrNoAttempt)

	_, err = h.flow.Start(context.Background(), sid)
	require.NoError(t, err)
	_, err = h.flow.Submit(context.Background(), sid, "pm_x")
	assert.ErrorIs(t, err, ErrSubmitDisabled)
}

func TestFlow_SelectMethodRemountsSameWidget(t *testing.T) {
	h := newHarness(t, oneItem)
	before := h.ready(t)

	snap, err := h.flow.SelectMethod(sid, MethodDebitCard)
	require.NoError(t, err)
	assert.Equal(t, MethodDebitCard, snap.PaymentMethod)
	assert.Equal(t, before.WidgetID, snap.WidgetID)
	assert.Equal(t, "#payment-element", snap.WidgetTarget)

	snap, err = h.flow.SelectMethod(sid, MethodCreditCard)
	require.NoError(t, err)
	assert.Equal(t, before.WidgetID, snap.WidgetID)

	a, ok := h.registry.Get(sid)
	require.True(t, ok)
	assert.Equal(t, 3, a.Card().MountCount())

	_, err = h.flow.SelectMethod(sid, "pix")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestFlow_SelectMethodBeforeWidget(t *testing.T) {
	h := newHarness(t, `{"itens":[]}`)
	_, err := h.flow.Start(context.Background(), sid)
	require.NoError(t, err)

	_, err = h.flow.SelectMethod(sid, MethodDebitCard)
	assert.ErrorIs(t, err, ErrWidgetNotMounted)
}

func TestFlow_StartReplacesAttempt(t *testing.T) {
	h := newHarness(t, oneItem)
	first := h.ready(t)
	second := h.ready(t)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.WidgetID, second.WidgetID)
	assert.Len(t, h.api.requests, 2)
	assert.Equal(t, 1, h.registry.Len())
}

func TestRegistry_WatchDropsAttempt(t *testing.T) {
	h := newHarness(t, oneItem)
	h.registry.Watch(h.store)
	h.ready(t)

	require.NoError(t, h.store.Clear(context.Background(), sid, session.ReasonExpired))

	_, err := h.flow.Snapshot(sid)
	assert.ErrorIs(t, err, ErrNoAttempt)
}

func TestRegistry_SweepsIdleAttempts(t *testing.T) {
	r := NewRegistry(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Put("anon-1", &Attempt{state: StateFailed, failure: FailureNotLoggedIn})
	r.Put("paying", &Attempt{state: StateSubmitting})
	r.Put("active", &Attempt{state: StateWidgetReady})

	now = now.Add(40 * time.Second)
	_, ok := r.Get("active")
	require.True(t, ok)

	now = now.Add(30 * time.Second)
	r.Put("anon-2", &Attempt{state: StateFailed, failure: FailureNotLoggedIn})

	_, ok = r.Get("anon-1")
	assert.False(t, ok)
	_, ok = r.Get("paying")
	assert.True(t, ok, "attempt with a confirmation in flight is kept")
	_, ok = r.Get("active")
	assert.True(t, ok)
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_AnonymousStartsDoNotAccumulate(t *testing.T) {
	h := newHarness(t, oneItem)
	h.registry = NewRegistry(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h.registry.now = func() time.Time { return now }
	h.flow = h.newFlow(testKey, h.gateway)

	for i := 0; i < 50; i++ {
		snap, err := h.flow.Start(context.Background(), fmt.Sprintf("anon-%d", i))
		require.NoError(t, err)
		require.Equal(t, FailureNotLoggedIn, snap.Failure)
		now = now.Add(10 * time.Second)
	}

	assert.LessOrEqual(t, h.registry.Len(), 12)
}

func TestExtractClientSecret(t *testing.T) {
	tests := []struct {
		name string
		resp map[string]any
		want string
		err  error
	}{
		{name: "camel case first", resp: map[string]any{"clientSecret": "a_secret_1", "client_secret": "b_secret_2"}, want: "a_secret_1"},
		{name: "skips empty", resp: map[string]any{"clientSecret": "", "client_secret": "b_secret_2"}, want: "b_secret_2"},
		{name: "skips non-string", resp: map[string]any{"clientSecret": 42.0, "id": "pi_1_secret_x"}, want: "pi_1_secret_x"},
		{name: "id only", resp: map[string]any{"id": "pi_1"}, want: "pi_1", err: payment.ErrInvalidClientSecret},
		{name: "nothing", resp: map[string]any{}, err: ErrMissingClientSecret},
		{name: "nil", resp: nil, err: ErrMissingClientSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractClientSecret(tt.resp)
			assert.Equal(t, tt.want, got)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAmount(t *testing.T) {
	assert.Equal(t, int64(1990), Amount(decimal.RequireFromString("19.9")))
	assert.Equal(t, int64(1001), Amount(decimal.RequireFromString("10.005")))
	assert.Equal(t, int64(0), Amount(decimal.Zero))
}
