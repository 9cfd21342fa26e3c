// internal/domain/checkout/entity.go
package checkout

import (
	"errors"

	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/cart"
)

// State is a step of a checkout attempt
type State string

const (
	StateLoadingCart    State = "LOADING_CART"
	StateCartReady      State = "CART_READY"
	StateCreatingIntent State = "CREATING_INTENT"
	StateWidgetReady    State = "WIDGET_READY"
	StateSubmitting     State = "SUBMITTING"
	StateSucceeded      State = "SUCCEEDED"
	StateFailed         State = "FAILED"
)

// Terminal reports whether no further transition is expected without a retry
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// PaymentMethod is the option picked in the selector. Both options are
// collected by the same card widget.
type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodDebitCard  PaymentMethod = "debit_card"
)

// PaymentMethods lists the selector options; the first is the default
var PaymentMethods = []PaymentMethod{MethodCreditCard, MethodDebitCard}

// Valid reports whether m is one of PaymentMethods
func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// FailureKind classifies why an attempt failed
type FailureKind string

const (
	FailureNone           FailureKind = ""
	FailureMisconfigured  FailureKind = "misconfigured"
	FailureNotLoggedIn    FailureKind = "not_logged_in"
	FailureSessionExpired FailureKind = "session_expired"
	FailureConnection     FailureKind = "connection"
	FailureBackend        FailureKind = "backend"
	FailureCartEmpty      FailureKind = "cart_empty"
	FailureCartInvalid    FailureKind = "cart_invalid"
	FailureIntent         FailureKind = "intent"
	FailureMalformed      FailureKind = "malformed_response"
	FailureWidget         FailureKind = "widget"
	FailureDeclined       FailureKind = "declined"
	FailureProcessing     FailureKind = "processing_error"
)

// User-visible texts
const (
	MsgMisconfigured   = "Configure a Stripe Publishable Key (STRIPE_PUBLISHABLE_KEY) antes de testar."
	MsgNotLoggedIn     = "Você precisa estar logado para acessar o pagamento."
	MsgCartEmpty       = "Carrinho vazio. Adicione produtos antes de pagar."
	MsgCartInvalid     = "Carrinho inválido: total deve ser maior que zero."
	MsgNoClientSecret  = "Erro: Resposta inválida do servidor (sem clientSecret)."
	MsgBadClientSecret = "Erro: servidor retornou um clientSecret inválido. Verifique o backend (deve retornar paymentIntent.client_secret)."
	MsgWidgetFailed    = "Erro ao inicializar o formulário de pagamento."
	MsgProcessing      = "Processando pagamento..."
	MsgSucceeded       = "Pagamento realizado com sucesso! Redirecionando..."
	MsgCheckStatement  = "Pagamento processado. Verifique seu extrato."
	MsgDeclinedDefault = "Erro ao processar pagamento."
	MsgConfirmError    = "Erro ao processar o pagamento."
)

var (
	// ErrNoAttempt is returned when the session has no checkout attempt
	ErrNoAttempt = errors.New("nenhum pagamento em andamento")
	// ErrSubmitDisabled is returned when the submit control is disabled,
	// including while a confirmation is in flight
	ErrSubmitDisabled = errors.New("envio do pagamento desabilitado")
	// ErrUnknownMethod is returned for selector values outside PaymentMethods
	ErrUnknownMethod = errors.New("opção de pagamento desconhecida")
	// ErrWidgetNotMounted is returned when the method changes before the widget exists
	ErrWidgetNotMounted = errors.New("formulário de pagamento ainda não foi montado")
	// ErrMissingClientSecret is returned when no alias carries a client secret
	ErrMissingClientSecret = errors.New("resposta sem clientSecret")
)

// IntentRequest is the body of POST /create-payment-intent
type IntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Snapshot is the observable state of an attempt
type Snapshot struct {
	ID             string          `json:"id"`
	State          State           `json:"state"`
	Summary        *cart.Summary   `json:"resumo,omitempty"`
	Amount         int64           `json:"amount,omitempty"`
	Currency       string          `json:"currency,omitempty"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
	PublishableKey string          `json:"publishableKey,omitempty"`
	ClientSecret   string          `json:"clientSecret,omitempty"`
	WidgetID       string          `json:"widgetId,omitempty"`
	WidgetTarget   string          `json:"widgetTarget,omitempty"`
	SubmitEnabled  bool            `json:"submitEnabled"`
	Info           string          `json:"info,omitempty"`
	Error          string          `json:"error,omitempty"`
	Message        string          `json:"message,omitempty"`
	Failure        FailureKind     `json:"failure,omitempty"`
	IntentStatus   string          `json:"intentStatus,omitempty"`
	Redirect       string          `json:"redirect,omitempty"`
}

// SelectMethodRequest is the body of PUT /pagamento/metodo
type SelectMethodRequest struct {
	PaymentMethod PaymentMethod `json:"paymentMethod" binding:"required"`
}

// ConfirmRequest carries the payment method the card widget tokenized
type ConfirmRequest struct {
	PaymentMethodID string `json:"paymentMethodId" binding:"required"`
}
