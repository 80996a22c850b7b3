// Package checkout coordinates the cart snapshot, buyer info, payment
// method and coupon into one order submission against the backend, with
// an explicit state machine guarding re-entry and recovery.
//
// No failure path ever drops the cart: validation and backend errors
// leave it exactly as it was so the user can correct and retry.
package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/example/loja-storefront/internal/apiclient"
	"github.com/example/loja-storefront/internal/cart"
	"github.com/example/loja-storefront/internal/pricing"
	"github.com/example/loja-storefront/internal/session"
)

// State is the orchestrator's position in the submission flow.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrSubmitInFlight means a submission is already running; the
	// duplicate attempt is a no-op.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrClosed means the orchestrator was torn down; any in-flight
	// result is discarded.
	ErrClosed = errors.New("checkout was torn down")
)

// ValidationError blocks submission locally and never reaches the
// backend. The message is user-facing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation sentinels, surfaced verbatim to the user.
var (
	ErrNoBuyerName     = &ValidationError{Message: "Por favor, insira seu nome."}
	ErrNoPaymentMethod = &ValidationError{Message: "Por favor, selecione uma forma de pagamento."}
	ErrEmptyCart       = &ValidationError{Message: "Seu carrinho está vazio."}
)

// OrderPlacer is the external order-creation endpoint.
type OrderPlacer interface {
	CreateSale(ctx context.Context, req apiclient.SaleRequest) (apiclient.SaleResponse, error)
}

// Input is what the user supplies on the checkout screen.
type Input struct {
	BuyerName     string
	PaymentMethod string
	Coupon        string
}

// Confirmation identifies the created order for the confirmation view.
type Confirmation struct {
	SaleID    string
	BuyerName string
}

// Config tunes a single orchestrator.
type Config struct {
	// Pricing is the active rule set.
	Pricing pricing.Config
	// PaymentMethods is the accepted set; defaults to credit, pix and
	// boleto.
	PaymentMethods []string
	// Timeout bounds one submission request. The backend imposes no
	// deadline of its own, so the client bounds the request and treats
	// expiry as a recoverable failure.
	Timeout time.Duration
	// Now stands in for time.Now in tests.
	Now func() time.Time
}

const defaultTimeout = 20 * time.Second

func defaultPaymentMethods() []string {
	return []string{"credit", "pix", "boleto"}
}

// Orchestrator drives the Idle -> Validating -> Submitting ->
// Succeeded | Failed flow. Collaborators are injected; there are no
// hidden singletons.
type Orchestrator struct {
	mu           sync.Mutex
	state        State
	closed       bool
	lastErr      error
	confirmation *Confirmation

	cart    *cart.Store
	session *session.Store
	placer  OrderPlacer
	cfg     Config

	// invalidate flushes any cached product data after a sale so stock
	// counts reflect it.
	invalidate func()
}

func New(cartStore *cart.Store, sess *session.Store, placer OrderPlacer, cfg Config) *Orchestrator {
	if len(cfg.PaymentMethods) == 0 {
		cfg.PaymentMethods = defaultPaymentMethods()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Orchestrator{
		state:   StateIdle,
		cart:    cartStore,
		session: sess,
		placer:  placer,
		cfg:     cfg,
	}
}

// OnSuccess registers the cache-invalidation hook run after a completed
// sale.
func (o *Orchestrator) OnSuccess(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.invalidate = fn
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastError returns the error from the most recent failed submission.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Confirmation returns the created order's identity after a successful
// submission.
func (o *Orchestrator) Confirmation() (Confirmation, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.confirmation == nil {
		return Confirmation{}, false
	}
	return *o.confirmation, true
}

// Close tears the orchestrator down. An in-flight submission keeps
// running until its request resolves, but its outcome is discarded and
// no state is mutated afterwards.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
}

// Submit runs one checkout attempt. A second call while a submission is
// in flight returns ErrSubmitInFlight without side effects. On success
// the cart is cleared atomically and cached listings are invalidated; on
// any failure the cart is left intact and a new attempt is allowed.
func (o *Orchestrator) Submit(ctx context.Context, in Input) (Confirmation, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return Confirmation{}, ErrClosed
	}
	if o.state == StateSubmitting {
		o.mu.Unlock()
		return Confirmation{}, ErrSubmitInFlight
	}
	o.state = StateValidating
	o.confirmation = nil
	o.lastErr = nil

	buyerName := strings.TrimSpace(in.BuyerName)
	items := o.cart.Items()

	if err := o.validate(buyerName, in.PaymentMethod, items); err != nil {
		// Recoverable by user correction; the backend is never
		// contacted.
		o.state = StateIdle
		o.lastErr = err
		o.mu.Unlock()
		return Confirmation{}, err
	}

	req := o.buildSale(buyerName, in, items)
	o.state = StateSubmitting
	o.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	resp, err := o.placer.CreateSale(reqCtx, req)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		// Torn down mid-request: ignore the resolution entirely.
		return Confirmation{}, ErrClosed
	}

	if err != nil {
		// Backend, network and auth failures are all recoverable:
		// the cart is untouched and the user may retry.
		o.state = StateFailed
		o.lastErr = err
		return Confirmation{}, err
	}

	o.cart.Clear()
	if o.invalidate != nil {
		o.invalidate()
	}
	conf := Confirmation{SaleID: resp.ID, BuyerName: buyerName}
	o.confirmation = &conf
	o.state = StateSucceeded
	return conf, nil
}

func (o *Orchestrator) validate(buyerName, paymentMethod string, items []cart.LineItem) error {
	if buyerName == "" {
		return ErrNoBuyerName
	}
	if !o.acceptsPayment(paymentMethod) {
		return ErrNoPaymentMethod
	}
	if len(items) == 0 {
		return ErrEmptyCart
	}
	return nil
}

func (o *Orchestrator) acceptsPayment(method string) bool {
	for _, m := range o.cfg.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// buildSale snapshots the cart into the immutable order payload. Amounts
// are rounded here because this is presentation to the backend; the
// pricing engine itself keeps full precision.
func (o *Orchestrator) buildSale(buyerName string, in Input, items []cart.LineItem) apiclient.SaleRequest {
	quote := o.cfg.Pricing.Quote(items, in.Coupon).Rounded()

	produtos := make([]apiclient.SaleItem, 0, len(items))
	for _, li := range items {
		produtos = append(produtos, apiclient.SaleItem{
			Nome:       li.Name,
			Quantidade: li.Quantity,
			Preco:      li.UnitPrice.InexactFloat64(),
			Imagem:     li.Image,
			Color:      li.Color,
			Size:       li.Size,
		})
	}

	cupom := ""
	if quote.Coupon.Valid {
		cupom = quote.Coupon.Code
	}

	return apiclient.SaleRequest{
		NomeCliente:    buyerName,
		Usuario:        o.session.Usuario(),
		Data:           o.cfg.Now().Format("2006-01-02"),
		Produtos:       produtos,
		FormaPagamento: in.PaymentMethod,
		Cupom:          cupom,
		Desconto:       quote.Discount.InexactFloat64(),
		Total:          quote.Total.InexactFloat64(),
	}
}
