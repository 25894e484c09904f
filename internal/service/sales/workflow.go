package sales

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

var (
	ErrInvalidCPF       = errors.New("sales: cpf must be formatted as 000.000.000-00")
	ErrCustomerNotFound = errors.New("sales: no customer with this cpf")
	ErrSaleInProgress   = errors.New("sales: a sale is already in progress")
	ErrNoCustomer       = errors.New("sales: no customer selected")
	ErrEmptyCart        = errors.New("sales: cart is empty")
	ErrUnknownMedicine  = errors.New("sales: medicine is not available for sale")
	ErrBusy             = errors.New("sales: sale is being submitted")
)

// MinSearchLength is the shortest term sent to the backend. Shorter terms
// show the whole sellable catalog.
const MinSearchLength = 2

// State is the position of the workflow in its lifecycle. Finalized and
// abandoned sales reset straight to StateNoCustomer.
type State string

const (
	StateNoCustomer         State = "NO_CUSTOMER"
	StateCustomerIdentified State = "CUSTOMER_IDENTIFIED"
	StateBuilding           State = "BUILDING"
)

// API is the slice of the backend the workflow talks to.
type API interface {
	FindCustomerByCPF(ctx context.Context, cpf string) (*models.Customer, error)
	ListActiveMedicines(ctx context.Context) ([]models.Medicine, error)
	CreateSale(ctx context.Context, req models.SaleRequest) (*models.Sale, error)
	RecordCancelledSale(ctx context.Context, req models.SaleRequest) (*models.Sale, error)
}

// Snapshot is the observable state of the workflow.
type Snapshot struct {
	State      State             `json:"state"`
	Customer   *models.Customer  `json:"customer"`
	Items      []models.CartItem `json:"items"`
	Total      float64           `json:"total"`
	SearchTerm string            `json:"searchTerm"`
	Results    []models.Medicine `json:"results"`
	Searching  bool              `json:"searching"`
}

// Workflow assembles one sale for one customer at a time.
type Workflow struct {
	api          API
	logger       *zap.Logger
	debounce     time.Duration
	queryTimeout time.Duration
	now          func() time.Time

	mu         sync.Mutex
	customer   *models.Customer
	cart       Cart
	catalog    []models.Medicine
	results    []models.Medicine
	term       string
	searching  bool
	submitting bool
	seq        uint64
	gen        uint64
	timer      *time.Timer
}

// NewWorkflow builds a workflow waiting for a customer.
func NewWorkflow(api API, debounce time.Duration, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		api:          api,
		logger:       logger,
		debounce:     debounce,
		queryTimeout: 15 * time.Second,
		now:          time.Now,
	}
}

// Snapshot returns a copy of the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	var customer *models.Customer
	if w.customer != nil {
		c := *w.customer
		customer = &c
	}
	return Snapshot{
		State:      w.stateLocked(),
		Customer:   customer,
		Items:      w.cart.Items(),
		Total:      w.cart.Total(),
		SearchTerm: w.term,
		Results:    cloneMedicines(w.results),
		Searching:  w.searching,
	}
}

func (w *Workflow) stateLocked() State {
	switch {
	case w.customer == nil:
		return StateNoCustomer
	case w.cart.Len() == 0:
		return StateCustomerIdentified
	default:
		return StateBuilding
	}
}

// IdentifyCustomer starts a sale for the customer with the given formatted
// CPF and loads the sellable catalog. When the customer is found but the
// catalog fails to load, the customer is returned together with the error.
func (w *Workflow) IdentifyCustomer(ctx context.Context, cpf string) (*models.Customer, error) {
	if !ValidCPFFormat(cpf) {
		return nil, ErrInvalidCPF
	}

	w.mu.Lock()
	busy := w.customer != nil
	w.mu.Unlock()
	if busy {
		return nil, ErrSaleInProgress
	}

	customer, err := w.api.FindCustomerByCPF(ctx, cpf)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	w.mu.Lock()
	if w.customer != nil {
		w.mu.Unlock()
		return nil, ErrSaleInProgress
	}
	w.customer = customer
	w.mu.Unlock()

	w.logger.Info("sale started", zap.String("customer_id", customer.ID))

	if err := w.ReloadCatalog(ctx); err != nil {
		return customer, err
	}
	return customer, nil
}

// ReloadCatalog fetches active medicines and keeps the sellable ones, sorted
// by name.
func (w *Workflow) ReloadCatalog(ctx context.Context) error {
	w.mu.Lock()
	if w.customer == nil {
		w.mu.Unlock()
		return ErrNoCustomer
	}
	w.searching = true
	gen := w.gen
	w.mu.Unlock()

	medicines, err := w.api.ListActiveMedicines(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		// The sale was reset while loading; the result belongs to no one.
		return err
	}
	w.searching = false
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	sellable := FilterSellable(medicines, w.now())
	SortByName(sellable)
	w.catalog = sellable

	if utf8.RuneCountInString(w.term) < MinSearchLength {
		w.results = cloneMedicines(sellable)
	} else {
		w.scheduleSearchLocked()
	}
	return nil
}

// SetSearchTerm records the operator's query. Short terms show the catalog
// at once; longer ones hit the backend after the debounce period. Only the
// most recently scheduled query may update the results.
func (w *Workflow) SetSearchTerm(term string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.customer == nil {
		return ErrNoCustomer
	}

	w.term = term
	if utf8.RuneCountInString(term) < MinSearchLength {
		w.cancelSearchLocked()
		w.results = cloneMedicines(w.catalog)
		w.searching = false
		return nil
	}
	w.scheduleSearchLocked()
	return nil
}

func (w *Workflow) cancelSearchLocked() {
	w.seq++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Workflow) scheduleSearchLocked() {
	w.cancelSearchLocked()

	seq, term := w.seq, w.term
	w.searching = true
	w.timer = time.AfterFunc(w.debounce, func() { w.runSearch(seq, term) })
}

func (w *Workflow) runSearch(seq uint64, term string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.queryTimeout)
	defer cancel()

	medicines, err := w.api.ListActiveMedicines(ctx)

	var found []models.Medicine
	if err == nil {
		matching := make([]models.Medicine, 0, len(medicines))
		for _, m := range medicines {
			if MatchesTerm(m, term) {
				matching = append(matching, m)
			}
		}
		found = FilterSellable(matching, w.now())
		SortByName(found)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if seq != w.seq {
		w.logger.Debug("discarding stale search result", zap.String("term", term), zap.Uint64("seq", seq), zap.Uint64("latest", w.seq))
		return
	}
	w.searching = false
	w.timer = nil
	if err != nil {
		w.logger.Error("medicine search failed", zap.String("term", term), zap.Error(err))
		return
	}
	w.results = found
}

// AddToCart adds one unit of the medicine.
func (w *Workflow) AddToCart(m models.Medicine) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutableLocked(); err != nil {
		return err
	}
	return w.cart.Add(m)
}

// AddToCartByID adds one unit of a medicine shown in the current results or
// catalog.
func (w *Workflow) AddToCartByID(medicineID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutableLocked(); err != nil {
		return err
	}
	m, ok := w.lookupLocked(medicineID)
	if !ok {
		return ErrUnknownMedicine
	}
	return w.cart.Add(m)
}

func (w *Workflow) lookupLocked(medicineID string) (models.Medicine, bool) {
	for _, list := range [][]models.Medicine{w.results, w.catalog} {
		for _, m := range list {
			if m.ID == medicineID {
				return m, true
			}
		}
	}
	return models.Medicine{}, false
}

// SetQuantity changes the quantity of a cart line. See Cart.SetQuantity.
func (w *Workflow) SetQuantity(medicineID string, quantity int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutableLocked(); err != nil {
		return err
	}
	return w.cart.SetQuantity(medicineID, quantity)
}

// RemoveFromCart deletes a cart line.
func (w *Workflow) RemoveFromCart(medicineID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutableLocked(); err != nil {
		return err
	}
	return w.cart.Remove(medicineID)
}

func (w *Workflow) mutableLocked() error {
	if w.customer == nil {
		return ErrNoCustomer
	}
	if w.submitting {
		return ErrBusy
	}
	return nil
}

// Finalize submits the cart as one sale. On success the workflow returns to
// StateNoCustomer; on failure the cart and customer are kept for a retry.
func (w *Workflow) Finalize(ctx context.Context) (*models.Sale, error) {
	w.mu.Lock()
	if err := w.mutableLocked(); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if w.cart.Len() == 0 {
		w.mu.Unlock()
		return nil, ErrEmptyCart
	}
	req := models.SaleRequest{CustomerID: w.customer.ID, Items: w.cart.SaleItems()}
	w.submitting = true
	gen := w.gen
	w.mu.Unlock()

	sale, err := w.api.CreateSale(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		w.logger.Warn("sale submission finished after reset", zap.String("customer_id", req.CustomerID), zap.Error(err))
		return sale, err
	}
	w.submitting = false
	if err != nil {
		w.logger.Warn("sale submission failed", zap.String("customer_id", req.CustomerID), zap.Int("items", len(req.Items)), zap.Error(err))
		return nil, err
	}

	w.logger.Info("sale finalized", zap.String("sale_id", sale.ID), zap.String("customer_id", req.CustomerID), zap.Int("items", len(req.Items)))
	w.resetLocked()
	return sale, nil
}

// Abandon drops the sale in progress. A non-empty cart is first recorded as
// a cancelled sale; that call is best effort and its failure is only logged.
// It reports whether the cancellation was recorded.
func (w *Workflow) Abandon(ctx context.Context) (bool, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return false, ErrBusy
	}
	var req *models.SaleRequest
	if w.customer != nil && w.cart.Len() > 0 {
		req = &models.SaleRequest{CustomerID: w.customer.ID, Items: w.cart.SaleItems()}
		w.submitting = true
	}
	gen := w.gen
	w.mu.Unlock()

	recorded := false
	if req != nil {
		if _, err := w.api.RecordCancelledSale(ctx, *req); err != nil {
			w.logger.Warn("failed to record cancelled sale",
				zap.String("customer_id", req.CustomerID),
				zap.Int("items", len(req.Items)),
				zap.Error(err))
		} else {
			recorded = true
			w.logger.Info("cancelled sale recorded", zap.String("customer_id", req.CustomerID), zap.Int("items", len(req.Items)))
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen == w.gen {
		w.resetLocked()
	}
	return recorded, nil
}

// Reset clears the workflow without contacting the backend, e.g. on logout.
// A submission still in flight finishes without touching the new sale.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

func (w *Workflow) resetLocked() {
	w.gen++
	w.submitting = false
	w.cancelSearchLocked()
	w.customer = nil
	w.cart.Clear()
	w.catalog = nil
	w.results = nil
	w.term = ""
	w.searching = false
}

func cloneMedicines(in []models.Medicine) []models.Medicine {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Medicine, len(in))
	copy(out, in)
	return out
}
