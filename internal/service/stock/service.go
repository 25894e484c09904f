package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

var (
	// ErrValidation wraps form problems caught before any request.
	ErrValidation = errors.New("stock: invalid movement")
	// ErrInsufficientStock is returned when an exit exceeds the current stock.
	ErrInsufficientStock = errors.New("stock: exit larger than current stock")
)

// API is the slice of the backend used for stock movements.
type API interface {
	GetMedicine(ctx context.Context, id string) (*models.Medicine, error)
	StockEntry(ctx context.Context, req models.StockRequest) (*models.StockOperationResponse, error)
	StockExit(ctx context.Context, req models.StockRequest) (*models.StockOperationResponse, error)
	GetStock(ctx context.Context, medicineID string) (*models.StockResponse, error)
}

// InsufficientStockError carries the numbers shown to the operator.
type InsufficientStockError struct {
	MedicineName string
	Requested    int
	Available    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock: exit of %d exceeds current stock %d of %s", e.Requested, e.Available, e.MedicineName)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// Service validates and records stock entries and exits.
type Service struct {
	api    API
	logger *zap.Logger
}

// NewService wires a new stock service instance.
func NewService(api API, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// Move validates the request and records it as an entry or exit.
func (s *Service) Move(ctx context.Context, kind models.MovementType, req models.StockRequest) (*models.StockOperationResponse, error) {
	if kind != models.MovementEntry && kind != models.MovementExit {
		return nil, fmt.Errorf("%w: unknown movement %q", ErrValidation, kind)
	}
	req.MedicineID = strings.TrimSpace(req.MedicineID)
	if req.MedicineID == "" {
		return nil, fmt.Errorf("%w: medicine is required", ErrValidation)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	medicine, err := s.api.GetMedicine(ctx, req.MedicineID)
	if err != nil {
		return nil, fmt.Errorf("load medicine: %w", err)
	}

	if kind == models.MovementExit && req.Quantity > medicine.StockQuantity {
		return nil, &InsufficientStockError{
			MedicineName: medicine.Name,
			Requested:    req.Quantity,
			Available:    medicine.StockQuantity,
		}
	}

	var resp *models.StockOperationResponse
	if kind == models.MovementEntry {
		resp, err = s.api.StockEntry(ctx, req)
	} else {
		resp, err = s.api.StockExit(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock movement recorded",
		zap.String("kind", string(kind)),
		zap.String("medicine_id", req.MedicineID),
		zap.Int("quantity", req.Quantity),
		zap.Int("current", resp.CurrentQuantity))
	return resp, nil
}

// Current returns the stock of one medicine.
func (s *Service) Current(ctx context.Context, medicineID string) (*models.StockResponse, error) {
	if strings.TrimSpace(medicineID) == "" {
		return nil, fmt.Errorf("%w: medicine is required", ErrValidation)
	}
	return s.api.GetStock(ctx, medicineID)
}
