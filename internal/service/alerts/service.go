package alerts

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/service/whatsapp"
)

// API is the slice of the backend used by the alert dashboard.
type API interface {
	GenerateAlerts(ctx context.Context) (string, error)
	ListAlerts(ctx context.Context) ([]models.Alert, error)
	ListUnreadAlerts(ctx context.Context) ([]models.Alert, error)
	ListLowStockAlerts(ctx context.Context) ([]models.Alert, error)
	ListExpiringAlerts(ctx context.Context) ([]models.Alert, error)
	ListExpiredAlerts(ctx context.Context) ([]models.Alert, error)
	MarkAlertRead(ctx context.Context, id string) (*models.Alert, error)
}

// Dashboard groups the alerts shown on the home screen.
type Dashboard struct {
	LowStock     []models.Alert `json:"lowStock"`
	ExpiringSoon []models.Alert `json:"expiringSoon"`
	Expired      []models.Alert `json:"expired"`
	RefreshedAt  time.Time      `json:"refreshedAt"`
}

// Count returns the number of alerts on the dashboard.
func (d Dashboard) Count() int {
	return len(d.LowStock) + len(d.ExpiringSoon) + len(d.Expired)
}

// Service keeps the alert dashboard and optionally pushes a digest of new
// alerts to a messaging channel.
type Service struct {
	api       API
	messaging whatsapp.MessagingService
	recipient string
	logger    *zap.Logger
	now       func() time.Time

	mu        sync.RWMutex
	dashboard Dashboard
	notified  map[string]struct{}
}

// NewService wires a new alert service. messaging may be nil to disable digests.
func NewService(api API, messaging whatsapp.MessagingService, recipient string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:       api,
		messaging: messaging,
		recipient: recipient,
		logger:    logger,
		now:       time.Now,
		notified:  make(map[string]struct{}),
	}
}

// Dashboard returns the last loaded dashboard.
func (s *Service) Dashboard() Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyDashboard(s.dashboard)
}

// Refresh asks the backend to regenerate alerts and reloads the dashboard. A
// failed regeneration is logged and the lists are loaded anyway.
func (s *Service) Refresh(ctx context.Context) (Dashboard, error) {
	if msg, err := s.api.GenerateAlerts(ctx); err != nil {
		s.logger.Warn("alert generation failed, loading existing alerts", zap.Error(err))
	} else {
		s.logger.Debug("alerts generated", zap.String("result", strings.TrimSpace(msg)))
	}

	lowStock, err := s.api.ListLowStockAlerts(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load low stock alerts: %w", err)
	}
	expiring, err := s.api.ListExpiringAlerts(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load expiring alerts: %w", err)
	}
	expired, err := s.api.ListExpiredAlerts(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load expired alerts: %w", err)
	}

	d := Dashboard{
		LowStock:     unread(lowStock),
		ExpiringSoon: unread(expiring),
		Expired:      unread(expired),
		RefreshedAt:  s.now(),
	}

	s.mu.Lock()
	s.dashboard = d
	fresh := s.collectFreshLocked(d)
	s.mu.Unlock()

	s.sendDigest(ctx, fresh)
	return copyDashboard(d), nil
}

// History returns every alert the backend keeps, newest first, or only the
// unread ones.
func (s *Service) History(ctx context.Context, unreadOnly bool) ([]models.Alert, error) {
	load := s.api.ListAlerts
	if unreadOnly {
		load = s.api.ListUnreadAlerts
	}
	list, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load alert history: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt > list[j].CreatedAt
	})
	return list, nil
}

// Acknowledge marks an alert as read and drops it from the dashboard.
func (s *Service) Acknowledge(ctx context.Context, id string) error {
	if _, err := s.api.MarkAlertRead(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboard.LowStock = without(s.dashboard.LowStock, id)
	s.dashboard.ExpiringSoon = without(s.dashboard.ExpiringSoon, id)
	s.dashboard.Expired = without(s.dashboard.Expired, id)
	return nil
}

// Reset drops the dashboard and forgets which alerts were already sent, so
// the next operator starts from a clean home screen.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboard = Dashboard{}
	s.notified = make(map[string]struct{})
}

func (s *Service) collectFreshLocked(d Dashboard) []models.Alert {
	var fresh []models.Alert
	for _, list := range [][]models.Alert{d.LowStock, d.ExpiringSoon, d.Expired} {
		for _, a := range list {
			if _, seen := s.notified[a.ID]; seen {
				continue
			}
			s.notified[a.ID] = struct{}{}
			fresh = append(fresh, a)
		}
	}
	return fresh
}

func (s *Service) sendDigest(ctx context.Context, fresh []models.Alert) {
	if s.messaging == nil || s.recipient == "" || len(fresh) == 0 {
		return
	}

	err := s.messaging.SendOutbound(ctx, models.OutboundMessage{To: s.recipient, Message: Digest(fresh)})
	if err != nil {
		s.logger.Warn("failed to send alert digest", zap.Int("alerts", len(fresh)), zap.Error(err))
		return
	}
	s.logger.Info("alert digest sent", zap.Int("alerts", len(fresh)))
}

var alertTitles = map[models.AlertType]string{
	models.AlertLowStock:     "Estoque baixo",
	models.AlertExpiringSoon: "Validade próxima",
	models.AlertExpired:      "Validade vencida",
}

// Digest renders alerts as a short text message.
func Digest(list []models.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Farmácia: %d novo(s) alerta(s)\n", len(list))
	for _, a := range list {
		title := alertTitles[a.Type]
		if title == "" {
			title = string(a.Type)
		}
		fmt.Fprintf(&b, "- %s: %s", title, a.MedicineName)
		if a.Message != "" {
			fmt.Fprintf(&b, " (%s)", a.Message)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func unread(list []models.Alert) []models.Alert {
	out := make([]models.Alert, 0, len(list))
	for _, a := range list {
		if !a.Read {
			out = append(out, a)
		}
	}
	return out
}

func without(list []models.Alert, id string) []models.Alert {
	out := list[:0:0]
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func copyDashboard(d Dashboard) Dashboard {
	d.LowStock = append([]models.Alert{}, d.LowStock...)
	d.ExpiringSoon = append([]models.Alert{}, d.ExpiringSoon...)
	d.Expired = append([]models.Alert{}, d.Expired...)
	return d
}
