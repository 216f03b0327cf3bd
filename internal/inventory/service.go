package inventory

import (
	"context"

	"github.com/juju/clock"

	"brewcart/internal/logging"
	"brewcart/internal/models"
	"brewcart/internal/monitoring"
)

var logger = logging.GetLogger("inventory")

// OrderSource supplies the order history.
type OrderSource interface {
	Orders(ctx context.Context) []models.Order
}

// Service computes tallies over stored orders.
type Service struct {
	orders  OrderSource
	clock   clock.Clock
	monitor *monitoring.Monitor
}

// NewService returns a Service reading from orders. A nil clock means the
// wall clock.
func NewService(orders OrderSource, clk clock.Clock, monitor *monitoring.Monitor) *Service {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Service{orders: orders, clock: clk, monitor: monitor}
}

// Stats tallies the orders created within r.
func (s *Service) Stats(ctx context.Context, r DateRange) models.InventoryStats {
	now := s.clock.Now()
	orders := Filter(s.orders.Orders(ctx), r, now)
	stats := Calculate(orders)
	logger.Debugf("%s tally since %s over %d order(s)", r, r.Start(now).Format("2006-01-02 15:04"), stats.TotalOrders)
	s.monitor.RecordAggregation(string(r), stats.TotalOrders)
	return stats
}
