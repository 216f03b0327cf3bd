package labels

import (
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewcart/internal/config"
	"brewcart/internal/models"
)

func testOrder() models.Order {
	mocha := models.Drink{ID: "mocha", Name: "Mocha", BasePrice: 450}
	soda := models.Drink{ID: "italian-soda", Name: "Italian Soda", BasePrice: 350}
	return models.Order{
		ID:           "order-1",
		CustomerName: "Alex",
		Items: []models.OrderItem{
			models.NewOrderItem("item-1", mocha, 1, []models.DrinkOption{
				{ID: "milk-oat", Name: "Oat Milk", AdditionalCost: 75},
			}),
			models.NewOrderItem("item-2", soda, 2, nil),
		},
	}
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "$0.00", Price(0))
	assert.Equal(t, "$5.25", Price(525))
	assert.Equal(t, "$1000.00", Price(100000))
}

func TestFormat(t *testing.T) {
	f := NewFormatter(config.Default().Labels)
	labels := f.FormatOrder(testOrder())
	require.Len(t, labels, 2)

	assert.Equal(t, Label{Line1: "Alex: Mocha", Line2: "$5.25 Oat Milk"}, labels[0])
	assert.Equal(t, Label{Line1: "Alex: 2x Italian Soda", Line2: "$7.00"}, labels[1])
}

func TestFormatCapsEachLine(t *testing.T) {
	f := NewFormatter(config.LabelsConfig{Line1Max: 10, Line2Max: 12})
	order := testOrder()
	order.CustomerName = "Alexandria Ocasio"

	label := f.Format(order, order.Items[0])
	assert.Equal(t, "Alexand...", label.Line1)
	assert.Equal(t, "$5.25 Oat...", label.Line2)

	uncapped := NewFormatter(config.LabelsConfig{})
	assert.Equal(t, "Alexandria Ocasio: Mocha", uncapped.Format(order, order.Items[0]).Line1)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "Crème", truncate("Crème", 5))
	assert.Equal(t, "Cr...", truncate("Crème brûlée", 5))
	assert.Equal(t, "Cr", truncate("Crème", 2))
}

type settingsMap map[string]string

func (m settingsMap) Setting(_ context.Context, key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

type recordingPrinter struct {
	target  Target
	printed []Label
	failAt  int
}

func (p *recordingPrinter) Print(_ context.Context, target Target, label Label) error {
	if p.failAt > 0 && len(p.printed)+1 == p.failAt {
		return errors.New("paper jam")
	}
	p.target = target
	p.printed = append(p.printed, label)
	return nil
}

func TestDispatcherPrintsOrder(t *testing.T) {
	printer := &recordingPrinter{}
	settings := settingsMap{SettingPrinterAddress: "tcp:10.0.0.9", SettingPrinterModel: "QL-820NWB"}
	d := NewDispatcher(settings, printer, NewFormatter(config.Default().Labels))

	printed, err := d.PrintOrder(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Len(t, printed, 2)
	assert.Equal(t, printed, printer.printed)
	assert.Equal(t, Target{Address: "tcp:10.0.0.9", Model: "QL-820NWB"}, printer.target)
}

func TestDispatcherRequiresAddress(t *testing.T) {
	printer := &recordingPrinter{}
	d := NewDispatcher(settingsMap{SettingPrinterAddress: ""}, printer, NewFormatter(config.Default().Labels))

	_, err := d.PrintOrder(context.Background(), testOrder())
	assert.True(t, errors.Is(err, errors.NotFound), "got %v", err)
	assert.Empty(t, printer.printed)
}

func TestDispatcherStopsOnPrinterFailure(t *testing.T) {
	printer := &recordingPrinter{failAt: 2}
	d := NewDispatcher(settingsMap{SettingPrinterAddress: "bt:00:11"}, printer, NewFormatter(config.Default().Labels))

	printed, err := d.PrintOrder(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paper jam")
	assert.Len(t, printed, 1)
}
