package labels

import (
	"context"

	"github.com/juju/errors"

	"brewcart/internal/logging"
	"brewcart/internal/models"
)

var logger = logging.GetLogger("labels")

// Keys of the free-form settings the dispatcher reads.
const (
	SettingPrinterAddress = "printerAddress"
	SettingPrinterModel   = "printerModel"
)

// Target identifies a printer.
type Target struct {
	Address string `json:"address"`
	Model   string `json:"model,omitempty"`
}

// Printer sends one label to a printer. The wire protocol belongs to the
// implementation.
type Printer interface {
	Print(ctx context.Context, target Target, label Label) error
}

// SettingsSource reads free-form settings.
type SettingsSource interface {
	Setting(ctx context.Context, key string) (string, bool)
}

// Dispatcher prints order labels on the configured printer.
type Dispatcher struct {
	settings  SettingsSource
	printer   Printer
	formatter *Formatter
}

// NewDispatcher returns a Dispatcher.
func NewDispatcher(settings SettingsSource, printer Printer, formatter *Formatter) *Dispatcher {
	return &Dispatcher{settings: settings, printer: printer, formatter: formatter}
}

// Target returns the printer stored in settings.
func (d *Dispatcher) Target(ctx context.Context) (Target, error) {
	address, ok := d.settings.Setting(ctx, SettingPrinterAddress)
	if !ok || address == "" {
		return Target{}, errors.NotFoundf("printer address")
	}
	model, _ := d.settings.Setting(ctx, SettingPrinterModel)
	return Target{Address: address, Model: model}, nil
}

// PrintOrder prints every label of order, stopping at the first printer
// failure. It returns the labels that were printed.
func (d *Dispatcher) PrintOrder(ctx context.Context, order models.Order) ([]Label, error) {
	target, err := d.Target(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	labels := d.formatter.FormatOrder(order)
	for i, label := range labels {
		if err := d.printer.Print(ctx, target, label); err != nil {
			return labels[:i], errors.Annotatef(err, "printing label %d of order %s on %s", i+1, order.ID, target.Address)
		}
	}
	logger.Infof("printed %d label(s) for order %s on %s", len(labels), order.ID, target.Address)
	return labels, nil
}

// LogPrinter writes labels to the log instead of a device.
type LogPrinter struct{}

// Print logs the label.
func (LogPrinter) Print(_ context.Context, target Target, label Label) error {
	logger.Infof("[%s %s] %s / %s", target.Address, target.Model, label.Line1, label.Line2)
	return nil
}
