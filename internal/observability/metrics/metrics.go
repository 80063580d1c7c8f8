package metrics

import (
	"context"
	"strings"

	"github.com/smallbiznis/rentledger/internal/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	billSaves          metric.Int64Counter
	recalcRuns         metric.Int64Counter
	recalcFailures     metric.Int64Counter
	reconcileAnomalies metric.Int64Counter
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "rentledger"
	}
	meter := provider.Meter(name)

	billSaves, err := meter.Int64Counter("rentledger_bill_saves_total")
	if err != nil {
		return nil, err
	}
	recalcRuns, err := meter.Int64Counter("rentledger_recalc_runs_total")
	if err != nil {
		return nil, err
	}
	recalcFailures, err := meter.Int64Counter("rentledger_recalc_tenant_failures_total")
	if err != nil {
		return nil, err
	}
	reconcileAnomalies, err := meter.Int64Counter("rentledger_reconcile_anomalies_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		billSaves:          billSaves,
		recalcRuns:         recalcRuns,
		recalcFailures:     recalcFailures,
		reconcileAnomalies: reconcileAnomalies,
	}, nil
}

func (m *Metrics) BillSaved(ctx context.Context, room string) {
	if m == nil {
		return
	}
	m.billSaves.Add(ctx, 1, metric.WithAttributes(attribute.String("room", room)))
}

func (m *Metrics) RecalcRun(ctx context.Context) {
	if m == nil {
		return
	}
	m.recalcRuns.Add(ctx, 1)
}

func (m *Metrics) RecalcTenantFailure(ctx context.Context, room string) {
	if m == nil {
		return
	}
	m.recalcFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("room", room)))
}

func (m *Metrics) ReconcileAnomaly(ctx context.Context, room, month string) {
	if m == nil {
		return
	}
	m.reconcileAnomalies.Add(ctx, 1, metric.WithAttributes(
		attribute.String("room", room),
		attribute.String("month", month),
	))
}

func provideConfig(cfg config.Config) Config {
	return Config{
		Enabled:          cfg.MetricsEnabled,
		ExporterEndpoint: cfg.MetricsExporterEndpoint,
		ExporterProtocol: cfg.MetricsExporterProtocol,
		ServiceName:      cfg.AppName,
		Environment:      cfg.Environment,
	}
}

// Module wires the meter provider and domain instruments.
var Module = fx.Module("observability.metrics",
	fx.Provide(
		provideConfig,
		NewProvider,
		New,
	),
)
