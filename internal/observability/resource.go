package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/fawkesdbs/roadguard/internal/config"
)

// newTelemetryResource describes this service to the collector. All three
// signal pipelines share it so logs, metrics and traces join on the same
// service identity.
func newTelemetryResource(ctx context.Context, cfg *config.Config) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("service.namespace", "roadguard"),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
}
