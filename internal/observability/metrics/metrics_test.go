package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("patient_id", "123"),
		attribute.String("client_id", "456"),
		attribute.String("method", "cash"),
	)
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(attrs))
	}
	if attrs[0].Key != "method" {
		t.Fatalf("expected method to be retained, got %s", attrs[0].Key)
	}
}
