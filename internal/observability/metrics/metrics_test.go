package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSetContracts(t *testing.T) {
	SetContracts("ACTIVE", 7)
	if got := testutil.ToFloat64(contractsByStatus.WithLabelValues("ACTIVE")); got != 7 {
		t.Fatalf("gauge = %v, want 7", got)
	}

	SetContracts("ACTIVE", 2)
	if got := testutil.ToFloat64(contractsByStatus.WithLabelValues("ACTIVE")); got != 2 {
		t.Fatalf("gauge = %v, want 2", got)
	}

	// negative counts clamp to zero
	SetContracts("COMPLETED", -3)
	if got := testutil.ToFloat64(contractsByStatus.WithLabelValues("COMPLETED")); got != 0 {
		t.Fatalf("gauge = %v, want 0", got)
	}
}
