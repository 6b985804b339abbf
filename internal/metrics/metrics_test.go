package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTipHeightGaugeReportsLastSetValue(t *testing.T) {
	TipHeight.Set(42)
	if got := testutil.ToFloat64(TipHeight); got != 42 {
		t.Errorf("TipHeight = %v, want 42", got)
	}
}

func TestPendingBundleGaugeToggles(t *testing.T) {
	PendingBundle.Set(1)
	if got := testutil.ToFloat64(PendingBundle); got != 1 {
		t.Errorf("PendingBundle = %v, want 1", got)
	}
	PendingBundle.Set(0)
	if got := testutil.ToFloat64(PendingBundle); got != 0 {
		t.Errorf("PendingBundle = %v, want 0", got)
	}
}

func TestRejectedTransactionsCounterIncrementsByLabel(t *testing.T) {
	RejectedTransactions.WithLabelValues("reveal_too_late").Inc()
	if got := testutil.ToFloat64(RejectedTransactions.WithLabelValues("reveal_too_late")); got < 1 {
		t.Errorf("RejectedTransactions{kind=reveal_too_late} = %v, want >= 1", got)
	}
}

func TestBlockConnectDurationObserves(t *testing.T) {
	before := testutil.CollectAndCount(BlockConnectDuration)
	BlockConnectDuration.Observe(0.01)
	after := testutil.CollectAndCount(BlockConnectDuration)
	if after < before {
		t.Errorf("CollectAndCount after Observe = %d, want >= %d", after, before)
	}
}
