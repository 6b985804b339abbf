package pegadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/duskchain/duskchain/internal/ledger"
	"github.com/duskchain/duskchain/pkg/block"
	"github.com/duskchain/duskchain/pkg/tx"
	"github.com/duskchain/duskchain/pkg/types"
)

type mockAdapter struct {
	tip            types.ParentBlockHash
	batch          tx.TwoWayPegBatch
	gotStart       *types.ParentBlockHash
	gotEnd         types.ParentBlockHash
	bmmErr         error
	getBatchErr    error
	getTipErr      error
	broadcastCalls int
}

func (m *mockAdapter) GetTwoWayPegBatch(ctx context.Context, end types.ParentBlockHash, start *types.ParentBlockHash) (tx.TwoWayPegBatch, error) {
	m.gotEnd = end
	m.gotStart = start
	if m.getBatchErr != nil {
		return tx.TwoWayPegBatch{}, m.getBatchErr
	}
	return m.batch, nil
}

func (m *mockAdapter) BroadcastWithdrawalBundle(ctx context.Context, rawTx []byte) error {
	m.broadcastCalls++
	return nil
}

func (m *mockAdapter) VerifyBMM(ctx context.Context, h block.Header) error {
	return m.bmmErr
}

func (m *mockAdapter) GetMainchainTip(ctx context.Context) (types.ParentBlockHash, error) {
	if m.getTipErr != nil {
		return types.ParentBlockHash{}, m.getTipErr
	}
	return m.tip, nil
}

func openTestStore(t *testing.T) *ledger.Store {
	t.Helper()
	s, err := ledger.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFetchWithNoWatermarkPassesNilStart(t *testing.T) {
	s := openTestStore(t)
	r := s.BeginRead()
	defer r.Discard()

	wantTip := types.ParentBlockHash{0x01}
	adapter := &mockAdapter{tip: wantTip, batch: tx.TwoWayPegBatch{Deposits: map[types.OutPoint]tx.Output{}}}

	batch, err := Fetch(context.Background(), adapter, r)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if adapter.gotStart != nil {
		t.Error("Fetch() should pass a nil start when no watermark is recorded")
	}
	if adapter.gotEnd != wantTip {
		t.Errorf("gotEnd = %v, want %v", adapter.gotEnd, wantTip)
	}
	if batch.Deposits == nil {
		t.Error("Fetch() should return the adapter's batch")
	}
}

func TestFetchUsesStoredWatermark(t *testing.T) {
	s := openTestStore(t)
	watermark := types.ParentBlockHash{0x02}

	w := s.BeginWrite()
	if err := w.PutLastDepositBlock(watermark); err != nil {
		t.Fatalf("PutLastDepositBlock: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	r := s.BeginRead()
	defer r.Discard()

	adapter := &mockAdapter{tip: types.ParentBlockHash{0x03}}
	if _, err := Fetch(context.Background(), adapter, r); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if adapter.gotStart == nil || *adapter.gotStart != watermark {
		t.Errorf("gotStart = %v, want %v", adapter.gotStart, watermark)
	}
}

func TestFetchPropagatesGetTipError(t *testing.T) {
	s := openTestStore(t)
	r := s.BeginRead()
	defer r.Discard()

	wantErr := errors.New("rpc unreachable")
	adapter := &mockAdapter{getTipErr: wantErr}

	_, err := Fetch(context.Background(), adapter, r)
	if !errors.Is(err, wantErr) {
		t.Errorf("Fetch() error = %v, want %v", err, wantErr)
	}
}

func TestBmmVerifierBridgesToAdapter(t *testing.T) {
	wantErr := errors.New("bmm commitment missing")
	adapter := &mockAdapter{bmmErr: wantErr}
	verifier := BmmVerifier{Ctx: context.Background(), Adapter: adapter}

	if err := verifier.VerifyBMM(block.Header{}); !errors.Is(err, wantErr) {
		t.Errorf("VerifyBMM() = %v, want %v", err, wantErr)
	}
}
