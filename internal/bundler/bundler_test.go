package bundler

import (
	"testing"

	"github.com/duskchain/duskchain/internal/ledger"
	"github.com/duskchain/duskchain/pkg/tx"
	"github.com/duskchain/duskchain/pkg/types"
)

func openTestStore(t *testing.T) *ledger.Store {
	t.Helper()
	s, err := ledger.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAssembleReturnsNilWithNoWithdrawals(t *testing.T) {
	s := openTestStore(t)
	r := s.BeginRead()
	defer r.Discard()

	wb, err := Assemble(r)
	if err != nil {
		t.Fatalf("Assemble() error = %v, want nil", err)
	}
	if wb != nil {
		t.Error("Assemble() should return nil when there are no withdrawals pending")
	}
}

func TestAssembleGroupsAndPacksWithdrawals(t *testing.T) {
	s := openTestStore(t)

	op1 := types.Regular(types.Txid{0x01}, 0)
	op2 := types.Regular(types.Txid{0x02}, 0)
	addrA := types.ParentAddress("addr-a")
	addrB := types.ParentAddress("addr-b")

	w := s.BeginWrite()
	if err := w.PutUTXO(op1, tx.Output{Content: tx.WithdrawalContent(100, addrA, 5)}); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}
	if err := w.PutUTXO(op2, tx.Output{Content: tx.WithdrawalContent(200, addrB, 10)}); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	r := s.BeginRead()
	defer r.Discard()

	wb, err := Assemble(r)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if wb == nil {
		t.Fatal("Assemble() returned nil, want a bundle")
	}
	if len(wb.SpentUTXOs) != 2 {
		t.Errorf("SpentUTXOs len = %d, want 2", len(wb.SpentUTXOs))
	}
	if len(wb.Transaction) == 0 {
		t.Error("Transaction should be a non-empty serialised parent-chain tx")
	}
	if wb.Txid.IsZero() {
		t.Error("Txid should not be zero")
	}
}

func TestAssembleIgnoresNonWithdrawalOutputs(t *testing.T) {
	s := openTestStore(t)

	valueOp := types.Regular(types.Txid{0x03}, 0)
	w := s.BeginWrite()
	if err := w.PutUTXO(valueOp, tx.Output{Content: tx.ValueContent(500)}); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	r := s.BeginRead()
	defer r.Discard()

	wb, err := Assemble(r)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if wb != nil {
		t.Error("Assemble() should ignore plain Value outputs and return nil")
	}
}

func TestAssembleIsDeterministicAcrossRuns(t *testing.T) {
	s := openTestStore(t)

	w := s.BeginWrite()
	for i := byte(0); i < 4; i++ {
		op := types.Regular(types.Txid{i}, 0)
		addr := types.ParentAddress(string([]byte{'a' + i}))
		if err := w.PutUTXO(op, tx.Output{Content: tx.WithdrawalContent(uint64(i+1)*10, addr, uint64(i))}); err != nil {
			t.Fatalf("PutUTXO: %v", err)
		}
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	r1 := s.BeginRead()
	wb1, err := Assemble(r1)
	r1.Discard()
	if err != nil {
		t.Fatalf("Assemble() (1st) error = %v", err)
	}

	r2 := s.BeginRead()
	wb2, err := Assemble(r2)
	r2.Discard()
	if err != nil {
		t.Fatalf("Assemble() (2nd) error = %v", err)
	}

	if wb1.Txid != wb2.Txid {
		t.Error("Assemble() should produce a byte-identical bundle across independent runs over the same state")
	}
}
