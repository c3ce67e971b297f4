package usecase_test

import (
	"math"
	"testing"

	"stock_insight/internal/feature/stock/domain/entity"
	"stock_insight/internal/feature/stock/usecase"
)

// TestReconcile_DerivesROE はP/BとP/EからのROE近似をテストします。
func TestReconcile_DerivesROE(t *testing.T) {
	pe, pb := 5.0, 1.0
	snap := &entity.FinancialSnapshot{PETTM: &pe, PB: &pb}

	usecase.Reconcile(snap)

	if snap.ROE == nil {
		t.Fatal("ROE must be derived")
	}
	if math.Abs(*snap.ROE-20.0) > 1e-9 {
		t.Errorf("ROE = %v, want 20.0", *snap.ROE)
	}
	if !snap.DerivedROE {
		t.Error("derived ROE must be flagged as an estimate")
	}
}

// TestReconcile_NeverOverwrites は取得済みの値を上書きしないことを
// テストします。
func TestReconcile_NeverOverwrites(t *testing.T) {
	pe, pb, roe, debt := 5.0, 1.0, 11.2, 92.0
	snap := &entity.FinancialSnapshot{PETTM: &pe, PB: &pb, ROE: &roe, DebtRatio: &debt}

	usecase.Reconcile(snap)

	if *snap.ROE != 11.2 || snap.DerivedROE {
		t.Errorf("present ROE must win: %v (derived=%v)", *snap.ROE, snap.DerivedROE)
	}
	if *snap.DebtRatio != 92.0 || snap.AssumedDebtRatio {
		t.Errorf("present debt ratio must win: %v (assumed=%v)", *snap.DebtRatio, snap.AssumedDebtRatio)
	}
}

// TestReconcile_AssumesDebtRatio は負債比率欠損時の50%仮定をテストします。
func TestReconcile_AssumesDebtRatio(t *testing.T) {
	snap := &entity.FinancialSnapshot{}

	usecase.Reconcile(snap)

	if snap.DebtRatio == nil || *snap.DebtRatio != usecase.DefaultDebtRatio {
		t.Errorf("DebtRatio = %v, want %v", snap.DebtRatio, usecase.DefaultDebtRatio)
	}
	if !snap.AssumedDebtRatio {
		t.Error("assumed debt ratio must be flagged")
	}
	// 片方しか揃っていなければROEは導出しない
	if snap.ROE != nil {
		t.Error("ROE must stay absent without both P/B and P/E")
	}
}

// TestReconcile_NilSnapshot はスナップショット自体が無い場合に何もしない
// ことをテストします。
func TestReconcile_NilSnapshot(t *testing.T) {
	usecase.Reconcile(nil) // panicしないこと
}

// TestReconcile_NonPositivePEIsUnusable はP/Eが0以下の場合にROEを
// 導出しないことをテストします。
func TestReconcile_NonPositivePEIsUnusable(t *testing.T) {
	tests := []struct {
		name string
		pe   float64
	}{
		{"zero P/E", 0.0},
		{"negative P/E", -20.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe, pb := tt.pe, 4.0
			snap := &entity.FinancialSnapshot{PETTM: &pe, PB: &pb}

			usecase.Reconcile(snap)

			if snap.ROE != nil {
				t.Errorf("ROE = %v, want nil when P/E is %v", *snap.ROE, tt.pe)
			}
			if snap.DerivedROE {
				t.Error("unusable P/E must not set the estimate flag")
			}
		})
	}
}
