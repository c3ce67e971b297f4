package usecase

import "stock_insight/internal/feature/stock/domain/entity"

// DefaultDebtRatio は負債比率が取得できなかった場合に仮定する水準です。
const DefaultDebtRatio = 50.0

// Reconcile は財務スナップショットの欠損指標を補完します。
// ROEが欠けていてP/BとP/Eが揃っている場合は P/B ÷ P/E × 100 で近似し、
// 負債比率が欠けている場合は一般的な水準として50%を仮定します。
// 既存の値は決して上書きせず、補完した値には推定フラグを立てます。
func Reconcile(snap *entity.FinancialSnapshot) {
	if snap == nil {
		return
	}

	// 赤字転落時などP/Eが0以下の場合は近似の前提が崩れるため導出しない。
	if snap.ROE == nil && snap.PB != nil && snap.PETTM != nil && *snap.PETTM > 0 {
		roe := *snap.PB / *snap.PETTM * 100
		snap.ROE = &roe
		snap.DerivedROE = true
	}

	if snap.DebtRatio == nil {
		dr := DefaultDebtRatio
		snap.DebtRatio = &dr
		snap.AssumedDebtRatio = true
	}
}
