// Package risk derives rule states from a challenge's current figures.
// Evaluation is pure and recomputed on every read; it never mutates the
// challenge. Whether a breach actually transitions the challenge status is
// decided by the caller (see the auto-enforce setting on the trade engine).
package risk

import "tradechallenge/internal/models"

// Thresholds are the configured rule limits of a challenge, expressed as
// positive magnitudes.
type Thresholds struct {
	ProfitTargetPercent float64
	MaxDailyLossPercent float64
	MaxTotalLossPercent float64
}

// ThresholdsFor extracts the rule limits from a challenge row.
func ThresholdsFor(c *models.Challenge) Thresholds {
	return Thresholds{
		ProfitTargetPercent: c.ProfitTargetPercent,
		MaxDailyLossPercent: c.MaxDailyLossPercent,
		MaxTotalLossPercent: c.MaxTotalLossPercent,
	}
}

// State is the evaluated rule state of a challenge.
type State struct {
	DailyPnLPercent   float64 `json:"daily_pnl_percent"`
	TotalPnLPercent   float64 `json:"total_pnl_percent"`
	DailyLossBreached bool    `json:"daily_loss_breached"`
	TotalLossBreached bool    `json:"total_loss_breached"`
	TargetReached     bool    `json:"target_reached"`
	ProgressToTarget  float64 `json:"progress_to_target"`
}

// Breached reports whether any loss rule has been crossed.
func (s State) Breached() bool {
	return s.DailyLossBreached || s.TotalLossBreached
}

// Evaluate computes the rule state for the given balances. Loss boundaries
// are inclusive: a daily P&L of exactly -maxDailyLoss percent is a breach.
func Evaluate(initialBalance, dailyPnL, totalPnL float64, th Thresholds) State {
	var state State

	if initialBalance > 0 {
		state.DailyPnLPercent = (dailyPnL / initialBalance) * 100
		state.TotalPnLPercent = (totalPnL / initialBalance) * 100
	}

	state.DailyLossBreached = state.DailyPnLPercent <= -th.MaxDailyLossPercent
	state.TotalLossBreached = state.TotalPnLPercent <= -th.MaxTotalLossPercent
	state.TargetReached = th.ProfitTargetPercent > 0 && state.TotalPnLPercent >= th.ProfitTargetPercent

	if th.ProfitTargetPercent > 0 {
		state.ProgressToTarget = clamp((state.TotalPnLPercent/th.ProfitTargetPercent)*100, 0, 100)
	}

	return state
}

// EvaluateChallenge evaluates a challenge row against its own thresholds.
func EvaluateChallenge(c *models.Challenge) State {
	return Evaluate(c.InitialBalance, c.DailyPnL, c.TotalPnL, ThresholdsFor(c))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
