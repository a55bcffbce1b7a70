package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// LeaderboardEntry is one ranked row: a user's best challenge with trade counts.
type LeaderboardEntry struct {
	UserID        string    `json:"user_id"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	Plan          string    `json:"plan"`
	Status        string    `json:"status"`
	ProfitPercent float64   `json:"profit_percent"`
	TotalTrades   int       `json:"total_trades"`
	WinningTrades int       `json:"winning_trades"`
	LastActivity  time.Time `json:"last_activity"`
}

// LeaderboardService ranks challenges by profit percentage
type LeaderboardService struct {
	db *gorm.DB
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// GetLeaderboard returns challenges ranked by total P&L percentage, with
// closed-trade counts per challenge and the owning profile joined in.
func (ls *LeaderboardService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var entries []LeaderboardEntry
	err := ls.db.Raw(`
		SELECT
			c.user_id,
			COALESCE(p.full_name, '') AS full_name,
			COALESCE(p.avatar_url, '') AS avatar_url,
			c.plan,
			c.status,
			CASE WHEN c.initial_balance > 0
				THEN (c.total_pnl / c.initial_balance) * 100
				ELSE 0
			END AS profit_percent,
			COUNT(t.id) AS total_trades,
			COUNT(CASE WHEN t.pnl > 0 THEN 1 END) AS winning_trades,
			c.updated_at AS last_activity
		FROM challenges c
		LEFT JOIN profiles p ON p.id = c.user_id
		LEFT JOIN trades t ON t.challenge_id = c.id AND t.status = 'closed'
		GROUP BY c.id, c.user_id, p.full_name, p.avatar_url, c.plan, c.status,
			c.initial_balance, c.total_pnl, c.updated_at
		ORDER BY profit_percent DESC
		LIMIT ?
	`, limit).Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	return entries, nil
}
