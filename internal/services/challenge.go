package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	dao "tradechallenge/internal/dao/challenge"
	"tradechallenge/internal/models"
	"tradechallenge/internal/risk"

	"gorm.io/gorm"
)

// ErrNoActiveChallenge is returned when a user has no challenge in "active" status.
var ErrNoActiveChallenge = errors.New("no active challenge")

// ChallengeService manages challenge lifecycle outside of trade execution:
// plan purchase, day rollover, and status transitions.
type ChallengeService struct {
	challengeDAO dao.ChallengeDAOInterface
	paymentDAO   dao.PaymentDAOInterface
	db           *gorm.DB
}

// NewChallengeService creates a new challenge service
func NewChallengeService(challengeDAO dao.ChallengeDAOInterface, paymentDAO dao.PaymentDAOInterface, db *gorm.DB) *ChallengeService {
	return &ChallengeService{
		challengeDAO: challengeDAO,
		paymentDAO:   paymentDAO,
		db:           db,
	}
}

// ChallengeState pairs a challenge with its evaluated rule state.
type ChallengeState struct {
	Challenge *models.Challenge `json:"challenge"`
	Rules     risk.State        `json:"rules"`
}

// PurchasePlan records a completed payment and creates the matching active
// challenge in one transaction. Real payment-provider flows confirm the
// payment before calling this; the mock gateway calls it directly.
func (cs *ChallengeService) PurchasePlan(userID string, plan models.ChallengePlan, paymentMethod string) (*models.Challenge, error) {
	spec, ok := models.PlanSpecFor(plan)
	if !ok {
		return nil, fmt.Errorf("unknown plan: %s", plan)
	}

	now := time.Now().UTC()
	challenge := &models.Challenge{
		UserID:              userID,
		Plan:                spec.Plan,
		Status:              models.ChallengeStatusActive,
		InitialBalance:      spec.Capital,
		CurrentBalance:      spec.Capital,
		ProfitTargetPercent: spec.ProfitTargetPercent,
		MaxDailyLossPercent: spec.MaxDailyLossPercent,
		MaxTotalLossPercent: spec.MaxTotalLossPercent,
		StartDate:           &now,
	}

	tx := cs.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := cs.challengeDAO.CreateWithTx(tx, challenge); err != nil {
		tx.Rollback()
		return nil, err
	}

	payment := &models.Payment{
		UserID:        userID,
		ChallengeID:   &challenge.ID,
		Amount:        spec.Price,
		Currency:      spec.PriceCurrency,
		PaymentMethod: paymentMethod,
		PaymentStatus: models.PaymentStatusCompleted,
	}

	if err := cs.paymentDAO.CreateWithTx(tx, payment); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	log.Printf("User %s purchased %s challenge %s (capital %.0f)",
		userID, plan, challenge.ID, spec.Capital)

	return challenge, nil
}

// GetActiveChallenge returns the user's current active challenge with its
// rule state evaluated.
func (cs *ChallengeService) GetActiveChallenge(userID string) (*ChallengeState, error) {
	challenge, err := cs.challengeDAO.GetActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveChallenge
		}
		return nil, fmt.Errorf("failed to get active challenge: %w", err)
	}

	return &ChallengeState{
		Challenge: challenge,
		Rules:     risk.EvaluateChallenge(challenge),
	}, nil
}

// GetChallengeState returns a challenge by ID with its rule state evaluated.
func (cs *ChallengeService) GetChallengeState(challengeID string) (*ChallengeState, error) {
	challenge, err := cs.challengeDAO.GetByID(challengeID)
	if err != nil {
		return nil, err
	}

	return &ChallengeState{
		Challenge: challenge,
		Rules:     risk.EvaluateChallenge(challenge),
	}, nil
}

// GetUserChallenges returns all of a user's challenges, newest first
func (cs *ChallengeService) GetUserChallenges(userID string) ([]models.Challenge, error) {
	return cs.challengeDAO.GetUserChallenges(userID)
}

// GetUserPayments returns all of a user's payments, newest first
func (cs *ChallengeService) GetUserPayments(userID string) ([]models.Payment, error) {
	return cs.paymentDAO.GetUserPayments(userID)
}

// RolloverDay resets the challenge's daily P&L and increments the
// trading-day counter. Meant to be called once per trading-day boundary by
// an external scheduler, never by trade operations.
func (cs *ChallengeService) RolloverDay(challengeID string) error {
	if _, err := cs.challengeDAO.GetByID(challengeID); err != nil {
		return err
	}
	return cs.challengeDAO.RolloverDay(challengeID)
}

// UpdateStatus applies an admin status transition. Terminal challenges stay
// terminal; everything else is the operator's call.
func (cs *ChallengeService) UpdateStatus(challengeID string, status models.ChallengeStatus) (*models.Challenge, error) {
	challenge, err := cs.challengeDAO.GetByID(challengeID)
	if err != nil {
		return nil, err
	}

	if challenge.Status.IsTerminal() && challenge.Status != models.ChallengeStatusPassed {
		return nil, fmt.Errorf("challenge %s is already %s", challengeID, challenge.Status)
	}

	// passed -> funded is the one allowed move out of a terminal state.
	if challenge.Status == models.ChallengeStatusPassed && status != models.ChallengeStatusFunded {
		return nil, fmt.Errorf("challenge %s is already %s", challengeID, challenge.Status)
	}

	if err := cs.challengeDAO.UpdateStatus(challengeID, status); err != nil {
		return nil, err
	}

	challenge.Status = status
	log.Printf("Challenge %s status set to %s", challengeID, status)
	return challenge, nil
}
