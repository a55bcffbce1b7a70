package trading

import (
	"errors"
	"fmt"
	"log"
	"time"

	"tradechallenge/internal/currency"
	dao "tradechallenge/internal/dao/challenge"
	"tradechallenge/internal/models"
	"tradechallenge/internal/risk"
	"tradechallenge/internal/types"

	"gorm.io/gorm"
)

// EventBroadcaster pushes trade lifecycle events to connected clients.
type EventBroadcaster interface {
	BroadcastMessage(msgType types.MessageType, data interface{})
}

// TradeEngine handles the trade lifecycle: opening positions against an
// active challenge and closing them with realized P&L applied to the
// challenge ledger in one transaction.
type TradeEngine struct {
	challengeDAO dao.ChallengeDAOInterface
	tradeDAO     dao.TradeDAOInterface
	converter    *currency.Converter
	broadcaster  EventBroadcaster
	db           *gorm.DB
	autoEnforce  bool
}

// TradeEngineInterface defines the contract for trade execution
type TradeEngineInterface interface {
	OpenTrade(userID, challengeID, symbol string, direction models.TradeDirection, entryPrice, quantity float64) (*models.Trade, error)
	CloseTrade(tradeID string, exitPrice float64) (*models.Trade, error)
	ValidateOpen(symbol string, direction models.TradeDirection, entryPrice, quantity float64) error
}

// NewTradeEngine creates a new trade engine. When autoEnforce is set, a
// breach or reached target detected at close time transitions the challenge
// status inside the same transaction; otherwise rule states stay advisory
// and status changes remain an admin action.
func NewTradeEngine(challengeDAO dao.ChallengeDAOInterface, tradeDAO dao.TradeDAOInterface, converter *currency.Converter, broadcaster EventBroadcaster, db *gorm.DB, autoEnforce bool) TradeEngineInterface {
	return &TradeEngine{
		challengeDAO: challengeDAO,
		tradeDAO:     tradeDAO,
		converter:    converter,
		broadcaster:  broadcaster,
		db:           db,
		autoEnforce:  autoEnforce,
	}
}

// OpenTrade creates an open position against an active challenge.
func (te *TradeEngine) OpenTrade(userID, challengeID, symbol string, direction models.TradeDirection, entryPrice, quantity float64) (*models.Trade, error) {
	if err := te.ValidateOpen(symbol, direction, entryPrice, quantity); err != nil {
		return nil, fmt.Errorf("trade validation failed: %w", err)
	}

	challenge, err := te.challengeDAO.GetByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, &PersistenceError{Op: "load challenge", Err: err}
	}

	if challenge.Status != models.ChallengeStatusActive {
		return nil, ErrChallengeNotActive
	}

	trade := &models.Trade{
		ChallengeID: challenge.ID,
		UserID:      userID,
		Symbol:      symbol,
		Direction:   direction,
		EntryPrice:  entryPrice,
		Quantity:    quantity,
		Status:      models.TradeStatusOpen,
		OpenedAt:    time.Now().UTC(),
	}

	if err := te.tradeDAO.Create(trade); err != nil {
		return nil, &PersistenceError{Op: "create trade", Err: err}
	}

	log.Printf("Opened trade %s: %s %s %.4f @ %.4f on challenge %s",
		trade.ID, string(direction), symbol, quantity, entryPrice, challenge.ID)

	te.sendEvent(types.TradeOpened, map[string]interface{}{"trade": trade})

	return trade, nil
}

// CloseTrade closes an open trade at the given exit price. Realized P&L is
// computed in the instrument's native currency, converted to the reference
// currency, and applied to the parent challenge's running totals atomically.
// Closing an already-closed trade fails with ErrTradeAlreadyClosed and does
// not touch the ledger.
func (te *TradeEngine) CloseTrade(tradeID string, exitPrice float64) (*models.Trade, error) {
	if exitPrice <= 0 {
		return nil, fmt.Errorf("exit price must be positive: %f", exitPrice)
	}

	trade, err := te.tradeDAO.GetByID(tradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, &PersistenceError{Op: "load trade", Err: err}
	}

	if !trade.IsOpen() {
		return nil, ErrTradeAlreadyClosed
	}

	// P&L is stored in the symbol's currency to match its prices; the ledger
	// only ever sees the reference-currency figure.
	nativePnL := RealizedPnL(trade.Direction, trade.EntryPrice, exitPrice, trade.Quantity)
	referencePnL := te.converter.ToReference(nativePnL, trade.Symbol)
	closedAt := time.Now().UTC()

	tx := te.db.Begin()
	if tx.Error != nil {
		return nil, &PersistenceError{Op: "begin transaction", Err: tx.Error}
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	closed, err := te.tradeDAO.CloseWithTx(tx, trade.ID, exitPrice, nativePnL, closedAt)
	if err != nil {
		tx.Rollback()
		return nil, &PersistenceError{Op: "close trade", Err: err}
	}
	if !closed {
		// Lost the race against another close; the ledger was not touched.
		tx.Rollback()
		return nil, ErrTradeAlreadyClosed
	}

	if err := te.challengeDAO.ApplyRealizedPnLWithTx(tx, trade.ChallengeID, referencePnL); err != nil {
		tx.Rollback()
		return nil, &PersistenceError{Op: "apply realized pnl", Err: err}
	}

	if te.autoEnforce {
		if err := te.enforceRules(tx, trade.ChallengeID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, &PersistenceError{Op: "commit transaction", Err: err}
	}

	trade.ExitPrice = &exitPrice
	trade.PnL = &nativePnL
	trade.Status = models.TradeStatusClosed
	trade.ClosedAt = &closedAt

	log.Printf("Closed trade %s at %.4f, pnl %.4f (%s), reference pnl %.4f",
		trade.ID, exitPrice, nativePnL, trade.Symbol, referencePnL)

	te.sendEvent(types.TradeClosed, map[string]interface{}{"trade": trade})
	te.broadcastChallengeState(trade.ChallengeID)

	return trade, nil
}

// enforceRules re-reads the challenge inside the transaction and applies the
// configured status transition when a rule fired. Loss breaches win over a
// reached target.
func (te *TradeEngine) enforceRules(tx *gorm.DB, challengeID string) error {
	challenge, err := te.challengeDAO.GetByIDWithTx(tx, challengeID)
	if err != nil {
		return &PersistenceError{Op: "reload challenge", Err: err}
	}

	if challenge.Status != models.ChallengeStatusActive {
		return nil
	}

	state := risk.EvaluateChallenge(challenge)

	var next models.ChallengeStatus
	switch {
	case state.Breached():
		next = models.ChallengeStatusFailed
	case state.TargetReached:
		next = models.ChallengeStatusPassed
	default:
		return nil
	}

	if err := te.challengeDAO.UpdateStatusWithTx(tx, challenge.ID, next); err != nil {
		return &PersistenceError{Op: "enforce rule status", Err: err}
	}

	log.Printf("Challenge %s auto-transitioned to %s (daily %.2f%%, total %.2f%%)",
		challenge.ID, next, state.DailyPnLPercent, state.TotalPnLPercent)

	return nil
}

// ValidateOpen validates trade parameters
func (te *TradeEngine) ValidateOpen(symbol string, direction models.TradeDirection, entryPrice, quantity float64) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}

	if direction != models.TradeDirectionBuy && direction != models.TradeDirectionSell {
		return fmt.Errorf("invalid trade direction: %s", direction)
	}

	if entryPrice <= 0 {
		return fmt.Errorf("entry price must be positive: %f", entryPrice)
	}

	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %f", quantity)
	}

	return nil
}

func (te *TradeEngine) broadcastChallengeState(challengeID string) {
	challenge, err := te.challengeDAO.GetByID(challengeID)
	if err != nil {
		log.Printf("Failed to load challenge %s for broadcast: %v", challengeID, err)
		return
	}

	te.sendEvent(types.ChallengeUpdate, map[string]interface{}{
		"challenge": challenge,
		"rules":     risk.EvaluateChallenge(challenge),
	})
}

// sendEvent pushes an event to connected clients, if any.
func (te *TradeEngine) sendEvent(eventType types.MessageType, data interface{}) {
	if te.broadcaster == nil {
		return
	}
	te.broadcaster.BroadcastMessage(eventType, data)
}
