package database

import (
	"log"

	"tradechallenge/internal/models"
)

// legacyBalanceFactor is how far off the old display-currency unit
// convention was from the reference currency.
const legacyBalanceFactor = 10

func AutoMigrate() error {
	err := DB.AutoMigrate(
		&models.Profile{},
		&models.Challenge{},
		&models.Trade{},
		&models.Payment{},
	)
	if err != nil {
		log.Printf("Failed to auto-migrate: %v", err)
		return err
	}

	// Data repair runs after the schema exists so a fresh database works too.
	if err := migrateLegacyBalanceUnits(); err != nil {
		log.Printf("Failed to migrate legacy balance units: %v", err)
		return err
	}

	log.Println("Database migration completed successfully")
	return nil
}

// migrateLegacyBalanceUnits rescales challenges recorded in display-currency
// units back into the reference currency. This correction used to run lazily
// on every dashboard read; doing it once at startup keeps it out of the
// steady-state read path.
//
// A legacy row carries exactly ten times a plan's capital, so only those
// values are matched; a plain size threshold would misfire on the largest
// plan tier.
func migrateLegacyBalanceUnits() error {
	legacyBalances := make([]float64, 0, 3)
	for _, spec := range models.PlanCatalog() {
		legacyBalances = append(legacyBalances, spec.Capital*legacyBalanceFactor)
	}

	result := DB.Exec(`
		UPDATE challenges
		SET initial_balance = initial_balance / ?,
			current_balance = current_balance / ?,
			total_pnl = total_pnl / ?,
			daily_pnl = daily_pnl / ?
		WHERE initial_balance IN (?, ?, ?)
	`, legacyBalanceFactor, legacyBalanceFactor, legacyBalanceFactor, legacyBalanceFactor,
		legacyBalances[0], legacyBalances[1], legacyBalances[2])

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Rescaled %d challenges from legacy balance units", result.RowsAffected)
	}

	return nil
}
