package models

import (
	"log"

	"gorm.io/gorm"
)

func MigrateTable(db *gorm.DB) {
	err := db.AutoMigrate(
		&User{},
		&Institution{}, &Account{},
		&Category{}, &Envelope{},
		&Transaction{}, &TransactionLine{},
		&Reconciliation{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
