package models

import (
	"log"

	"github.com/mmsoftworks/campusfees_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&OrgSettings{}, &Staff{},
		&Branch{}, &Semester{}, &AcademicSession{},
		&FeePlan{}, &FeeHead{},
		&Student{},
		&Transaction{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
