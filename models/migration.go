package models

import (
	"log"

	"github.com/ipnlife/clinic_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Store{}, &Member{}, &Product{}, &Therapy{},
		&Inventory{},
		&ProductSell{}, &TherapySell{}, &TherapyRecord{},
		&SymptomHistory{}, &HealthStatus{}, &MicroSurgery{},
		&MedicalRecord{}, &HealthCheck{},
		&PureRecord{}, &StressTest{},
		&SalesOrder{}, &SalesOrderItem{},
		&Staff{}, &StaffFamily{}, &StaffWorkExperience{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
