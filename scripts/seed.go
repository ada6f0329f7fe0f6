package main

import (
	"context"
	"log"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/caresteer/hospital-discovery/backend/internal/adapters/database"
	"github.com/caresteer/hospital-discovery/backend/internal/adapters/search"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/clients/postgres"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/clients/typesense"
	"github.com/caresteer/hospital-discovery/backend/pkg/config"
)

const hospitalsSchema = `
CREATE TABLE IF NOT EXISTS hospitals (
	hospital_id             TEXT PRIMARY KEY,
	name                    TEXT NOT NULL,
	latitude                DOUBLE PRECISION NOT NULL,
	longitude               DOUBLE PRECISION NOT NULL,
	street                  TEXT NOT NULL DEFAULT '',
	city                    TEXT NOT NULL DEFAULT '',
	state                   TEXT NOT NULL DEFAULT '',
	zip_code                TEXT NOT NULL DEFAULT '',
	total_beds              INTEGER NOT NULL DEFAULT 0,
	total_beds_load         INTEGER NOT NULL DEFAULT 0,
	has_ed                  BOOLEAN NOT NULL DEFAULT FALSE,
	is_trauma_center        BOOLEAN NOT NULL DEFAULT FALSE,
	trauma_level            INTEGER,
	has_ct                  BOOLEAN NOT NULL DEFAULT FALSE,
	has_mri                 BOOLEAN NOT NULL DEFAULT FALSE,
	has_pet_ct              BOOLEAN NOT NULL DEFAULT FALSE,
	has_ultrasound          BOOLEAN NOT NULL DEFAULT FALSE,
	burn_care_beds          INTEGER NOT NULL DEFAULT 0,
	burn_care_beds_load     INTEGER NOT NULL DEFAULT 0,
	icu_med_surg_beds       INTEGER NOT NULL DEFAULT 0,
	icu_med_surg_beds_load  INTEGER NOT NULL DEFAULT 0,
	icu_neonatal_beds       INTEGER NOT NULL DEFAULT 0,
	icu_neonatal_beds_load  INTEGER NOT NULL DEFAULT 0,
	icu_pediatric_beds      INTEGER NOT NULL DEFAULT 0,
	icu_pediatric_beds_load INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_hospitals_name ON hospitals (name);
CREATE INDEX IF NOT EXISTS idx_hospitals_lat_lng ON hospitals (latitude, longitude);
`

type seedHospital struct {
	name        string
	lat, lng    float64
	city, state string

	totalBeds, totalLoad int
	traumaCenter         bool
	traumaLevel          interface{}
	ct, mri, pet, us     bool

	medSurgBeds, medSurgLoad     int
	pediatricBeds, pediatricLoad int
	neonatalBeds, neonatalLoad   int
	burnBeds, burnLoad           int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping hospitals table before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `DROP TABLE IF EXISTS hospitals`); err != nil {
			log.Fatalf("Failed to drop hospitals table: %v", err)
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, hospitalsSchema); err != nil {
		log.Fatalf("Failed to create hospitals table: %v", err)
	}

	hospitals := []seedHospital{
		{
			name: "General Hospital", lat: 40.7180, lng: -74.0020, city: "New York", state: "NY",
			totalBeds: 500, totalLoad: 320, traumaCenter: true, traumaLevel: 1,
			ct: true, mri: true, pet: true, us: true,
			medSurgBeds: 40, medSurgLoad: 22, pediatricBeds: 12, pediatricLoad: 4,
			neonatalBeds: 10, neonatalLoad: 6, burnBeds: 8, burnLoad: 3,
		},
		{
			name: "City General Hospital", lat: 40.7310, lng: -73.9890, city: "New York", state: "NY",
			totalBeds: 320, totalLoad: 290, traumaCenter: true, traumaLevel: 2,
			ct: true, mri: true, us: true,
			medSurgBeds: 25, medSurgLoad: 20,
		},
		{
			name: "Mercy Medical Center", lat: 40.6990, lng: -74.0150, city: "New York", state: "NY",
			totalBeds: 180, totalLoad: 60, traumaCenter: false, traumaLevel: nil,
			ct: true, us: true,
			medSurgBeds: 10, medSurgLoad: 2,
		},
		{
			name: "St. Luke's Community Hospital", lat: 40.7550, lng: -73.9700, city: "New York", state: "NY",
			totalBeds: 90, totalLoad: 45, traumaCenter: false, traumaLevel: nil,
			us: true,
		},
		{
			name: "Riverside Children's Hospital", lat: 40.7420, lng: -74.0080, city: "New York", state: "NY",
			totalBeds: 150, totalLoad: 70, traumaCenter: true, traumaLevel: 3,
			ct: true, mri: true, us: true,
			pediatricBeds: 30, pediatricLoad: 12, neonatalBeds: 20, neonatalLoad: 9,
		},
	}

	db := goqu.New("postgres", pgClient.DB())
	for _, h := range hospitals {
		record := goqu.Record{
			"hospital_id":             uuid.New().String(),
			"name":                    h.name,
			"latitude":                h.lat,
			"longitude":               h.lng,
			"street":                  "",
			"city":                    h.city,
			"state":                   h.state,
			"zip_code":                "",
			"total_beds":              h.totalBeds,
			"total_beds_load":         h.totalLoad,
			"has_ed":                  true,
			"is_trauma_center":        h.traumaCenter,
			"trauma_level":            h.traumaLevel,
			"has_ct":                  h.ct,
			"has_mri":                 h.mri,
			"has_pet_ct":              h.pet,
			"has_ultrasound":          h.us,
			"burn_care_beds":          h.burnBeds,
			"burn_care_beds_load":     h.burnLoad,
			"icu_med_surg_beds":       h.medSurgBeds,
			"icu_med_surg_beds_load":  h.medSurgLoad,
			"icu_neonatal_beds":       h.neonatalBeds,
			"icu_neonatal_beds_load":  h.neonatalLoad,
			"icu_pediatric_beds":      h.pediatricBeds,
			"icu_pediatric_beds_load": h.pediatricLoad,
		}

		query, args, err := db.Insert("hospitals").Rows(record).ToSQL()
		if err != nil {
			log.Fatalf("Failed to build insert for %s: %v", h.name, err)
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Printf("Failed to seed hospital %s: %v", h.name, err)
		} else {
			log.Printf("Seeded %s", h.name)
		}
	}

	// Push the seeded rows into the suggestion index when Typesense is up
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Typesense unavailable, skipping index seed: %v", err)
		return
	}

	adapter := search.NewTypesenseAdapter(tsClient)
	if err := adapter.InitSchema(ctx); err != nil {
		log.Printf("Failed to init Typesense schema: %v", err)
		return
	}

	hospitalRepo := database.NewHospitalAdapter(pgClient)
	seeded, err := hospitalRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Failed to list hospitals for indexing: %v", err)
		return
	}
	for _, hospital := range seeded {
		if err := adapter.Index(ctx, hospital); err != nil {
			log.Printf("Failed to index %s: %v", hospital.Name, err)
		}
	}

	log.Printf("Seeding complete: %d hospitals.", len(hospitals))
}
