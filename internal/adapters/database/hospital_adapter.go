package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/repositories"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/clients/postgres"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/observability"
	apperrors "github.com/caresteer/hospital-discovery/backend/pkg/errors"
)

const (
	defaultNearbyLimit = 50
	defaultMatchLimit  = 25
)

// hospitalColumns is the full capability/capacity projection of one row.
var hospitalColumns = []interface{}{
	"hospital_id", "name", "latitude", "longitude",
	"street", "city", "state", "zip_code",
	"total_beds", "total_beds_load",
	"has_ed", "is_trauma_center", "trauma_level",
	"has_ct", "has_mri", "has_pet_ct", "has_ultrasound",
	"burn_care_beds", "burn_care_beds_load",
	"icu_med_surg_beds", "icu_med_surg_beds_load",
	"icu_neonatal_beds", "icu_neonatal_beds_load",
	"icu_pediatric_beds", "icu_pediatric_beds_load",
}

// HospitalAdapter implements the HospitalRepository interface on Postgres
type HospitalAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewHospitalAdapter creates a new hospital adapter
func NewHospitalAdapter(client *postgres.Client) repositories.HospitalRepository {
	return NewHospitalAdapterWithMetrics(client, nil)
}

// NewHospitalAdapterWithMetrics creates a hospital adapter that records
// query durations. metrics may be nil.
func NewHospitalAdapterWithMetrics(client *postgres.Client, metrics *observability.Metrics) repositories.HospitalRepository {
	return &HospitalAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

// distanceMeters builds the spherical-earth distance predicate in meters.
// The haversine form must stay stable: radius cutoffs are part of the
// matching contract.
func distanceMeters(lat, lng float64) exp.LiteralExpression {
	return goqu.L(
		"(6371000 * acos(least(1.0, cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) + sin(radians(?)) * sin(radians(latitude)))))",
		lat, lng, lat,
	)
}

// GetByID retrieves a hospital by ID
func (a *HospitalAdapter) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Where(goqu.Ex{"hospital_id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	start := time.Now()
	row := a.client.DB().QueryRowContext(ctx, query, args...)
	hospital, err := scanHospital(row.Scan)
	observability.RecordDBMetric(ctx, a.metrics, "hospitals.get_by_id", time.Since(start))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get hospital", err)
	}

	return hospital, nil
}

// FindNearby retrieves hospitals within params.MaxDistanceKm of the origin
// with at least params.MinBeds total beds, ordered by descending bed count
func (a *HospitalAdapter) FindNearby(ctx context.Context, params repositories.NearbyParams) ([]*entities.Hospital, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	maxMeters := params.MaxDistanceKm * 1000

	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Where(
			goqu.C("total_beds").Gte(params.MinBeds),
			distanceMeters(params.Latitude, params.Longitude).Lte(maxMeters),
		).
		Order(goqu.C("total_beds").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryHospitals(ctx, "hospitals.find_nearby", query, args)
}

// MatchByNameAndLocation retrieves hospitals whose name contains params.Name
// as a case-sensitive substring. When a location is present the same
// spherical radius filter applies; without one the lookup is name-only.
func (a *HospitalAdapter) MatchByNameAndLocation(ctx context.Context, params repositories.NameMatchParams) ([]*entities.Hospital, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultMatchLimit
	}

	conditions := []goqu.Expression{
		goqu.C("name").Like("%" + params.Name + "%"),
	}
	if params.Location != nil {
		maxMeters := params.MaxDistanceKm * 1000
		conditions = append(conditions,
			distanceMeters(params.Location.Latitude, params.Location.Longitude).Lte(maxMeters),
		)
	}

	// Residual ordering is primary-key order; the resolver applies the
	// match-class ranking on top of this set.
	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Where(conditions...).
		Order(goqu.C("hospital_id").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryHospitals(ctx, "hospitals.match_by_name", query, args)
}

// List retrieves a page of hospitals in primary-key order
func (a *HospitalAdapter) List(ctx context.Context, limit, offset int) ([]*entities.Hospital, error) {
	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	if offset < 0 {
		offset = 0
	}

	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Order(goqu.C("hospital_id").Asc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryHospitals(ctx, "hospitals.list", query, args)
}

func (a *HospitalAdapter) queryHospitals(ctx context.Context, operation, query string, args []interface{}) ([]*entities.Hospital, error) {
	start := time.Now()
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	observability.RecordDBMetric(ctx, a.metrics, operation, time.Since(start))
	if err != nil {
		return nil, apperrors.NewExternalError("hospital store unavailable", err)
	}
	defer rows.Close()

	hospitals := []*entities.Hospital{}
	for rows.Next() {
		hospital, err := scanHospital(rows.Scan)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan hospital", err)
		}
		hospitals = append(hospitals, hospital)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating hospitals", err)
	}

	return hospitals, nil
}

func scanHospital(scan func(dest ...interface{}) error) (*entities.Hospital, error) {
	hospital := &entities.Hospital{}
	var traumaLevel sql.NullInt64

	err := scan(
		&hospital.ID,
		&hospital.Name,
		&hospital.Location.Latitude,
		&hospital.Location.Longitude,
		&hospital.Address.Street,
		&hospital.Address.City,
		&hospital.Address.State,
		&hospital.Address.ZipCode,
		&hospital.TotalBeds,
		&hospital.TotalBedsLoad,
		&hospital.HasED,
		&hospital.IsTraumaCenter,
		&traumaLevel,
		&hospital.HasCT,
		&hospital.HasMRI,
		&hospital.HasPetCT,
		&hospital.HasUltrasound,
		&hospital.BurnCareBeds,
		&hospital.BurnCareBedsLoad,
		&hospital.ICUMedSurgBeds,
		&hospital.ICUMedSurgBedsLoad,
		&hospital.ICUNeonatalBeds,
		&hospital.ICUNeonatalBedsLoad,
		&hospital.ICUPediatricBeds,
		&hospital.ICUPediatricBedsLoad,
	)
	if err != nil {
		return nil, err
	}

	if traumaLevel.Valid {
		hospital.TraumaLevel = int(traumaLevel.Int64)
	}

	return hospital, nil
}
