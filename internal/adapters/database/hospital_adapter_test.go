package database_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/caresteer/hospital-discovery/backend/internal/adapters/database"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/repositories"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/clients/postgres"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/observability"
	apperrors "github.com/caresteer/hospital-discovery/backend/pkg/errors"
)

var hospitalTestColumns = []string{
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

func newTestAdapter(t *testing.T) (repositories.HospitalRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewHospitalAdapter(postgres.NewClientFromDB(db)), mock
}

func hospitalRow(id, name string, beds int) []driver.Value {
	return []driver.Value{
		id, name, 40.7128, -74.0060,
		"123 Main St", "New York", "NY", "10001",
		beds, 20,
		true, true, 2,
		true, true, false, true,
		4, 1,
		10, 3,
		0, 0,
		6, 2,
	}
}

func TestHospitalAdapter_FindNearby(t *testing.T) {
	adapter, mock := newTestAdapter(t)

	rows := sqlmock.NewRows(hospitalTestColumns).
		AddRow(hospitalRow("h-1", "General Hospital", 500)...).
		AddRow(hospitalRow("h-2", "Mercy Medical Center", 300)...)

	// Bed floor, radius converted to meters, and limit all appear in the
	// generated SQL in this order.
	mock.ExpectQuery(`"total_beds" >= 5.* <= 10000.*ORDER BY "total_beds" DESC LIMIT 2`).
		WillReturnRows(rows)

	hospitals, err := adapter.FindNearby(context.Background(), repositories.NearbyParams{
		Latitude:      40.7128,
		Longitude:     -74.0060,
		MaxDistanceKm: 10,
		MinBeds:       5,
		Limit:         2,
	})

	require.NoError(t, err)
	require.Len(t, hospitals, 2)
	assert.Equal(t, "h-1", hospitals[0].ID)
	assert.Equal(t, 500, hospitals[0].TotalBeds)
	assert.Equal(t, 2, hospitals[0].TraumaLevel)
	assert.True(t, hospitals[0].HasMRI)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHospitalAdapter_FindNearby_EmptyResult(t *testing.T) {
	adapter, mock := newTestAdapter(t)

	mock.ExpectQuery(`FROM "hospitals"`).
		WillReturnRows(sqlmock.NewRows(hospitalTestColumns))

	hospitals, err := adapter.FindNearby(context.Background(), repositories.NearbyParams{
		Latitude:      40.7128,
		Longitude:     -74.0060,
		MaxDistanceKm: 5,
	})

	require.NoError(t, err)
	assert.Empty(t, hospitals)
}

func TestHospitalAdapter_FindNearby_StoreUnavailable(t *testing.T) {
	adapter, mock := newTestAdapter(t)

	mock.ExpectQuery(`FROM "hospitals"`).
		WillReturnError(errors.New("connection refused"))

	_, err := adapter.FindNearby(context.Background(), repositories.NearbyParams{
		Latitude:      40.7128,
		Longitude:     -74.0060,
		MaxDistanceKm: 5,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestHospitalAdapter_GetByID(t *testing.T) {
	adapter, mock := newTestAdapter(t)

	rows := sqlmock.NewRows(hospitalTestColumns).
		AddRow(hospitalRow("h-9", "City General Hospital", 220)...)

	mock.ExpectQuery(`"hospital_id" = 'h-9'`).WillReturnRows(rows)

	hospital, err := adapter.GetByID(context.Background(), "h-9")

	require.NoError(t, err)
	assert.Equal(t, "City General Hospital", hospital.Name)
	assert.Equal(t, 220, hospital.TotalBeds)
	assert.Equal(t, "New York", hospital.Address.City)
}

func TestHospitalAdapter_GetByID_NotFound(t *testing.T) {
	adapter, mock := newTestAdapter(t)

	mock.ExpectQuery(`"hospital_id" = 'missing'`).
		WillReturnRows(sqlmock.NewRows(hospitalTestColumns))

	_, err := adapter.GetByID(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestHospitalAdapter_MatchByNameAndLocation(t *testing.T) {
	adapter, mock := newTestAdapter(t)

	rows := sqlmock.NewRows(hospitalTestColumns).
		AddRow(hospitalRow("h-3", "General Hospital", 500)...)

	mock.ExpectQuery(`"name" LIKE '%General Hospital%'.* <= 10000.*ORDER BY "hospital_id" ASC LIMIT 25`).
		WillReturnRows(rows)

	hospitals, err := adapter.MatchByNameAndLocation(context.Background(), repositories.NameMatchParams{
		Name:          "General Hospital",
		Location:      &entities.Location{Latitude: 40.7128, Longitude: -74.0060},
		MaxDistanceKm: 10,
	})

	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "h-3", hospitals[0].ID)
}

func TestHospitalAdapter_MatchByNameAndLocation_NoCoordinates(t *testing.T) {
	adapter, mock := newTestAdapter(t)

	rows := sqlmock.NewRows(hospitalTestColumns).
		AddRow(hospitalRow("h-4", "Mercy Hospital", 120)...)

	// Without a location the distance predicate is omitted entirely.
	mock.ExpectQuery(`WHERE \("name" LIKE '%Mercy%'\) ORDER BY "hospital_id" ASC LIMIT 25`).
		WillReturnRows(rows)

	hospitals, err := adapter.MatchByNameAndLocation(context.Background(), repositories.NameMatchParams{
		Name: "Mercy",
	})

	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHospitalAdapter_RecordsQueryDuration(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { otel.SetMeterProvider(previous) })

	metrics, err := observability.InitMetrics()
	require.NoError(t, err)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	adapter := database.NewHospitalAdapterWithMetrics(postgres.NewClientFromDB(db), metrics)

	mock.ExpectQuery(`FROM "hospitals"`).
		WillReturnRows(sqlmock.NewRows(hospitalTestColumns).
			AddRow(hospitalRow("h-1", "General Hospital", 500)...))

	_, err = adapter.FindNearby(context.Background(), repositories.NearbyParams{
		Latitude:      40.7128,
		Longitude:     -74.0060,
		MaxDistanceKm: 10,
	})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "db.query.duration" {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			for _, dp := range hist.DataPoints {
				if op, ok := dp.Attributes.Value("db.operation"); ok && op.AsString() == "hospitals.find_nearby" {
					assert.Equal(t, uint64(1), dp.Count)
					found = true
				}
			}
		}
	}
	assert.True(t, found, "expected a db.query.duration datapoint for hospitals.find_nearby")
}
