package reading

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL reading repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a new reading. The timestamp is assigned by the database so
// insertion order and timestamp order agree.
func (r *PostgresRepository) Insert(ctx context.Context, reading Reading) (Reading, error) {
	query := `
		INSERT INTO readings (
			source, aqi, temperature, humidity,
			pm25, pm10, o3, co, so2, no2, nh3,
			methane, air_quality
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		string(reading.Source),
		reading.AQI,
		reading.Temperature,
		reading.Humidity,
		reading.PM25,
		reading.PM10,
		reading.O3,
		reading.CO,
		reading.SO2,
		reading.NO2,
		reading.NH3,
		reading.Methane,
		reading.AirQuality,
	).Scan(&reading.Timestamp)
	if err != nil {
		return Reading{}, err
	}

	return reading, nil
}

// Latest retrieves the most recently inserted reading.
func (r *PostgresRepository) Latest(ctx context.Context) (Reading, error) {
	query := `
		SELECT
			source, aqi, temperature, humidity,
			pm25, pm10, o3, co, so2, no2, nh3,
			methane, air_quality, created_at
		FROM readings
		ORDER BY created_at DESC
		LIMIT 1
	`

	var reading Reading
	err := r.pool.QueryRow(ctx, query).Scan(
		&reading.Source,
		&reading.AQI,
		&reading.Temperature,
		&reading.Humidity,
		&reading.PM25,
		&reading.PM10,
		&reading.O3,
		&reading.CO,
		&reading.SO2,
		&reading.NO2,
		&reading.NH3,
		&reading.Methane,
		&reading.AirQuality,
		&reading.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reading{}, ErrNoReadings
		}
		return Reading{}, err
	}

	return reading, nil
}

// LatestLocal retrieves the most recently inserted sensor reading.
func (r *PostgresRepository) LatestLocal(ctx context.Context) (Reading, error) {
	query := `
		SELECT
			source, aqi, temperature, humidity,
			pm25, pm10, o3, co, so2, no2, nh3,
			methane, air_quality, created_at
		FROM readings
		WHERE source = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var reading Reading
	err := r.pool.QueryRow(ctx, query, string(SourceSensor)).Scan(
		&reading.Source,
		&reading.AQI,
		&reading.Temperature,
		&reading.Humidity,
		&reading.PM25,
		&reading.PM10,
		&reading.O3,
		&reading.CO,
		&reading.SO2,
		&reading.NO2,
		&reading.NH3,
		&reading.Methane,
		&reading.AirQuality,
		&reading.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reading{}, ErrNoReadings
		}
		return Reading{}, err
	}

	return reading, nil
}

// Range retrieves readings with created_at >= since, ascending.
func (r *PostgresRepository) Range(ctx context.Context, since time.Time) ([]Reading, error) {
	query := `
		SELECT
			source, aqi, temperature, humidity,
			pm25, pm10, o3, co, so2, no2, nh3,
			methane, air_quality, created_at
		FROM readings
		WHERE created_at >= $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		var reading Reading
		if err := rows.Scan(
			&reading.Source,
			&reading.AQI,
			&reading.Temperature,
			&reading.Humidity,
			&reading.PM25,
			&reading.PM10,
			&reading.O3,
			&reading.CO,
			&reading.SO2,
			&reading.NO2,
			&reading.NH3,
			&reading.Methane,
			&reading.AirQuality,
			&reading.Timestamp,
		); err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}

	return readings, rows.Err()
}
