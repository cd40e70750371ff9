package database

import (
	"context"
	"database/sql"
	"time"
)

// schema holds idempotent table definitions. History arrays persist as
// JSON columns: they are append-only audit data that is written by the
// handlers and only ever read back for display, so no relational
// modelling is needed.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		uuid VARCHAR(16) NOT NULL UNIQUE,
		code INT NOT NULL,
		name VARCHAR(120) NOT NULL,
		phone_number VARCHAR(11) NOT NULL UNIQUE,
		nin VARCHAR(11) NOT NULL UNIQUE,
		password_hash VARCHAR(100) NOT NULL,
		dp VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(10) NOT NULL,
		status VARCHAR(16) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		cuid VARCHAR(16) NOT NULL UNIQUE,
		code INT NOT NULL,
		name VARCHAR(120) NOT NULL,
		phone_number VARCHAR(11) NOT NULL UNIQUE,
		identity_type VARCHAR(40) NOT NULL DEFAULT '',
		identity_number VARCHAR(11) NOT NULL UNIQUE,
		photograph VARCHAR(255) NOT NULL DEFAULT '',
		guarantor JSON NULL,
		status VARCHAR(16) NOT NULL,
		created_by VARCHAR(120) NOT NULL,
		created_by_id VARCHAR(16) NOT NULL,
		last_updated_by VARCHAR(120) NOT NULL DEFAULT '',
		last_updated_by_id VARCHAR(16) NOT NULL DEFAULT '',
		status_history JSON NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		vuid VARCHAR(16) NOT NULL UNIQUE,
		code INT NOT NULL,
		model VARCHAR(120) NOT NULL DEFAULT '',
		plate_number VARCHAR(32) NOT NULL,
		identity_number VARCHAR(64) NOT NULL UNIQUE,
		tracker_imei VARCHAR(32) NOT NULL DEFAULT '',
		tracker_sim VARCHAR(32) NOT NULL DEFAULT '',
		current_client_id VARCHAR(16) NOT NULL DEFAULT '',
		current_contract_id VARCHAR(16) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL,
		created_by VARCHAR(120) NOT NULL,
		created_by_id VARCHAR(16) NOT NULL,
		last_updated_by VARCHAR(120) NOT NULL DEFAULT '',
		last_updated_by_id VARCHAR(16) NOT NULL DEFAULT '',
		status_history JSON NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS vehicle_types (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		vtuid VARCHAR(16) NOT NULL UNIQUE,
		code INT NOT NULL,
		title VARCHAR(80) NOT NULL UNIQUE,
		description VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		cuid VARCHAR(16) NOT NULL UNIQUE,
		code INT NOT NULL,
		client_id VARCHAR(16) NOT NULL,
		client_name VARCHAR(120) NOT NULL,
		client_phone VARCHAR(11) NOT NULL,
		vehicle_id VARCHAR(16) NOT NULL,
		vehicle_plate VARCHAR(32) NOT NULL,
		vehicle_identity VARCHAR(64) NOT NULL,
		amount DECIMAL(12,2) NOT NULL DEFAULT 0,
		discount DECIMAL(12,2) NOT NULL DEFAULT 0,
		balance DECIMAL(12,2) NOT NULL DEFAULT 0,
		start_date VARCHAR(32) NOT NULL DEFAULT '',
		end_date VARCHAR(32) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL,
		created_by VARCHAR(120) NOT NULL,
		created_by_id VARCHAR(16) NOT NULL,
		last_updated_by VARCHAR(120) NOT NULL DEFAULT '',
		last_updated_by_id VARCHAR(16) NOT NULL DEFAULT '',
		update_history JSON NULL,
		status_history JSON NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_contracts_client_status (client_id, status),
		KEY idx_contracts_vehicle_status (vehicle_id, status)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		puid VARCHAR(16) NOT NULL UNIQUE,
		code INT NOT NULL,
		contract_id VARCHAR(16) NOT NULL,
		contract_code INT NOT NULL DEFAULT 0,
		client_id VARCHAR(16) NOT NULL,
		client_name VARCHAR(120) NOT NULL,
		vehicle_id VARCHAR(16) NOT NULL,
		payment_ref VARCHAR(64) NOT NULL DEFAULT '',
		payment_mode VARCHAR(32) NOT NULL DEFAULT '',
		remark VARCHAR(255) NOT NULL DEFAULT '',
		amount DECIMAL(12,2) NOT NULL DEFAULT 0,
		status VARCHAR(16) NOT NULL,
		created_by VARCHAR(120) NOT NULL,
		created_by_id VARCHAR(16) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_payments_contract (contract_id)
	)`,
}

// Migrate applies the idempotent schema statements at startup.
func Migrate(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
