package migrations

import (
	"database/sql"
	"time"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS sellers (
		id INT AUTO_INCREMENT PRIMARY KEY,
		account VARCHAR(45) NOT NULL UNIQUE,
		name VARCHAR(45) NOT NULL,
		seller_status_id INT NOT NULL DEFAULT 1
	);`,
	`CREATE TABLE IF NOT EXISTS seller_status_histories (
		id INT AUTO_INCREMENT PRIMARY KEY,
		seller_id INT NOT NULL,
		seller_status_id INT NOT NULL,
		update_time DATETIME NOT NULL,
		FOREIGN KEY (seller_id) REFERENCES sellers(id)
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		price INT NOT NULL,
		discount_rate INT NOT NULL DEFAULT 0,
		minimum_sell_count INT NOT NULL DEFAULT 1,
		maximum_sell_count INT NOT NULL DEFAULT 20,
		seller_id INT NOT NULL,
		FOREIGN KEY (seller_id) REFERENCES sellers(id)
	);`,
	`CREATE TABLE IF NOT EXISTS colors (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(20) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS sizes (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(20) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS options (
		id INT AUTO_INCREMENT PRIMARY KEY,
		product_id INT NOT NULL,
		color_id INT NOT NULL,
		size_id INT NOT NULL,
		stock_count INT NOT NULL DEFAULT 0,
		is_inventory_manage BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE KEY uk_option (product_id, color_id, size_id),
		FOREIGN KEY (product_id) REFERENCES products(id),
		FOREIGN KEY (color_id) REFERENCES colors(id),
		FOREIGN KEY (size_id) REFERENCES sizes(id)
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INT AUTO_INCREMENT PRIMARY KEY,
		number VARCHAR(20),
		user_name VARCHAR(45) NOT NULL,
		phone_number VARCHAR(20) NOT NULL,
		zip_code INT NOT NULL,
		address VARCHAR(100) NOT NULL,
		detail_address VARCHAR(100) NOT NULL,
		created_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS order_details (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id INT NOT NULL,
		product_id INT NOT NULL,
		option_id INT NOT NULL,
		detail_number VARCHAR(20) NOT NULL,
		quantity INT NOT NULL,
		order_status_id INT NOT NULL,
		total_price INT NOT NULL,
		seller_id INT NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id),
		FOREIGN KEY (product_id) REFERENCES products(id),
		FOREIGN KEY (option_id) REFERENCES options(id),
		FOREIGN KEY (seller_id) REFERENCES sellers(id)
	);`,
	`CREATE TABLE IF NOT EXISTS order_status_histories (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id INT NOT NULL,
		order_status_id INT NOT NULL,
		update_time DATETIME NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id)
	);`,
}

// AutoMigrate creates every back-office table that does not exist yet.
func AutoMigrate(retries int, db *sql.DB) error {
	for _, query := range tables {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
