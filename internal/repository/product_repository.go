package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"backoffice-service/internal/entity"
)

// ProductRepository is the read-only catalog projection order placement
// consumes.
type ProductRepository interface {
	// GetProductForOrder returns pricing and sell-count bounds for a product.
	GetProductForOrder(ctx context.Context, productID int64) (*entity.Product, error)

	// GetPurchaseOptions returns every option of a product with color/size
	// names for the buy modal.
	GetPurchaseOptions(ctx context.Context, productID int64) ([]entity.PurchaseOption, error)

	// GetOptionStock returns the stock count and inventory flag for the exact
	// (product, color, size) combination.
	GetOptionStock(ctx context.Context, productID, colorID, sizeID int64) (*entity.Option, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetProductForOrder(ctx context.Context, productID int64) (*entity.Product, error) {
	var p entity.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, discount_rate, minimum_sell_count, maximum_sell_count, seller_id
		FROM products
		WHERE id = ?
	`, productID).Scan(&p.ID, &p.Name, &p.Price, &p.DiscountRate, &p.MinimumSellCount, &p.MaximumSellCount, &p.SellerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetPurchaseOptions(ctx context.Context, productID int64) ([]entity.PurchaseOption, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.color_id, c.name, o.size_id, s.name, o.stock_count, o.is_inventory_manage
		FROM options o
		JOIN colors c ON o.color_id = c.id
		JOIN sizes s ON o.size_id = s.id
		WHERE o.product_id = ?
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []entity.PurchaseOption
	for rows.Next() {
		var o entity.PurchaseOption
		if err := rows.Scan(&o.ColorID, &o.ColorName, &o.SizeID, &o.SizeName, &o.StockCount, &o.IsInventoryManage); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return options, nil
}

func (r *productRepository) GetOptionStock(ctx context.Context, productID, colorID, sizeID int64) (*entity.Option, error) {
	var o entity.Option
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_id, color_id, size_id, stock_count, is_inventory_manage
		FROM options
		WHERE product_id = ? AND color_id = ? AND size_id = ?
	`, productID, colorID, sizeID).Scan(&o.ID, &o.ProductID, &o.ColorID, &o.SizeID, &o.StockCount, &o.IsInventoryManage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("option (%d, %d, %d): %w", productID, colorID, sizeID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
