package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitticket/internal/models"
	"github.com/mmynk/splitticket/internal/storage"
)

// SaveProduct inserts a product or replaces the one with the same barcode.
func (s *SQLiteStore) SaveProduct(ctx context.Context, product *models.Product) error {
	product.SavedAt = time.Now().Unix()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (user_id, barcode, name, brands, image_url, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, barcode) DO UPDATE SET
			name = excluded.name,
			brands = excluded.brands,
			image_url = excluded.image_url,
			saved_at = excluded.saved_at`,
		product.UserID,
		product.Barcode,
		product.Name,
		product.Brands,
		product.ImageURL,
		product.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// ListProducts returns a household's archived products ordered by name.
func (s *SQLiteStore) ListProducts(ctx context.Context, userID string) ([]*models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, barcode, name, brands, image_url, saved_at
		FROM products
		WHERE user_id = ?
		ORDER BY name COLLATE NOCASE, barcode`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.UserID, &p.Barcode, &p.Name, &p.Brands, &p.ImageURL, &p.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// DeleteProduct removes a product from the archive.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, userID, barcode string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM products WHERE user_id = ? AND barcode = ?",
		userID, barcode,
	)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted product: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", barcode, storage.ErrNotFound)
	}
	return nil
}
