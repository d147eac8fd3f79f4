// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
)

const productColumns = `id, name, price, category, image`

func scanProducts(rows *sql.Rows) ([]Product, error) {
	defer func() { _ = rows.Close() }()

	var items []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Image); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listProducts = `SELECT ` + productColumns + ` FROM products ORDER BY id`

// ListProducts returns every product in storage order.
func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

const searchProducts = `SELECT ` + productColumns + ` FROM products
WHERE (? = '' OR name LIKE ? ESCAPE '\')
  AND (? = '' OR category = ?)
ORDER BY id`

// SearchProductsParams filters products by name substring and exact category.
// Empty fields do not filter.
type SearchProductsParams struct {
	Query    string
	Category string
}

// SearchProducts returns products whose name contains Query (ASCII
// case-insensitive, wildcards taken literally) and whose category equals Category.
func (q *Queries) SearchProducts(ctx context.Context, arg SearchProductsParams) ([]Product, error) {
	pattern := "%" + EscapeLike(arg.Query) + "%"
	rows, err := q.db.QueryContext(ctx, searchProducts, arg.Query, pattern, arg.Category, arg.Category)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so s matches literally with ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

const getProductByID = `SELECT ` + productColumns + ` FROM products WHERE id = ?`

// GetProductByID returns sql.ErrNoRows when the id does not exist.
func (q *Queries) GetProductByID(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := q.db.QueryRowContext(ctx, getProductByID, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Image)
	return p, err
}

const getProductImage = `SELECT image FROM products WHERE id = ?`

// GetProductImage returns the stored image filename for id.
func (q *Queries) GetProductImage(ctx context.Context, id int64) (string, error) {
	var image string
	err := q.db.QueryRowContext(ctx, getProductImage, id).Scan(&image)
	return image, err
}

const listCategories = `SELECT DISTINCT category FROM products ORDER BY category`

// ListCategories returns the distinct product categories, sorted.
func (q *Queries) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const countProducts = `SELECT COUNT(*) FROM products`

// CountProducts returns the number of products.
func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countProducts).Scan(&n)
	return n, err
}

const createProduct = `INSERT INTO products (name, price, category, image)
VALUES (?, ?, ?, ?)
RETURNING ` + productColumns

// CreateProductParams holds the columns of a new product.
type CreateProductParams struct {
	Name     string
	Price    float64
	Category string
	Image    string
}

// CreateProduct inserts a product and returns the stored row.
func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	var p Product
	err := q.db.QueryRowContext(ctx, createProduct, arg.Name, arg.Price, arg.Category, arg.Image).
		Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Image)
	return p, err
}

const updateProduct = `UPDATE products SET name = ?, price = ?, category = ?, image = ? WHERE id = ?`

// UpdateProductParams holds the full replacement row for an update.
type UpdateProductParams struct {
	ID       int64
	Name     string
	Price    float64
	Category string
	Image    string
}

// UpdateProduct overwrites every column of the row and returns the number of
// rows affected, zero for a missing id.
func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateProduct, arg.Name, arg.Price, arg.Category, arg.Image, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteProduct = `DELETE FROM products WHERE id = ?`

// DeleteProduct removes the row with id, if any.
func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteProduct, id)
	return err
}
