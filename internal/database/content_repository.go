package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/tickerd/internal/models"
)

// nodeColumns is the canonical column list for content_nodes queries.
const nodeColumns = `id, parent_id, node_type, name, order_index, active,
		schedule, content_id, template_id, duration, config, created_at, updated_at`

// ContentRepository provides read-only access to the content tree, item
// fields, and templates. The feed engine never writes; authoring happens in
// the dashboard services.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a new content repository instance
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Ping verifies the database connection
func (r *ContentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// NodeByNameAndType retrieves a node by name and type
func (r *ContentRepository) NodeByNameAndType(ctx context.Context, name string, nodeType models.NodeType) (*models.ContentNode, error) {
	node := &models.ContentNode{}
	query := `
		SELECT ` + nodeColumns + `
		FROM content_nodes
		WHERE name = $1 AND node_type = $2
	`

	err := r.db.GetContext(ctx, node, query, name, nodeType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get node by name: %w", err)
	}

	return node, nil
}

// NodeByID retrieves a node by ID
func (r *ContentRepository) NodeByID(ctx context.Context, id uuid.UUID) (*models.ContentNode, error) {
	node := &models.ContentNode{}
	query := `
		SELECT ` + nodeColumns + `
		FROM content_nodes
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, node, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get node: %w", err)
	}

	return node, nil
}

// Children retrieves the ordered child nodes of a parent. An empty nodeType
// matches any type. When activeOnly is set, inactive nodes are filtered at
// the query level (independent of schedule evaluation).
func (r *ContentRepository) Children(ctx context.Context, parentID uuid.UUID, nodeType models.NodeType, activeOnly bool) ([]models.ContentNode, error) {
	nodes := []models.ContentNode{}
	query := `
		SELECT ` + nodeColumns + `
		FROM content_nodes
		WHERE parent_id = $1
	`
	args := []any{parentID}

	if nodeType != "" {
		query += fmt.Sprintf(" AND node_type = $%d", len(args)+1)
		args = append(args, nodeType)
	}
	if activeOnly {
		query += " AND active = true"
	}
	query += " ORDER BY order_index ASC"

	if err := r.db.SelectContext(ctx, &nodes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}

	return nodes, nil
}

// Fields retrieves the fields attached to an item node
func (r *ContentRepository) Fields(ctx context.Context, itemID uuid.UUID) ([]models.ItemField, error) {
	fields := []models.ItemField{}
	query := `
		SELECT item_id, name, value
		FROM item_fields
		WHERE item_id = $1
		ORDER BY name ASC
	`

	if err := r.db.SelectContext(ctx, &fields, query, itemID); err != nil {
		return nil, fmt.Errorf("failed to list item fields: %w", err)
	}

	return fields, nil
}

// Template retrieves a template with its form schema
func (r *ContentRepository) Template(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	tmpl := &models.Template{}
	query := `
		SELECT id, name, form
		FROM templates
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, tmpl, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return tmpl, nil
}
