package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NodeType identifies the level of a content node within the hierarchy.
type NodeType string

// Content node types, from the root of the hierarchy down to the leaves.
const (
	NodeTypeChannel    NodeType = "channel"
	NodeTypePlaylist   NodeType = "playlist"
	NodeTypeBucket     NodeType = "bucket"
	NodeTypeItem       NodeType = "item"
	NodeTypeItemFolder NodeType = "item_folder"
)

// MetadataFieldPrefix marks item fields that are authoring metadata and
// must never appear in rendered output.
const MetadataFieldPrefix = "_"

// ContentNode is one node of the hierarchical content tree. The feed engine
// treats nodes as read-only; they are authored elsewhere.
type ContentNode struct {
	ID           uuid.UUID  `db:"id"           json:"id"`
	ParentID     *uuid.UUID `db:"parent_id"    json:"parent_id,omitempty"`
	Type         NodeType   `db:"node_type"    json:"type"`
	Name         string     `db:"name"         json:"name"`
	OrderIndex   int        `db:"order_index"  json:"order_index"`
	Active       bool       `db:"active"       json:"active"`
	ScheduleJSON []byte     `db:"schedule"     json:"-"`
	ContentID    *uuid.UUID `db:"content_id"   json:"content_id,omitempty"`
	TemplateID   *uuid.UUID `db:"template_id"  json:"template_id,omitempty"`
	Duration     *int       `db:"duration"     json:"duration,omitempty"`
	ConfigJSON   []byte     `db:"config"       json:"-"`
	CreatedAt    time.Time  `db:"created_at"   json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"   json:"updated_at"`
}

// NodeConfig holds the optional per-node configuration stored as JSON
// alongside the node row.
type NodeConfig struct {
	PlaylistType string              `json:"playlistType,omitempty"`
	Target       string              `json:"target,omitempty"`
	Timezone     string              `json:"timezone,omitempty"`
	GenerateItem *GenerateItemConfig `json:"generateItem,omitempty"`
}

// GenerateItemConfig describes a synthetic element prepended to a bucket's
// rendered output.
type GenerateItemConfig struct {
	Enabled    bool       `json:"enabled"`
	TemplateID *uuid.UUID `json:"templateId,omitempty"`
	FieldName  string     `json:"fieldName,omitempty"`
	FieldValue string     `json:"fieldValue,omitempty"`
	Duration   int        `json:"duration,omitempty"`
}

// Config parses the node's configuration JSON. Malformed or absent
// configuration yields the zero config, never an error: a data glitch must
// not take content off air.
func (n *ContentNode) Config() NodeConfig {
	var cfg NodeConfig
	if len(n.ConfigJSON) == 0 {
		return cfg
	}
	if err := json.Unmarshal(n.ConfigJSON, &cfg); err != nil {
		return NodeConfig{}
	}
	return cfg
}

// ItemField is one name/value pair attached to an item node.
type ItemField struct {
	ItemID uuid.UUID `db:"item_id" json:"item_id"`
	Name   string    `db:"name"    json:"name"`
	Value  string    `db:"value"   json:"value"`
}

// IsMetadata reports whether the field is authoring metadata excluded from
// rendered output.
func (f ItemField) IsMetadata() bool {
	return strings.HasPrefix(f.Name, MetadataFieldPrefix)
}
