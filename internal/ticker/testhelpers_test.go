package ticker_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/tickerd/internal/models"
	"github.com/jonesrussell/tickerd/internal/ticker"
)

// fakeStore is an in-memory ticker.ContentStore backed by plain maps.
type fakeStore struct {
	nodes     map[uuid.UUID]*models.ContentNode
	fields    map[uuid.UUID][]models.ItemField
	templates map[uuid.UUID]*models.Template
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nodes:     make(map[uuid.UUID]*models.ContentNode),
		fields:    make(map[uuid.UUID][]models.ItemField),
		templates: make(map[uuid.UUID]*models.Template),
	}
}

func (s *fakeStore) NodeByNameAndType(_ context.Context, name string, nodeType models.NodeType) (*models.ContentNode, error) {
	for _, n := range s.nodes {
		if n.Name == name && n.Type == nodeType {
			return n, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeStore) NodeByID(_ context.Context, id uuid.UUID) (*models.ContentNode, error) {
	if n, ok := s.nodes[id]; ok {
		return n, nil
	}
	return nil, models.ErrNotFound
}

func (s *fakeStore) Children(_ context.Context, parentID uuid.UUID, nodeType models.NodeType, activeOnly bool) ([]models.ContentNode, error) {
	var children []models.ContentNode
	for _, n := range s.nodes {
		if n.ParentID == nil || *n.ParentID != parentID {
			continue
		}
		if nodeType != "" && n.Type != nodeType {
			continue
		}
		if activeOnly && !n.Active {
			continue
		}
		children = append(children, *n)
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].OrderIndex < children[j].OrderIndex
	})
	return children, nil
}

func (s *fakeStore) Fields(_ context.Context, itemID uuid.UUID) ([]models.ItemField, error) {
	return s.fields[itemID], nil
}

func (s *fakeStore) Template(_ context.Context, id uuid.UUID) (*models.Template, error) {
	if t, ok := s.templates[id]; ok {
		return t, nil
	}
	return nil, models.ErrNotFound
}

// treeBuilder assembles content trees for tests, assigning order indexes in
// insertion order.
type treeBuilder struct {
	store *fakeStore
	order int
}

func newTreeBuilder() *treeBuilder {
	return &treeBuilder{store: newFakeStore()}
}

func (b *treeBuilder) add(n *models.ContentNode) *models.ContentNode {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.OrderIndex = b.order
	b.order++
	n.Active = true
	b.store.nodes[n.ID] = n
	return n
}

func (b *treeBuilder) channel(name string) *models.ContentNode {
	return b.add(&models.ContentNode{Type: models.NodeTypeChannel, Name: name})
}

func (b *treeBuilder) playlist(parent *models.ContentNode, name string) *models.ContentNode {
	return b.add(&models.ContentNode{Type: models.NodeTypePlaylist, Name: name, ParentID: &parent.ID})
}

func (b *treeBuilder) bucket(parent *models.ContentNode, name string, root *models.ContentNode) *models.ContentNode {
	return b.add(&models.ContentNode{Type: models.NodeTypeBucket, Name: name, ParentID: &parent.ID, ContentID: &root.ID})
}

// contentRoot creates the bucket-content subtree root a bucket links to.
func (b *treeBuilder) contentRoot(name string) *models.ContentNode {
	return b.add(&models.ContentNode{Type: models.NodeTypeBucket, Name: name})
}

func (b *treeBuilder) folder(parent *models.ContentNode, name string) *models.ContentNode {
	return b.add(&models.ContentNode{Type: models.NodeTypeItemFolder, Name: name, ParentID: &parent.ID})
}

func (b *treeBuilder) item(parent *models.ContentNode, name string, fields ...models.ItemField) *models.ContentNode {
	item := b.add(&models.ContentNode{Type: models.NodeTypeItem, Name: name, ParentID: &parent.ID})
	for i := range fields {
		fields[i].ItemID = item.ID
	}
	b.store.fields[item.ID] = fields
	return item
}

func (b *treeBuilder) template(name string, form string) *models.Template {
	t := &models.Template{ID: uuid.New(), Name: name, FormJSON: []byte(form)}
	b.store.templates[t.ID] = t
	return t
}

func field(name, value string) models.ItemField {
	return models.ItemField{Name: name, Value: value}
}

// fixedClock is a deterministic engine clock for tests.
func fixedClock() time.Time {
	// A Monday at noon UTC.
	return time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)
}

func newTestEngine(b *treeBuilder) *ticker.Engine {
	e, err := ticker.NewEngine(ticker.Options{
		Content: b.store,
		Clock:   fixedClock,
	})
	if err != nil {
		panic(err)
	}
	return e
}
