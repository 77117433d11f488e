package ticker

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/tickerd/internal/models"
)

// feedVersion is the wire format version expected by the consuming
// hardware.
const feedVersion = "2.4"

// renderContext is the only state carried within one render: the per-bucket
// synthetic instance counters. It is created fresh per Render call and
// never shared across renders.
type renderContext struct {
	syntheticCounts map[uuid.UUID]int
}

func newRenderContext() *renderContext {
	return &renderContext{syntheticCounts: make(map[uuid.UUID]int)}
}

// nextInstance returns the next synthetic instance index for a bucket
// content root, starting at 0.
func (rc *renderContext) nextInstance(id uuid.UUID) int {
	n := rc.syntheticCounts[id]
	rc.syntheticCounts[id] = n + 1
	return n
}

// renderVisitor builds the output document during a walk, pruning branches
// that yield no elements. The consuming hardware treats an empty playlist
// as a rendering fault, so pruning is mandatory, not cosmetic.
type renderVisitor struct {
	e   *Engine
	ctx context.Context
	req Request
	rc  *renderContext

	now time.Time
	loc *time.Location

	doc      *models.Document
	playlist *models.PlaylistOutput
	group    *models.GroupOutput
}

func newRenderVisitor(e *Engine, ctx context.Context, req Request) *renderVisitor {
	return &renderVisitor{
		e:   e,
		ctx: ctx,
		req: req,
		rc:  newRenderContext(),
		doc: &models.Document{Version: feedVersion},
	}
}

func (v *renderVisitor) begin(_ *models.ContentNode, now time.Time, loc *time.Location) error {
	v.now = now
	v.loc = loc
	return nil
}

func (v *renderVisitor) enterPlaylist(playlist *models.ContentNode) error {
	cfg := playlist.Config()
	target := cfg.Target
	if target == "" {
		target = playlist.Name
	}
	v.playlist = &models.PlaylistOutput{
		Name:   playlist.Name,
		Type:   classifyPlaylist(playlist),
		Target: target,
	}
	return nil
}

func (v *renderVisitor) enterBucket(bucket, contentRoot *models.ContentNode) error {
	v.group = &models.GroupOutput{
		ContentID:   contentRoot.ID.String(),
		Description: bucket.Name,
		Color:       bucketColor(bucket),
	}
	return nil
}

func (v *renderVisitor) visitItem(item *models.ContentNode, fields []models.ItemField) error {
	elements := v.e.buildItemElements(v.ctx, v.processorContext(), item, fields)
	v.group.Elements = append(v.group.Elements, elements...)
	return nil
}

func (v *renderVisitor) leaveBucket(_, contentRoot *models.ContentNode) error {
	group := v.group
	v.group = nil

	// A bucket with no real elements contributes nothing; the synthetic
	// element is not generated for it either.
	if len(group.Elements) == 0 {
		return nil
	}

	if generated := v.e.generatedElement(v.ctx, contentRoot, v.rc); generated != nil {
		group.Elements = append([]models.Element{*generated}, group.Elements...)
	}

	v.playlist.Groups = append(v.playlist.Groups, *group)
	return nil
}

func (v *renderVisitor) leavePlaylist(_ *models.ContentNode) error {
	playlist := v.playlist
	v.playlist = nil

	if len(playlist.Groups) == 0 {
		return nil
	}
	v.doc.Playlists = append(v.doc.Playlists, *playlist)
	return nil
}

func (v *renderVisitor) processorContext() ProcessorContext {
	return ProcessorContext{Request: v.req, Now: v.now, Location: v.loc}
}

// classifyPlaylist resolves the playlist type emitted on the wire: an
// explicit config override wins, then breaking/urgent names flip, and
// everything else scrolls.
func classifyPlaylist(playlist *models.ContentNode) string {
	if override := playlist.Config().PlaylistType; override != "" {
		return override
	}
	name := strings.ToLower(playlist.Name)
	if strings.Contains(name, "breaking") || strings.Contains(name, "urgent") {
		return models.PlaylistTypeFlipping
	}
	return models.PlaylistTypeScrolling
}
