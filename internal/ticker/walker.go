package ticker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/models"
	"github.com/jonesrussell/tickerd/internal/schedule"
)

// visitor receives the traversal events of one walk. Render and
// CollectImages are the two implementations; the schedule gating and
// descent rules live only here in the walker.
type visitor interface {
	begin(channel *models.ContentNode, now time.Time, loc *time.Location) error
	enterPlaylist(playlist *models.ContentNode) error
	enterBucket(bucket, contentRoot *models.ContentNode) error
	visitItem(item *models.ContentNode, fields []models.ItemField) error
	leaveBucket(bucket, contentRoot *models.ContentNode) error
	leavePlaylist(playlist *models.ContentNode) error
}

// walk descends channel -> playlist -> bucket -> (item | item_folder)*,
// applying schedule gates at every level. Upstream fetch failures below the
// channel level are logged and skipped, never fatal: a broken branch must
// not blank the whole feed.
func (e *Engine) walk(ctx context.Context, req Request, v visitor) error {
	channel, err := e.content.NodeByNameAndType(ctx, req.Channel, models.NodeTypeChannel)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrChannelNotFound
		}
		return err
	}

	now := e.now()
	loc := e.location(channel)
	activeOnly := !req.IncludeInactive

	if err := v.begin(channel, now, loc); err != nil {
		return err
	}

	playlists, err := e.content.Children(ctx, channel.ID, models.NodeTypePlaylist, activeOnly)
	if err != nil {
		return err
	}

	for i := range playlists {
		playlist := &playlists[i]
		if !schedule.IsActiveRaw(now, loc, playlist.ScheduleJSON) {
			e.log.Debug("playlist outside schedule, skipping",
				logger.String("playlist", playlist.Name),
			)
			continue
		}

		if err := e.walkPlaylist(ctx, playlist, activeOnly, now, loc, v); err != nil {
			return err
		}
	}

	return nil
}

// walkPlaylist descends one schedule-active playlist.
func (e *Engine) walkPlaylist(ctx context.Context, playlist *models.ContentNode, activeOnly bool, now time.Time, loc *time.Location, v visitor) error {
	buckets, err := e.content.Children(ctx, playlist.ID, models.NodeTypeBucket, activeOnly)
	if err != nil {
		e.log.Warn("failed to fetch playlist buckets, skipping playlist",
			logger.String("playlist", playlist.Name),
			logger.Error(err),
		)
		return nil
	}

	active := buckets[:0]
	for i := range buckets {
		if schedule.IsActiveRaw(now, loc, buckets[i].ScheduleJSON) {
			active = append(active, buckets[i])
		}
	}
	if len(active) == 0 {
		return nil
	}

	if err := v.enterPlaylist(playlist); err != nil {
		return err
	}

	for i := range active {
		bucket := &active[i]
		if bucket.ContentID == nil {
			continue
		}

		root, err := e.content.NodeByID(ctx, *bucket.ContentID)
		if err != nil {
			e.log.Warn("failed to resolve bucket content root, skipping bucket",
				logger.String("bucket", bucket.Name),
				logger.Error(err),
			)
			continue
		}

		if err := v.enterBucket(bucket, root); err != nil {
			return err
		}
		if err := e.walkItems(ctx, root.ID, activeOnly, now, loc, v); err != nil {
			return err
		}
		if err := v.leaveBucket(bucket, root); err != nil {
			return err
		}
	}

	return v.leavePlaylist(playlist)
}

// walkItems recursively visits the schedule-active items below a parent.
// An inactive folder hides all of its descendants regardless of their own
// schedules.
func (e *Engine) walkItems(ctx context.Context, parentID uuid.UUID, activeOnly bool, now time.Time, loc *time.Location, v visitor) error {
	children, err := e.content.Children(ctx, parentID, "", activeOnly)
	if err != nil {
		e.log.Warn("failed to fetch item children, skipping branch",
			logger.String("parent_id", parentID.String()),
			logger.Error(err),
		)
		return nil
	}

	for i := range children {
		child := &children[i]

		switch child.Type {
		case models.NodeTypeItem:
			if !schedule.IsActiveRaw(now, loc, child.ScheduleJSON) {
				continue
			}
			fields, fieldsErr := e.content.Fields(ctx, child.ID)
			if fieldsErr != nil {
				e.log.Warn("failed to fetch item fields, skipping item",
					logger.String("item", child.Name),
					logger.Error(fieldsErr),
				)
				continue
			}
			if err := v.visitItem(child, fields); err != nil {
				return err
			}

		case models.NodeTypeItemFolder:
			if !schedule.IsActiveRaw(now, loc, child.ScheduleJSON) {
				continue
			}
			if err := e.walkItems(ctx, child.ID, activeOnly, now, loc, v); err != nil {
				return err
			}

		default:
			// Other node types do not occur below a bucket's content root.
		}
	}

	return nil
}
