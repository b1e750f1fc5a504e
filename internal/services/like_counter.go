package services

import (
	"context"
	"log"
	"sync"
	"time"

	"buslink/internal/models"

	"gorm.io/gorm"
)

// LikeCounter 异步回填 posts.like_count
type LikeCounter struct {
	db        *gorm.DB
	queue     chan string // 待更新的帖子 ID 队列
	pending   map[string]bool
	mu        sync.Mutex
	interval  time.Duration
	batchSize int
}

func NewLikeCounter(db *gorm.DB) *LikeCounter {
	return &LikeCounter{
		db:        db,
		queue:     make(chan string, 1000), // 缓冲队列，防止阻塞
		pending:   make(map[string]bool),
		interval:  500 * time.Millisecond,
		batchSize: 50,
	}
}

// ScheduleUpdate queues postID for a recount. Duplicate requests for a post
// already queued are dropped; a full queue drops the request.
func (c *LikeCounter) ScheduleUpdate(postID string) {
	c.mu.Lock()
	if c.pending[postID] {
		c.mu.Unlock()
		return
	}
	c.pending[postID] = true
	c.mu.Unlock()

	select {
	case c.queue <- postID:
	default:
		c.mu.Lock()
		delete(c.pending, postID)
		c.mu.Unlock()
		log.Printf("[likes] update queue full, skipping post %s", postID)
	}
}

// Run processes queued updates in batches until ctx is cancelled.
func (c *LikeCounter) Run(ctx context.Context) {
	batch := make([]string, 0, c.batchSize)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Flush what is already queued with a fresh context
			for {
				select {
				case postID := <-c.queue:
					batch = append(batch, postID)
				default:
					if len(batch) > 0 {
						c.processBatch(context.Background(), batch)
					}
					return
				}
			}
		case postID := <-c.queue:
			batch = append(batch, postID)
			if len(batch) >= c.batchSize {
				c.processBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				c.processBatch(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (c *LikeCounter) processBatch(ctx context.Context, postIDs []string) {
	for _, postID := range postIDs {
		// 先清除 pending，处理期间的新请求会重新入队
		c.mu.Lock()
		delete(c.pending, postID)
		c.mu.Unlock()

		if err := c.Refresh(ctx, postID); err != nil {
			log.Printf("[likes] failed to refresh like count for post %s: %v", postID, err)
		}
	}
}

// Refresh recomputes the like count of one post synchronously.
func (c *LikeCounter) Refresh(ctx context.Context, postID string) error {
	var likes int64
	if err := c.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&likes).Error; err != nil {
		return err
	}
	return c.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("like_count", likes).Error
}

// Pending reports how many posts are waiting for a recount.
func (c *LikeCounter) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
