package services

import (
	"context"
	"errors"
	"time"

	"buslink/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LikeService implements like, unlike and the like listing.
type LikeService struct {
	db      *gorm.DB
	counter *LikeCounter
	now     func() time.Time
}

func NewLikeService(db *gorm.DB, counter *LikeCounter) *LikeService {
	return &LikeService{
		db:      db,
		counter: counter,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *LikeService) GetLikesByPostID(ctx context.Context, postID string) ([]models.Like, error) {
	likes := []models.Like{}
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&likes).Error
	if err != nil {
		return nil, Internal("failed to load likes", err)
	}
	return likes, nil
}

// Like records userID's like of postID. A second like of the same post fails
// with DUPLICATE; the unique index catches concurrent duplicates too.
func (s *LikeService) Like(ctx context.Context, userID, postID string) (*models.Like, error) {
	if userID == "" {
		return nil, Unauthorized("login required")
	}

	var posts []models.Post
	result := s.db.WithContext(ctx).Select("id").Where("id = ?", postID).Limit(1).Find(&posts)
	if result.Error != nil {
		return nil, Internal("failed to load post", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, NotFound("post not found")
	}

	var existing []models.Like
	result = s.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Limit(1).Find(&existing)
	if result.Error != nil {
		return nil, Internal("failed to check existing like", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil, Duplicate("post already liked")
	}

	like := models.Like{
		ID:        uuid.NewString(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Omit("Post").Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Duplicate("post already liked")
		}
		return nil, Internal("failed to create like", err)
	}

	s.counter.ScheduleUpdate(postID)
	return &like, nil
}

// Unlike removes userID's likes of postID and returns how many were removed.
// Removing a like that does not exist is not an error.
func (s *LikeService) Unlike(ctx context.Context, userID, postID string) (int64, error) {
	if userID == "" {
		return 0, Unauthorized("login required")
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return 0, Internal("failed to delete like", result.Error)
	}

	if result.RowsAffected > 0 {
		s.counter.ScheduleUpdate(postID)
	}
	return result.RowsAffected, nil
}
