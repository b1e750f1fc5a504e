package services

import (
	"context"
	"regexp"
	"time"
	"unicode/utf8"

	"buslink/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxContentLength = 255
	FeedLimit        = 100
)

var busPattern = regexp.MustCompile(`(?i)bus`)

// PostService implements the post read procedures and post creation.
type PostService struct {
	db        *gorm.DB
	assembler *Assembler
	limiter   RateLimiter
	now       func() time.Time
}

func NewPostService(db *gorm.DB, assembler *Assembler, limiter RateLimiter) *PostService {
	return &PostService{
		db:        db,
		assembler: assembler,
		limiter:   limiter,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the source of createdAt timestamps, for tests.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

// withComments preloads direct children, newest first.
func (s *PostService) withComments(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC")
	})
}

func (s *PostService) GetByID(ctx context.Context, id string) (*PostWithAuthor, error) {
	var posts []models.Post
	result := s.withComments(ctx).Where("id = ?", id).Limit(1).Find(&posts)
	if result.Error != nil {
		return nil, Internal("failed to load post", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, NotFound("post not found")
	}
	if err := s.countReplies(ctx, posts); err != nil {
		return nil, err
	}

	assembled, err := s.assembler.AddUserDataToPosts(ctx, posts)
	if err != nil {
		return nil, err
	}
	return &assembled[0], nil
}

// GetAll returns the newest top-level posts.
func (s *PostService) GetAll(ctx context.Context) ([]PostWithAuthor, error) {
	return s.GetAllComments(ctx, nil)
}

// GetAllComments returns up to FeedLimit posts whose parent is parentID,
// newest first. A nil parentID selects top-level posts.
func (s *PostService) GetAllComments(ctx context.Context, parentID *string) ([]PostWithAuthor, error) {
	query := s.withComments(ctx)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	return s.findFeed(ctx, query)
}

func (s *PostService) GetPostsByUserID(ctx context.Context, userID string) ([]PostWithAuthor, error) {
	return s.findFeed(ctx, s.withComments(ctx).Where("author_id = ?", userID))
}

func (s *PostService) findFeed(ctx context.Context, query *gorm.DB) ([]PostWithAuthor, error) {
	var posts []models.Post
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(FeedLimit).
		Find(&posts).Error
	if err != nil {
		return nil, Internal("failed to load posts", err)
	}
	if err := s.countReplies(ctx, posts); err != nil {
		return nil, err
	}
	return s.assembler.AddUserDataToPosts(ctx, posts)
}

type replyCount struct {
	ParentID string
	Count    int
}

// countReplies fills CommentCount on the preloaded children, whose own
// replies are not loaded.
func (s *PostService) countReplies(ctx context.Context, posts []models.Post) error {
	var childIDs []string
	for _, p := range posts {
		for _, c := range p.Comments {
			childIDs = append(childIDs, c.ID)
		}
	}
	if len(childIDs) == 0 {
		return nil
	}

	var counts []replyCount
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("parent_id, COUNT(*) AS count").
		Where("parent_id IN ?", childIDs).
		Group("parent_id").
		Scan(&counts).Error
	if err != nil {
		return Internal("failed to count replies", err)
	}

	byParent := make(map[string]int, len(counts))
	for _, rc := range counts {
		byParent[rc.ParentID] = rc.Count
	}
	for i := range posts {
		for j := range posts[i].Comments {
			posts[i].Comments[j].CommentCount = byParent[posts[i].Comments[j].ID]
		}
	}
	return nil
}

// ValidateContent applies the length and keyword rules to post content.
func ValidateContent(content string) error {
	if !utf8.ValidString(content) {
		return Validation("content", "Post must be valid UTF-8 text")
	}
	n := utf8.RuneCountInString(content)
	if n < 1 {
		return Validation("content", "Post must not be empty")
	}
	if n > MaxContentLength {
		return Validation("content", "Post must be at most 255 characters")
	}
	if !busPattern.MatchString(content) {
		return Validation("content", "Post must contain the word 'bus' 🚌")
	}
	return nil
}

// CreatePost stores a new post or comment for the authenticated author.
func (s *PostService) CreatePost(ctx context.Context, authorID, content string, parentID *string) (*models.Post, error) {
	if authorID == "" {
		return nil, Unauthorized("login required")
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	if parentID != nil {
		var parents []models.Post
		result := s.db.WithContext(ctx).Select("id").Where("id = ?", *parentID).Limit(1).Find(&parents)
		if result.Error != nil {
			return nil, Internal("failed to load parent post", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, NotFound("parent post not found")
		}
	}

	allowed, err := s.limiter.Allow(ctx, authorID)
	if err != nil {
		return nil, Internal("rate limiter unavailable", err)
	}
	if !allowed {
		return nil, RateLimited()
	}

	post := models.Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Content:   content,
		ParentID:  parentID,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, Internal("failed to create post", err)
	}
	return &post, nil
}
