package services

import (
	"context"
	"errors"
	"time"

	"buslink/internal/models"
	"buslink/internal/utils"

	"gorm.io/gorm"
)

// MaxAuthorBatch bounds a single GetUsersByIDs lookup.
const MaxAuthorBatch = 100

// IdentityProvider resolves user ids to public author records.
type IdentityProvider interface {
	GetUsersByIDs(ctx context.Context, ids []string) ([]models.Author, error)
	GetUserByUsername(ctx context.Context, username string) (*models.Author, error)
}

// UserDirectory serves identities from the users table.
type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) GetUsersByIDs(ctx context.Context, ids []string) ([]models.Author, error) {
	if len(ids) == 0 {
		return []models.Author{}, nil
	}

	var users []models.User
	err := d.db.WithContext(ctx).
		Where("id IN ?", ids).
		Limit(MaxAuthorBatch).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	authors := make([]models.Author, len(users))
	for i := range users {
		authors[i] = users[i].Author()
	}
	return authors, nil
}

func (d *UserDirectory) GetUserByUsername(ctx context.Context, username string) (*models.Author, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, Internal("failed to load user", err)
	}
	author := user.Author()
	return &author, nil
}

// CachedIdentityProvider keeps recently resolved authors in a TTL LRU.
type CachedIdentityProvider struct {
	next  IdentityProvider
	cache *utils.Cache[models.Author]
}

func NewCachedIdentityProvider(next IdentityProvider, size int, ttl time.Duration) (*CachedIdentityProvider, error) {
	cache, err := utils.NewCache[models.Author](size, ttl)
	if err != nil {
		return nil, err
	}
	return &CachedIdentityProvider{next: next, cache: cache}, nil
}

func (p *CachedIdentityProvider) GetUsersByIDs(ctx context.Context, ids []string) ([]models.Author, error) {
	authors := make([]models.Author, 0, len(ids))
	var misses []string
	for _, id := range ids {
		if author, ok := p.cache.Get(id); ok {
			authors = append(authors, author)
		} else {
			misses = append(misses, id)
		}
	}
	if len(misses) == 0 {
		return authors, nil
	}

	fetched, err := p.next.GetUsersByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	for _, author := range fetched {
		p.cache.Set(author.ID, author)
	}
	return append(authors, fetched...), nil
}

func (p *CachedIdentityProvider) GetUserByUsername(ctx context.Context, username string) (*models.Author, error) {
	author, err := p.next.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	p.cache.Set(author.ID, *author)
	return author, nil
}

// Forget drops a cached author, e.g. after a profile change.
func (p *CachedIdentityProvider) Forget(id string) {
	p.cache.Delete(id)
}
