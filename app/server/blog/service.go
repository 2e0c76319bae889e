package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KrishSaraf/manj-book/app/server/constants"
	"github.com/KrishSaraf/manj-book/app/server/models"
)

// Service owns every read and write of blog posts. The HTTP layer never
// touches the database directly.
type Service struct {
	l         *zap.Logger
	db        *gorm.DB
	rdb       *redis.Client // nil disables caching
	uploadDir string
}

func NewService(l *zap.Logger, db *gorm.DB, rdb *redis.Client, uploadDir string) *Service {
	return &Service{
		l:         l,
		db:        db,
		rdb:       rdb,
		uploadDir: uploadDir,
	}
}

type ListQuery struct {
	Page               int    // 1-based; values < 1 fall back to 1
	Limit              int    // values < 1 fall back to 10
	Category           string // empty or "all" means no restriction
	Search             string // case-insensitive substring over title/content/excerpt
	IncludeUnpublished bool   // admin-only path
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalPosts  int64 `json:"totalPosts"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Input carries the raw form values of a create request. Tags and IsPublished
// arrive in their wire form and are normalized here, at a single site.
type Input struct {
	Title       string
	Content     string
	Excerpt     string
	Category    string
	Tags        string
	IsPublished string
	FeatureImg  *string
}

// UpdateInput is the partial variant: nil means the field was absent from the
// request and keeps its prior value.
type UpdateInput struct {
	Title       *string
	Content     *string
	Excerpt     *string
	Category    *string
	Tags        *string
	IsPublished *string
	FeatureImg  *string // new stored/remote image reference; nil keeps the old one
}

func (s *Service) scoped(ctx context.Context, q ListQuery) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Post{})

	if !q.IncludeUnpublished {
		query = query.Where("is_published = ?", true)
	}
	if q.Category != "" && q.Category != "all" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Search != "" {
		term := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(excerpt) LIKE ?",
			term, term, term,
		)
	}

	return query
}

// List returns one page of posts plus pagination computed from the filtered
// count. An empty page is a valid result, not an error.
func (s *Service) List(ctx context.Context, q ListQuery) ([]models.Post, *Pagination, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	var total int64
	if err := s.scoped(ctx, q).Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("count posts: %w", err)
	}

	posts := []models.Post{}
	if err := s.scoped(ctx, q).
		Order("created_at DESC, id DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Preload("Author").
		Find(&posts).Error; err != nil {
		return nil, nil, fmt.Errorf("list posts: %w", err)
	}

	totalPages := int(total / int64(q.Limit))
	if total%int64(q.Limit) != 0 {
		totalPages++
	}

	return posts, &Pagination{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNext:     q.Page < totalPages,
		HasPrev:     q.Page > 1,
	}, nil
}

// Get returns a single post. Unpublished posts exist only for admin callers;
// everyone else gets ErrPostNotFound, indistinguishable from a missing id.
func (s *Service) Get(ctx context.Context, id uint, includeUnpublished bool) (*models.Post, error) {
	// Published posts are the hot path and are served from cache when possible.
	if !includeUnpublished {
		if post := s.cachedPost(ctx, id); post != nil {
			return post, nil
		}
	}

	var post models.Post
	query := s.db.WithContext(ctx).Preload("Author")
	if !includeUnpublished {
		query = query.Where("is_published = ?", true)
	}
	if err := query.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	if !includeUnpublished {
		s.cachePost(ctx, &post)
	}

	return &post, nil
}

// Categories returns the distinct categories among matching posts, each with
// its post count, ordered by category name.
func (s *Service) Categories(ctx context.Context, includeUnpublished bool) ([]CategoryCount, error) {
	if !includeUnpublished {
		if cats := s.cachedCategories(ctx); cats != nil {
			return cats, nil
		}
	}

	query := s.db.WithContext(ctx).Model(&models.Post{})
	if !includeUnpublished {
		query = query.Where("is_published = ?", true)
	}

	categories := []CategoryCount{}
	if err := query.
		Select("category, COUNT(*) as count").
		Group("category").
		Order("category").
		Scan(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if !includeUnpublished {
		s.cacheCategories(ctx, categories)
	}

	return categories, nil
}

// Create validates and stores a new post. The id comes from the store's
// auto-increment, so concurrent creates cannot collide.
func (s *Service) Create(ctx context.Context, in Input, authorID uint) (*models.Post, error) {
	if in.Title == "" || in.Content == "" {
		return nil, ErrMissingField
	}

	category := in.Category
	if category == "" {
		category = "general"
	}

	post := models.Post{
		Title:       in.Title,
		Content:     in.Content,
		Excerpt:     in.Excerpt,
		Category:    category,
		Tags:        JoinTags(NormalizeTags(in.Tags)),
		IsPublished: ParsePublished(in.IsPublished),
		FeatureImg:  in.FeatureImg,
		AuthorID:    authorID,
	}

	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.invalidate(ctx, post.ID)

	return s.reload(ctx, post.ID)
}

// Update overwrites only the fields present in the request; everything else
// keeps its prior value. A replaced local image file is removed from disk.
func (s *Service) Update(ctx context.Context, id uint, in UpdateInput) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, ErrMissingField
		}
		post.Title = *in.Title
	}
	if in.Content != nil {
		if *in.Content == "" {
			return nil, ErrMissingField
		}
		post.Content = *in.Content
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.Category != nil && *in.Category != "" {
		post.Category = *in.Category
	}
	if in.Tags != nil {
		post.Tags = JoinTags(NormalizeTags(*in.Tags))
	}
	if in.IsPublished != nil {
		post.IsPublished = ParsePublished(*in.IsPublished)
	}
	if in.FeatureImg != nil {
		if post.FeatureImg != nil && *post.FeatureImg != *in.FeatureImg {
			s.removeStoredImage(*post.FeatureImg)
		}
		post.FeatureImg = in.FeatureImg
	}

	// Save refreshes updated_at even when no field changed.
	if err := s.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.invalidate(ctx, post.ID)

	return s.reload(ctx, post.ID)
}

// Delete removes a post. An associated locally-stored image is removed as a
// side effect; a failing file removal is logged and never blocks the delete.
func (s *Service) Delete(ctx context.Context, id uint) error {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("get post: %w", err)
	}

	if post.FeatureImg != nil {
		s.removeStoredImage(*post.FeatureImg)
	}

	if err := s.db.WithContext(ctx).Delete(&post).Error; err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *Service) reload(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	return &post, nil
}

// removeStoredImage deletes a local upload. Remote URLs are not ours to
// manage and are left alone.
func (s *Service) removeStoredImage(ref string) {
	if !strings.HasPrefix(ref, constants.UploadURLPrefix) {
		return
	}

	path := filepath.Join(s.uploadDir, filepath.Base(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.l.Error("failed to remove stored image", zap.String("path", path), zap.Error(err))
	}
}

func (s *Service) cachedPost(ctx context.Context, id uint) *models.Post {
	if s.rdb == nil {
		return nil
	}

	cacheKey := fmt.Sprintf(constants.CacheKeyPost, id)
	cacheBytes, err := s.rdb.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.l.Error("failed to query cache for post", zap.Uint("id", id), zap.Error(err))
		}
		return nil
	}

	var post models.Post
	if err = json.Unmarshal(cacheBytes, &post); err != nil {
		s.l.Error("failed to unmarshal cached post", zap.Uint("id", id), zap.Error(err))
		// likely a stale format, clear it
		s.rdb.Del(ctx, cacheKey)
		return nil
	}

	return &post
}

func (s *Service) cachePost(ctx context.Context, post *models.Post) {
	if s.rdb == nil {
		return
	}

	if cacheBytes, err := json.Marshal(post); err != nil {
		s.l.Error("failed to marshal post for cache", zap.Uint("id", post.ID), zap.Error(err))
	} else {
		s.rdb.Set(ctx, fmt.Sprintf(constants.CacheKeyPost, post.ID), cacheBytes, constants.CacheExpirePost)
	}
}

func (s *Service) cachedCategories(ctx context.Context) []CategoryCount {
	if s.rdb == nil {
		return nil
	}

	cacheBytes, err := s.rdb.Get(ctx, constants.CacheKeyCategories).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.l.Error("failed to query cache for categories", zap.Error(err))
		}
		return nil
	}

	var categories []CategoryCount
	if err = json.Unmarshal(cacheBytes, &categories); err != nil {
		s.l.Error("failed to unmarshal cached categories", zap.Error(err))
		s.rdb.Del(ctx, constants.CacheKeyCategories)
		return nil
	}

	return categories
}

func (s *Service) cacheCategories(ctx context.Context, categories []CategoryCount) {
	if s.rdb == nil {
		return
	}

	if cacheBytes, err := json.Marshal(categories); err != nil {
		s.l.Error("failed to marshal categories for cache", zap.Error(err))
	} else {
		s.rdb.Set(ctx, constants.CacheKeyCategories, cacheBytes, constants.CacheExpireCategories)
	}
}

func (s *Service) invalidate(ctx context.Context, id uint) {
	if s.rdb == nil {
		return
	}

	s.rdb.Del(ctx, fmt.Sprintf(constants.CacheKeyPost, id), constants.CacheKeyCategories)
}
