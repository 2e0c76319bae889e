package blog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/KrishSaraf/manj-book/app/server/models"
	"github.com/KrishSaraf/manj-book/app/server/utils"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, string) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	uploadDir := t.TempDir()
	return NewService(zap.NewNop(), db, nil, uploadDir), db, uploadDir
}

func seedPost(t *testing.T, db *gorm.DB, title, category string, published bool, createdAt time.Time) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:       title,
		Content:     "content of " + title,
		Category:    category,
		IsPublished: published,
		AuthorID:    1,
	}
	post.CreatedAt = createdAt
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestListPublishedOnly(t *testing.T) {
	s, db, _ := newTestService(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	seedPost(t, db, "public one", "general", true, base)
	seedPost(t, db, "secret draft", "general", false, base.Add(time.Minute))

	posts, pagination, err := s.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "public one", posts[0].Title)
	assert.EqualValues(t, 1, pagination.TotalPosts)

	posts, pagination, err = s.List(ctx, ListQuery{IncludeUnpublished: true})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.EqualValues(t, 2, pagination.TotalPosts)
}

func TestListCategoryFilter(t *testing.T) {
	s, db, _ := newTestService(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	seedPost(t, db, "trees", "nature", true, base)
	seedPost(t, db, "novels", "books", true, base.Add(time.Minute))

	posts, _, err := s.List(ctx, ListQuery{Category: "nature"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "trees", posts[0].Title)

	// "all" is a sentinel, not a category
	posts, _, err = s.List(ctx, ListQuery{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, pagination, err := s.List(ctx, ListQuery{Category: "missing"})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.EqualValues(t, 0, pagination.TotalPosts)
	assert.False(t, pagination.HasNext)
}

func TestListSearch(t *testing.T) {
	s, db, _ := newTestService(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	first := seedPost(t, db, "Morning Walks", "nature", true, base)
	first.Excerpt = "thoughts about birdsong"
	require.NoError(t, db.Save(first).Error)
	seedPost(t, db, "Bookshelf Tour", "books", true, base.Add(time.Minute))

	// case-insensitive substring over title
	posts, _, err := s.List(ctx, ListQuery{Search: "mOrNiNg"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Morning Walks", posts[0].Title)

	// over content
	posts, _, err = s.List(ctx, ListQuery{Search: "CONTENT OF BOOKSHELF"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Bookshelf Tour", posts[0].Title)

	// over excerpt
	posts, _, err = s.List(ctx, ListQuery{Search: "Birdsong"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Morning Walks", posts[0].Title)

	posts, _, err = s.List(ctx, ListQuery{Search: "no such words"})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestListPaginationScenario(t *testing.T) {
	s, db, _ := newTestService(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	seedPost(t, db, "oldest nature", "nature", true, base)
	seedPost(t, db, "middle nature", "nature", true, base.Add(time.Minute))
	seedPost(t, db, "newest nature", "nature", true, base.Add(2*time.Minute))

	posts, pagination, err := s.List(ctx, ListQuery{Category: "nature", Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "middle nature", posts[0].Title)
	assert.Equal(t, 2, pagination.CurrentPage)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.EqualValues(t, 3, pagination.TotalPosts)
	assert.True(t, pagination.HasNext)
	assert.True(t, pagination.HasPrev)
}

func TestListPaginationPartition(t *testing.T) {
	s, db, _ := newTestService(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	want := []uint{}
	for i := 0; i < 7; i++ {
		post := seedPost(t, db, fmt.Sprintf("post %d", i), "general", true, base.Add(time.Duration(i)*time.Minute))
		want = append([]uint{post.ID}, want...) // newest first
	}
	seedPost(t, db, "hidden draft", "general", false, base.Add(time.Hour))

	for _, limit := range []int{1, 2, 3, 7, 10} {
		_, pagination, err := s.List(ctx, ListQuery{Page: 1, Limit: limit})
		require.NoError(t, err)

		got := []uint{}
		for page := 1; page <= pagination.TotalPages; page++ {
			posts, p, err := s.List(ctx, ListQuery{Page: page, Limit: limit})
			require.NoError(t, err)
			assert.Equal(t, page > 1, p.HasPrev)
			assert.Equal(t, page < p.TotalPages, p.HasNext)
			for _, post := range posts {
				got = append(got, post.ID)
			}
		}

		// concatenated pages are exactly the filtered set, in order,
		// without duplicates or omissions
		assert.Equal(t, want, got, "limit %d", limit)
	}
}

func TestGetVisibility(t *testing.T) {
	s, db, _ := newTestService(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	published := seedPost(t, db, "out there", "general", true, base)
	draft := seedPost(t, db, "still writing", "general", false, base)

	got, err := s.Get(ctx, published.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "out there", got.Title)

	_, err = s.Get(ctx, draft.ID, false)
	assert.ErrorIs(t, err, ErrPostNotFound)

	got, err = s.Get(ctx, draft.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "still writing", got.Title)

	_, err = s.Get(ctx, 9999, true)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreateNormalizes(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	post, err := s.Create(ctx, Input{
		Title:       "Hello",
		Content:     "World",
		Category:    "books",
		Tags:        "a, b ,c",
		IsPublished: "on",
	}, 1)
	require.NoError(t, err)

	assert.NotZero(t, post.ID)
	assert.Equal(t, []string{"a", "b", "c"}, post.TagList())
	assert.True(t, post.IsPublished)
	assert.Equal(t, "books", post.Category)
	assert.False(t, post.UpdatedAt.Before(post.CreatedAt))
}

func TestCreateValidation(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, Input{Content: "body"}, 1)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = s.Create(ctx, Input{Title: "head"}, 1)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestCreateDefaults(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	post, err := s.Create(ctx, Input{Title: "bare", Content: "minimum"}, 1)
	require.NoError(t, err)

	assert.Equal(t, "general", post.Category)
	assert.Equal(t, "", post.Excerpt)
	assert.Equal(t, []string{}, post.TagList())
	assert.False(t, post.IsPublished)
	assert.Nil(t, post.FeatureImg)
}

func TestCreatePublishedForms(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	for i, form := range []string{"true", "1", "on"} {
		post, err := s.Create(ctx, Input{Title: fmt.Sprintf("t%d", i), Content: "c", IsPublished: form}, 1)
		require.NoError(t, err)

		stored, err := s.Get(ctx, post.ID, true)
		require.NoError(t, err)
		assert.True(t, stored.IsPublished, "form %q", form)
	}

	for i, form := range []string{"", "false", "0", "yes"} {
		post, err := s.Create(ctx, Input{Title: fmt.Sprintf("f%d", i), Content: "c", IsPublished: form}, 1)
		require.NoError(t, err)

		stored, err := s.Get(ctx, post.ID, true)
		require.NoError(t, err)
		assert.False(t, stored.IsPublished, "form %q", form)
	}
}

func TestTagsRoundTrip(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	tags := []string{"hiking", "book review", "spring walks"}
	post, err := s.Create(ctx, Input{Title: "t", Content: "c", Tags: strings.Join(tags, ",")}, 1)
	require.NoError(t, err)

	stored, err := s.Get(ctx, post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, tags, stored.TagList())
}

func TestUpdatePartial(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	post, err := s.Create(ctx, Input{
		Title:       "original title",
		Content:     "original content",
		Excerpt:     "original excerpt",
		Category:    "nature",
		Tags:        "a,b",
		IsPublished: "true",
	}, 1)
	require.NoError(t, err)

	updated, err := s.Update(ctx, post.ID, UpdateInput{Excerpt: utils.P("new excerpt")})
	require.NoError(t, err)

	assert.Equal(t, "new excerpt", updated.Excerpt)
	assert.Equal(t, "original title", updated.Title)
	assert.Equal(t, "original content", updated.Content)
	assert.Equal(t, "nature", updated.Category)
	assert.Equal(t, []string{"a", "b"}, updated.TagList())
	assert.True(t, updated.IsPublished)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestUpdateErrors(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Update(ctx, 12345, UpdateInput{Title: utils.P("anything")})
	assert.ErrorIs(t, err, ErrPostNotFound)

	post, err := s.Create(ctx, Input{Title: "t", Content: "c"}, 1)
	require.NoError(t, err)

	_, err = s.Update(ctx, post.ID, UpdateInput{Title: utils.P("")})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestUpdateReplacesStoredImage(t *testing.T) {
	s, _, uploadDir := newTestService(t)
	ctx := context.Background()

	oldPath := filepath.Join(uploadDir, "old.png")
	require.NoError(t, os.WriteFile(oldPath, []byte("png"), 0o644))

	post, err := s.Create(ctx, Input{Title: "t", Content: "c", FeatureImg: utils.P("/uploads/old.png")}, 1)
	require.NoError(t, err)

	updated, err := s.Update(ctx, post.ID, UpdateInput{FeatureImg: utils.P("/uploads/new.png")})
	require.NoError(t, err)

	require.NotNil(t, updated.FeatureImg)
	assert.Equal(t, "/uploads/new.png", *updated.FeatureImg)
	assert.NoFileExists(t, oldPath)
}

func TestDelete(t *testing.T) {
	s, _, uploadDir := newTestService(t)
	ctx := context.Background()

	imgPath := filepath.Join(uploadDir, "gone.png")
	require.NoError(t, os.WriteFile(imgPath, []byte("png"), 0o644))

	post, err := s.Create(ctx, Input{Title: "t", Content: "c", FeatureImg: utils.P("/uploads/gone.png")}, 1)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, post.ID))
	assert.NoFileExists(t, imgPath)

	_, err = s.Get(ctx, post.ID, true)
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.ErrorIs(t, s.Delete(ctx, post.ID), ErrPostNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 9999), ErrPostNotFound)
}

func TestDeleteRemoteImageLeftAlone(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	post, err := s.Create(ctx, Input{
		Title:      "t",
		Content:    "c",
		FeatureImg: utils.P("https://images.example.com/forest.jpg"),
	}, 1)
	require.NoError(t, err)

	assert.NoError(t, s.Delete(ctx, post.ID))
}

func TestIDsNeverReused(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := s.Create(ctx, Input{Title: "first", Content: "c"}, 1)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, first.ID))

	second, err := s.Create(ctx, Input{Title: "second", Content: "c"}, 1)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestCategories(t *testing.T) {
	s, db, _ := newTestService(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	seedPost(t, db, "n1", "nature", true, base)
	seedPost(t, db, "n2", "nature", true, base.Add(time.Minute))
	seedPost(t, db, "b1", "books", true, base.Add(2*time.Minute))
	seedPost(t, db, "hidden", "secrets", false, base.Add(3*time.Minute))

	categories, err := s.Categories(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{
		{Category: "books", Count: 1},
		{Category: "nature", Count: 2},
	}, categories)

	categories, err = s.Categories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, categories, 3)
}
