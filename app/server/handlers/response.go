package handlers

import (
	"time"

	"github.com/KrishSaraf/manj-book/app/server/models"
)

// postResponse is the wire shape of a post; the client expects snake_case
// fields and tags as a sequence.
type postResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	FeaturedImage *string   `json:"featured_image"`
	Category      string    `json:"category"`
	Tags          []string  `json:"tags"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	AuthorID      uint      `json:"author_id"`
	AuthorName    string    `json:"author_name,omitempty"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name,omitempty"`
}

func postToResponse(post *models.Post) *postResponse {
	res := &postResponse{
		ID:            post.ID,
		Title:         post.Title,
		Content:       post.Content,
		Excerpt:       post.Excerpt,
		FeaturedImage: post.FeatureImg,
		Category:      post.Category,
		Tags:          post.TagList(),
		IsPublished:   post.IsPublished,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
		AuthorID:      post.AuthorID,
	}
	if post.Author != nil {
		res.AuthorName = post.Author.Username
	}

	return res
}

func postsToResponse(posts []models.Post) []postResponse {
	res := []postResponse{}
	for i := range posts {
		res = append(res, *postToResponse(&posts[i]))
	}
	return res
}

func userToResponse(user *models.User) *userResponse {
	return &userResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Name:     user.Name,
	}
}
