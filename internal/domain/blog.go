package domain

import (
	"time"
)

// Content block types a blog post may contain.
const (
	BlockText  = "text"
	BlockImage = "image"
	BlockCode  = "code"
	BlockEmbed = "embed"
	BlockVideo = "video"
)

// ContentBlock is one element of a blog's structured body. Data holds the
// block payload (text blocks carry a "text" field, image blocks a "url", and
// so on); Styles carries presentation hints the backend stores opaquely.
type ContentBlock struct {
	Type   string         `json:"type"`
	Data   map[string]any `json:"data"`
	Styles map[string]any `json:"styles,omitempty"`
}

// Blog is a published post.
type Blog struct {
	ID                      string         `json:"id"`
	Title                   string         `json:"title"`
	Slug                    string         `json:"slug"`
	TitleBackgroundImageURL string         `json:"title_background_image_url,omitempty"`
	Content                 []ContentBlock `json:"content"`
	Tags                    []string       `json:"tags"`
	AuthorID                string         `json:"author_id"`
	LikeCount               int            `json:"like_count"`
	ReadCount               int            `json:"read_count"`
	Shares                  int            `json:"shares"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

// Comment is a reader comment attached to a blog.
type Comment struct {
	ID        string    `json:"id"`
	BlogID    string    `json:"blog_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
