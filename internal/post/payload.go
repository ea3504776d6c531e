package post

// CreateInput is the decoded multipart body for post creation. AuthorID is
// never part of it; the verified principal supplies the author.
type CreateInput struct {
	CommunityID      uint
	Text             string
	Image            []byte
	ImageContentType string
	ImageFilename    string
}

// AuthorView nests the display name the way the read join exposes it.
type AuthorView struct {
	Name string `json:"name"`
}

type Enriched struct {
	Post
	Author AuthorView `gorm:"-" json:"users"`
}
