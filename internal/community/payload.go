package community

type CreateReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// WithCount is the list projection: each community plus its post count,
// aggregated at read time.
type WithCount struct {
	Community
	PostsCount int64 `gorm:"column:posts_count" json:"posts_count"`
}
