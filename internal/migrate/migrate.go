package migrate

import (
	"community-service/internal/community"
	"community-service/internal/post"
	"community-service/internal/shared/db"
	"community-service/internal/user"
)

func AutoMigrateAll(store *db.Store) error {
	return store.Base.AutoMigrate(
		&user.User{},
		&community.Community{},
		&post.Post{},
	)
}
