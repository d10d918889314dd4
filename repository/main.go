package repository

import (
	"github.com/tnqbao/gau-showcase-admin/entity"
	"github.com/tnqbao/gau-showcase-admin/infra"
	"gorm.io/gorm"
)

type Repository struct {
	AiToolRepo      DocumentStore[entity.AiTool]
	CompetitionRepo DocumentStore[entity.Competition]
	OfficeRepo      DocumentStore[entity.Office]
	ProjectRepo     DocumentStore[entity.Project]
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	db := infra.Postgres.DB
	ttl := infra.Redis.TTL
	repository = &Repository{
		AiToolRepo:      NewCachedRepository(NewDocumentRepository[entity.AiTool](db), infra.Redis, "aiTools", ttl, infra.Logger),
		CompetitionRepo: NewCachedRepository(NewDocumentRepository[entity.Competition](db), infra.Redis, "competitions", ttl, infra.Logger),
		OfficeRepo:      NewCachedRepository(NewDocumentRepository[entity.Office](db), infra.Redis, "offices", ttl, infra.Logger),
		ProjectRepo:     NewCachedRepository(NewDocumentRepository[entity.Project](db), infra.Redis, "projects", ttl, infra.Logger),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

// Migrate creates or alters the showcase tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.AiTool{},
		&entity.Competition{},
		&entity.Office{},
		&entity.Project{},
	)
}
