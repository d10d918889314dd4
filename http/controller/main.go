package controller

import (
	"github.com/tnqbao/gau-showcase-admin/attachment"
	"github.com/tnqbao/gau-showcase-admin/config"
	"github.com/tnqbao/gau-showcase-admin/entity"
	"github.com/tnqbao/gau-showcase-admin/infra"
	"github.com/tnqbao/gau-showcase-admin/repository"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository

	aiTools      *resource[entity.AiTool, *entity.AiTool]
	competitions *resource[entity.Competition, *entity.Competition]
	offices      *resource[entity.Office, *entity.Office]
	projects     *resource[entity.Project, *entity.Project]
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Repository cannot be nil")
	}
	if infra.Storage == nil {
		panic("Storage cannot be nil")
	}

	ctrl := &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
	}

	ctrl.aiTools = &resource[entity.AiTool, *entity.AiTool]{
		ctrl:        ctrl,
		tag:         "AiTool",
		single:      "aiTool",
		plural:      "aiTools",
		store:       repo.AiToolRepo,
		media:       ctrl.newManager("aiTools"),
		bindCreate:  bindCreateAiTool,
		bindUpdate:  bindUpdateAiTool,
		requiredMsg: "Title, link and category are required",
	}
	ctrl.competitions = &resource[entity.Competition, *entity.Competition]{
		ctrl:        ctrl,
		tag:         "Competition",
		single:      "competition",
		plural:      "competitions",
		store:       repo.CompetitionRepo,
		media:       ctrl.newManager("competitions"),
		bindCreate:  bindCreateCompetition,
		bindUpdate:  bindUpdateCompetition,
		requiredMsg: "Title, prize, deadline, link, category, description and side are required",
	}
	ctrl.offices = &resource[entity.Office, *entity.Office]{
		ctrl:              ctrl,
		tag:               "Office",
		single:            "office",
		plural:            "offices",
		store:             repo.OfficeRepo,
		media:             ctrl.newManager("offices"),
		bindCreate:        bindCreateOffice,
		bindUpdate:        bindUpdateOffice,
		requiredMsg:       "Title, location, locationMap, email, instagram, linkedin, teamNb, category and status are required",
		updateRequiredMsg: "Location, category and status are required",
	}
	ctrl.projects = &resource[entity.Project, *entity.Project]{
		ctrl:              ctrl,
		tag:               "Project",
		single:            "project",
		plural:            "projects",
		store:             repo.ProjectRepo,
		media:             ctrl.newManager("projects"),
		bindCreate:        bindCreateProject,
		bindUpdate:        bindUpdateProject,
		requiredMsg:       "Title, student, area, category, description, concept, type, location, year and university are required",
		updateRequiredMsg: "Concept, type, category, year, location and university are required",
	}

	return ctrl
}

func (ctrl *Controller) newManager(prefix string) *attachment.Manager {
	opts := []attachment.Option{
		attachment.WithLogger(ctrl.Infra.Logger),
		attachment.WithConcurrency(ctrl.Config.EnvConfig.Upload.Concurrency),
	}
	if ctrl.Infra.Produce != nil && ctrl.Infra.Produce.CleanupService != nil {
		opts = append(opts, attachment.WithRetrier(ctrl.Infra.Produce.CleanupService))
	}
	return attachment.NewManager(ctrl.Infra.Storage, prefix, opts...)
}
