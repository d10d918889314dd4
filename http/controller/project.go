package controller

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/tnqbao/gau-showcase-admin/entity"
	"github.com/tnqbao/gau-showcase-admin/http/controller/dto"
)

func (ctrl *Controller) CreateProject(c *gin.Context) { ctrl.projects.create(c) }
func (ctrl *Controller) ListProjects(c *gin.Context) { ctrl.projects.list(c) }
func (ctrl *Controller) GetProjectByID(c *gin.Context) { ctrl.projects.get(c) }
func (ctrl *Controller) UpdateProject(c *gin.Context) { ctrl.projects.update(c) }
func (ctrl *Controller) DeleteProject(c *gin.Context) { ctrl.projects.delete(c) }
func (ctrl *Controller) DeleteProjectImage(c *gin.Context) { ctrl.projects.deleteGalleryImage(c) }

func bindCreateProject(c *gin.Context) (*entity.Project, error) {
	var req dto.CreateProjectRequestDTO
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		return nil, err
	}

	project := &entity.Project{
		Title:       strings.TrimSpace(req.Title),
		Student:     strings.TrimSpace(req.Student),
		Area:        strings.TrimSpace(req.Area),
		Description: req.Description,
		Category:    stringList(req.Category),
		Concept:     stringList(req.Concept),
		Type:        stringList(req.Type),
		Year:        stringList(req.Year),
		Location:    stringList(req.Location),
		University:  stringList(req.University),
	}
	err := requireLists(project.Category, project.Concept, project.Type, project.Year, project.Location, project.University)
	if err != nil {
		return nil, err
	}
	project.Order = orderOrDefault(req.Order)
	return project, nil
}

func bindUpdateProject(c *gin.Context, project *entity.Project) error {
	var req dto.UpdateProjectRequestDTO
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		return err
	}

	category, concept, kind := stringList(req.Category), stringList(req.Concept), stringList(req.Type)
	year, location, university := stringList(req.Year), stringList(req.Location), stringList(req.University)
	if err := requireLists(category, concept, kind, year, location, university); err != nil {
		return err
	}
	project.Category = category
	project.Concept = concept
	project.Type = kind
	project.Year = year
	project.Location = location
	project.University = university

	setString(&project.Title, req.Title)
	setString(&project.Student, req.Student)
	setString(&project.Area, req.Area)
	if req.Description != nil {
		project.Description = *req.Description
	}
	setInt(&project.Order, req.Order)
	return nil
}
