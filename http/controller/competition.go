package controller

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/tnqbao/gau-showcase-admin/entity"
	"github.com/tnqbao/gau-showcase-admin/http/controller/dto"
)

func (ctrl *Controller) CreateCompetition(c *gin.Context) { ctrl.competitions.create(c) }
func (ctrl *Controller) ListCompetitions(c *gin.Context) { ctrl.competitions.list(c) }
func (ctrl *Controller) GetCompetitionByID(c *gin.Context) { ctrl.competitions.get(c) }
func (ctrl *Controller) UpdateCompetition(c *gin.Context) { ctrl.competitions.update(c) }
func (ctrl *Controller) DeleteCompetition(c *gin.Context) { ctrl.competitions.delete(c) }
func (ctrl *Controller) DeleteCompetitionImage(c *gin.Context) { ctrl.competitions.deleteGalleryImage(c) }

func bindCreateCompetition(c *gin.Context) (*entity.Competition, error) {
	var req dto.CreateCompetitionRequestDTO
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		return nil, err
	}

	competition := &entity.Competition{
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		Prize:       strings.TrimSpace(req.Prize),
		Deadline:    strings.TrimSpace(req.Deadline),
		Description: req.Description,
		Link:        strings.TrimSpace(req.Link),
		Side:        strings.TrimSpace(req.Side),
	}
	competition.Order = orderOrDefault(req.Order)
	return competition, nil
}

func bindUpdateCompetition(c *gin.Context, competition *entity.Competition) error {
	var req dto.UpdateCompetitionRequestDTO
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		return err
	}

	setString(&competition.Title, req.Title)
	setString(&competition.Category, req.Category)
	setString(&competition.Prize, req.Prize)
	setString(&competition.Deadline, req.Deadline)
	if req.Description != nil {
		competition.Description = *req.Description
	}
	setString(&competition.Link, req.Link)
	setString(&competition.Side, req.Side)
	setInt(&competition.Order, req.Order)
	return nil
}
