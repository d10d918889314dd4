package controller

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/tnqbao/gau-showcase-admin/entity"
	"github.com/tnqbao/gau-showcase-admin/http/controller/dto"
)

func (ctrl *Controller) CreateAiTool(c *gin.Context) { ctrl.aiTools.create(c) }
func (ctrl *Controller) ListAiTools(c *gin.Context) { ctrl.aiTools.list(c) }
func (ctrl *Controller) GetAiToolByID(c *gin.Context) { ctrl.aiTools.get(c) }
func (ctrl *Controller) UpdateAiTool(c *gin.Context) { ctrl.aiTools.update(c) }
func (ctrl *Controller) DeleteAiTool(c *gin.Context) { ctrl.aiTools.delete(c) }
func (ctrl *Controller) DeleteAiToolImage(c *gin.Context) { ctrl.aiTools.deleteGalleryImage(c) }

func bindCreateAiTool(c *gin.Context) (*entity.AiTool, error) {
	var req dto.CreateAiToolRequestDTO
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		return nil, err
	}

	tool := &entity.AiTool{
		Title:    strings.TrimSpace(req.Title),
		Category: strings.TrimSpace(req.Category),
		Link:     strings.TrimSpace(req.Link),
	}
	tool.Order = orderOrDefault(req.Order)
	return tool, nil
}

func bindUpdateAiTool(c *gin.Context, tool *entity.AiTool) error {
	var req dto.UpdateAiToolRequestDTO
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		return err
	}

	setString(&tool.Title, req.Title)
	setString(&tool.Category, req.Category)
	setString(&tool.Link, req.Link)
	setInt(&tool.Order, req.Order)
	return nil
}
