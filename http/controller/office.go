package controller

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/tnqbao/gau-showcase-admin/entity"
	"github.com/tnqbao/gau-showcase-admin/http/controller/dto"
)

func (ctrl *Controller) CreateOffice(c *gin.Context) { ctrl.offices.create(c) }
func (ctrl *Controller) ListOffices(c *gin.Context) { ctrl.offices.list(c) }
func (ctrl *Controller) GetOfficeByID(c *gin.Context) { ctrl.offices.get(c) }
func (ctrl *Controller) UpdateOffice(c *gin.Context) { ctrl.offices.update(c) }
func (ctrl *Controller) DeleteOffice(c *gin.Context) { ctrl.offices.delete(c) }
func (ctrl *Controller) DeleteOfficeImage(c *gin.Context) { ctrl.offices.deleteGalleryImage(c) }

func bindCreateOffice(c *gin.Context) (*entity.Office, error) {
	var req dto.CreateOfficeRequestDTO
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		return nil, err
	}

	office := &entity.Office{
		Title:       strings.TrimSpace(req.Title),
		Location:    stringList(req.Location),
		LocationMap: strings.TrimSpace(req.LocationMap),
		Email:       strings.TrimSpace(req.Email),
		Instagram:   strings.TrimSpace(req.Instagram),
		Linkedin:    strings.TrimSpace(req.Linkedin),
		TeamNb:      *req.TeamNb,
		Category:    stringList(req.Category),
		Status:      stringList(req.Status),
	}
	if err := requireLists(office.Location, office.Category, office.Status); err != nil {
		return nil, err
	}
	office.Order = orderOrDefault(req.Order)
	return office, nil
}

func bindUpdateOffice(c *gin.Context, office *entity.Office) error {
	var req dto.UpdateOfficeRequestDTO
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		return err
	}

	location, category, status := stringList(req.Location), stringList(req.Category), stringList(req.Status)
	if err := requireLists(location, category, status); err != nil {
		return err
	}
	office.Location = location
	office.Category = category
	office.Status = status

	setString(&office.Title, req.Title)
	setString(&office.LocationMap, req.LocationMap)
	setString(&office.Email, req.Email)
	setString(&office.Instagram, req.Instagram)
	setString(&office.Linkedin, req.Linkedin)
	setInt(&office.TeamNb, req.TeamNb)
	setInt(&office.Order, req.Order)
	return nil
}
