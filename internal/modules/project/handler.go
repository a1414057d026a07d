package project

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/core/internal/models"
	"github.com/teamboard/core/internal/pkg/pagination"
	"github.com/teamboard/core/internal/pkg/params"
	"github.com/teamboard/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/projects")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// GET /projects?status=&member_id=[&page=&size=]
func (h *Handler) list(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}

	if pagination.Requested(c) {
		items, pag, err := h.svc.ListPage(f, pagination.FromContext(c))
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.Paged(c, items, pag)
		return
	}

	items, err := h.svc.List(f)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetByID(id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "Project not found")
		return
	}
	response.OK(c, p)
}

func (h *Handler) create(c *gin.Context) {
	dto, ok := bind(c)
	if !ok {
		return
	}
	p, err := h.svc.Create(dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	dto, ok := bind(c)
	if !ok {
		return
	}
	p, err := h.svc.Update(id, dto)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "Project not found")
		return
	}
	response.OK(c, p)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	found, err := h.svc.Delete(id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "Project not found")
		return
	}
	response.Message(c, "Project deleted successfully")
}

func filterFromQuery(c *gin.Context) (Filter, bool) {
	var f Filter
	if raw := strings.TrimSpace(c.Query("status")); raw != "" && raw != "all" {
		status := models.ProjectStatus(raw)
		if !status.Valid() {
			response.BadRequest(c, "status must be one of: pending, in-progress, completed, on-hold")
			return f, false
		}
		f.Status = status
	}
	memberID, ok := params.OptionalQueryID(c, "member_id")
	if !ok {
		return f, false
	}
	f.MemberID = memberID
	return f, true
}

func bind(c *gin.Context) (*ProjectDTO, bool) {
	var dto ProjectDTO
	if !params.BindJSON(c, &dto) {
		return nil, false
	}
	dto.normalize()
	if err := dto.validate(); err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}
	return &dto, true
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrMemberMissing) {
		response.BadRequest(c, "Member does not exist")
		return
	}
	response.InternalError(c, err)
}
