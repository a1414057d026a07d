package member

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/core/internal/pkg/pagination"
	"github.com/teamboard/core/internal/pkg/params"
	"github.com/teamboard/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/members")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// GET /members[?page=&size=]
func (h *Handler) list(c *gin.Context) {
	if pagination.Requested(c) {
		items, pag, err := h.svc.ListPage(pagination.FromContext(c))
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.Paged(c, toResponses(items), pag)
		return
	}

	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponses(items))
}

func (h *Handler) get(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.GetByID(id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "Member not found")
		return
	}
	response.OK(c, toResponse(m))
}

func (h *Handler) create(c *gin.Context) {
	dto, ok := bind(c)
	if !ok {
		return
	}
	m, err := h.svc.Create(dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, toResponse(m))
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
	m, err := h.svc.Update(id, dto)
	if err != nil {
		writeError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "Member not found")
		return
	}
	response.OK(c, toResponse(m))
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
		response.NotFoundMsg(c, "Member not found")
		return
	}
	response.Message(c, "Member deleted successfully")
}

func bind(c *gin.Context) (*MemberDTO, bool) {
	var dto MemberDTO
	if !params.BindJSON(c, &dto) {
		return nil, false
	}
	dto.normalize()
	switch {
	case dto.Name == "":
		response.BadRequest(c, "name is required")
		return nil, false
	case dto.Email == "":
		response.BadRequest(c, "email is required")
		return nil, false
	}
	return &dto, true
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrEmailExists) {
		response.BadRequest(c, "Email already exists")
		return
	}
	response.InternalError(c, err)
}

func toResponses(items []Detail) []memberResponse {
	out := make([]memberResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	return out
}
