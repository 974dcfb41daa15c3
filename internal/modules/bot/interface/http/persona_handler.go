package handler

import (
	botRequest "PersonaLab/internal/modules/bot/application/dto/request"
	"PersonaLab/internal/modules/bot/application/service"
	"PersonaLab/pkg/back"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type PersonaHandler struct {
	svc service.PersonaService
}

func NewPersonaHandler(svc service.PersonaService) *PersonaHandler {
	return &PersonaHandler{svc: svc}
}

func (h *PersonaHandler) Create(c *gin.Context) {
	var req botRequest.PersonaRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Create(c.Request.Context(), req)
	back.Result(c, data, err)
}

func (h *PersonaHandler) Update(c *gin.Context) {
	var req botRequest.PersonaRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	req.Name = c.Param("name")

	data, err := h.svc.Update(c.Request.Context(), req)
	back.Result(c, data, err)
}

func (h *PersonaHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("name"))
	back.Result(c, nil, err)
}

func (h *PersonaHandler) Get(c *gin.Context) {
	data, err := h.svc.Get(c.Request.Context(), c.Param("name"))
	back.Result(c, data, err)
}

func (h *PersonaHandler) List(c *gin.Context) {
	var req botRequest.ListPersonasRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.List(c.Request.Context(), req.Limit, req.Offset)
	back.Result(c, data, err)
}
