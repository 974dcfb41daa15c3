package handler

import (
	botRequest "PersonaLab/internal/modules/bot/application/dto/request"
	"PersonaLab/internal/modules/bot/application/service"
	"PersonaLab/pkg/back"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type BotHandler struct {
	svc service.BotService
}

func NewBotHandler(svc service.BotService) *BotHandler {
	return &BotHandler{svc: svc}
}

func (h *BotHandler) Create(c *gin.Context) {
	var req botRequest.BotRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Create(c.Request.Context(), req)
	back.Result(c, data, err)
}

func (h *BotHandler) Update(c *gin.Context) {
	var req botRequest.BotRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	req.Name = c.Param("name")

	data, err := h.svc.Update(c.Request.Context(), req)
	back.Result(c, data, err)
}

func (h *BotHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("name"))
	back.Result(c, nil, err)
}

func (h *BotHandler) Get(c *gin.Context) {
	data, err := h.svc.Get(c.Request.Context(), c.Param("name"))
	back.Result(c, data, err)
}

func (h *BotHandler) List(c *gin.Context) {
	var req botRequest.ListBotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.List(c.Request.Context(), req.Limit, req.Offset)
	back.Result(c, data, err)
}
