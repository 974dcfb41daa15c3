package handler

import (
	botRequest "PersonaLab/internal/modules/bot/application/dto/request"
	"PersonaLab/internal/modules/bot/application/service"
	"PersonaLab/pkg/back"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	svc service.ModerationService
}

func NewModerationHandler(svc service.ModerationService) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

func (h *ModerationHandler) Status(c *gin.Context) {
	data, err := h.svc.Status(c.Request.Context())
	back.Result(c, data, err)
}

func (h *ModerationHandler) Toggle(c *gin.Context) {
	var req botRequest.ModerationToggleRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	if req.Enabled == nil {
		back.Error(c, xerr.BadRequest, "enabled 为必填")
		return
	}

	data, err := h.svc.SetEnabled(c.Request.Context(), *req.Enabled)
	back.Result(c, data, err)
}
