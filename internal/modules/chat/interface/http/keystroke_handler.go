package handler

import (
	chatRequest "PersonaLab/internal/modules/chat/application/dto/request"
	"PersonaLab/internal/modules/chat/application/service"
	"PersonaLab/pkg/back"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type KeystrokeHandler struct {
	svc service.KeystrokeService
}

func NewKeystrokeHandler(svc service.KeystrokeService) *KeystrokeHandler {
	return &KeystrokeHandler{svc: svc}
}

func (h *KeystrokeHandler) Record(c *gin.Context) {
	var req chatRequest.KeystrokeRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	err := h.svc.Record(c.Request.Context(), req)
	back.Result(c, gin.H{"status": "recorded"}, err)
}
