package handler

import (
	chatRequest "PersonaLab/internal/modules/chat/application/dto/request"
	"PersonaLab/internal/modules/chat/application/service"
	"PersonaLab/pkg/back"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	svc service.ConversationService
}

func NewConversationHandler(svc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

func (h *ConversationHandler) Initialize(c *gin.Context) {
	var req chatRequest.InitializeConversationRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Initialize(c.Request.Context(), req)
	back.Result(c, data, err)
}
