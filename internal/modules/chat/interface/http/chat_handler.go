package handler

import (
	chatRequest "PersonaLab/internal/modules/chat/application/dto/request"
	"PersonaLab/internal/modules/chat/application/service"
	"PersonaLab/pkg/back"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	svc service.ChatService
}

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest.ChatRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Chat(c.Request.Context(), req)
	back.Result(c, data, err)
}
