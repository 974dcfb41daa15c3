package handler

import (
	chatRequest "PersonaLab/internal/modules/chat/application/dto/request"
	"PersonaLab/internal/modules/chat/application/service"
	"PersonaLab/pkg/back"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type FollowupHandler struct {
	svc service.FollowupService
}

func NewFollowupHandler(svc service.FollowupService) *FollowupHandler {
	return &FollowupHandler{svc: svc}
}

func (h *FollowupHandler) Followup(c *gin.Context) {
	var req chatRequest.FollowupRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	if req.ResetFlag {
		data, err := h.svc.Reset(c.Request.Context(), req.ConversationId)
		back.Result(c, data, err)
		return
	}

	data, reason, err := h.svc.MaybeFollowUp(c.Request.Context(), req)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	if reason != "" {
		back.Error(c, xerr.BadRequest, reason)
		return
	}
	back.Result(c, data, nil)
}
