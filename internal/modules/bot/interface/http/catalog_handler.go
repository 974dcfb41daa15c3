package handler

import (
	"PersonaLab/internal/modules/bot/application/service"
	"PersonaLab/pkg/back"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	svc service.CatalogService
}

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListProviders(c *gin.Context) {
	data, err := h.svc.ListProviders(c.Request.Context())
	back.Result(c, data, err)
}

func (h *CatalogHandler) ListModels(c *gin.Context) {
	data, err := h.svc.ListModels(c.Request.Context(), c.Query("provider"))
	back.Result(c, data, err)
}
