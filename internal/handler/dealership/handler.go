package dealership

import (
	"github.com/gin-gonic/gin"

	"github.com/ridexchange/dealer-api/internal/service/dealership"
	apperrors "github.com/ridexchange/dealer-api/pkg/errors"
	"github.com/ridexchange/dealer-api/pkg/httputil"
)

type Handler struct {
	service *dealership.Service
}

func NewHandler(service *dealership.Service) *Handler {
	return &Handler{service: service}
}

// GetDealership returns the service location and its weekly schedule.
func (h *Handler) GetDealership(c *gin.Context) {
	info, err := h.service.GetDealership(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewUnavailable(err))
		return
	}
	httputil.RespondWithSuccess(c, info)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dealership", h.GetDealership)
}
