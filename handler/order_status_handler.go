package api

import (
	"net/http"

	"github.com/digifood/restaurant-backend/entity"
	orderpkg "github.com/digifood/restaurant-backend/order"
	"github.com/gin-gonic/gin"
)

type OrderStatusHandler struct{ svc orderpkg.Service }

func NewOrderStatusHandler(svc orderpkg.Service) *OrderStatusHandler {
	return &OrderStatusHandler{svc: svc}
}

func (h *OrderStatusHandler) update(target entity.OrderStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		updated, err := h.svc.UpdateStatus(ctx, oid, target)
		if err != nil {
			writeError(c, err, "failed to update order status")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func (h *OrderStatusHandler) Approve() gin.HandlerFunc  { return h.update(entity.OrderApproved) }
func (h *OrderStatusHandler) Reject() gin.HandlerFunc   { return h.update(entity.OrderRejected) }
func (h *OrderStatusHandler) Complete() gin.HandlerFunc { return h.update(entity.OrderCompleted) }
