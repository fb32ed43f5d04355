package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sungsigun/SignageManagement/internal/models"
	"github.com/sungsigun/SignageManagement/internal/services"
	"github.com/sungsigun/SignageManagement/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
	fileService  *services.FileService
}

func NewOrderHandler(orderService *services.OrderService, fileService *services.FileService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		fileService:  fileService,
	}
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	var req models.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "요청 파라미터가 올바르지 않습니다.")
		return
	}

	orders, pagination, err := h.orderService.GetOrders(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"orders":     orders,
		"pagination": pagination,
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 주문 ID입니다.")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, order)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "주문이 등록되었습니다.", order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 주문 ID입니다.")
	if !ok {
		return
	}

	var req models.OrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "주문 정보가 수정되었습니다.", order)
}

func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 주문 ID입니다.")
	if !ok {
		return
	}

	var req models.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	order, err := h.orderService.ChangeStatus(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "주문 상태가 변경되었습니다.", order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 주문 ID입니다.")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "주문이 삭제되었습니다.", nil)
}

func (h *OrderHandler) GetHistory(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 주문 ID입니다.")
	if !ok {
		return
	}

	history, err := h.orderService.GetHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, history)
}

func (h *OrderHandler) GetFiles(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 주문 ID입니다.")
	if !ok {
		return
	}

	files, err := h.fileService.GetOrderFiles(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, files)
}
