package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sungsigun/SignageManagement/internal/models"
	"github.com/sungsigun/SignageManagement/internal/services"
	"github.com/sungsigun/SignageManagement/internal/utils"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	var req models.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "요청 파라미터가 올바르지 않습니다.")
		return
	}

	customers, pagination, err := h.customerService.GetCustomers(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"customers":  customers,
		"pagination": pagination,
	})
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 고객 ID입니다.")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, customer)
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req models.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "고객이 등록되었습니다.", customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 고객 ID입니다.")
	if !ok {
		return
	}

	var req models.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "고객 정보가 수정되었습니다.", customer)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 고객 ID입니다.")
	if !ok {
		return
	}

	result, err := h.customerService.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "고객이 삭제되었습니다.", result)
}
