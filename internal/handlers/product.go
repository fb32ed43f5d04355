package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sungsigun/SignageManagement/internal/models"
	"github.com/sungsigun/SignageManagement/internal/services"
	"github.com/sungsigun/SignageManagement/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.GetProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 제품 ID입니다.")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "제품이 등록되었습니다.", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 제품 ID입니다.")
	if !ok {
		return
	}

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "제품 정보가 수정되었습니다.", product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "유효하지 않은 제품 ID입니다.")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "제품이 삭제되었습니다.", nil)
}
