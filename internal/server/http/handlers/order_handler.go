package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collinsmw/boutique/internal/domain/model"
	"github.com/collinsmw/boutique/internal/server/http/dto"
	"github.com/collinsmw/boutique/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), userID, toCreateInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)

	order, err := h.facade.Order(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdatePaymentContact handles PUT /api/orders/:id/payment-contact.
func (h *OrderHandler) UpdatePaymentContact(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.PaymentContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.SetPaymentContact(c.Request.Context(), c.Param("id"), userID, req.PhoneNumber); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentContact": req.PhoneNumber})
}

func toCreateInput(req dto.CreateOrderRequest) usecase.CreateOrderInput {
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return usecase.CreateOrderInput{
		Items: items,
		ShippingAddress: model.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		ShippingMethod: req.ShippingMethod,
		PaymentMethod:  req.PaymentMethod,
		ItemsPrice:     req.ItemsPrice,
		TaxPrice:       req.TaxPrice,
		ShippingPrice:  req.ShippingPrice,
		TotalPrice:     req.TotalPrice,
	}
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	resp := dto.OrderResponse{
		ID:    order.ID,
		Items: items,
		ShippingAddress: dto.ShippingAddressRequest{
			Address:    order.ShippingAddress.Address,
			City:       order.ShippingAddress.City,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
		},
		ShippingMethod:   order.ShippingMethod,
		PaymentMethod:    order.PaymentMethod,
		PaymentContact:   order.PaymentContact,
		PaymentReference: order.PaymentReference,
		ItemsPrice:       order.ItemsPrice,
		TaxPrice:         order.TaxPrice,
		ShippingPrice:    order.ShippingPrice,
		TotalPrice:       order.TotalPrice,
		IsPaid:           order.IsPaid,
		PaidAt:           order.PaidAt,
		IsDelivered:      order.IsDelivered,
		CreatedAt:        order.CreatedAt,
	}
	if order.PaymentResult != nil {
		resp.PaymentResult = &dto.PaymentResultResponse{
			ExternalID: order.PaymentResult.ExternalID,
			Status:     order.PaymentResult.Status,
			UpdateTime: order.PaymentResult.UpdateTime,
			PayerEmail: order.PaymentResult.PayerEmail,
		}
	}
	return resp
}
