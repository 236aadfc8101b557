package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"backoffice-service/internal/entity"
	"backoffice-service/internal/repository"
	"backoffice-service/internal/service"
)

// JwtCustomClaims is the auth context the core trusts: the calling seller's
// id and whether the caller holds the master role.
type JwtCustomClaims struct {
	SellerID int64 `json:"seller_id"`
	IsMaster bool  `json:"is_master"`
	jwt.RegisteredClaims
}

func claimsFrom(c echo.Context) *JwtCustomClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return &JwtCustomClaims{}
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return &JwtCustomClaims{}
	}
	return claims
}

func errorJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCount),
		errors.Is(err, repository.ErrInvalidTransition),
		errors.Is(err, service.ErrDuplicateRequest):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNotAuthorized):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, repository.ErrWriteConflict):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetPurchaseInfo returns the buy-modal data --> GET /orders/products/:product_id
func (h *OrderHandler) GetPurchaseInfo(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	info, err := h.orderService.GetPurchaseInfo(c.Request().Context(), productID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, info)
}

// PlaceOrder places one order --> POST /orders/products/:product_id
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	req := entity.OrderRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid count"})
	}
	idempotentKey := c.Request().Header.Get("Idempotent-Key")

	claims := claimsFrom(c)
	placed, err := h.orderService.PlaceOrder(c.Request().Context(), productID, claims.SellerID, &req, idempotentKey)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, placed)
}

type shipmentRequest struct {
	ShipmentButton int     `json:"shipment_button"`
	OrderDetailIDs []int64 `json:"order_detail_ids"`
}

// AdvanceStatus applies one shipment button to a batch of order lines
// --> POST /orders/shipment
func (h *OrderHandler) AdvanceStatus(c echo.Context) error {
	req := shipmentRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	button := entity.ShipmentButton(req.ShipmentButton)
	if _, _, ok := button.Transition(); !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid shipment button"})
	}
	if len(req.OrderDetailIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No order details given"})
	}

	claims := claimsFrom(c)
	results, err := h.orderService.AdvanceOrderStatus(c.Request().Context(), claims.SellerID, button, req.OrderDetailIDs)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"results": results})
}

// ListOrders returns one status bucket of the seller's order lines
// --> GET /orders?status_id=1&...
func (h *OrderHandler) ListOrders(c echo.Context) error {
	statusID, err := strconv.Atoi(c.QueryParam("status_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status ID"})
	}

	filter := entity.OrderListFilter{
		SellerID:     claimsFrom(c).SellerID,
		StatusID:     entity.OrderStatus(statusID),
		OrderNumber:  c.QueryParam("order_number"),
		DetailNumber: c.QueryParam("detail_number"),
		UserName:     c.QueryParam("user_name"),
		PhoneNumber:  c.QueryParam("phone_number"),
		Limit:        10,
		Offset:       0,
	}
	if !filter.StatusID.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status ID"})
	}

	if v := c.QueryParam("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid start date"})
		}
		filter.StartDate = &t
	}
	if v := c.QueryParam("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid end date"})
		}
		filter.EndDate = &t
	}
	if v := c.QueryParam("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil || filter.Limit <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil || filter.Offset < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid offset"})
		}
	}

	items, total, err := h.orderService.ListOrders(c.Request().Context(), filter)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"order_list": items, "total_count": total})
}

// GetOrderDetail returns the order detail page --> GET /orders/:order_id
func (h *OrderHandler) GetOrderDetail(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	detail, err := h.orderService.GetOrderDetail(c.Request().Context(), orderID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, detail)
}

type phoneNumberRequest struct {
	OrderID     int64  `json:"order_id"`
	PhoneNumber string `json:"phone_number"`
}

// CorrectPhoneNumber fixes a buyer phone number, master only
// --> PUT /orders/phone-number
func (h *OrderHandler) CorrectPhoneNumber(c echo.Context) error {
	req := phoneNumberRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if req.PhoneNumber == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid phone number"})
	}

	claims := claimsFrom(c)
	if err := h.orderService.CorrectPhoneNumber(c.Request().Context(), req.OrderID, req.PhoneNumber, claims.IsMaster); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "success"})
}

type SellerHandler struct {
	sellerService *service.SellerService
}

func NewSellerHandler(sellerService *service.SellerService) *SellerHandler {
	return &SellerHandler{sellerService: sellerService}
}

type sellerStatusRequest struct {
	ActionButton int `json:"action_button"`
}

// ChangeSellerStatus applies a master-console button to a seller account
// --> PUT /sellers/:seller_id/status
func (h *SellerHandler) ChangeSellerStatus(c echo.Context) error {
	sellerID, err := strconv.ParseInt(c.Param("seller_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid seller ID"})
	}

	req := sellerStatusRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	button := entity.SellerActionButton(req.ActionButton)
	if !button.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid action button"})
	}

	claims := claimsFrom(c)
	if err := h.sellerService.ChangeSellerStatus(c.Request().Context(), sellerID, button, claims.IsMaster); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "success"})
}

// GetStatusHistories returns a seller's lifecycle audit trail
// --> GET /sellers/:seller_id/status-histories
func (h *SellerHandler) GetStatusHistories(c echo.Context) error {
	sellerID, err := strconv.ParseInt(c.Param("seller_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid seller ID"})
	}

	histories, err := h.sellerService.GetStatusHistories(c.Request().Context(), sellerID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"status_histories": histories})
}
