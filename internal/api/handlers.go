package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"

	"brewcart/internal/inventory"
	"brewcart/internal/models"
	"brewcart/internal/storage"
	"brewcart/internal/validation"
)

// Menu handlers

func (s *Server) handleListDrinks(c *gin.Context) {
	c.JSON(http.StatusOK, s.storage.Drinks(c.Request.Context()))
}

func (s *Server) handleReplaceDrinks(c *gin.Context) {
	var drinks []models.Drink
	if err := c.ShouldBindJSON(&drinks); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.storage.SaveDrinks(c.Request.Context(), drinks); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, drinks)
}

type availabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

func (s *Server) handleDrinkAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	drink, err := s.storage.SetDrinkAvailability(c.Request.Context(), c.Param("id"), *req.IsAvailable)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, drink)
}

// Order handlers

// orderRequest is a checkout as sent by the cart. Prices are always taken
// from the stored menu.
type orderRequest struct {
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	Items         []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	DrinkID   string   `json:"drinkId"`
	Quantity  int      `json:"quantity"`
	OptionIDs []string `json:"optionIds"`
}

// buildOrder prices a checkout against the menu. Zero cart limits are
// unlimited.
func buildOrder(menu []models.Drink, limits models.CartConfig, req orderRequest) (models.Order, error) {
	if limits.MaxItems > 0 && len(req.Items) > limits.MaxItems {
		return models.Order{}, errors.NotValidf("%d items in cart, limit is %d", len(req.Items), limits.MaxItems)
	}
	drinks := make(map[string]models.Drink, len(menu))
	for _, d := range menu {
		drinks[d.ID] = d
	}
	order := models.Order{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	}
	for _, it := range req.Items {
		drink, ok := drinks[it.DrinkID]
		if !ok {
			return models.Order{}, errors.NotValidf("drink %q", it.DrinkID)
		}
		if !drink.IsAvailable {
			return models.Order{}, errors.NotValidf("ordering unavailable drink %q", drink.Name)
		}
		if limits.MaxQuantityPerItem > 0 && it.Quantity > limits.MaxQuantityPerItem {
			return models.Order{}, errors.NotValidf("quantity %d of %s, limit is %d", it.Quantity, drink.Name, limits.MaxQuantityPerItem)
		}
		opts := make([]models.DrinkOption, 0, len(it.OptionIDs))
		for _, id := range it.OptionIDs {
			opt, ok := drink.Option(id)
			if !ok || !opt.IsAvailable {
				return models.Order{}, errors.NotValidf("option %q for %s", id, drink.Name)
			}
			opts = append(opts, opt)
		}
		order.Items = append(order.Items, models.NewOrderItem("", drink, it.Quantity, opts))
	}
	return order, nil
}

func (s *Server) handleListOrders(c *gin.Context) {
	orders := s.storage.Orders(c.Request.Context())
	if status := c.Query("status"); status != "" {
		kept := make([]models.Order, 0, len(orders))
		for _, o := range orders {
			if string(o.Status) == status {
				kept = append(kept, o)
			}
		}
		orders = kept
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if res := validation.ValidateCustomerInfo(req.CustomerName, req.CustomerPhone); !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	ctx := c.Request.Context()
	limits := s.storage.Settings(ctx).CartConfig
	order, err := buildOrder(s.storage.Drinks(ctx), limits, req)
	if err != nil {
		abort(c, err)
		return
	}
	order, err = s.storage.AddOrder(ctx, order)
	if err != nil {
		abort(c, err)
		return
	}
	s.feed.Broadcast(Event{Type: EventOrderCreated, Order: order, Time: order.CreatedAt})
	c.JSON(http.StatusCreated, order)
}

func (s *Server) findOrder(c *gin.Context) (models.Order, bool) {
	id := c.Param("id")
	for _, o := range s.storage.Orders(c.Request.Context()) {
		if o.ID == id {
			return o, true
		}
	}
	abort(c, errors.NotFoundf("order %q", id))
	return models.Order{}, false
}

func (s *Server) handleGetOrder(c *gin.Context) {
	if order, ok := s.findOrder(c); ok {
		c.JSON(http.StatusOK, order)
	}
}

type statusRequest struct {
	Status  models.OrderStatus `json:"status" binding:"required"`
	Barista string             `json:"barista"`
}

func (s *Server) handleOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := s.storage.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status, req.Barista)
	if err != nil {
		abort(c, err)
		return
	}
	s.feed.Broadcast(Event{Type: EventOrderUpdated, Order: order, Time: order.UpdatedAt})
	c.JSON(http.StatusOK, order)
}

func (s *Server) handlePrintLabels(c *gin.Context) {
	order, ok := s.findOrder(c)
	if !ok {
		return
	}
	printed, err := s.labels.PrintOrder(c.Request.Context(), order)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": printed})
}

type customerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (s *Server) handleValidateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, validation.ValidateCustomerInfo(req.Name, req.Phone))
}

// Syrup handlers

func (s *Server) handleListSyrups(c *gin.Context) {
	c.JSON(http.StatusOK, s.storage.Syrups(c.Request.Context()))
}

func (s *Server) handleAddSyrup(c *gin.Context) {
	var in storage.SyrupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	syrup, err := s.storage.AddSyrup(c.Request.Context(), in)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, syrup)
}

type syrupStatusRequest struct {
	Status models.SyrupStatus `json:"status" binding:"required"`
}

func (s *Server) handleSyrupStatus(c *gin.Context) {
	var req syrupStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	syrup, err := s.storage.UpdateSyrupStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, syrup)
}

func (s *Server) handleDeleteSyrup(c *gin.Context) {
	if err := s.storage.DeleteSyrup(c.Request.Context(), c.Param("id")); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Settings handlers

func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.storage.Settings(c.Request.Context()))
}

func (s *Server) handleSaveSettings(c *gin.Context) {
	var settings models.AppSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := s.storage.SaveSettings(ctx, settings); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, s.storage.Settings(ctx))
}

type settingValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) handleGetSetting(c *gin.Context) {
	key := c.Param("key")
	value, ok := s.storage.Setting(c.Request.Context(), key)
	if !ok {
		abort(c, errors.NotFoundf("setting %q", key))
		return
	}
	c.JSON(http.StatusOK, settingValue{Key: key, Value: value})
}

func (s *Server) handleSaveSetting(c *gin.Context) {
	var req settingValue
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.Key = c.Param("key")
	if err := s.storage.SaveSetting(c.Request.Context(), req.Key, req.Value); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Inventory handlers

type inventoryResponse struct {
	Range inventory.DateRange   `json:"range"`
	Stats models.InventoryStats `json:"stats"`
	Rows  []inventory.Row       `json:"rows"`
}

func (s *Server) handleInventory(c *gin.Context) {
	r, err := inventory.ParseDateRange(c.Query("range"))
	if err != nil {
		abort(c, err)
		return
	}
	stats := s.inventory.Stats(c.Request.Context(), r)
	c.JSON(http.StatusOK, inventoryResponse{Range: r, Stats: stats, Rows: inventory.Rows(stats)})
}
