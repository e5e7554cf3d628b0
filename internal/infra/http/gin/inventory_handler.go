package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotelops/internal/app/commands"
	"hotelops/internal/app/handlers/expenses"
	"hotelops/internal/app/handlers/hotels"
	"hotelops/internal/app/handlers/rooms"
	"hotelops/internal/app/handlers/utilities"
	"hotelops/internal/app/queries"
)

// InventoryHandler serves hotels, rooms, the extras catalog and
// expenses.
type InventoryHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createHotelRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h InventoryHandler) CreateHotel(c *gin.Context) {
	var req createHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := hotels.CreateHotelCommand{Name: req.Name, Address: req.Address}
	result, err := commands.Dispatch[hotels.CreateHotelCommand, *hotels.HotelView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h InventoryHandler) ListHotels(c *gin.Context) {
	result, err := queries.Ask[hotels.ListHotelsQuery, []hotels.HotelView](c.Request.Context(), h.Queries, hotels.ListHotelsQuery{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type roomRequest struct {
	HotelID     string              `json:"hotel_id"`
	Name        string              `json:"name"`
	Floor       int                 `json:"floor"`
	Description string              `json:"description"`
	Rates       rooms.RateCardInput `json:"rates"`
	Available   *bool               `json:"available"`
}

func (h InventoryHandler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := rooms.CreateRoomCommand{
		HotelID:     req.HotelID,
		Name:        req.Name,
		Floor:       req.Floor,
		Description: req.Description,
		Rates:       req.Rates,
	}
	result, err := commands.Dispatch[rooms.CreateRoomCommand, *rooms.RoomView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h InventoryHandler) UpdateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	cmd := rooms.UpdateRoomCommand{
		RoomID:      c.Param("id"),
		Name:        req.Name,
		Floor:       req.Floor,
		Description: req.Description,
		Rates:       req.Rates,
		Available:   available,
	}
	result, err := commands.Dispatch[rooms.UpdateRoomCommand, *rooms.RoomView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h InventoryHandler) Board(c *gin.Context) {
	q := rooms.BoardByHotelQuery{HotelID: c.Param("id")}
	result, err := queries.Ask[rooms.BoardByHotelQuery, []rooms.RoomView](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type utilityRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Icon  string          `json:"icon"`
}

func (h InventoryHandler) CreateUtility(c *gin.Context) {
	var req utilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := utilities.CreateUtilityCommand{Name: req.Name, Price: req.Price, Icon: req.Icon}
	result, err := commands.Dispatch[utilities.CreateUtilityCommand, *utilities.UtilityView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h InventoryHandler) UpdateUtility(c *gin.Context) {
	var req utilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := utilities.UpdateUtilityCommand{UtilityID: c.Param("id"), Name: req.Name, Price: req.Price, Icon: req.Icon}
	result, err := commands.Dispatch[utilities.UpdateUtilityCommand, *utilities.UtilityView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h InventoryHandler) DeleteUtility(c *gin.Context) {
	cmd := utilities.DeleteUtilityCommand{UtilityID: c.Param("id")}
	if _, err := commands.Dispatch[utilities.DeleteUtilityCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h InventoryHandler) ListUtilities(c *gin.Context) {
	result, err := queries.Ask[utilities.ListUtilitiesQuery, []utilities.UtilityView](c.Request.Context(), h.Queries, utilities.ListUtilitiesQuery{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type expenseRequest struct {
	HotelID string          `json:"hotel_id"`
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
	SpentAt time.Time       `json:"spent_at"`
}

func (h InventoryHandler) RecordExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := expenses.RecordExpenseCommand{HotelID: req.HotelID, Label: req.Label, Amount: req.Amount, SpentAt: req.SpentAt}
	result, err := commands.Dispatch[expenses.RecordExpenseCommand, *expenses.ExpenseView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h InventoryHandler) DeleteExpense(c *gin.Context) {
	cmd := expenses.DeleteExpenseCommand{ExpenseID: c.Param("id")}
	if _, err := commands.Dispatch[expenses.DeleteExpenseCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h InventoryHandler) ListExpenses(c *gin.Context) {
	q := expenses.ListExpensesQuery{HotelID: c.Param("id")}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		q.From = from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		q.To = to
	}
	result, err := queries.Ask[expenses.ListExpensesQuery, []expenses.ExpenseView](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
