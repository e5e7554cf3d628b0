package ginserver

import (
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	billingapp "hotelops/internal/app/handlers/billing"
	"hotelops/internal/app/queries"
)

type BillingHandler struct {
	Queries queries.Bus
}

func (h BillingHandler) ListBills(c *gin.Context) {
	q := billingapp.ListBillsQuery{
		HotelID: c.Query("hotel_id"),
		RoomID:  c.Query("room_id"),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		q.From = from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		q.To = to
	}
	result, err := queries.Ask[billingapp.ListBillsQuery, []billingapp.BillView](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BillingHandler) DailyTotals(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}
	q := billingapp.DailyTotalsQuery{HotelID: c.Param("id"), Year: year, Month: month}
	result, err := queries.Ask[billingapp.DailyTotalsQuery, []billingapp.DayTotal](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BillingHandler) MonthlyTotal(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}
	q := billingapp.MonthlyTotalQuery{HotelID: c.Param("id"), Year: year, Month: month}
	result, err := queries.Ask[billingapp.MonthlyTotalQuery, *billingapp.MonthTotal](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func yearMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return 0, 0, false
	}
	return year, month, true
}
