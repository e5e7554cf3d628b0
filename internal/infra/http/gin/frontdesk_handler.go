package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotelops/internal/app/commands"
	"hotelops/internal/app/handlers/frontdesk"
	"hotelops/internal/app/queries"
)

type FrontdeskHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type openOccupancyRequest struct {
	RoomID    string                    `json:"room_id"`
	Mode      string                    `json:"mode"`
	Documents []frontdesk.DocumentInput `json:"documents"`
	Vehicles  []frontdesk.VehicleInput  `json:"vehicles"`
}

func (h FrontdeskHandler) Open(c *gin.Context) {
	var req openOccupancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := frontdesk.OpenOccupancyCommand{
		RoomID:    req.RoomID,
		Mode:      req.Mode,
		Documents: req.Documents,
		Vehicles:  req.Vehicles,
	}
	result, err := commands.Dispatch[frontdesk.OpenOccupancyCommand, *frontdesk.PricingSnapshot](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type changeModeRequest struct {
	Mode string `json:"mode"`
}

func (h FrontdeskHandler) ChangeMode(c *gin.Context) {
	var req changeModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := frontdesk.ChangeModeCommand{OccupancyID: c.Param("id"), Mode: req.Mode}
	result, err := commands.Dispatch[frontdesk.ChangeModeCommand, *frontdesk.PricingSnapshot](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type moveRoomRequest struct {
	ToRoomID string `json:"to_room_id"`
}

func (h FrontdeskHandler) MoveRoom(c *gin.Context) {
	var req moveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := frontdesk.MoveRoomCommand{OccupancyID: c.Param("id"), ToRoomID: req.ToRoomID}
	result, err := commands.Dispatch[frontdesk.MoveRoomCommand, *frontdesk.PricingSnapshot](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type surchargeRequest struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

func (h FrontdeskHandler) AddSurcharge(c *gin.Context) {
	var req surchargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := frontdesk.AddSurchargeCommand{OccupancyID: c.Param("id"), Label: req.Label, Amount: req.Amount}
	result, err := commands.Dispatch[frontdesk.AddSurchargeCommand, *frontdesk.PricingSnapshot](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type noteRequest struct {
	Content         string          `json:"content"`
	Discount        decimal.Decimal `json:"discount"`
	Prepayment      decimal.Decimal `json:"prepayment"`
	NegotiatedPrice decimal.Decimal `json:"negotiated_price"`
}

func (h FrontdeskHandler) SetNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := frontdesk.SetNoteCommand{
		OccupancyID:     c.Param("id"),
		Content:         req.Content,
		Discount:        req.Discount,
		Prepayment:      req.Prepayment,
		NegotiatedPrice: req.NegotiatedPrice,
	}
	result, err := commands.Dispatch[frontdesk.SetNoteCommand, *frontdesk.PricingSnapshot](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type extraRequest struct {
	UtilityID string `json:"utility_id"`
	Quantity  int64  `json:"quantity"`
}

func (h FrontdeskHandler) AddExtra(c *gin.Context) {
	var req extraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := frontdesk.AddExtraCommand{OccupancyID: c.Param("id"), UtilityID: req.UtilityID, Quantity: req.Quantity}
	result, err := commands.Dispatch[frontdesk.AddExtraCommand, *frontdesk.PricingSnapshot](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FrontdeskHandler) RemoveExtra(c *gin.Context) {
	var req extraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := frontdesk.RemoveExtraCommand{OccupancyID: c.Param("id"), UtilityID: req.UtilityID, Quantity: req.Quantity}
	result, err := commands.Dispatch[frontdesk.RemoveExtraCommand, *frontdesk.PricingSnapshot](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FrontdeskHandler) Checkout(c *gin.Context) {
	cmd := frontdesk.CloseOccupancyCommand{OccupancyID: c.Param("id")}
	result, err := commands.Dispatch[frontdesk.CloseOccupancyCommand, *frontdesk.BillView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FrontdeskHandler) Pricing(c *gin.Context) {
	q := frontdesk.PricingSnapshotQuery{OccupancyID: c.Param("id")}
	result, err := queries.Ask[frontdesk.PricingSnapshotQuery, *frontdesk.PricingSnapshot](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
