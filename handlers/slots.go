package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookvault/middleware"
	"bookvault/utils"
)

// CreateSlot publishes a bookable session slot for the calling host.
func CreateSlot(c *gin.Context) {
	var input struct {
		StartTime        time.Time `json:"startTime" binding:"required"`
		DurationMins     int       `json:"durationMins" binding:"required"`
		Price            int64     `json:"price" binding:"required"`
		GraceMins        int       `json:"graceMins"`
		MinOverlapMins   int       `json:"minOverlapMins"`
		CancelCutoffMins int       `json:"cancelCutoffMins"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	slotID, err := EscrowEngine.CreateSlot(
		middleware.CallerAddr(c),
		input.StartTime,
		input.DurationMins,
		input.Price,
		input.GraceMins,
		input.MinOverlapMins,
		input.CancelCutoffMins,
	)
	if err != nil {
		utils.EngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slotId": slotID})
}

// CancelSlot withdraws an open slot. Only its host may call this.
func CancelSlot(c *gin.Context) {
	slotID, ok := pathID(c)
	if !ok {
		return
	}
	if err := EscrowEngine.CancelSlot(middleware.CallerAddr(c), slotID); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slotId": slotID, "status": "Cancelled"})
}

// GetSlot returns one slot by id.
func GetSlot(c *gin.Context) {
	slotID, ok := pathID(c)
	if !ok {
		return
	}
	slot, err := EscrowEngine.GetSlot(slotID)
	if err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}
