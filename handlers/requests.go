package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookvault/middleware"
	"bookvault/utils"
)

// CreateRequest opens a reverse booking: the calling guest escrows the offered
// amount up front and names the window a session should land in.
func CreateRequest(c *gin.Context) {
	var input struct {
		HostTarget   string    `json:"hostTarget"`
		WindowStart  time.Time `json:"windowStart" binding:"required"`
		WindowEnd    time.Time `json:"windowEnd" binding:"required"`
		DurationMins int       `json:"durationMins" binding:"required"`
		Amount       int64     `json:"amount" binding:"required"`
		Expiry       time.Time `json:"expiry" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	requestID, err := EscrowEngine.CreateRequest(
		middleware.CallerAddr(c),
		input.HostTarget,
		input.WindowStart,
		input.WindowEnd,
		input.DurationMins,
		input.Amount,
		input.Expiry,
	)
	if err != nil {
		utils.EngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"requestId": requestID})
}

// CancelRequest refunds an open request back to its guest.
func CancelRequest(c *gin.Context) {
	requestID, ok := pathID(c)
	if !ok {
		return
	}
	if err := EscrowEngine.CancelRequest(middleware.CallerAddr(c), requestID); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requestId": requestID, "status": "Cancelled"})
}

// AcceptRequest lets a host take an open request, creating the slot and the
// booking in one shot.
func AcceptRequest(c *gin.Context) {
	requestID, ok := pathID(c)
	if !ok {
		return
	}
	var input struct {
		StartTime        time.Time `json:"startTime" binding:"required"`
		GraceMins        int       `json:"graceMins"`
		MinOverlapMins   int       `json:"minOverlapMins"`
		CancelCutoffMins int       `json:"cancelCutoffMins"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	slotID, bookingID, err := EscrowEngine.AcceptRequest(
		middleware.CallerAddr(c),
		requestID,
		input.StartTime,
		input.GraceMins,
		input.MinOverlapMins,
		input.CancelCutoffMins,
	)
	if err != nil {
		utils.EngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slotId": slotID, "bookingId": bookingID})
}

// GetRequest returns one request by id.
func GetRequest(c *gin.Context) {
	requestID, ok := pathID(c)
	if !ok {
		return
	}
	req, err := EscrowEngine.GetRequest(requestID)
	if err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
