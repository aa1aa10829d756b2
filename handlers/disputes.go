package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookvault/middleware"
	"bookvault/models"
	"bookvault/utils"
)

// Challenge opens a bonded dispute against an attested outcome. The bond is
// pulled from the caller and rides on the arbiter agreeing with them.
func Challenge(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	if err := EscrowEngine.Challenge(middleware.CallerAddr(c), bookingID); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "status": "Disputed"})
}

// ResolveDispute records the admin's final verdict and settles the bond.
func ResolveDispute(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	var input struct {
		FinalOutcome models.SessionOutcome `json:"finalOutcome" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := EscrowEngine.ResolveDispute(middleware.CallerAddr(c), bookingID, input.FinalOutcome); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "status": "Resolved"})
}

// FinalizeDisputeByTimeout closes a dispute the admin never ruled on; the
// oracle outcome stands and the challenger forfeits the bond.
func FinalizeDisputeByTimeout(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	if err := EscrowEngine.FinalizeDisputeByTimeout(bookingID); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "status": "Resolved"})
}
