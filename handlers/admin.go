package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookvault/middleware"
	"bookvault/models"
	"bookvault/utils"
)

// UpdateParams replaces the engine's economic parameters. Admin only; bookings
// already in flight keep the terms they were created under.
func UpdateParams(c *gin.Context) {
	var input struct {
		FeeBps               int64 `json:"feeBps"`
		LateCancelPenaltyBps int64 `json:"lateCancelPenaltyBps"`
		ChallengeWindowMins  int   `json:"challengeWindowMins"`
		NoAttestBufferMins   int   `json:"noAttestBufferMins"`
		DisputeTimeoutMins   int   `json:"disputeTimeoutMins"`
		ChallengeBond        int64 `json:"challengeBond"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	params := models.EngineParams{
		FeeBps:               input.FeeBps,
		LateCancelPenaltyBps: input.LateCancelPenaltyBps,
		ChallengeWindow:      time.Duration(input.ChallengeWindowMins) * time.Minute,
		NoAttestBuffer:       time.Duration(input.NoAttestBufferMins) * time.Minute,
		DisputeTimeout:       time.Duration(input.DisputeTimeoutMins) * time.Minute,
		ChallengeBond:        input.ChallengeBond,
	}
	if err := EscrowEngine.UpdateParams(middleware.CallerAddr(c), params); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "parameters updated"})
}

// GetParams returns the current engine parameters.
func GetParams(c *gin.Context) {
	c.JSON(http.StatusOK, EscrowEngine.Params())
}

// SetOracle rotates the attestation oracle address. Admin only.
func SetOracle(c *gin.Context) {
	var input struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := EscrowEngine.SetOracle(middleware.CallerAddr(c), input.Address); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "oracle updated"})
}

// SetAdmin hands admin control to a new address. Admin only.
func SetAdmin(c *gin.Context) {
	var input struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := EscrowEngine.SetAdmin(middleware.CallerAddr(c), input.Address); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "admin updated"})
}

// SetTreasury rotates the fee destination. Admin only.
func SetTreasury(c *gin.Context) {
	var input struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := EscrowEngine.SetTreasury(middleware.CallerAddr(c), input.Address); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "treasury updated"})
}
