package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookvault/middleware"
	"bookvault/utils"
)

// Withdraw pays out everything the engine owes the caller, optionally to a
// different destination address.
func Withdraw(c *gin.Context) {
	var input struct {
		To string `json:"to"`
	}
	// Body is optional; an empty destination pays the caller.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
	}

	amount, err := EscrowEngine.Withdraw(middleware.CallerAddr(c), input.To)
	if err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": amount})
}

// Owed returns the caller's withdrawable balance.
func Owed(c *gin.Context) {
	addr := c.Query("address")
	if addr == "" {
		addr = middleware.CallerAddr(c)
	}
	c.JSON(http.StatusOK, gin.H{"address": addr, "owed": EscrowEngine.Owed(addr)})
}

// Ledger returns the engine's custody view: total held against actual vault
// balance.
func Ledger(c *gin.Context) {
	c.JSON(http.StatusOK, EscrowEngine.Ledger())
}

// SweepExcess sends any custody balance above what the engine holds for users
// to the treasury.
func SweepExcess(c *gin.Context) {
	swept, err := EscrowEngine.SweepExcess()
	if err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swept": swept})
}
