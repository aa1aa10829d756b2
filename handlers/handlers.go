package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookvault/services/escrow"
	"bookvault/utils"
)

// EscrowEngine is the single escrow engine instance every handler talks to.
// Init must run before the router starts serving.
var EscrowEngine *escrow.Engine

// Init wires the handlers to the engine built in main.
func Init(engine *escrow.Engine) {
	EscrowEngine = engine
}

// pathID parses the numeric :id path parameter. On failure it writes the
// error response and returns ok=false.
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid id", c.Param("id"))
		return 0, false
	}
	return id, true
}
