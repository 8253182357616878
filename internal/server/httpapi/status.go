package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skycover/skycover/internal/common"
	"github.com/skycover/skycover/internal/server/blockchain"
)

// statusFromError is the single mapping from the service error taxonomy to
// HTTP status codes, shared by all handlers.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	}

	if kind, ok := blockchain.KindOf(err); ok {
		switch kind {
		case blockchain.KindTransactionNotFound,
			blockchain.KindTransactionNotConfirmed,
			blockchain.KindInvalidTransaction,
			blockchain.KindParameterMismatch,
			blockchain.KindParseError:
			// Client-attributable: a bad or not-yet-usable transaction hash.
			return http.StatusBadRequest
		case blockchain.KindNetworkError, blockchain.KindContractError:
			return http.StatusInternalServerError
		}
	}

	return http.StatusInternalServerError
}

// respondError writes the classified status with a JSON error body. Internal
// causes are not echoed back to the client.
func respondError(c *gin.Context, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
