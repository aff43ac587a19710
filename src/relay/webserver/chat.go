package webserver

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-assist/enquiry-relay/src/shared/ai"
)

// Limiter gates how often one identity may chat.
type Limiter interface {
	Allow(ctx context.Context, userID string) (bool, time.Duration, error)
}

type Chat struct {
	chain   *ai.Chain
	limiter Limiter
	timeout time.Duration
}

func NewChat(chain *ai.Chain, limiter Limiter, timeout time.Duration) Chat {
	return Chat{chain: chain, limiter: limiter, timeout: timeout}
}

// RequireProviders rejects every request up front when no provider credential
// is configured. It runs before authentication: a missing credential is a
// deployment defect and hiding it behind auth only delays the operator page.
func RequireProviders(chain *ai.Chain) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !chain.Configured() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "AI service is not configured"})
			return
		}
		c.Next()
	}
}

type chatRequest struct {
	Message             string       `json:"message" binding:"required"`
	ConversationHistory []ai.Message `json:"conversationHistory"`
}

// Relay handles one chat turn: rate-limit the caller, assemble the message
// list, walk the provider chain and translate the result into the external
// contract. It persists nothing; the client appends the turn to history
// after a success.
func (h Chat) Relay(c *gin.Context) {
	uid := c.GetString("uid")

	if h.limiter != nil {
		allowed, wait, err := h.limiter.Allow(c.Request.Context(), uid)
		if err != nil {
			// Limiter outage must not take chat down with it.
			log.Printf("chat: limiter error for %s: %v", uid, err)
		} else if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "You are sending messages too quickly. Please wait a moment.",
				"details": fmt.Sprintf("retry in %ds", int(wait.Seconds())+1),
			})
			return
		}
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	messages := ai.BuildMessages(ai.CampusSystemPrompt, req.ConversationHistory, req.Message)

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result := h.chain.Run(ctx, messages)

	switch result.Kind {
	case ai.Success:
		c.JSON(http.StatusOK, gin.H{"response": result.Text, "provider": result.Provider})

	case ai.RateLimited:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again in a moment."})

	case ai.CreditsExhausted:
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "AI credits exhausted. Please add credits to continue."})

	case ai.HardFailure:
		log.Printf("chat: hard failure from %s: status=%d body=%s", result.Provider, result.Status, result.Body)
		status := result.Status
		if status < http.StatusBadRequest {
			// A malformed success body has no sensible upstream error status.
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error":   "AI provider error",
			"details": result.Body,
			"status":  result.Status,
		})

	case ai.NotConfigured:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service is not configured"})

	default: // ai.Exhausted
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "All AI providers are currently unavailable. Please try again later."})
	}
}
