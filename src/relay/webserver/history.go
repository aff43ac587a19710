package webserver

import (
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/campus-assist/enquiry-relay/src/relay/types"
)

type History struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
	maxLimit  int
}

func NewHistory(db *gorm.DB, maxLimit int) History {
	return History{
		db:        db,
		sanitizer: bluemonday.StrictPolicy(),
		maxLimit:  maxLimit,
	}
}

// Append stores one completed exchange for the caller. The client invokes
// this after the relay returns a success; the relay itself never persists.
func (h History) Append(c *gin.Context) {
	var req struct {
		Message   string `json:"message"   binding:"required,min=1,max=10000"`
		Response  string `json:"response"  binding:"required,min=1"`
		InputType string `json:"inputType" binding:"omitempty,oneof=text voice"`
		Provider  string `json:"provider"  binding:"omitempty,max=32"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Message = h.sanitizer.Sanitize(req.Message)
	if !utf8.ValidString(req.Message) || !utf8.ValidString(req.Response) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid characters in input"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty after sanitization"})
		return
	}
	if req.InputType == "" {
		req.InputType = "text"
	}

	msg := types.ChatMessage{
		UserID:    c.GetString("uid"),
		Message:   req.Message,
		Response:  req.Response,
		InputType: req.InputType,
		Provider:  req.Provider,
		CreatedAt: time.Now(),
	}
	if err := h.db.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": msg.ID})
}

// List returns the caller's stored turns, oldest first.
func (h History) List(c *gin.Context) {
	limit := h.maxLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		if n < limit {
			limit = n
		}
	}

	var msgs []types.ChatMessage
	if err := h.db.Where("user_id = ?", c.GetString("uid")).
		Order("created_at desc").Limit(limit).Find(&msgs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	// Query newest-first for the limit, serve oldest-first.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	out := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, gin.H{
			"id":        m.ID,
			"message":   m.Message,
			"response":  m.Response,
			"inputType": m.InputType,
			"provider":  m.Provider,
			"createdAt": m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}
