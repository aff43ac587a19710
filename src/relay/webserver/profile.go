package webserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campus-assist/enquiry-relay/src/relay/types"
)

type Profile struct {
	db *gorm.DB
}

func NewProfile(db *gorm.DB) Profile {
	return Profile{db: db}
}

func (p Profile) Get(c *gin.Context) {
	uid := c.GetString("uid")

	var user types.User
	if err := p.db.First(&user, "id = ?", uid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	var pref types.Preference
	if err := p.db.First(&pref, "user_id = ?", uid).Error; err != nil {
		pref = types.Preference{UserID: uid, Language: "en"}
	}

	c.JSON(http.StatusOK, gin.H{
		"email":        user.Email,
		"name":         user.Name,
		"language":     pref.Language,
		"voiceReplies": pref.VoiceReplies,
	})
}

func (p Profile) Update(c *gin.Context) {
	var req struct {
		Name         string `json:"name"         binding:"omitempty,max=128"`
		Language     string `json:"language"     binding:"omitempty,max=16"`
		VoiceReplies *bool  `json:"voiceReplies"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := c.GetString("uid")

	if name := strings.TrimSpace(req.Name); name != "" {
		if err := p.db.Model(&types.User{}).Where("id = ?", uid).Update("name", name).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			return
		}
	}

	var pref types.Preference
	if err := p.db.First(&pref, "user_id = ?", uid).Error; err != nil {
		pref = types.Preference{UserID: uid, Language: "en"}
	}
	if req.Language != "" {
		pref.Language = req.Language
	}
	if req.VoiceReplies != nil {
		pref.VoiceReplies = *req.VoiceReplies
	}
	if err := p.db.Save(&pref).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
