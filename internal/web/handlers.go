package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"multichat/internal/room"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "chat", gin.H{
		"PollMs":     s.pollInterval.Milliseconds(),
		"RequireKey": s.room.RequiresAPIKey(),
	})
}

type joinRequest struct {
	Username  string `json:"username"`
	Interests string `json:"interests"`
	APIKey    string `json:"api_key"`
}

func (s *Server) handleJoin(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sess, err := s.room.Join(req.Username, req.Interests, req.APIKey)
	if err != nil {
		switch {
		case errors.Is(err, room.ErrUsernameRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "please enter a username and interests to continue"})
		case errors.Is(err, room.ErrAPIKeyRequired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "please add your Groq API key to continue"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":    sess.Token,
		"username": sess.Username,
		"icon":     sess.Icon,
	})
}

func (s *Server) handleMessages(c *gin.Context) {
	msgs, err := s.room.Messages()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"version":  s.versions.Version(),
		"messages": msgs,
	})
}

type postMessageRequest struct {
	Token   string `json:"token"`
	Content string `json:"content"`
}

func (s *Server) handlePostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message content is required"})
		return
	}
	sess, ok := s.room.Session(req.Token)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown session, please join first"})
		return
	}

	res, err := s.room.HandleMessage(c.Request.Context(), sess, req.Content)
	if err != nil {
		// The visitor's own message is already persisted; report the
		// failed assistant turn inline.
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "error generating response: " + err.Error(),
			"user":  res.UserMessage,
		})
		return
	}
	payload := gin.H{"user": res.UserMessage}
	if res.Assistant != nil {
		payload["assistant"] = res.Assistant
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleUpdates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": s.versions.Version()})
}

func (s *Server) handleStatus(c *gin.Context) {
	msgs, _ := s.room.Messages()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   s.uptime(),
		"messages": len(msgs),
	})
}
