// Package web serves the chatroom page and its JSON API.
package web

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"multichat/internal/room"
)

// Versioner reports the history change counter browsers poll against.
type Versioner interface {
	Version() uint64
}

type Server struct {
	room         *room.Service
	versions     Versioner
	pollInterval time.Duration
	server       *http.Server
	startTime    time.Time
}

func NewServer(roomSvc *room.Service, versions Versioner, pollInterval time.Duration) *Server {
	return &Server{
		room:         roomSvc,
		versions:     versions,
		pollInterval: pollInterval,
		startTime:    time.Now(),
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.SetHTMLTemplate(template.Must(template.New("chat").Parse(chatPageHTML)))

	router.GET("/", s.handleIndex)
	api := router.Group("/api")
	api.POST("/join", s.handleJoin)
	api.GET("/messages", s.handleMessages)
	api.POST("/messages", s.handlePostMessage)
	api.GET("/updates", s.handleUpdates)
	api.GET("/status", s.handleStatus)
	return router
}

// Start blocks serving HTTP until the listener fails or Stop is called.
// Write timeout is generous because a completion call holds the request
// open for its full duration.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("🌐 Chatroom listening on %s", addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) uptime() string {
	return time.Since(s.startTime).Round(time.Second).String()
}
