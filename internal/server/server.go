// Package server exposes subscriptions and read-only progress over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/verte-zerg/ontap/internal/logger"
	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/subscription"
)

// Subscriptions is the registry the API manages.
type Subscriptions interface {
	List(ctx context.Context) []model.Subscription
	Subscribe(ctx context.Context, parentEmail, childEmail string) (model.Subscription, error)
	Remove(ctx context.Context, id string) error
	FindByToken(ctx context.Context, token string) (model.Subscription, error)
}

var _ Subscriptions = (*subscription.Registry)(nil)

// Server holds the HTTP handlers.
type Server struct {
	subs      Subscriptions
	analytics Analytics
	log       *logger.Logger
}

// New returns a server.
func New(subs Subscriptions, analytics Analytics, log *logger.Logger) *Server {
	return &Server{subs: subs, analytics: analytics, log: logger.OrNop(log)}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/healthcheck", s.healthCheck)
	r.GET("/progress/:token", s.progress)

	api := r.Group("/api")
	{
		api.GET("/subscriptions", s.listSubscriptions)
		api.POST("/subscriptions", s.createSubscription)
		api.DELETE("/subscriptions/:id", s.deleteSubscription)
		api.GET("/learners/:email/profile", s.learnerProfile)
	}
	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}

func (s *Server) progress(c *gin.Context) {
	sub, err := s.subs.FindByToken(c.Request.Context(), c.Param("token"))
	if err != nil || !sub.IsEnabled {
		respondError(c, http.StatusNotFound, CodeNotFound, subscription.ErrNotFound)
		return
	}
	respondOK(c, s.analytics.Digest(c.Request.Context(), sub.ChildEmail))
}

func (s *Server) listSubscriptions(c *gin.Context) {
	respondOK(c, s.subs.List(c.Request.Context()))
}

type createSubscriptionRequest struct {
	ParentEmail string `json:"parentEmail"`
	ChildEmail  string `json:"childEmail"`
}

func (s *Server) createSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	sub, err := s.subs.Subscribe(c.Request.Context(), strings.TrimSpace(req.ParentEmail), strings.TrimSpace(req.ChildEmail))
	if err != nil {
		var verr subscription.ValidationError
		if errors.As(err, &verr) {
			respondError(c, http.StatusBadRequest, CodeInvalidEmail, verr)
			return
		}
		s.log.Error("subscribe failed", "error", err)
		respondError(c, http.StatusInternalServerError, CodeInternal, errors.New("failed to save subscription"))
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (s *Server) deleteSubscription(c *gin.Context) {
	if err := s.subs.Remove(c.Request.Context(), c.Param("id")); err != nil {
		s.log.Error("unsubscribe failed", "error", err)
		respondError(c, http.StatusInternalServerError, CodeInternal, errors.New("failed to remove subscription"))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) learnerProfile(c *gin.Context) {
	email := c.Param("email")
	if !subscription.IsGmail(email) {
		respondError(c, http.StatusBadRequest, CodeInvalidEmail, errors.New(subscription.InvalidEmailMessage))
		return
	}
	respondOK(c, s.analytics.Profile(c.Request.Context(), email))
}
