package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whatsb/whatsb-embedding-example/internal/audit"
	"github.com/whatsb/whatsb-embedding-example/internal/journal"
	"github.com/whatsb/whatsb-embedding-example/internal/logger"
	"github.com/whatsb/whatsb-embedding-example/internal/middleware"
	"github.com/whatsb/whatsb-embedding-example/internal/token"
)

type Handler struct {
	issuer  token.Issuer
	audit   audit.Recorder
	journal journal.Recorder
	started time.Time
}

func NewHandler(issuer token.Issuer, auditRecorder audit.Recorder, rec journal.Recorder) *Handler {
	if auditRecorder == nil {
		auditRecorder = audit.Noop{}
	}
	if rec == nil {
		rec = journal.NewMemory(0)
	}
	return &Handler{
		issuer:  issuer,
		audit:   auditRecorder,
		journal: rec,
		started: time.Now(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, allowedOrigins []string) {
	r.POST("/get-wa-token", middleware.OriginCheck(allowedOrigins), h.GetToken)
	r.GET("/health", h.Health)
	r.GET("/journal", h.Journal)
}

type tokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// GetToken trades the posted identity claims for an upstream session
// token. On success the upstream body is passed through unmodified.
func (h *Handler) GetToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	role, err := token.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	claims := token.Claims{
		Email: req.Email,
		Name:  req.Name,
		Role:  role,
	}

	res, err := h.issuer.Issue(c.Request.Context(), claims)
	if err != nil {
		logger.Error("token issuance failed", map[string]any{
			"email": req.Email,
			"error": err.Error(),
		})
		h.record(c, req, audit.OutcomeFailure, err.Error())
		h.journal.Append("token issuance failed: "+err.Error(), journal.DirectionError)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch token",
			"error":   err.Error(),
		})
		return
	}

	h.record(c, req, audit.OutcomeSuccess, "")
	h.journal.Append("token issued for "+req.Email, journal.DirectionSent)
	c.Data(http.StatusOK, "application/json", res.Raw)
}

func (h *Handler) record(c *gin.Context, req tokenRequest, outcome audit.Outcome, detail string) {
	err := h.audit.Record(c.Request.Context(), audit.Issuance{
		RequestID: middleware.RequestIDFrom(c),
		Email:     req.Email,
		Role:      req.Role,
		Outcome:   outcome,
		Detail:    detail,
	})
	if err != nil {
		logger.Warn("audit record failed", map[string]any{
			"error": err.Error(),
		})
	}
}

// Journal exposes the observational exchange log. It carries no token
// values and no secrets.
func (h *Handler) Journal(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": h.journal.Entries()})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Seconds(),
	})
}
