package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/affiliate_network/model"
	"github.com/affiliate_network/repository"
	"github.com/affiliate_network/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MemberHandler struct {
	members *repository.MemberRepository
	network *service.NetworkService
}

func NewMemberHandler(members *repository.MemberRepository, network *service.NetworkService) *MemberHandler {
	return &MemberHandler{members: members, network: network}
}

type registerRequest struct {
	Name      string  `json:"name" binding:"required"`
	SponsorID *uint64 `json:"sponsor_id"`
	ParentID  *uint64 `json:"parent_id"`
	Leg       string  `json:"leg"` // "left" or "right", required with parent_id
}

// POST /api/v1/member/register
// Creates an inactive member and wires its placement once. The engine never
// rewrites these pointers afterwards.
func (h *MemberHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	leftLeg := strings.EqualFold(req.Leg, "left")
	if req.ParentID != nil && !leftLeg && !strings.EqualFold(req.Leg, "right") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "leg must be left or right"})
		return
	}

	m := &model.Member{
		Name:         req.Name,
		ReferralCode: uuid.NewString()[:8],
		SponsorID:    req.SponsorID,
		Level:        model.LevelEntry,
	}
	if err := h.members.Create(m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if req.ParentID != nil {
		if err := h.members.AttachChild(*req.ParentID, m.ID, leftLeg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.SponsorID != nil {
		if err := h.members.BumpDirects(*req.SponsorID, leftLeg); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusCreated, m)
}

// GET /api/v1/member/:id
func (h *MemberHandler) Get(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}
	m, err := h.members.FindByID(memberID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	left, right := h.network.LegSizes(m)
	c.JSON(http.StatusOK, gin.H{
		"member":    m,
		"leftSize":  left,
		"rightSize": right,
	})
}
