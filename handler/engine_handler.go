package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/affiliate_network/model"
	"github.com/affiliate_network/service"
	"github.com/gin-gonic/gin"
)

type EngineHandler struct {
	roi        *service.RoiService
	payout     *service.PayoutService
	activation *service.ActivationService
	wallet     *service.WalletService
}

func NewEngineHandler(roi *service.RoiService,
	payout *service.PayoutService,
	activation *service.ActivationService,
	wallet *service.WalletService) *EngineHandler {
	return &EngineHandler{roi: roi, payout: payout, activation: activation, wallet: wallet}
}

// POST /api/v1/admin/run-daily-returns
func (h *EngineHandler) RunDailyReturns(c *gin.Context) {
	res, err := h.roi.Run(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/v1/admin/run-payout-cycle
func (h *EngineHandler) RunPayoutCycle(c *gin.Context) {
	res, err := h.payout.RunCycle(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

type activateRequest struct {
	Wallet string `json:"wallet"`
}

// POST /api/v1/member/:id/activate
func (h *EngineHandler) Activate(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}
	var req activateRequest
	// body is optional: default to the fee wallet
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wallet := model.Wallet(req.Wallet)
	if req.Wallet == "" {
		wallet = model.WalletFee
	}
	res, err := h.activation.Activate(c, memberID, wallet)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

type adminCreditRequest struct {
	MemberID uint64  `json:"member_id" binding:"required"`
	Wallet   string  `json:"wallet" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Note     string  `json:"note"`
}

// POST /api/v1/admin/credit
// Manual adjustment path for operators; lands in the ledger like any other
// movement.
func (h *EngineHandler) AdminCredit(c *gin.Context) {
	var req adminCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	meta := model.TxMeta{ToWallet: model.Wallet(req.Wallet), Note: req.Note}
	entry, err := h.wallet.Credit(c, req.MemberID, model.Wallet(req.Wallet), req.Amount, model.TxWalletTransfer, meta)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reference": entry.Reference, "amount": entry.Amount})
}
