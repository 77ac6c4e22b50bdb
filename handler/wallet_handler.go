package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/affiliate_network/model"
	"github.com/affiliate_network/repository"
	"github.com/affiliate_network/service"
	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	svc          *service.WalletService
	transactions *repository.TransactionRepository
	payouts      *repository.PayoutRepository
}

func NewWalletHandler(svc *service.WalletService,
	transactions *repository.TransactionRepository,
	payouts *repository.PayoutRepository) *WalletHandler {
	return &WalletHandler{svc: svc, transactions: transactions, payouts: payouts}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyActive):
		return http.StatusConflict
	case errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidWallet):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GET /api/v1/wallet/balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Query("memberId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid memberId"})
		return
	}
	main, fee, stake, err := h.svc.Balances(c, memberID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mainWallet":  main,
		"feeWallet":   fee,
		"stakeWallet": stake,
	})
}

// GET /api/v1/wallet/history
func (h *WalletHandler) GetHistory(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Query("memberId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid memberId"})
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, total, err := h.transactions.ListByMember(c, memberID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	type row struct {
		*model.Transaction
		Reason string `json:"reason"`
	}
	rows := make([]row, 0, len(list))
	for _, t := range list {
		rows = append(rows, row{Transaction: t, Reason: t.Describe()})
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "records": rows})
}

// GET /api/v1/wallet/payouts
func (h *WalletHandler) GetPayouts(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Query("memberId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid memberId"})
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, total, err := h.payouts.ListByMember(c, memberID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "records": list})
}

type transferRequest struct {
	MemberID uint64  `json:"member_id" binding:"required"`
	From     string  `json:"from" binding:"required"`
	To       string  `json:"to" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Note     string  `json:"note"`
}

// POST /api/v1/wallet/transfer
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.Transfer(c, req.MemberID, model.Wallet(req.From), model.Wallet(req.To), req.Amount, req.Note); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	main, fee, stake, err := h.svc.Balances(c, req.MemberID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mainWallet":  main,
		"feeWallet":   fee,
		"stakeWallet": stake,
	})
}
