package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/altpay/wallet/internal/adapters/http/common"
	"github.com/altpay/wallet/internal/adapters/http/middleware"
	"github.com/altpay/wallet/internal/application/dtos"
)

// ============================================
// Use Case Interfaces
// ============================================

// CreateWalletUseCase provisions a wallet for a user.
type CreateWalletUseCase interface {
	Execute(ctx context.Context, cmd dtos.CreateWalletCommand) (*dtos.WalletDTO, error)
}

// DepositFundsUseCase credits a wallet.
type DepositFundsUseCase interface {
	Execute(ctx context.Context, cmd dtos.DepositFundsCommand) error
}

// TransferFundsUseCase moves funds between wallets.
type TransferFundsUseCase interface {
	Execute(ctx context.Context, cmd dtos.TransferFundsCommand) error
}

// GetBalanceUseCase reads a wallet balance.
type GetBalanceUseCase interface {
	Execute(ctx context.Context, query dtos.GetBalanceQuery) (*dtos.WalletDTO, error)
}

// ============================================
// Wallet Handler
// ============================================

// WalletHandler serves the wallet routes.
type WalletHandler struct {
	createWallet  CreateWalletUseCase
	depositFunds  DepositFundsUseCase
	transferFunds TransferFundsUseCase
	getBalance    GetBalanceUseCase
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(
	createWallet CreateWalletUseCase,
	depositFunds DepositFundsUseCase,
	transferFunds TransferFundsUseCase,
	getBalance GetBalanceUseCase,
) *WalletHandler {
	return &WalletHandler{
		createWallet:  createWallet,
		depositFunds:  depositFunds,
		transferFunds: transferFunds,
		getBalance:    getBalance,
	}
}

// ============================================
// Request DTOs
// ============================================

// CreateWalletRequest is the create-wallet body.
type CreateWalletRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// AmountWithNonceRequest is the body shared by deposit and transfer.
type AmountWithNonceRequest struct {
	Amount string `json:"amount" binding:"required,money_amount"`
	Nonce  string `json:"nonce" binding:"required,tx_nonce"`
}

// WalletIDParam binds the wallet id path segment.
type WalletIDParam struct {
	WalletID string `uri:"wallet_id" binding:"required"`
}

// TransferParams binds both wallet ids of a transfer.
type TransferParams struct {
	SourceWalletID string `uri:"wallet_id" binding:"required"`
	TargetWalletID string `uri:"target_wallet_id" binding:"required"`
}

// ============================================
// HTTP Handlers
// ============================================

// CreateWallet handles POST /wallets/.
//
// Returns 200 with the new wallet, or 409 when the user already owns
// one.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.createWallet.Execute(c.Request.Context(), dtos.CreateWalletCommand{
		UserID: req.UserID,
	})
	if err != nil {
		middleware.RecordWalletOperation("create", "error")
		common.HandleDomainError(c, err)
		return
	}

	middleware.RecordWalletOperation("create", "ok")
	c.JSON(http.StatusOK, result)
}

// GetBalance handles GET /wallets/:wallet_id/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	var params WalletIDParam
	if !BindURI(c, &params) {
		return
	}

	result, err := h.getBalance.Execute(c.Request.Context(), dtos.GetBalanceQuery{
		WalletID: params.WalletID,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Deposit handles PUT /wallets/:wallet_id/deposit.
//
// Returns 204 on success. A nonce replay returns 409 with the nonce in
// the error detail.
func (h *WalletHandler) Deposit(c *gin.Context) {
	var params WalletIDParam
	if !BindURI(c, &params) {
		return
	}

	var req AmountWithNonceRequest
	if !BindJSON(c, &req) {
		return
	}

	err := h.depositFunds.Execute(c.Request.Context(), dtos.DepositFundsCommand{
		WalletID: params.WalletID,
		Amount:   req.Amount,
		Nonce:    req.Nonce,
	})
	if err != nil {
		middleware.RecordWalletOperation("deposit", "error")
		common.HandleDomainError(c, err)
		return
	}

	middleware.RecordWalletOperation("deposit", "ok")
	c.Status(http.StatusNoContent)
}

// Transfer handles PUT /wallets/:wallet_id/transfer/:target_wallet_id.
//
// Returns 204 on success, 409 on a short balance or a nonce replay,
// 404 when the target wallet is missing.
func (h *WalletHandler) Transfer(c *gin.Context) {
	var params TransferParams
	if !BindURI(c, &params) {
		return
	}

	var req AmountWithNonceRequest
	if !BindJSON(c, &req) {
		return
	}

	err := h.transferFunds.Execute(c.Request.Context(), dtos.TransferFundsCommand{
		SourceWalletID: params.SourceWalletID,
		TargetWalletID: params.TargetWalletID,
		Amount:         req.Amount,
		Nonce:          req.Nonce,
	})
	if err != nil {
		middleware.RecordWalletOperation("transfer", "error")
		common.HandleDomainError(c, err)
		return
	}

	middleware.RecordWalletOperation("transfer", "ok")
	c.Status(http.StatusNoContent)
}
