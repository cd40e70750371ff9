package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/observability/metrics"
	"github.com/bernardokeke/fleetlease/internal/queue"
	"github.com/bernardokeke/fleetlease/internal/repository"
	"github.com/bernardokeke/fleetlease/internal/utils"
)

// PaymentHandler applies payments against contract balances. The
// payment insert and the contract update are two separate writes with a
// fixed ordering (payment first on add, contract first on cancel); a
// failure between them leaves state inconsistent. Kept as-is, see
// DESIGN.md.
type PaymentHandler struct {
	Payments  PaymentStore
	Contracts ContractStore
	Clients   ClientStore
	Vehicles  VehicleStore

	// Publish relays the recorded payment to the broker; nil skips it.
	// Failures never fail the request.
	Publish func(ctx context.Context, ev queue.PaymentRecordedEvent) error
}

func NewPaymentHandler(ps PaymentStore, cs ContractStore, cls ClientStore, vs VehicleStore,
	publish func(ctx context.Context, ev queue.PaymentRecordedEvent) error) *PaymentHandler {
	return &PaymentHandler{Payments: ps, Contracts: cs, Clients: cls, Vehicles: vs, Publish: publish}
}

type addPaymentReq struct {
	ContractID  string          `json:"contractId"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentRef  string          `json:"paymentRef"`
	PaymentMode string          `json:"paymentMode"`
	Remark      string          `json:"remark"`
}

// Add records a payment. The contract must carry a pending balance and
// the amount must not exceed it; the new balance is clamped at zero and
// the contract flips to COMPLETED when it reaches zero.
func (h *PaymentHandler) Add(c echo.Context) error {
	var req addPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("invalid body"))
	}
	if req.ContractID == "" {
		return c.JSON(http.StatusBadRequest, model.Fail("contractId is required"))
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return c.JSON(http.StatusBadRequest, model.Fail("Invalid amount"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	contract, err := h.Contracts.FindByCUID(ctx, req.ContractID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ObservePayment("contract_not_found")
			return c.JSON(http.StatusNotFound, model.Fail("Contract not found"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	if contract.Balance.LessThanOrEqual(decimal.Zero) {
		metrics.ObservePayment("no_pending_balance")
		return c.JSON(http.StatusBadRequest, model.Fail("Contract does not have pending balance"))
	}
	if req.Amount.GreaterThan(contract.Balance) {
		metrics.ObservePayment("amount_exceeds_balance")
		return c.JSON(http.StatusBadRequest, model.Fail("Amount greater than current balance"))
	}

	newBalance := contract.Balance.Sub(req.Amount)
	if newBalance.IsNegative() {
		newBalance = decimal.Zero
	}
	newStatus := model.StatusActive
	if newBalance.LessThanOrEqual(decimal.Zero) {
		newStatus = model.StatusCompleted
	}

	by := actor(c)
	p := &model.Payment{
		PUID:         utils.NewRef("pay"),
		Code:         utils.NewCode(),
		ContractID:   contract.CUID,
		ContractCode: contract.Code,
		ClientID:     contract.Client.ID,
		ClientName:   contract.Client.Name,
		VehicleID:    contract.Vehicle.ID,
		PaymentRef:   req.PaymentRef,
		PaymentMode:  req.PaymentMode,
		Remark:       req.Remark,
		Amount:       req.Amount,
		Status:       model.StatusSuccessful,
		CreatedBy:    by.Name,
		CreatedByID:  by.UUID,
	}
	if err := h.Payments.Create(ctx, p); err != nil {
		metrics.ObservePayment("error")
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	amt := req.Amount
	entry := model.UpdateEntry{
		ActionType: "PAYMENT",
		PaymentID:  p.PUID,
		PaymentRef: p.PaymentRef,
		Amount:     &amt,
		ActionDate: time.Now().UTC(),
		ActionBy:   by.Name,
		ActionByID: by.UUID,
	}
	if err := h.Contracts.ApplyPayment(ctx, contract.CUID, newBalance, newStatus, by.Name, by.UUID, entry); err != nil {
		metrics.ObservePayment("error")
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	metrics.ObservePayment("recorded")

	h.publishEvent(c, p, contract, newBalance, newStatus, by)

	return c.JSON(http.StatusCreated, model.Success(echo.Map{
		"payment": p,
		"balance": newBalance,
		"status":  newStatus,
	}))
}

// Cancel reverses a payment: the contract balance is restored first,
// then the payment row is hard-deleted. There is no soft-cancel state.
func (h *PaymentHandler) Cancel(c echo.Context) error {
	puid := c.Param("puid")

	ctx, cancel := storeCtx(c)
	defer cancel()

	p, err := h.Payments.FindByPUID(ctx, puid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail("Payment not found"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	contract, err := h.Contracts.FindByCUID(ctx, p.ContractID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail("Contract not found"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	newBalance := contract.Balance.Add(p.Amount)
	if newBalance.IsNegative() {
		newBalance = decimal.Zero
	}
	newStatus := model.StatusActive
	if newBalance.LessThanOrEqual(decimal.Zero) {
		newStatus = model.StatusCompleted
	}

	by := actor(c)
	amt := p.Amount
	entry := model.UpdateEntry{
		ActionType: "CANCEL",
		PaymentID:  p.PUID,
		PaymentRef: p.PaymentRef,
		Amount:     &amt,
		ActionDate: time.Now().UTC(),
		ActionBy:   by.Name,
		ActionByID: by.UUID,
	}
	if err := h.Contracts.ApplyPayment(ctx, contract.CUID, newBalance, newStatus, by.Name, by.UUID, entry); err != nil {
		metrics.ObservePayment("cancel_error")
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	if err := h.Payments.Delete(ctx, puid); err != nil {
		metrics.ObservePayment("cancel_error")
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	metrics.ObservePayment("cancelled")

	return c.JSON(http.StatusOK, model.Success(echo.Map{
		"balance": newBalance,
		"status":  newStatus,
	}))
}

// Detail returns one payment by external id.
func (h *PaymentHandler) Detail(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	p, err := h.Payments.FindByPUID(ctx, c.Param("puid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail("Payment not found"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(p))
}

// List returns one page of payments.
func (h *PaymentHandler) List(c echo.Context) error {
	page := pageParam(c)

	ctx, cancel := storeCtx(c)
	defer cancel()

	payments, total, err := h.Payments.List(ctx, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(model.NewPage(payments, len(payments), page, total)))
}

// Search matches q against the text columns of the payments table.
func (h *PaymentHandler) Search(c echo.Context) error {
	page := pageParam(c)

	ctx, cancel := storeCtx(c)
	defer cancel()

	payments, total, err := h.Payments.Search(ctx, c.QueryParam("q"), page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(model.NewPage(payments, len(payments), page, total)))
}

// publishEvent relays the recorded payment to the broker, best effort.
// The client phone number is resolved fresh so the receipt reaches the
// current number rather than the contract snapshot.
func (h *PaymentHandler) publishEvent(c echo.Context, p *model.Payment, contract *model.Contract,
	balance decimal.Decimal, status string, by *model.User) {
	if h.Publish == nil {
		return
	}
	phone := contract.Client.PhoneNumber
	ctx, cancel := storeCtx(c)
	defer cancel()
	if cl, err := h.Clients.FindByCUID(ctx, contract.Client.ID); err == nil {
		phone = cl.PhoneNumber
	}
	ev := queue.PaymentRecordedEvent{
		PaymentID:      p.PUID,
		PaymentRef:     p.PaymentRef,
		ContractID:     contract.CUID,
		ContractCode:   contract.Code,
		ClientID:       contract.Client.ID,
		ClientName:     contract.Client.Name,
		ClientPhone:    phone,
		VehiclePlate:   contract.Vehicle.PlateNumber,
		Amount:         p.Amount.StringFixed(2),
		Balance:        balance.StringFixed(2),
		ContractStatus: status,
		RecordedBy:     by.Name,
		RecordedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	// the goroutine outlives the request; echo recycles the context, so
	// the logger must be captured before the handler returns
	logger := c.Logger()
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		if err := h.Publish(pctx, ev); err != nil {
			logger.Warnf("payment event publish failed for %s: %v", p.PUID, err)
		}
	}()
}
