package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/dto"
	"GO2GETHER_EXPENSES/internal/models"
	"GO2GETHER_EXPENSES/internal/service"
	"GO2GETHER_EXPENSES/internal/utils"
)

// ExpensesHandler manages expense-related endpoints
type ExpensesHandler struct {
	expenses *service.ExpenseService
}

// NewExpensesHandler creates a new ExpensesHandler
func NewExpensesHandler(expenses *service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{expenses: expenses}
}

// Expenses dispatches by HTTP method for /api/expenses
func (h *ExpensesHandler) Expenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.RecordExpense(w, r)
	case http.MethodPut, http.MethodPatch:
		h.UpdateExpense(w, r)
	case http.MethodDelete:
		h.DeleteExpense(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// RecordExpense handles POST /api/expenses
// @Summary Record a new expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param payload body dto.CreateExpenseRequest true "Expense payload"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/expenses [post]
func (h *ExpensesHandler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.CreateExpenseRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	tripID, err := uuid.Parse(req.Trip)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid trip id", "trip must be UUID")
		return
	}
	split, err := splitFromDTO(req.SplitDetails)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	in := service.ExpenseInput{
		TripID:      tripID,
		Amount:      req.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Split:       split,
		Notes:       req.Notes,
	}
	if req.ExpenseDate != "" {
		d, err := utils.ParseDate(req.ExpenseDate)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "expense_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
			return
		}
		in.ExpenseDate = d
	}

	expense, err := h.expenses.RecordExpense(r.Context(), userID, in)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, expenseToDTO(expense))
}

// UpdateExpense handles PUT/PATCH /api/expenses/{expense_id}
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense_id path string true "Expense ID"
// @Param payload body dto.UpdateExpenseRequest true "Update payload"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/expenses/{expense_id} [put]
func (h *ExpensesHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	expenseID, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/expenses/"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid expense id", "expense_id must be UUID")
		return
	}

	var req dto.UpdateExpenseRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	update := service.ExpenseUpdate{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Notes:       req.Notes,
	}
	if req.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*req.Currency))
		update.Currency = &c
	}
	if req.ExpenseDate != nil {
		d, err := utils.ParseDate(*req.ExpenseDate)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "expense_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
			return
		}
		update.ExpenseDate = &d
	}
	if req.SplitDetails != nil {
		split, err := splitFromDTO(*req.SplitDetails)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", err.Error())
			return
		}
		update.Split = &split
	}

	expense, err := h.expenses.EditExpense(r.Context(), userID, expenseID, update)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, expenseToDTO(expense))
}

// DeleteExpense handles DELETE /api/expenses/{expense_id}
// @Summary Delete an expense
// @Tags expenses
// @Produce json
// @Param expense_id path string true "Expense ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/expenses/{expense_id} [delete]
func (h *ExpensesHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	expenseID, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/expenses/"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid expense id", "expense_id must be UUID")
		return
	}

	if err := h.expenses.DeleteExpense(r.Context(), userID, expenseID); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

// TripExpenses handles GET /api/expenses/trip/{trip_id}
// @Summary List a trip's expenses
// @Tags expenses
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.TripExpensesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/expenses/trip/{trip_id} [get]
func (h *ExpensesHandler) TripExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	tripID, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/expenses/trip/"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid trip id", "trip_id must be UUID")
		return
	}

	trip, expenses, err := h.expenses.TripExpenses(r.Context(), userID, tripID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	items := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		items = append(items, expenseToDTO(&expenses[i]))
	}
	members := trip.MemberIDs()
	participants := make([]string, 0, len(members))
	for _, id := range members {
		participants = append(participants, id.String())
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.TripExpensesResponse{
		TripTitle:    trip.Title,
		Expenses:     items,
		Participants: participants,
	})
}

// TripBalances handles GET /api/expenses/trip/{trip_id}/balances
// @Summary Get a trip's balance sheet
// @Tags expenses
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.TripBalancesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/expenses/trip/{trip_id}/balances [get]
func (h *ExpensesHandler) TripBalances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/expenses/trip/"), "/balances")
	tripID, err := uuid.Parse(idStr)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid trip id", "trip_id must be UUID")
		return
	}

	trip, balances, err := h.expenses.TripBalances(r.Context(), userID, tripID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	entries := make([]dto.BalanceEntry, 0, len(balances))
	for _, b := range balances {
		entries = append(entries, dto.BalanceEntry{User: b.UserID.String(), Balance: b.Balance})
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.TripBalancesResponse{
		TripID:   tripID.String(),
		Currency: trip.Currency,
		Balances: entries,
	})
}

// Settle handles POST /api/expenses/trip/{trip_id}/settle
// @Summary Settle the caller's debt on a trip
// @Tags expenses
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/expenses/trip/{trip_id}/settle [post]
func (h *ExpensesHandler) Settle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/expenses/trip/"), "/settle")
	tripID, err := uuid.Parse(idStr)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid trip id", "trip_id must be UUID")
		return
	}

	expense, err := h.expenses.Settle(r.Context(), userID, tripID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, expenseToDTO(expense))
}

// MyBalances handles GET /api/expenses/mybalances
// @Summary Get the caller's balance on every trip they belong to
// @Tags expenses
// @Produce json
// @Success 200 {array} dto.MyBalanceItem
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/expenses/mybalances [get]
func (h *ExpensesHandler) MyBalances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	summaries, err := h.expenses.MyBalances(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	items := make([]dto.MyBalanceItem, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, dto.MyBalanceItem{
			TripID:    s.TripID.String(),
			TripTitle: s.TripTitle,
			Balance:   s.Balance,
			Currency:  s.Currency,
		})
	}
	utils.WriteJSONResponse(w, http.StatusOK, items)
}

// TripSubroutes dispatches /api/expenses/trip/{trip_id}[/balances|/settle]
func (h *ExpensesHandler) TripSubroutes(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/balances"):
		h.TripBalances(w, r)
	case strings.HasSuffix(r.URL.Path, "/settle"):
		h.Settle(w, r)
	default:
		h.TripExpenses(w, r)
	}
}

func splitFromDTO(d dto.SplitDetails) (models.SplitDetails, error) {
	split := models.SplitDetails{Type: models.SplitType(d.Type)}
	for _, p := range d.Participants {
		userID, err := uuid.Parse(p.User)
		if err != nil {
			return models.SplitDetails{}, err
		}
		split.Participants = append(split.Participants, models.SplitShare{
			UserID:     userID,
			AmountOwed: p.AmountOwed,
		})
	}
	return split, nil
}

func expenseToDTO(e *models.Expense) dto.ExpenseResponse {
	split := dto.SplitDetails{Type: string(e.Split.Type)}
	for _, p := range e.Split.Participants {
		split.Participants = append(split.Participants, dto.SplitShare{
			User:       p.UserID.String(),
			AmountOwed: p.AmountOwed,
		})
	}
	return dto.ExpenseResponse{
		ID:           e.ID.String(),
		Trip:         e.TripID.String(),
		Payer:        e.PayerID.String(),
		Amount:       e.Amount,
		Currency:     e.Currency,
		Description:  e.Description,
		Category:     e.Category,
		ExpenseDate:  utils.FormatDate(e.ExpenseDate),
		SplitDetails: split,
		Notes:        e.Notes,
		CreatedAt:    utils.FormatTimestamp(e.CreatedAt),
		UpdatedAt:    utils.FormatTimestamp(e.UpdatedAt),
	}
}
