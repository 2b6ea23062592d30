package ledger

import (
	"context"

	"github.com/presupuesto/budget_backend/config"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/utils"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Per-transaction summed amount over lines whose envelope is currently
// active. The active-envelope restriction is a display-time filter: it
// never touches stored line data, it only shapes this projection.
const lineSumExpr = "(SELECT COALESCE(SUM(tl.amount), 0) FROM transaction_lines tl JOIN envelopes e ON e.id = tl.envelope_id AND e.is_active = 1 WHERE tl.transaction_id = transactions.id)"

// ListTransactions is a read-only projection over the ledger with
// paging meta. Lines whose envelope has since been deactivated are
// excluded from both the embedded line sets and the summed amount used
// for filtering and sorting.
func (l *Ledger) ListTransactions(ctx context.Context, filter *models.TransactionFilter) (*models.TransactionsPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	dbCtx := l.db.WithContext(ctx).Model(&models.Transaction{})

	if filter.UserId != nil {
		dbCtx = dbCtx.Where("transactions.user_id = ?", *filter.UserId)
	}
	if filter.From != nil && *filter.From != "" {
		from, err := utils.ParseDateString(*filter.From)
		if err != nil {
			return nil, utils.ValidationError("invalid from date %q", *filter.From)
		}
		dbCtx = dbCtx.Where("transactions.date >= ?", from)
	}
	if filter.To != nil && *filter.To != "" {
		to, err := utils.ParseDateString(*filter.To)
		if err != nil {
			return nil, utils.ValidationError("invalid to date %q", *filter.To)
		}
		dbCtx = dbCtx.Where("transactions.date <= ?", to)
	}
	if filter.AccountId != nil {
		dbCtx = dbCtx.Where("EXISTS (SELECT 1 FROM transaction_lines tl WHERE tl.transaction_id = transactions.id AND tl.account_id = ?)", *filter.AccountId)
	}
	if filter.CategoryId != nil {
		dbCtx = dbCtx.Where("EXISTS (SELECT 1 FROM transaction_lines tl JOIN envelopes e ON e.id = tl.envelope_id WHERE tl.transaction_id = transactions.id AND e.category_id = ?)", *filter.CategoryId)
	}
	if filter.Q != nil && *filter.Q != "" {
		dbCtx = dbCtx.Where("transactions.description LIKE ?", "%"+*filter.Q+"%")
	}
	if filter.Type != nil {
		if !filter.Type.Valid() {
			return nil, utils.ValidationError("invalid transaction type %q", *filter.Type)
		}
		dbCtx = dbCtx.Where("transactions.type = ?", *filter.Type)
	}
	// Decimal parameters bind as TEXT; CAST keeps the comparison against
	// the summed amount numeric on both MySQL and SQLite.
	if filter.MinAmount != nil {
		dbCtx = dbCtx.Where(lineSumExpr+" >= CAST(? AS DECIMAL(20,4))", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		dbCtx = dbCtx.Where(lineSumExpr+" <= CAST(? AS DECIMAL(20,4))", *filter.MaxAmount)
	}

	var totalItems int64
	if err := dbCtx.Session(&gorm.Session{}).Count(&totalItems).Error; err != nil {
		config.LogError(l.logger, "list.go", "ListTransactions", "counting transactions", filter, err)
		return nil, utils.InternalError(err)
	}

	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}
	switch filter.SortBy {
	case models.TransactionSortAmount:
		dbCtx = dbCtx.Order(lineSumExpr + " " + direction + ", transactions.id " + direction)
	case models.TransactionSortCreatedAt:
		dbCtx = dbCtx.Order("transactions.created_at " + direction + ", transactions.id " + direction)
	default:
		dbCtx = dbCtx.Order("transactions.date " + direction + ", transactions.id " + direction)
	}

	var results []*models.Transaction
	err := dbCtx.
		Preload("Lines", "envelope_id IN (SELECT id FROM envelopes WHERE is_active = 1)").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&results).Error
	if err != nil {
		config.LogError(l.logger, "list.go", "ListTransactions", "querying transactions", filter, err)
		return nil, utils.InternalError(err)
	}

	data := make([]*models.TransactionListItem, 0, len(results))
	for _, result := range results {
		data = append(data, &models.TransactionListItem{
			Transaction: *result,
			Amount:      result.SumLines(),
		})
	}

	return &models.TransactionsPage{
		Data: data,
		Meta: models.NewPageMeta(page, pageSize, totalItems),
	}, nil
}
