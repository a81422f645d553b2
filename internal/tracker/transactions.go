package tracker

import (
	"context"
	"slices"

	"github.com/Veraticus/smartspend/internal/derive"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/storage"
)

// TransactionInput is the editable part of a transaction.
type TransactionInput struct {
	CategoryID string
	Date       string
	Note       string
	Amount     float64
}

func (c *Controller) validateTransaction(in TransactionInput) (TransactionInput, error) {
	if err := requireNonNegative("amount", in.Amount); err != nil {
		return in, err
	}
	cat, err := requireText("category", in.CategoryID)
	if err != nil {
		return in, err
	}
	date, err := requireDate("date", in.Date, c.loc)
	if err != nil {
		return in, err
	}
	in.CategoryID = cat
	in.Date = date
	return in, nil
}

// AddTransaction records a new expense and returns it.
func (c *Controller) AddTransaction(ctx context.Context, in TransactionInput) (model.Transaction, error) {
	in, err := c.validateTransaction(in)
	if err != nil {
		return model.Transaction{}, err
	}

	t := model.Transaction{
		ID:         model.NewID(),
		Amount:     in.Amount,
		CategoryID: in.CategoryID,
		Date:       in.Date,
		Note:       in.Note,
		CreatedAt:  c.now().UnixMilli(),
	}
	c.snap.Transactions = append(c.snap.Transactions, t)
	return t, c.commit(ctx, storage.KeyTransactions)
}

// UpdateTransaction replaces the editable fields of transaction id.
func (c *Controller) UpdateTransaction(ctx context.Context, id string, in TransactionInput) error {
	in, err := c.validateTransaction(in)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(c.snap.Transactions, func(t model.Transaction) bool { return t.ID == id })
	if i < 0 {
		return notFound("transaction", id)
	}

	t := &c.snap.Transactions[i]
	t.Amount = in.Amount
	t.CategoryID = in.CategoryID
	t.Date = in.Date
	t.Note = in.Note
	return c.commit(ctx, storage.KeyTransactions)
}

// DeleteTransaction removes transaction id.
func (c *Controller) DeleteTransaction(ctx context.Context, id string) error {
	n := len(c.snap.Transactions)
	c.snap.Transactions = slices.DeleteFunc(c.snap.Transactions, func(t model.Transaction) bool { return t.ID == id })
	if len(c.snap.Transactions) == n {
		return notFound("transaction", id)
	}
	return c.commit(ctx, storage.KeyTransactions)
}

// ImportTransactions validates every input, then adds them all with a
// single write. Nothing is added when any input is invalid.
func (c *Controller) ImportTransactions(ctx context.Context, ins []TransactionInput) ([]model.Transaction, error) {
	if len(ins) == 0 {
		return nil, nil
	}

	now := c.now().UnixMilli()
	added := make([]model.Transaction, 0, len(ins))
	for _, in := range ins {
		in, err := c.validateTransaction(in)
		if err != nil {
			return nil, err
		}
		added = append(added, model.Transaction{
			ID:         model.NewID(),
			Amount:     in.Amount,
			CategoryID: in.CategoryID,
			Date:       in.Date,
			Note:       in.Note,
			CreatedAt:  now,
		})
	}

	c.snap.Transactions = append(c.snap.Transactions, added...)
	return added, c.commit(ctx, storage.KeyTransactions)
}

// PreviewBulkDelete resolves the range around anchor and counts the
// transactions it would remove.
func (c *Controller) PreviewBulkDelete(scope derive.BulkScope, anchor string) (derive.BulkRange, int, error) {
	r, err := derive.BulkRangeFor(scope, anchor)
	if err != nil {
		return derive.BulkRange{}, 0, invalid("anchor", err.Error())
	}
	return r, derive.CountMatches(c.snap.Transactions, r), nil
}

// BulkDelete removes every transaction in the range around anchor and
// returns how many went. An empty range writes nothing.
func (c *Controller) BulkDelete(ctx context.Context, scope derive.BulkScope, anchor string) (int, error) {
	r, count, err := c.PreviewBulkDelete(scope, anchor)
	if err != nil || count == 0 {
		return 0, err
	}
	c.snap.Transactions = slices.DeleteFunc(c.snap.Transactions, r.Matches)
	c.logger.Info("Bulk deleted transactions", "range", r.String(), "count", count)
	return count, c.commit(ctx, storage.KeyTransactions)
}
