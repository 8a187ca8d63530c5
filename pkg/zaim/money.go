package zaim

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Payment is an outgoing entry addressed by ids. FromAccountID, Comment,
// Name and Place are optional; zero values are left out of the request.
type Payment struct {
	Date          time.Time
	Amount        int64
	CategoryID    int64
	GenreID       int64
	FromAccountID int64
	Comment       string
	Name          string
	Place         string
}

// SimplePayment names its genre and account; the category follows from the
// genre.
type SimplePayment struct {
	Date        time.Time
	Amount      int64
	Genre       string
	FromAccount string
	Comment     string
	Name        string
	Place       string
}

type Income struct {
	Date        time.Time
	Amount      int64
	CategoryID  int64
	ToAccountID int64
	Comment     string
	Place       string
}

type SimpleIncome struct {
	Date      time.Time
	Amount    int64
	Category  string
	ToAccount string
	Comment   string
	Place     string
}

type Transfer struct {
	Date          time.Time
	Amount        int64
	FromAccountID int64
	ToAccountID   int64
	Comment       string
}

type SimpleTransfer struct {
	Date        time.Time
	Amount      int64
	FromAccount string
	ToAccount   string
	Comment     string
}

func entryForm(date time.Time, amount int64) url.Values {
	v := url.Values{}
	v.Set("mapping", "1")
	v.Set("amount", strconv.FormatInt(amount, 10))
	v.Set("date", date.Format(DateLayout))
	return v
}

func (p Payment) Form() url.Values {
	v := entryForm(p.Date, p.Amount)
	v.Set("category_id", strconv.FormatInt(p.CategoryID, 10))
	v.Set("genre_id", strconv.FormatInt(p.GenreID, 10))
	setID(v, "from_account_id", p.FromAccountID)
	setString(v, "comment", p.Comment)
	setString(v, "name", p.Name)
	setString(v, "place", p.Place)
	return v
}

func (i Income) Form() url.Values {
	v := entryForm(i.Date, i.Amount)
	v.Set("category_id", strconv.FormatInt(i.CategoryID, 10))
	setID(v, "to_account_id", i.ToAccountID)
	setString(v, "comment", i.Comment)
	setString(v, "place", i.Place)
	return v
}

func (t Transfer) Form() url.Values {
	v := entryForm(t.Date, t.Amount)
	v.Set("from_account_id", strconv.FormatInt(t.FromAccountID, 10))
	v.Set("to_account_id", strconv.FormatInt(t.ToAccountID, 10))
	setString(v, "comment", t.Comment)
	return v
}

// Resolve maps names to ids through the lookup tables.
func (p SimplePayment) Resolve(l *Lookup) (Payment, error) {
	genreID, err := l.GenreID(p.Genre)
	if err != nil {
		return Payment{}, err
	}
	categoryID, err := l.GenreCategory(genreID)
	if err != nil {
		return Payment{}, err
	}
	fromID, err := l.optionalAccountID(p.FromAccount)
	if err != nil {
		return Payment{}, err
	}
	return Payment{
		Date:          p.Date,
		Amount:        p.Amount,
		CategoryID:    categoryID,
		GenreID:       genreID,
		FromAccountID: fromID,
		Comment:       p.Comment,
		Name:          p.Name,
		Place:         p.Place,
	}, nil
}

func (i SimpleIncome) Resolve(l *Lookup) (Income, error) {
	categoryID, err := l.CategoryID(i.Category)
	if err != nil {
		return Income{}, err
	}
	toID, err := l.optionalAccountID(i.ToAccount)
	if err != nil {
		return Income{}, err
	}
	return Income{
		Date:        i.Date,
		Amount:      i.Amount,
		CategoryID:  categoryID,
		ToAccountID: toID,
		Comment:     i.Comment,
		Place:       i.Place,
	}, nil
}

func (t SimpleTransfer) Resolve(l *Lookup) (Transfer, error) {
	fromID, err := l.AccountID(t.FromAccount)
	if err != nil {
		return Transfer{}, err
	}
	toID, err := l.AccountID(t.ToAccount)
	if err != nil {
		return Transfer{}, err
	}
	return Transfer{
		Date:          t.Date,
		Amount:        t.Amount,
		FromAccountID: fromID,
		ToAccountID:   toID,
		Comment:       t.Comment,
	}, nil
}

func withID(form url.Values, id int64) url.Values {
	form.Set("id", strconv.FormatInt(id, 10))
	return form
}

func entryPath(base string, id int64) string {
	return fmt.Sprintf("%s/%d", base, id)
}

func (c *Client) InsertPayment(ctx context.Context, p Payment) (*Response, error) {
	return c.do(ctx, http.MethodPost, pathPayment, nil, p.Form())
}

func (c *Client) InsertPaymentSimple(ctx context.Context, p SimplePayment) (*Response, error) {
	resolved, err := p.Resolve(c.lookup)
	if err != nil {
		return nil, err
	}
	return c.InsertPayment(ctx, resolved)
}

func (c *Client) UpdatePayment(ctx context.Context, id int64, p Payment) (*Response, error) {
	return c.do(ctx, http.MethodPut, entryPath(pathPayment, id), nil, withID(p.Form(), id))
}

func (c *Client) UpdatePaymentSimple(ctx context.Context, id int64, p SimplePayment) (*Response, error) {
	resolved, err := p.Resolve(c.lookup)
	if err != nil {
		return nil, err
	}
	return c.UpdatePayment(ctx, id, resolved)
}

func (c *Client) DeletePayment(ctx context.Context, id int64) (*Response, error) {
	return c.do(ctx, http.MethodDelete, entryPath(pathPayment, id), nil, nil)
}

func (c *Client) InsertIncome(ctx context.Context, i Income) (*Response, error) {
	return c.do(ctx, http.MethodPost, pathIncome, nil, i.Form())
}

func (c *Client) InsertIncomeSimple(ctx context.Context, i SimpleIncome) (*Response, error) {
	resolved, err := i.Resolve(c.lookup)
	if err != nil {
		return nil, err
	}
	return c.InsertIncome(ctx, resolved)
}

func (c *Client) UpdateIncome(ctx context.Context, id int64, i Income) (*Response, error) {
	return c.do(ctx, http.MethodPut, entryPath(pathIncome, id), nil, withID(i.Form(), id))
}

func (c *Client) UpdateIncomeSimple(ctx context.Context, id int64, i SimpleIncome) (*Response, error) {
	resolved, err := i.Resolve(c.lookup)
	if err != nil {
		return nil, err
	}
	return c.UpdateIncome(ctx, id, resolved)
}

func (c *Client) DeleteIncome(ctx context.Context, id int64) (*Response, error) {
	return c.do(ctx, http.MethodDelete, entryPath(pathIncome, id), nil, nil)
}

func (c *Client) InsertTransfer(ctx context.Context, t Transfer) (*Response, error) {
	return c.do(ctx, http.MethodPost, pathTransfer, nil, t.Form())
}

func (c *Client) InsertTransferSimple(ctx context.Context, t SimpleTransfer) (*Response, error) {
	resolved, err := t.Resolve(c.lookup)
	if err != nil {
		return nil, err
	}
	return c.InsertTransfer(ctx, resolved)
}

func (c *Client) UpdateTransfer(ctx context.Context, id int64, t Transfer) (*Response, error) {
	return c.do(ctx, http.MethodPut, entryPath(pathTransfer, id), nil, withID(t.Form(), id))
}

func (c *Client) UpdateTransferSimple(ctx context.Context, id int64, t SimpleTransfer) (*Response, error) {
	resolved, err := t.Resolve(c.lookup)
	if err != nil {
		return nil, err
	}
	return c.UpdateTransfer(ctx, id, resolved)
}

func (c *Client) DeleteTransfer(ctx context.Context, id int64) (*Response, error) {
	return c.do(ctx, http.MethodDelete, entryPath(pathTransfer, id), nil, nil)
}
