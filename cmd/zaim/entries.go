package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yurifrl/gozaim/pkg/zaim"
)

var errMixedFlags = errors.New("name flags (--genre, --category, --from, --to) cannot be combined with id flags")

// entryFlags holds the fields of one ledger entry. Name flags select the
// name-based API calls; otherwise the id flags are sent as given.
type entryFlags struct {
	date    string
	amount  int64
	comment string
	name    string
	place   string

	genre    string
	category string
	from     string
	to       string

	genreID    int64
	categoryID int64
	fromID     int64
	toID       int64
}

func (f *entryFlags) register(cmd *cobra.Command, kind string) {
	fs := cmd.Flags()
	fs.StringVar(&f.date, "date", "", "Entry date (YYYY-MM-DD, default today)")
	fs.Int64Var(&f.amount, "amount", 0, "Amount")
	fs.StringVar(&f.comment, "comment", "", "Comment")

	switch kind {
	case "payment":
		fs.StringVar(&f.name, "name", "", "Item name")
		fs.StringVar(&f.place, "place", "", "Shop or place")
		fs.StringVar(&f.genre, "genre", "", "Genre name")
		fs.StringVar(&f.from, "from", "", "Source account name")
		fs.Int64Var(&f.genreID, "genre-id", 0, "Genre id")
		fs.Int64Var(&f.categoryID, "category-id", 0, "Category id")
		fs.Int64Var(&f.fromID, "from-id", 0, "Source account id")
	case "income":
		fs.StringVar(&f.place, "place", "", "Payer or place")
		fs.StringVar(&f.category, "category", "", "Category name")
		fs.StringVar(&f.to, "to", "", "Destination account name")
		fs.Int64Var(&f.categoryID, "category-id", 0, "Category id")
		fs.Int64Var(&f.toID, "to-id", 0, "Destination account id")
	case "transfer":
		fs.StringVar(&f.from, "from", "", "Source account name")
		fs.StringVar(&f.to, "to", "", "Destination account name")
		fs.Int64Var(&f.fromID, "from-id", 0, "Source account id")
		fs.Int64Var(&f.toID, "to-id", 0, "Destination account id")
	}

	for _, pair := range [][2]string{{"genre", "genre-id"}, {"category", "category-id"}, {"from", "from-id"}, {"to", "to-id"}} {
		if fs.Lookup(pair[0]) != nil && fs.Lookup(pair[1]) != nil {
			cmd.MarkFlagsMutuallyExclusive(pair[0], pair[1])
		}
	}
}

// byName reports whether the entry is addressed by names. Names and ids
// cannot be mixed in one entry.
func (f *entryFlags) byName() (bool, error) {
	names := f.genre != "" || f.category != "" || f.from != "" || f.to != ""
	ids := f.genreID != 0 || f.categoryID != 0 || f.fromID != 0 || f.toID != 0
	if names && ids {
		return false, errMixedFlags
	}
	return names, nil
}

func (f *entryFlags) entryDate() (time.Time, error) {
	if f.date == "" {
		return time.Now(), nil
	}
	return parseOptionalDate(f.date)
}

func (f *entryFlags) payment(ctx context.Context, c *zaim.Client, id int64) (*zaim.Response, error) {
	date, err := f.entryDate()
	if err != nil {
		return nil, err
	}
	byName, err := f.byName()
	if err != nil {
		return nil, err
	}
	if byName {
		p := zaim.SimplePayment{Date: date, Amount: f.amount, Genre: f.genre, FromAccount: f.from, Comment: f.comment, Name: f.name, Place: f.place}
		if id == 0 {
			return c.InsertPaymentSimple(ctx, p)
		}
		return c.UpdatePaymentSimple(ctx, id, p)
	}
	p := zaim.Payment{Date: date, Amount: f.amount, CategoryID: f.categoryID, GenreID: f.genreID, FromAccountID: f.fromID, Comment: f.comment, Name: f.name, Place: f.place}
	if id == 0 {
		return c.InsertPayment(ctx, p)
	}
	return c.UpdatePayment(ctx, id, p)
}

func (f *entryFlags) income(ctx context.Context, c *zaim.Client, id int64) (*zaim.Response, error) {
	date, err := f.entryDate()
	if err != nil {
		return nil, err
	}
	byName, err := f.byName()
	if err != nil {
		return nil, err
	}
	if byName {
		i := zaim.SimpleIncome{Date: date, Amount: f.amount, Category: f.category, ToAccount: f.to, Comment: f.comment, Place: f.place}
		if id == 0 {
			return c.InsertIncomeSimple(ctx, i)
		}
		return c.UpdateIncomeSimple(ctx, id, i)
	}
	i := zaim.Income{Date: date, Amount: f.amount, CategoryID: f.categoryID, ToAccountID: f.toID, Comment: f.comment, Place: f.place}
	if id == 0 {
		return c.InsertIncome(ctx, i)
	}
	return c.UpdateIncome(ctx, id, i)
}

func (f *entryFlags) transfer(ctx context.Context, c *zaim.Client, id int64) (*zaim.Response, error) {
	date, err := f.entryDate()
	if err != nil {
		return nil, err
	}
	byName, err := f.byName()
	if err != nil {
		return nil, err
	}
	if byName {
		t := zaim.SimpleTransfer{Date: date, Amount: f.amount, FromAccount: f.from, ToAccount: f.to, Comment: f.comment}
		if id == 0 {
			return c.InsertTransferSimple(ctx, t)
		}
		return c.UpdateTransferSimple(ctx, id, t)
	}
	t := zaim.Transfer{Date: date, Amount: f.amount, FromAccountID: f.fromID, ToAccountID: f.toID, Comment: f.comment}
	if id == 0 {
		return c.InsertTransfer(ctx, t)
	}
	return c.UpdateTransfer(ctx, id, t)
}

type entryKind struct {
	name   string
	write  func(*entryFlags, context.Context, *zaim.Client, int64) (*zaim.Response, error)
	remove func(*zaim.Client, context.Context, int64) (*zaim.Response, error)
}

var entryKinds = []entryKind{
	{"payment", (*entryFlags).payment, (*zaim.Client).DeletePayment},
	{"income", (*entryFlags).income, (*zaim.Client).DeleteIncome},
	{"transfer", (*entryFlags).transfer, (*zaim.Client).DeleteTransfer},
}

func reportEntry(kind, action string, resp *zaim.Response) {
	id, err := resp.EntryID()
	if err != nil || id == 0 {
		logger.Info(kind+" "+action, "status", resp.StatusCode)
		return
	}
	logger.Info(kind+" "+action, "id", id, "status", resp.StatusCode)
}

func newEntryCmd(k entryKind) *cobra.Command {
	parent := &cobra.Command{
		Use:   k.name,
		Short: fmt.Sprintf("Create, update or delete %s entries", k.name),
	}

	var addFlags entryFlags
	add := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Create a %s", k.name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := k.write(&addFlags, cmd.Context(), client, 0)
			if err != nil {
				return err
			}
			reportEntry(k.name, "created", resp)
			return nil
		},
	}
	addFlags.register(add, k.name)
	_ = add.MarkFlagRequired("amount")

	var updateFlags entryFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Replace a %s", k.name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := k.write(&updateFlags, cmd.Context(), client, id)
			if err != nil {
				return err
			}
			reportEntry(k.name, "updated", resp)
			return nil
		},
	}
	updateFlags.register(update, k.name)
	_ = update.MarkFlagRequired("amount")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", k.name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := k.remove(client, cmd.Context(), id)
			if err != nil {
				return err
			}
			logger.Info(k.name+" deleted", "id", id, "status", resp.StatusCode)
			return nil
		},
	}

	parent.AddCommand(add, update, del)
	return parent
}

func init() {
	for _, k := range entryKinds {
		rootCmd.AddCommand(newEntryCmd(k))
	}
}
