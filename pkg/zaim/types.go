package zaim

import (
	"net/url"
	"strconv"
	"time"
)

// DateLayout is the date format the API accepts and returns.
const DateLayout = "2006-01-02"

type User struct {
	ID              int64  `json:"id"`
	Login           string `json:"login"`
	Name            string `json:"name"`
	InputCount      int    `json:"input_count"`
	DayCount        int    `json:"day_count"`
	RepeatCount     int    `json:"repeat_count"`
	Day             int    `json:"day"`
	Week            int    `json:"week"`
	Month           int    `json:"month"`
	CurrencyCode    string `json:"currency_code"`
	ProfileImageURL string `json:"profile_image_url"`
	CoverImageURL   string `json:"cover_image_url"`
	ProfileModified string `json:"profile_modified"`
}

// Money is a ledger entry as stored by the provider.
type Money struct {
	ID            int64  `json:"id"`
	Mode          string `json:"mode"`
	UserID        int64  `json:"user_id"`
	Date          string `json:"date"`
	CategoryID    int64  `json:"category_id"`
	GenreID       int64  `json:"genre_id"`
	FromAccountID int64  `json:"from_account_id"`
	ToAccountID   int64  `json:"to_account_id"`
	Amount        int64  `json:"amount"`
	Comment       string `json:"comment"`
	Active        int    `json:"active"`
	Name          string `json:"name"`
	ReceiptID     int64  `json:"receipt_id"`
	Place         string `json:"place"`
	PlaceUID      string `json:"place_uid"`
	Created       string `json:"created"`
	CurrencyCode  string `json:"currency_code"`
}

type Genre struct {
	ID            int64  `json:"id"`
	CategoryID    int64  `json:"category_id"`
	Name          string `json:"name"`
	Sort          int    `json:"sort"`
	Active        int    `json:"active"`
	ParentGenreID int64  `json:"parent_genre_id"`
	Modified      string `json:"modified"`
}

type Category struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Mode             string `json:"mode"`
	Sort             int    `json:"sort"`
	ParentCategoryID int64  `json:"parent_category_id"`
	Active           int    `json:"active"`
	Modified         string `json:"modified"`
}

type Account struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Modified        string `json:"modified"`
	Sort            int    `json:"sort"`
	Active          int    `json:"active"`
	LocalID         int64  `json:"local_id"`
	WebsiteID       int64  `json:"website_id"`
	ParentAccountID int64  `json:"parent_account_id"`
}

type Currency struct {
	CurrencyCode string `json:"currency_code"`
	Unit         string `json:"unit"`
	Name         string `json:"name"`
	Point        int    `json:"point"`
}

// Filter narrows a money listing. Zero fields are not sent.
type Filter struct {
	Mapping    bool
	CategoryID int64
	GenreID    int64
	Mode       string
	Order      string
	StartDate  time.Time
	EndDate    time.Time
	Page       int
	Limit      int
	GroupBy    string
}

// Values renders the filter as query parameters.
func (f *Filter) Values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	if f.Mapping {
		v.Set("mapping", "1")
	}
	setID(v, "category_id", f.CategoryID)
	setID(v, "genre_id", f.GenreID)
	setString(v, "mode", f.Mode)
	setString(v, "order", f.Order)
	if !f.StartDate.IsZero() {
		v.Set("start_date", f.StartDate.Format(DateLayout))
	}
	if !f.EndDate.IsZero() {
		v.Set("end_date", f.EndDate.Format(DateLayout))
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	setString(v, "group_by", f.GroupBy)
	return v
}

func setID(v url.Values, key string, id int64) {
	if id != 0 {
		v.Set(key, strconv.FormatInt(id, 10))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}
