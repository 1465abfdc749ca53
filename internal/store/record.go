package store

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

// record is the flat, string-typed row shared by the CSV and SQLite stores.
type record struct {
	ID              string `csv:"id"`
	Date            string `csv:"date"`
	Description     string `csv:"description"`
	Merchant        string `csv:"merchant"`
	Amount          string `csv:"amount"`
	Currency        string `csv:"currency"`
	Tag             string `csv:"tag"`
	Category        string `csv:"category"`
	TagConfidence   string `csv:"tag_confidence"`
	AutoTagged      bool   `csv:"auto_tagged"`
	AutoCategorized bool   `csv:"auto_categorized"`
	Status          string `csv:"status"`
	ParentID        string `csv:"parent_id"`
	SplitPercentage string `csv:"split_percentage"`
	IsSplit         bool   `csv:"is_split"`
	SourceType      string `csv:"source_type"`
	SourceFile      string `csv:"source_file"`
	Note            string `csv:"note"`
}

func toRecord(tx models.Transaction) record {
	r := record{
		ID:              tx.ID,
		Date:            tx.Date.String(),
		Description:     tx.Description,
		Merchant:        tx.Merchant,
		Amount:          tx.Amount.String(),
		Currency:        tx.Currency,
		Tag:             string(tx.Tag),
		Category:        string(tx.Category),
		TagConfidence:   string(tx.TagConfidence),
		AutoTagged:      tx.AutoTagged,
		AutoCategorized: tx.AutoCategorized,
		Status:          string(tx.Status),
		ParentID:        tx.ParentID,
		IsSplit:         tx.IsSplit,
		SourceType:      tx.SourceType,
		SourceFile:      tx.SourceFile,
		Note:            tx.Note,
	}
	if tx.SplitPercentage != nil {
		r.SplitPercentage = tx.SplitPercentage.String()
	}
	return r
}

func (r record) toTransaction() (models.Transaction, error) {
	invalid := func(format string, args ...interface{}) error {
		return pipelineerror.NewValidationError("transaction", r.ID, nil, format, args...)
	}

	if r.ID == "" {
		return models.Transaction{}, invalid("missing id")
	}
	date, err := civil.ParseDate(r.Date)
	if err != nil {
		return models.Transaction{}, invalid("bad date %q", r.Date)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.Transaction{}, invalid("bad amount %q", r.Amount)
	}
	tag, err := models.ParseTag(r.Tag)
	if err != nil {
		return models.Transaction{}, invalid("%v", err)
	}
	category, err := models.ParseCategory(r.Category)
	if err != nil {
		return models.Transaction{}, invalid("%v", err)
	}
	confidence, err := models.ParseConfidence(r.TagConfidence)
	if err != nil {
		return models.Transaction{}, invalid("%v", err)
	}
	status, err := models.ParseStatus(r.Status)
	if err != nil {
		return models.Transaction{}, invalid("%v", err)
	}

	tx := models.Transaction{
		ID:              r.ID,
		Date:            date,
		Description:     r.Description,
		Merchant:        r.Merchant,
		Amount:          amount,
		Currency:        r.Currency,
		Tag:             tag,
		Category:        category,
		TagConfidence:   confidence,
		AutoTagged:      r.AutoTagged,
		AutoCategorized: r.AutoCategorized,
		Status:          status,
		ParentID:        r.ParentID,
		IsSplit:         r.IsSplit,
		SourceType:      r.SourceType,
		SourceFile:      r.SourceFile,
		Note:            r.Note,
	}
	if r.SplitPercentage != "" {
		pct, err := decimal.NewFromString(r.SplitPercentage)
		if err != nil {
			return models.Transaction{}, invalid("bad split percentage %q", r.SplitPercentage)
		}
		tx.SplitPercentage = &pct
	}
	return tx, nil
}
