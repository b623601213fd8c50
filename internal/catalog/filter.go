package catalog

import (
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/hritikarora28/AppstoreBackend/internal/models"
)

// Filter is the set of optional list predicates. Zero values mean
// "no restriction"; predicates are ANDed with the visibility policy.
type Filter struct {
	Name       string // case-insensitive substring
	Genre      string // exact match
	RatingMin  *float64
	RatingMax  *float64
	Visibility string // exact match
}

// ParseRatingRange parses the "min,max" form of the rating query parameter.
// The range is inclusive on both ends.
func ParseRatingRange(s string) (*float64, *float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, nil, invalidf("rating filter must be of the form min,max")
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, nil, invalidf("invalid rating lower bound %q", parts[0])
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, nil, invalidf("invalid rating upper bound %q", parts[1])
	}
	if min > max {
		return nil, nil, invalidf("rating lower bound exceeds upper bound")
	}
	return &min, &max, nil
}

func (f Filter) apply(tx *gorm.DB) (*gorm.DB, error) {
	if f.Name != "" {
		tx = tx.Where("lower(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if f.Genre != "" {
		tx = tx.Where("genre = ?", f.Genre)
	}
	if f.RatingMin != nil {
		tx = tx.Where("rating >= ?", *f.RatingMin)
	}
	if f.RatingMax != nil {
		tx = tx.Where("rating <= ?", *f.RatingMax)
	}
	if f.Visibility != "" {
		if f.Visibility != models.VisibilityPublic && f.Visibility != models.VisibilityPrivate {
			return nil, invalidf("unknown visibility %q", f.Visibility)
		}
		tx = tx.Where("visibility = ?", f.Visibility)
	}
	return tx, nil
}
