// Package vendorcsv reads vendor lists from CSV and writes rankings back out.
package vendorcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/arnavshah/vendor-match-api/pkg/models"
	"github.com/arnavshah/vendor-match-api/pkg/scorer"
)

// Read reads vendors from a CSV file with a header row. Only the
// name column is required; unknown columns are ignored.
func Read(r io.Reader) ([]models.VendorCandidate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("failed to read vendors header")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, errors.New("vendors file must have a name column")
	}

	get := func(record []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var vendors []models.VendorCandidate
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("vendors file line %d: %w", line, err)
		}

		v := models.VendorCandidate{
			Name:               get(record, "name"),
			Category:           get(record, "category"),
			Location:           get(record, "location"),
			Price:              get(record, "price"),
			Capacity:           get(record, "capacity"),
			Specialty:          get(record, "specialty"),
			Type:               get(record, "type"),
			AvailabilityStatus: get(record, "availability"),
		}
		if raw := get(record, "rating"); raw != "" {
			if rating, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(rating) && !math.IsInf(rating, 0) {
				v.Rating = &rating
			}
		}
		if raw := get(record, "reviews"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				v.ReviewCount = &n
			}
		}
		vendors = append(vendors, v)
	}
	return vendors, nil
}

// Write writes one row per ranked vendor, best first.
func Write(w io.Writer, ranked []models.ScoredVendor) error {
	writer := csv.NewWriter(w)
	header := []string{"rank", "name", "category", "location", "overall_score", "recommendation_tier", "confidence_level", "allocated_budget"}
	header = append(header, scorer.Factors...)
	header = append(header, "reasons", "warnings")
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, v := range ranked {
		row := []string{
			strconv.Itoa(i + 1),
			v.Name,
			v.Category,
			v.Location,
			strconv.FormatFloat(v.OverallScore, 'f', 1, 64),
			v.RecommendationTier,
			v.ConfidenceLevel,
			strconv.FormatFloat(v.AllocatedBudget, 'f', 0, 64),
		}
		for _, f := range scorer.Factors {
			row = append(row, strconv.FormatFloat(v.ScoresBreakdown[f], 'f', 1, 64))
		}
		row = append(row, strings.Join(v.Reasons, "; "), strings.Join(v.Warnings, "; "))
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
