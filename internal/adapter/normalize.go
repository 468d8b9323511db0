package adapter

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/amishk599/jobboard/internal/model"
)

// Normalize converts one raw decoded record into a JobPosting.
// It never fails: every field falls back to its default (empty string, zero,
// empty slice) when absent or of the wrong type, and a record that is not an
// object yields an all-default posting.
func Normalize(raw any) model.JobPosting {
	rec, _ := raw.(map[string]any)

	return model.JobPosting{
		ID:              coerceID(rec["id"]),
		Title:           coerceString(rec["title"]),
		Description:     coerceString(rec["description"]),
		MainCategory:    coerceString(rec["mainCategory"]),
		ApplicationLink: coerceString(rec["applicationLink"]),
		PubDate:         coerceString(rec["pubDate"]),
		ExpiryDate:      coerceString(rec["expiryDate"]),
		CompanyName:     coerceString(rec["companyName"]),
		CompanyLogo:     coerceString(rec["companyLogo"]),
		JobType:         coerceString(rec["jobType"]),
		WorkModel:       coerceString(rec["workModel"]),
		SeniorityLevel:  coerceString(rec["seniorityLevel"]),
		MinSalary:       coerceNumber(rec["minSalary"]),
		MaxSalary:       coerceNumber(rec["maxSalary"]),
		Locations:       coerceStrings(rec["locations"]),
		Tags:            coerceStrings(rec["tags"]),
	}
}

// coerceID keeps truthy source ids (non-empty strings, non-zero numbers, true)
// and generates a random one otherwise.
func coerceID(v any) string {
	switch id := v.(type) {
	case string:
		if id != "" {
			return id
		}
	case json.Number:
		if n, err := id.Int64(); err == nil {
			if n != 0 {
				return strconv.FormatInt(n, 10)
			}
			break
		}
		if f, err := id.Float64(); err == nil && f != 0 && !math.IsNaN(f) {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	case float64:
		if id != 0 && !math.IsNaN(id) {
			return strconv.FormatFloat(id, 'f', -1, 64)
		}
	case bool:
		if id {
			return "true"
		}
	}
	return uuid.NewString()
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

// coerceNumber parses JSON numbers and numeric strings. Anything else, and any
// non-finite result, becomes 0.
func coerceNumber(v any) float64 {
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
	case float64:
		f = n
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return 0
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// coerceStrings keeps the string elements of an array value. Non-arrays yield
// an empty, non-nil slice.
func coerceStrings(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
