package controller

import (
	"errors"
	"strings"

	"github.com/tnqbao/gau-showcase-admin/entity"
	"gorm.io/datatypes"
)

func orderOrDefault(order *int) int {
	if order == nil {
		return entity.DefaultOrder
	}
	return *order
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// stringList trims the values of a repeated form field and drops blanks.
func stringList(values []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

var errEmptyList = errors.New("list field has no non-blank values")

func requireLists(lists ...datatypes.JSONSlice[string]) error {
	for _, l := range lists {
		if len(l) == 0 {
			return errEmptyList
		}
	}
	return nil
}
