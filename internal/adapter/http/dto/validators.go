package dto

import (
	"reflect"
	"strings"

	"balance-dashboard/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("range_preset", validateRangePreset)
	}
}

// validateRangePreset accepts the keys of domain.RangePresets.
func validateRangePreset(fl validator.FieldLevel) bool {
	_, ok := domain.PresetByKey(fl.Field().String())
	return ok
}

// SanitizeStruct trims whitespace of every exported string field of a
// struct pointer. Fields tagged sanitize:"-" are left verbatim.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() || rt.Field(i).Tag.Get("sanitize") == "-" {
			continue
		}
		if f.Kind() == reflect.String {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}
