package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// BindJSON decodes and validates the request body into out. On
// failure it writes the 400 response itself and returns false, so
// handlers can bail with a bare return.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	if err := ctx.ShouldBindJSON(out); err != nil {
		RespondBadRequest(ctx, "Invalid request body", bindErrorDetails(err, out))
		return false
	}

	return true
}

func bindErrorDetails(err error, out interface{}) interface{} {
	structType := rootStruct(out)

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make([]FieldError, 0, len(vErrs))

		for _, fe := range vErrs {
			fields = append(fields, FieldError{
				Field:   jsonFieldName(structType, fe.StructField(), fe.Field()),
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: ruleMessage(fe.Tag(), fe.Param()),
			})
		}

		return gin.H{"fields": fields}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return gin.H{"json": "invalid_json_syntax"}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := strings.TrimSpace(typeErr.Field)

		return gin.H{
			"json":  "invalid_json_type",
			"field": field,
			"fields": []FieldError{{
				Field:   field,
				Rule:    "type",
				Message: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
			}},
		}
	}

	return gin.H{"reason": err.Error()}
}

func rootStruct(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	return t
}

// jsonFieldName resolves a validator struct field to its json tag so
// error details speak the wire vocabulary, not Go names.
func jsonFieldName(structType reflect.Type, structField, fallback string) string {
	if structType == nil {
		return fallback
	}

	sf, ok := structType.FieldByName(structField)
	if !ok {
		return fallback
	}

	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fallback
	}

	return name
}

func ruleMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be at least " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
