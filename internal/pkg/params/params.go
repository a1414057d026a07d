// Package params binds and validates request input, answering 400 on failure.
package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/teamboard/core/internal/pkg/response"
)

// InvalidID is the error message for a malformed numeric identifier.
const InvalidID = "Invalid id"

var registerOnce sync.Once

// useJSONNames makes validation errors report json field names instead of Go ones.
func useJSONNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// BindJSON decodes and validates the body into dst. On failure it writes a 400
// and returns false.
func BindJSON(c *gin.Context, dst interface{}) bool {
	useJSONNames()
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, Message(err))
		return false
	}
	return true
}

// Message turns a binding error into a short client-facing sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessage(verrs[0])
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s has an invalid type", typeErr.Field)
	}
	if errors.Is(err, io.EOF) {
		return "Request body is required"
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Malformed JSON body"
	}
	return "Invalid request body"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ID parses the path parameter key as a positive integer. On failure it writes
// 400 {"error":"Invalid id"} and returns false.
func ID(c *gin.Context, key string) (uint, bool) {
	id, err := parseUint(c.Param(key))
	if err != nil {
		response.BadRequest(c, InvalidID)
		return 0, false
	}
	return id, true
}

// OptionalQueryID parses an optional numeric query parameter. An absent or empty
// value yields nil.
func OptionalQueryID(c *gin.Context, key string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	id, err := parseUint(raw)
	if err != nil {
		response.BadRequest(c, InvalidID)
		return nil, false
	}
	return &id, true
}

func parseUint(raw string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(v), nil
}
