package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
)

func init() {
	// Report binding failures under the json field names clients send
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bind decodes the request body into dst. JSON is the default; form bodies
// are accepted for the flat user and attribute payloads. An empty body decodes
// to the zero value. Either way the binding tags of dst are enforced.
func bind(c *gin.Context, dst interface{}, allowForm bool) error {
	var err error
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		if !allowForm {
			return service.NewValidationError(service.NonFieldErrors, "Unsupported media type, send JSON.")
		}
		err = c.ShouldBindWith(dst, binding.Form)
	default:
		err = c.ShouldBindJSON(dst)
	}
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(dst)
	}
	if err == nil {
		return nil
	}
	return bindError(err)
}

func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		verr := &service.ValidationError{}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), fieldMessage(fe))
		}
		return verr
	case errors.Is(err, models.ErrPriceFormat),
		errors.Is(err, models.ErrPricePrecision),
		errors.Is(err, models.ErrPriceRange):
		return service.NewValidationError("price", err.Error())
	case errors.As(err, &typeErr) && typeErr.Field != "":
		field := typeErr.Field
		if i := strings.Index(field, "."); i >= 0 {
			field = field[:i]
		}
		return service.NewValidationError(field, "Incorrect type. Expected "+typeErr.Type.String()+".")
	default:
		return service.NewValidationError(service.NonFieldErrors, "Malformed request body.")
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

// parseIDs parses a comma separated list of ids from a query parameter
func parseIDs(field, raw string) ([]uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, service.NewValidationError(field, "Enter a comma separated list of ids.")
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// pathID parses the :id route parameter. Anything that is not an id cannot match a record.
func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrNotFound
	}
	return uint(id), nil
}
