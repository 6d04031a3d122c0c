// Package handlers contains the HTTP handlers of the REST API.
//
// A handler accepts the HTTP request, turns it into a command or query
// DTO, calls the use case, and renders the result. Each handler
// depends only on the use case interfaces it drives.
package handlers

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/altpay/wallet/internal/adapters/http/common"
)

// ============================================
// Custom Validator Setup
// ============================================

var setupOnce sync.Once

// SetupValidator registers the custom validators on gin's binding
// engine and switches field names in errors to their json tags.
func SetupValidator() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})

			_ = v.RegisterValidation("money_amount", validateMoneyAmount)
			_ = v.RegisterValidation("tx_nonce", validateTxNonce)
		}
	})
}

// ============================================
// Custom Validators
// ============================================

// amounts are base-10 integer strings, at most 20 digits
var moneyPattern = regexp.MustCompile(`^\d{1,20}$`)

func validateMoneyAmount(fl validator.FieldLevel) bool {
	return moneyPattern.MatchString(fl.Field().String())
}

func validateTxNonce(fl validator.FieldLevel) bool {
	n := len(fl.Field().String())
	return n >= 8 && n <= 16
}

// ============================================
// Validation Error Handling
// ============================================

// HandleValidationErrors renders a binding failure as a 422.
func HandleValidationErrors(c *gin.Context, err error) {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		fieldErr := validationErrors[0]
		common.ValidationErrorResponse(c, fieldErr.Field()+": "+validationMessage(fieldErr))
		return
	}

	// Malformed JSON or a type mismatch
	common.ValidationErrorResponse(c, "invalid request body: "+err.Error())
}

// validationMessage returns a human-readable message for one failed
// validation tag.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "uuid":
		return "invalid UUID format"
	case "money_amount":
		return "amount must be a positive integer of at most 20 digits"
	case "tx_nonce":
		return "nonce must be 8 to 16 characters"
	default:
		return "invalid value"
	}
}

// ============================================
// Request Parsing Helpers
// ============================================

// BindJSON binds the JSON body. Returns false when the response has
// already been written.
func BindJSON[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// BindURI binds path parameters.
func BindURI[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindUri(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}
