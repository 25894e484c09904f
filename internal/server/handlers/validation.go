package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/mamadbah2/farmacia/internal/service/sales"
	"github.com/mamadbah2/farmacia/pkg/clients/farmacia"
)

var registerOnce sync.Once

// RegisterValidators adds the console rules to gin's validator and makes
// errors report the JSON field names. Safe to call more than once.
func RegisterValidators() {
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
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("cpf", validCPF)
	})
}

// validCPF accepts eleven digits, masked or not.
func validCPF(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	return len(sales.NormalizeCPF(raw)) == 11 && sales.ValidCPFFormat(sales.FormatCPF(raw))
}

// validationMessage turns a binding error into the text shown on the form.
// Only the first failing field is reported.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Corpo da requisição inválido."
	}

	fe := errs[0]
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("O campo %s é obrigatório.", fe.Field())
	case "email":
		return "Informe um e-mail válido."
	case "cpf":
		return "Informe o CPF no formato 000.000.000-00."
	case "gt":
		return fmt.Sprintf("O campo %s deve ser maior que %s.", fe.Field(), fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("O campo %s deve ter ao menos %s caracteres.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("O campo %s não pode ser menor que %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("O campo %s deve ser um de: %s.", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("O campo %s é inválido.", fe.Field())
	}
}

// bindJSON binds and validates the request body, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, validationMessage(err))
		return false
	}
	return true
}

// bindPart binds and validates the JSON document sent in a multipart field.
func bindPart(c *gin.Context, field string, dst any) bool {
	raw := c.PostForm(field)
	if strings.TrimSpace(raw) == "" {
		badRequest(c, fmt.Sprintf("O campo %s é obrigatório.", field))
		return false
	}
	if err := binding.JSON.BindBody([]byte(raw), dst); err != nil {
		badRequest(c, validationMessage(err))
		return false
	}
	return true
}

// formFiles opens every file sent under field. The returned func closes them
// and is never nil.
func formFiles(c *gin.Context, field string) ([]farmacia.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, func() {}, err
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	var out []farmacia.Upload
	for _, header := range form.File[field] {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		out = append(out, farmacia.Upload{Name: header.Filename, Reader: f})
	}
	return out, closeAll, nil
}
