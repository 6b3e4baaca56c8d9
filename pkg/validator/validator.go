package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ProfessorEmailTag checks that the tagged e-mail belongs to the institutional
// domain whenever the sibling Role field is "professor".
const ProfessorEmailTag = "professor_email"

// RegisterRules installs the custom rules on gin's binding validator. An empty
// domain accepts any e-mail.
func RegisterRules(professorDomain string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return v.RegisterValidation(ProfessorEmailTag, professorEmail(professorDomain))
}

func professorEmail(domain string) validator.Func {
	suffix := "@" + strings.TrimPrefix(strings.ToLower(domain), "@")
	return func(fl validator.FieldLevel) bool {
		if domain == "" {
			return true
		}
		parent := fl.Parent()
		if parent.Kind() == reflect.Ptr {
			parent = parent.Elem()
		}
		role := parent.FieldByName("Role")
		if !role.IsValid() || role.Kind() != reflect.String || role.String() != "professor" {
			return true
		}
		return strings.HasSuffix(strings.ToLower(fl.Field().String()), suffix)
	}
}

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", field)
	case "required_if":
		return fmt.Sprintf("%s é obrigatório para este perfil", field)
	case "email":
		return fmt.Sprintf("%s deve ser um e-mail válido", field)
	case ProfessorEmailTag:
		return "professores devem utilizar um e-mail institucional"
	case "oneof":
		return fmt.Sprintf("%s deve ser um de: %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s deve ter no mínimo %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s deve ser no mínimo %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s deve ter no máximo %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s deve ser no máximo %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s inválido", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Name":          "Nome",
		"Email":         "E-mail",
		"Password":      "Senha",
		"NewPassword":   "Nova senha",
		"Role":          "Perfil",
		"OrientorEmail": "E-mail do orientador",
		"Title":         "Título",
		"Content":       "Conteúdo",
		"Token":         "Token",
		"StartsAt":      "Data de início",
		"EndsAt":        "Data de término",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
