package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-api/internal/application/dto"
)

var validate = newValidator()

// newValidator usa el nombre JSON de cada campo en los mensajes.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// errBodyRejected indica que bindBody ya escribió la respuesta de error.
var errBodyRejected = errors.New("body rechazado")

// bindBody parsea el JSON en dst y corre las reglas `validate`. Si falla escribe el 400 y
// devuelve errBodyRejected; el handler debe retornar nil en ese caso.
func bindBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		return errBodyRejected
	}
	if err := validate.Struct(dst); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: describeValidation(err)})
		return errBodyRejected
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" es requerido")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s debe ser mayor que %s", field, fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s debe ser al menos %s", field, fe.Param()))
		case "email":
			msgs = append(msgs, field+" no es un email válido")
		default:
			msgs = append(msgs, fmt.Sprintf("%s no cumple %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
