package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/service"
	"bazaar/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const invalidBodyMessage = "Invalid request body"

// respondSuccess отправляет успешный ответ в общем конверте
func respondSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, entity.Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// respondError выбирает статус по типу ошибки сервиса
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	}

	if status >= http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}

	respondErrorMessage(c, status, err.Error())
}

func respondErrorMessage(c *gin.Context, status int, message string) {
	c.JSON(status, entity.Response{
		Success: false,
		Error:   message,
	})
}

// parseID разбирает числовой параметр пути; нечисловой id - 400 до обращения к хранилищу
func parseID(c *gin.Context, param, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		respondErrorMessage(c, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}

// requestValidator проверяет DTO по тегам validate и сообщает имена полей как в запросе
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	return &requestValidator{validate: v}
}

// check возвращает *service.ValidationError; при отсутствии обязательных полей
// используется requiredMessage
func (v *requestValidator) check(req interface{}, requiredMessage string) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return &service.ValidationError{Message: invalidBodyMessage}
	}

	fields := make([]string, 0, len(fieldErrors))
	message := ""
	for _, fe := range fieldErrors {
		fields = append(fields, fe.Field())
		if fe.Tag() == "required" {
			message = requiredMessage
		}
	}
	if message == "" {
		message = describeFieldError(fieldErrors[0])
	}

	return &service.ValidationError{Fields: fields, Message: message}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s accepts at most %s files", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// readAttachment читает загруженный файл целиком в память
func readAttachment(fh *multipart.FileHeader) (entity.Attachment, error) {
	file, err := fh.Open()
	if err != nil {
		return entity.Attachment{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return entity.Attachment{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}

	return entity.Attachment{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Payload:     payload,
	}, nil
}

func readAttachments(headers []*multipart.FileHeader) ([]entity.Attachment, error) {
	atts := make([]entity.Attachment, 0, len(headers))
	for _, fh := range headers {
		att, err := readAttachment(fh)
		if err != nil {
			return nil, err
		}
		atts = append(atts, att)
	}
	return atts, nil
}
