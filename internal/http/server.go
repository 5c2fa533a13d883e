package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gopkg.in/go-playground/validator.v9"

	candydelivery "github.com/kpestov/candy-delivery"
	"github.com/kpestov/candy-delivery/config"
)

func NewHttpServer(conf config.AppConfig) *echo.Echo {
	e := echo.New()

	e.Validator = &CustomValidator{Validator: validator.New()}
	e.HTTPErrorHandler = HttpErrorHandler

	if conf.Env == "dev" {
		e.Debug = true
	}

	return e
}

type CustomValidator struct {
	Validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.Validator.Struct(i)
}

func HttpErrorHandler(err error, c echo.Context) {

	if c.Response().Committed {
		return
	}

	c.Logger().Error(err)

	var appErr *candydelivery.Error
	if errors.As(err, &appErr) {
		httpCode := candydelivery.ErrCodeToHTTPStatus(appErr)

		if httpCode >= 500 {
			c.JSON(httpCode, candydelivery.DefaultErrorMessage)
			return
		}

		// batch ingestion reports the ids that failed validation
		if fields := candydelivery.ErrorFields(appErr); fields != nil {
			c.JSON(httpCode, echo.Map{"validation_error": fields})
			return
		}

		c.JSON(httpCode, candydelivery.ErrorMessage(appErr))
		return
	}

	var echoError *echo.HTTPError
	if errors.As(err, &echoError) {
		c.JSON(echoError.Code, echoError.Message)
		return
	}

	c.JSON(
		http.StatusInternalServerError,
		http.StatusText(http.StatusInternalServerError),
	)
}
