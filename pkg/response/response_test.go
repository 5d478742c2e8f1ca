package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "parcelmama/pkg/errors"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessAndCreated(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Success(c, map[string]int{"n": 1}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).Success)

	c, rec = newContext()
	require.NoError(t, Created(c, "ok"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPartial(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Partial(c, "parcel", "NO_DELIVERY_MAN", "no delivery man assigned"))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NO_DELIVERY_MAN", body.Error.Code)
}

func TestError_AppError(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Error(c, apperrors.NotFound("Parcel", nil)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, apperrors.CodeNotFound, body.Error.Code)
	assert.Equal(t, "Parcel not found", body.Error.Message)
}

func TestError_Validation(t *testing.T) {
	type request struct {
		Email string `validate:"required,email"`
	}
	err := validator.New().Struct(request{Email: "nope"})
	require.Error(t, err)

	c, rec := newContext()
	require.NoError(t, Error(c, err))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apperrors.CodeValidation, body.Error.Code)
	assert.Equal(t, "email must be a valid email address", body.Error.Message)
}

func TestError_EchoAndUnknown(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Error(c, echo.NewHTTPError(http.StatusNotFound)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec).Error.Code)

	c, rec = newContext()
	require.NoError(t, Error(c, errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperrors.CodeInternal, decode(t, rec).Error.Code)
}
