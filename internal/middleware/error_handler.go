package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MapError turns a pipeline or storage error into an HTTP status and body.
func MapError(err error) (int, ErrorResponse) {
	var (
		invalid  *model.InvalidInputError
		schema   *model.SchemaError
		output   *model.ModelOutputError
		artifact *model.ArtifactLoadError
	)
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, ErrorResponse{Error: "invalid input", Details: invalid.Error()}
	case errors.As(err, &artifact):
		return http.StatusServiceUnavailable, ErrorResponse{Error: "model bundle unavailable", Details: artifact.Error()}
	case errors.As(err, &output):
		return http.StatusBadGateway, ErrorResponse{Error: "model produced an out-of-range output", Details: output.Error()}
	case errors.As(err, &schema):
		log.Error().Err(err).Msg("feature schema mismatch")
		return http.StatusInternalServerError, ErrorResponse{Error: "feature schema mismatch"}
	case errors.Is(err, service.ErrPersistenceDisabled):
		return http.StatusNotImplemented, ErrorResponse{Error: err.Error()}
	}
	return MapDBError(err)
}

func MapDBError(err error) (int, ErrorResponse) {
	if errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound, ErrorResponse{Error: "resource not found"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return http.StatusConflict, ErrorResponse{Error: "resource already exists", Details: pgErr.Detail}
		case "23514": // check_violation
			return http.StatusBadRequest, ErrorResponse{Error: "constraint violation", Details: pgErr.Detail}
		case "22P02": // invalid_text_representation, e.g. a malformed uuid
			return http.StatusNotFound, ErrorResponse{Error: "resource not found"}
		}
	}

	log.Error().Err(err).Msg("unhandled error")
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
}

// ErrorHandler renders the last error attached with c.Error, if the
// handler did not write a response itself.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			status, resp := MapError(c.Errors.Last().Err)
			c.JSON(status, resp)
		}
	}
}
