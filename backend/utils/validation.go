package utils

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/hobbyreads/hobbyreads/backend/models"
	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
	"github.com/hobbyreads/hobbyreads/internal/domain/apperr"
)

// ParseID reads a positive numeric route parameter.
func ParseID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.InvalidArgument, "http.ParseID", fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

func ValidateTradeCreateRequest(req *models.TradeCreateRequest) []models.ValidationError {
	var errs []models.ValidationError

	if req.BookID <= 0 {
		errs = append(errs, models.ValidationError{
			Field:       "bookId",
			Description: "bookId is required",
		})
	}
	if req.Message != nil && utf8.RuneCountInString(*req.Message) > config.MaxTradeMessageLength {
		errs = append(errs, models.ValidationError{
			Field:       "message",
			Description: fmt.Sprintf("message must be at most %d characters", config.MaxTradeMessageLength),
		})
	}

	return errs
}

func ValidateTradeStatusRequest(req *models.TradeStatusRequest) []models.ValidationError {
	if strings.TrimSpace(req.Status) == "" {
		return []models.ValidationError{{
			Field:       "status",
			Description: "status is required",
		}}
	}
	return nil
}

func ValidateProfileUpdateRequest(req *models.ProfileUpdateRequest) []models.ValidationError {
	if strings.TrimSpace(req.Name) == "" {
		return []models.ValidationError{{
			Field:       "name",
			Description: "name is required",
		}}
	}
	return nil
}
