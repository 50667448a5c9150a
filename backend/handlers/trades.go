package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	webmodels "github.com/hobbyreads/hobbyreads/backend/models"
	"github.com/hobbyreads/hobbyreads/backend/utils"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
)

func TradesCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}

		var req webmodels.TradeCreateRequest
		if err = bindJSON(c, &req); err != nil {
			return utils.SendAppError(c, err)
		}
		if errs := utils.ValidateTradeCreateRequest(&req); len(errs) > 0 {
			return utils.HandleValidationErrors(c, errs)
		}

		trade, err := webApp.Trades.Create(c.UserContext(), userID, req.BookID, req.Message)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendCreated(c, trade, "Trade request sent")
	}
}

func TradesUpdateStatus(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}
		id, err := utils.ParseID(c, "id")
		if err != nil {
			return utils.SendAppError(c, err)
		}

		var req webmodels.TradeStatusRequest
		if err = bindJSON(c, &req); err != nil {
			return utils.SendAppError(c, err)
		}
		if errs := utils.ValidateTradeStatusRequest(&req); len(errs) > 0 {
			return utils.HandleValidationErrors(c, errs)
		}

		status := models.TradeStatus(strings.ToLower(strings.TrimSpace(req.Status)))
		trade, err := webApp.Trades.UpdateStatus(c.UserContext(), id, userID, status)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, trade, "Trade request "+string(status))
	}
}

func TradesPending(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}

		list, err := webApp.Trades.ListPending(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, list, "")
	}
}

// TradesForUser lists the accepted trades of the user in the path. Only that user may read them.
func TradesForUser(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}
		subjectID, err := utils.ParseID(c, "id")
		if err != nil {
			return utils.SendAppError(c, err)
		}

		list, err := webApp.Trades.ListAccepted(c.UserContext(), userID, subjectID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, list, "")
	}
}
