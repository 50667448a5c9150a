package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hobbyreads/hobbyreads/backend/utils"
)

func ConnectionsList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}

		list, err := webApp.Connections.ListAccepted(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, list, "")
	}
}

func ConnectionsPending(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}

		list, err := webApp.Connections.ListPending(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, list, "")
	}
}

func ConnectionsSuggested(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}

		list, err := webApp.Connections.Suggest(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, list, "")
	}
}

func ConnectionsRequest(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}
		targetID, err := utils.ParseID(c, "userId")
		if err != nil {
			return utils.SendAppError(c, err)
		}

		conn, err := webApp.Connections.Request(c.UserContext(), userID, targetID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendCreated(c, conn, "Connection request sent")
	}
}

func ConnectionsAccept(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}
		id, err := utils.ParseID(c, "id")
		if err != nil {
			return utils.SendAppError(c, err)
		}

		conn, err := webApp.Connections.Accept(c.UserContext(), id, userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, conn, "Connection accepted")
	}
}

func ConnectionsReject(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}
		id, err := utils.ParseID(c, "id")
		if err != nil {
			return utils.SendAppError(c, err)
		}

		conn, err := webApp.Connections.Reject(c.UserContext(), id, userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, conn, "Connection rejected")
	}
}

func ConnectionsDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}
		id, err := utils.ParseID(c, "id")
		if err != nil {
			return utils.SendAppError(c, err)
		}

		if err = webApp.Connections.Delete(c.UserContext(), id, userID); err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, nil, "Connection removed")
	}
}
