package handlers

import (
	"github.com/gofiber/fiber/v2"
	webmodels "github.com/hobbyreads/hobbyreads/backend/models"
	"github.com/hobbyreads/hobbyreads/backend/utils"
)

func UsersMe(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}

		profile, err := webApp.Profiles.GetProfile(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, profile, "")
	}
}

func UsersUpdateProfile(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}

		var req webmodels.ProfileUpdateRequest
		if err = bindJSON(c, &req); err != nil {
			return utils.SendAppError(c, err)
		}
		if errs := utils.ValidateProfileUpdateRequest(&req); len(errs) > 0 {
			return utils.HandleValidationErrors(c, errs)
		}

		profile, err := webApp.Profiles.UpdateProfile(c.UserContext(), userID, req.ToInput())
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, profile, "Profile updated")
	}
}

func UsersSuggested(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}

		list, err := webApp.Profiles.SuggestUsers(c.UserContext(), userID)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, list, "")
	}
}

func HobbiesList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := webApp.Profiles.SearchHobbies(c.UserContext(), c.Query("q"))
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, list, "")
	}
}
