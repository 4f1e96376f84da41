package routes

import (
	"procurement-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runCmsRouter(secureGroup *echo.Group, cmsCtrl *controllers.CmsController) {
	{
		secureGroup.PUT("/requirements/:id/cms-case", cmsCtrl.UpsertCase)
		secureGroup.GET("/requirements/:id/cms-case", cmsCtrl.FindCase)
		secureGroup.POST("/requirements/:id/followups", cmsCtrl.AddFollowup)
		secureGroup.GET("/requirements/:id/followups", cmsCtrl.GetFollowups)
	}
}
