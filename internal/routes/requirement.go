package routes

import (
	"procurement-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runRequirementRouter(secureGroup *echo.Group, requirementCtrl *controllers.RequirementController) {
	{
		secureGroup.GET("/requirements", requirementCtrl.GetRequests)
		secureGroup.POST("/requirements", requirementCtrl.CreateRequest)
		secureGroup.GET("/requirements/:id", requirementCtrl.FindRequest)
		secureGroup.PATCH("/requirements/:id/status", requirementCtrl.UpdateStatus)
		secureGroup.POST("/requirements/:id/approvals", requirementCtrl.AddApproval)
		secureGroup.GET("/requirements/:id/approvals", requirementCtrl.GetApprovals)
		secureGroup.GET("/requirements/:id/audit", requirementCtrl.GetAuditTrail)
	}
}
