package seeders

import "procurement-system/internal/authz"

type roleSeed struct {
	Name        string
	Permissions []string
}

// rolesData maps the workflow roles to their permission grants. The admin
// role carries the superuser code and bypasses per-code checks entirely.
var rolesData = []roleSeed{
	{
		Name:        "admin",
		Permissions: []string{authz.Superuser},
	},
	{
		Name: "department_head",
		Permissions: []string{
			authz.RequirementsView,
			authz.RequirementsCreate,
			authz.RequirementsEdit,
		},
	},
	{
		Name: "committee_head",
		Permissions: []string{
			authz.RequirementsView,
			authz.RequirementsEdit,
			authz.RequirementsApprove,
		},
	},
	{
		Name: "specialty_head",
		Permissions: []string{
			authz.RequirementsView,
			authz.RequirementsApprove,
		},
	},
	{
		Name: "fatwa",
		Permissions: []string{
			authz.RequirementsView,
			authz.RequirementsApprove,
		},
	},
	{
		Name: "ctc",
		Permissions: []string{
			authz.RequirementsView,
			authz.RequirementsApprove,
		},
	},
	{
		Name: "audit",
		Permissions: []string{
			authz.RequirementsView,
			authz.RequirementsApprove,
		},
	},
}
