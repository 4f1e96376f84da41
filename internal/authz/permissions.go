// internal/authz/permissions.go
package authz

// --- ALL PERMISSION CODES IN THE SYSTEM ---

const (
	// Global
	Superuser = "superuser"

	// Requirement requests (the approval workflow core)
	RequirementsView    = "requirements:view"
	RequirementsCreate  = "requirements:create"
	RequirementsEdit    = "requirements:edit"
	RequirementsDelete  = "requirements:delete"
	RequirementsApprove = "requirements:approve"
)

// All lists every grantable permission code; the seeder uses it to fill the
// permissions dictionary.
func All() []string {
	return []string{
		Superuser,
		RequirementsView,
		RequirementsCreate,
		RequirementsEdit,
		RequirementsDelete,
		RequirementsApprove,
	}
}
