// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyError        = "error"
	KeyAccessDenied = "access_denied"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Users
	KeyUserNotFound       = "user.not_found"
	KeyUserProfileUpdated = "user.profile_updated"

	// Products
	KeyProductCreated    = "product.created"
	KeyProductUpdated    = "product.updated"
	KeyProductDeleted    = "product.deleted"
	KeyProductNotFound   = "product.not_found"
	KeyProductOutOfStock = "product.out_of_stock"

	// Inventory
	KeyInventoryApplied      = "inventory.applied"
	KeyInventoryInsufficient = "inventory.insufficient"
	KeyInventoryConsistent   = "inventory.consistent"
	KeyInventoryMismatch     = "inventory.mismatch"
	KeyInventoryAuditDone    = "inventory.audit_done"

	// Reviews
	KeyReviewCreated  = "review.created"
	KeyReviewDeleted  = "review.deleted"
	KeyReviewNotFound = "review.not_found"
	KeyReviewExists   = "review.exists"

	// Admin
	KeyAdminNotificationRead = "admin.notification_read"
	KeyAdminRoleUpdated      = "admin.role_updated"
	KeyNotificationNotFound  = "notification.not_found"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
