package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderWebhookSecret = "X-Webhook-Secret"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableUsers                  = "users"
	TableCategories             = "categories"
	TablePaths                  = "paths"
	TableLevels                 = "levels"
	TableCourseAccesses         = "course_accesses"
	TablePlans                  = "plans"
	TableSubscriptions          = "subscriptions"
	TableCategoryAccesses       = "category_accesses"
	TableCategoryUnlockedLevels = "category_unlocked_levels"
	TableUserLevelProgress      = "user_level_progress"

	// Role names
	RoleAdmin = "admin"
)
