package types

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Name               string   `json:"name" binding:"required"`
	Email              string   `json:"email" binding:"required,email"`
	Password           string   `json:"password" binding:"required,min=8"`
	Username           string   `json:"username" binding:"required,min=3,max=50"`
	DietaryPreferences []string `json:"dietary_preferences"`
	Allergens          []string `json:"allergens"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	Username          string `json:"username"`
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profile_picture_url"`
	PrivacyLevel      string `json:"privacy_level" binding:"omitempty,oneof=public private"`
}

// CreateRecipeRequest is the request body for creating a recipe by hand.
type CreateRecipeRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Cuisine      string   `json:"cuisine"`
	Diet         string   `json:"diet"`
	ImageURL     string   `json:"image_url"`
	Ingredients  []string `json:"ingredients" binding:"required"`
	Instructions []string `json:"instructions" binding:"required"`
	CookingTime  string   `json:"cooking_time"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
}

// CreateCommentRequest is the request body for commenting on a recipe.
type CreateCommentRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

// SendMessageRequest is the request body for a direct message.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Body        string `json:"body" binding:"required,max=4000"`
}

// CreateReportRequest is the request body for an abuse report.
type CreateReportRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=recipe comment user"`
	TargetID   string `json:"target_id" binding:"required,uuid"`
	Reason     string `json:"reason" binding:"required,max=2000"`
}
