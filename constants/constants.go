package constants

// ユーザーロール
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// トークン種別
const (
	TokenTypeAccess        = "access"
	TokenTypePasswordReset = "password_reset"
)

const (
	DefaultExpiringDays       = 3
	DefaultEmergencyDays      = 7
	MaxRecommendationBooks    = 10
	RecipeSearchIngredients   = 2
	FallbackPublishedYear     = 2000
	NotificationReleaseFormat = "明日『%s』が発売されます！"
	NotificationExpiryFormat  = "『%s』の賞味期限は%sです"
)

// エラーメッセージ
const (
	ErrUnexpected           = "Unexpected error"
	ErrInvalidID            = "Invalid id"
	ErrInvalidInput         = "Invalid input"
	ErrRecordNotFound       = "record not found"
	ErrUnauthorized         = "Unauthorized"
	ErrInvalidToken         = "Invalid or expired token"
	ErrBadCredentials       = "Incorrect username or password"
	ErrUsernameTaken        = "Username already registered"
	ErrEmailTaken           = "Email already registered"
	ErrWrongPassword        = "Current password is incorrect"
	ErrUserNotFound         = "User not found"
	ErrBookNotFound         = "Book not found"
	ErrInvalidISBN          = "Invalid ISBN-13"
	ErrISBNNotFound         = "No book found for this ISBN"
	ErrTitleNotFound        = "No book found for this title"
	ErrDuplicateISBN        = "This book is already registered"
	ErrInvalidStatus        = "Invalid book status"
	ErrNoBooks              = "Register some books to get recommendations"
	ErrAIUnavailable        = "AI service is unavailable"
	ErrStorageDisabled      = "Cover storage is not configured"
	ErrInvalidCover         = "Cover must be an image file"
	ErrFoodNotFound         = "Food not found"
	ErrInvalidCategory      = "Invalid food category"
	ErrInvalidUnit          = "Invalid food unit"
	ErrInvalidQuantity      = "Quantity must be greater than 0"
	ErrCategoryMismatch     = "Food name does not match the category"
	ErrOverUse              = "Used quantity exceeds the remaining quantity"
	ErrInvalidBarcode       = "Invalid barcode"
	ErrBarcodeNotFound      = "No product found for this barcode"
	ErrNotExpiringFood      = "That food is not registered as expiring soon"
	ErrEmergencyNotFound    = "Emergency item not found"
	ErrNotificationNotFound = "Notification not found"
)
