package dto

// RemovalRequest holds the form fields sent alongside the uploaded file.
type RemovalRequest struct {
	Type   string `form:"type" validate:"omitempty,oneof=image video"`
	Method string `form:"method" validate:"omitempty,max=64"`
}
