package model

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	UserType string `json:"user_type" validate:"required,oneof=ops client"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// UserType is optional on login; when present it must match the
	// stored role or the attempt is rejected as invalid credentials.
	UserType string `json:"user_type" validate:"omitempty,oneof=ops client"`
}
