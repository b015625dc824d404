package dto

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RevokeInput struct {
	Token string `json:"token" validate:"required"`
}
