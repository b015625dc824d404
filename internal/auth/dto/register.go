package dto

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=5,max=60"`
	Password string `json:"password" validate:"required,min=8,max=60"`
}

type RegisterOutput struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
