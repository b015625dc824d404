package dto

type LoginInput struct {
	Username  string `json:"username" validate:"required,min=5,max=60"`
	Password  string `json:"password" validate:"required,min=8,max=60"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}
