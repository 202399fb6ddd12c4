package types

// ContactRequest 联系表单.
type ContactRequest struct {
	Name    string `json:"name"    rule:"required,notblank,max=200"`
	Email   string `json:"email"   rule:"required,email"`
	Phone   string `json:"phone"   rule:"omitempty,phone,max=64"`
	Message string `json:"message" rule:"required,max=5000"`
}

// ContactResponse 提交结果.
type ContactResponse struct {
	ID string `json:"id"`
}
