package request

// SupplierRequest represents a supplier create or update request
type SupplierRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=200"`
	ContactPerson string  `json:"contact_person" binding:"required,max=200"`
	Phone         string  `json:"phone" binding:"required,max=50"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address"`
}
